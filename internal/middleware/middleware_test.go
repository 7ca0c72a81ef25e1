package middleware_test

import (
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"greenbuild/internal/middleware"
	"greenbuild/internal/services"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_jwt_secret"

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func adminApp() *fiber.App {
	app := fiber.New()
	app.Get("/admin", middleware.AdminRequired(services.NewAuthService(nil, testSecret)), func(c *fiber.Ctx) error {
		return c.SendString(middleware.AdminIdentifier(c))
	})
	return app
}

func get(t *testing.T, app *fiber.App, path string, headers map[string]string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAdminRequired(t *testing.T) {
	app := adminApp()
	valid := signed(t, jwt.MapClaims{
		"admin_id":   "admin-1",
		"identifier": "ops",
		"role":       "admin",
		"exp":        time.Now().Add(time.Hour).Unix(),
	})

	code, body := get(t, app, "/admin", map[string]string{"Authorization": "Bearer " + valid})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ops", body)

	code, _ = get(t, app, "/admin", map[string]string{"Authorization": "bearer " + valid})
	assert.Equal(t, http.StatusOK, code, "scheme is case-insensitive")
}

func TestAdminRequired_Rejections(t *testing.T) {
	app := adminApp()
	noIdentifier := signed(t, jwt.MapClaims{
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	requester := signed(t, jwt.MapClaims{
		"identifier": "malee",
		"role":       "requester",
		"exp":        time.Now().Add(time.Hour).Unix(),
	})

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic b3BzOnNlY3JldA==", http.StatusUnauthorized},
		{"empty token", "Bearer   ", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"non-admin role", "Bearer " + requester, http.StatusUnauthorized},
		{"admin without identifier", "Bearer " + noIdentifier, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			headers := map[string]string{}
			if tc.header != "" {
				headers["Authorization"] = tc.header
			}
			code, _ := get(t, app, "/admin", headers)
			assert.Equal(t, tc.want, code)
		})
	}
}

func TestSessionRequired(t *testing.T) {
	app := fiber.New()
	app.Get("/cart", middleware.SessionRequired(), func(c *fiber.Ctx) error {
		return c.SendString(middleware.SessionID(c))
	})

	code, body := get(t, app, "/cart", map[string]string{middleware.SessionHeader: " device-9 "})
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "device-9", body)

	code, _ = get(t, app, "/cart", nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = get(t, app, "/cart", map[string]string{middleware.SessionHeader: strings.Repeat("x", 101)})
	assert.Equal(t, http.StatusBadRequest, code)
}
