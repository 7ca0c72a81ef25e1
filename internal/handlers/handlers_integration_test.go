package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"greenbuild/internal/handlers"
	"greenbuild/internal/middleware"
	"greenbuild/internal/models"
	"greenbuild/internal/remote"
	"greenbuild/internal/repositories"
	"greenbuild/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	testAdminID     = "ops"
	testAdminSecret = "s3cret-pass"
)

// setupApp builds the tracker on an in-memory SQLite database with the
// local store standing in for the remote one.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.CartEntry{}, &models.Profile{}, &models.Admin{}, &models.StoreRow{}))

	store := remote.NewLocalStore(repositories.NewGORMRowRepository(db), time.UTC)
	builder := services.NewOrderBuilder()
	cartService := services.NewCartService(repositories.NewGORMCartRepository(db), repositories.NewGORMProfileRepository(db), builder)
	orderService := services.NewOrderService(store, cartService, builder, nil)
	authService := services.NewAuthService(repositories.NewGORMAdminRepository(db), "test_jwt_secret")
	require.NoError(t, authService.EnsureAdmin(testAdminID, testAdminSecret))

	app := fiber.New()
	apiV1 := app.Group("/api/v1")
	handlers.NewAdminHandler(authService, orderService, time.UTC).RegisterRoutes(apiV1)
	handlers.NewCartHandler(cartService, orderService).RegisterRoutes(apiV1)
	handlers.NewOrderHandler(orderService).RegisterRoutes(apiV1)
	handlers.NewStoreHandler(store).RegisterRoutes(app.Group("/store"))
	return app
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

type header map[string]string

func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}, h header) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range h {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req, -1) // -1 for no timeout
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, into interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(into))
}

func session(id string) header {
	return header{middleware.SessionHeader: id}
}

func adminToken(t *testing.T, app *fiber.App) header {
	t.Helper()
	resp := doRequest(t, app, http.MethodPost, "/api/v1/admin/login", handlers.LoginRequest{Identifier: testAdminID, Secret: testAdminSecret}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]interface{}
	decode(t, resp, &body)
	token, ok := body["token"].(string)
	require.True(t, ok)
	return header{"Authorization": "Bearer " + token}
}

func saveProfile(t *testing.T, app *fiber.App, sessionID, name, dept string) {
	t.Helper()
	resp := doRequest(t, app, http.MethodPut, "/api/v1/profile", fiber.Map{"userName": name, "department": dept}, session(sessionID))
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCartCheckoutFlow(t *testing.T) {
	app := setupApp(t)
	device := session("device-1")

	resp := doRequest(t, app, http.MethodGet, "/api/v1/profile", nil, device)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	saveProfile(t, app, "device-1", "Malee", "Finance")

	resp = doRequest(t, app, http.MethodPost, "/api/v1/cart", models.ItemInput{
		ProductName: "A4 Recycled Paper", Quantity: 5, Unit: "ream", IsGreen: true, GreenLabel: models.LabelGreenLabel,
	}, device)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = doRequest(t, app, http.MethodPost, "/api/v1/cart", models.ItemInput{ProductName: "Ballpoint Pen", Quantity: 2, Unit: "box"}, device)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var cart struct {
		Items []models.OrderItem `json:"items"`
		Count int                `json:"count"`
	}
	decode(t, doRequest(t, app, http.MethodGet, "/api/v1/cart", nil, device), &cart)
	require.Equal(t, 2, cart.Count)

	resp = doRequest(t, app, http.MethodPost, "/api/v1/cart/checkout", nil, device)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var checkout map[string]interface{}
	decode(t, resp, &checkout)
	billID, _ := checkout["billId"].(string)
	require.True(t, strings.HasPrefix(billID, "BILL-"), "got %q", billID)

	var orders []models.OrderItem
	decode(t, doRequest(t, app, http.MethodGet, "/api/v1/orders", nil, nil), &orders)
	require.Len(t, orders, 2)
	for _, o := range orders {
		assert.Equal(t, billID, o.BillID)
		assert.Equal(t, models.StatusPending, o.Status)
		assert.Equal(t, "Malee", o.UserName)
		assert.Equal(t, "Finance", o.Department)
	}

	decode(t, doRequest(t, app, http.MethodGet, "/api/v1/cart", nil, device), &cart)
	assert.Equal(t, 0, cart.Count, "cart is emptied after a successful checkout")

	var bill services.Bill
	resp = doRequest(t, app, http.MethodGet, "/api/v1/bills/"+billID, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &bill)
	assert.Equal(t, billID, bill.ID)
	assert.Len(t, bill.Items, 2)

	var bills []services.Bill
	decode(t, doRequest(t, app, http.MethodGet, "/api/v1/bills?q=malee", nil, nil), &bills)
	assert.Len(t, bills, 1)

	resp = doRequest(t, app, http.MethodGet, "/api/v1/bills/BILL-404", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCartRemoveAndValidation(t *testing.T) {
	app := setupApp(t)
	device := session("device-2")

	resp := doRequest(t, app, http.MethodPost, "/api/v1/cart", models.ItemInput{ProductName: "Stapler", Quantity: 1}, device)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "a profile is required before adding items")

	saveProfile(t, app, "device-2", "Anan", "IT")

	resp = doRequest(t, app, http.MethodPost, "/api/v1/cart", models.ItemInput{ProductName: "Stapler", Quantity: 0}, device)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var invalid map[string]interface{}
	decode(t, resp, &invalid)
	assert.Contains(t, invalid["errors"], "Quantity")

	resp = doRequest(t, app, http.MethodPost, "/api/v1/cart", models.ItemInput{ProductName: "Stapler", Quantity: 1}, device)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var item models.OrderItem
	decode(t, resp, &item)

	resp = doRequest(t, app, http.MethodDelete, "/api/v1/cart/"+item.ID, nil, device)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/api/v1/cart/checkout", nil, device)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "empty cart cannot be checked out")

	resp = doRequest(t, app, http.MethodGet, "/api/v1/cart", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "session header is required")
}

func TestOrderNow(t *testing.T) {
	app := setupApp(t)
	saveProfile(t, app, "device-3", "Pim", "HR")

	resp := doRequest(t, app, http.MethodPost, "/api/v1/orders", models.ItemInput{ProductName: "Toner", Quantity: 1}, session("device-3"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var body struct {
		BillID string           `json:"billId"`
		Item   models.OrderItem `json:"item"`
	}
	decode(t, resp, &body)
	assert.Equal(t, body.BillID, body.Item.BillID)

	var orders []models.OrderItem
	decode(t, doRequest(t, app, http.MethodGet, "/api/v1/orders?status=pending", nil, nil), &orders)
	assert.Len(t, orders, 1)

	resp = doRequest(t, app, http.MethodGet, "/api/v1/orders?status=LOST", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatsPerRequester(t *testing.T) {
	app := setupApp(t)
	saveProfile(t, app, "device-5", "Malee", "Finance")
	saveProfile(t, app, "device-6", "Anan", "IT")

	for _, input := range []models.ItemInput{
		{ProductName: "Recycled Paper", Quantity: 1, IsGreen: true, GreenLabel: models.LabelGreenLabel},
		{ProductName: "Eco Pen", Quantity: 1, IsGreen: true, GreenLabel: models.LabelOther},
	} {
		resp := doRequest(t, app, http.MethodPost, "/api/v1/orders", input, session("device-5"))
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}
	resp := doRequest(t, app, http.MethodPost, "/api/v1/orders", models.ItemInput{ProductName: "Plastic Tray", Quantity: 1}, session("device-6"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var overall, personal, other map[string]interface{}
	decode(t, doRequest(t, app, http.MethodGet, "/api/v1/stats", nil, nil), &overall)
	decode(t, doRequest(t, app, http.MethodGet, "/api/v1/stats?user=malee", nil, nil), &personal)
	decode(t, doRequest(t, app, http.MethodGet, "/api/v1/stats?user=Anan", nil, nil), &other)

	assert.Equal(t, 3.0, overall["totalCount"])
	assert.Equal(t, 2.0, personal["totalCount"])
	assert.Equal(t, 100.0, personal["greenRatio"])
	assert.Equal(t, "Sustainability Champion", personal["tier"])
	assert.Equal(t, 0.0, other["greenRatio"])
	assert.Equal(t, "Green Beginner", other["tier"])
}

func TestAdminRoutesRequireToken(t *testing.T) {
	app := setupApp(t)

	for _, path := range []string{"/api/v1/admin/orders", "/api/v1/admin/reports", "/api/v1/admin/reports/export.csv"} {
		resp := doRequest(t, app, http.MethodGet, path, nil, nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}

	resp := doRequest(t, app, http.MethodGet, "/api/v1/admin/orders", nil, header{"Authorization": "Bearer not-a-token"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPost, "/api/v1/admin/login", handlers.LoginRequest{Identifier: testAdminID, Secret: "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAdminReviewFlow(t *testing.T) {
	app := setupApp(t)
	auth := adminToken(t, app)
	saveProfile(t, app, "device-4", "Malee", "Finance")

	resp := doRequest(t, app, http.MethodPost, "/api/v1/orders", models.ItemInput{
		ProductName: "Recycled Folder", Quantity: 3, IsGreen: true, GreenLabel: models.LabelCarbonFootprint,
	}, session("device-4"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp = doRequest(t, app, http.MethodPost, "/api/v1/orders", models.ItemInput{ProductName: "Plastic Binder, large", Quantity: 1}, session("device-4"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var listing struct {
		Orders []models.OrderItem `json:"orders"`
		Total  int                `json:"total"`
	}
	decode(t, doRequest(t, app, http.MethodGet, "/api/v1/admin/orders", nil, auth), &listing)
	require.Equal(t, 2, listing.Total)

	var greenID, plainID string
	for _, o := range listing.Orders {
		if o.IsGreen {
			greenID = o.ID
		} else {
			plainID = o.ID
		}
	}

	resp = doRequest(t, app, http.MethodPatch, "/api/v1/admin/orders/"+greenID, fiber.Map{"status": "approved", "finalPrice": 300}, auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated struct {
		Order models.OrderItem `json:"order"`
	}
	decode(t, resp, &updated)
	assert.Equal(t, models.StatusApproved, updated.Order.Status)
	require.NotNil(t, updated.Order.FinalPrice)
	assert.Equal(t, 300.0, *updated.Order.FinalPrice)

	resp = doRequest(t, app, http.MethodPatch, "/api/v1/admin/orders/"+plainID, fiber.Map{"status": "APPROVED", "finalPrice": 100}, auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPatch, "/api/v1/admin/orders/"+greenID, fiber.Map{"status": "PENDING"}, auth)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPatch, "/api/v1/admin/orders/ITEM-404", fiber.Map{"status": "APPROVED"}, auth)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPatch, "/api/v1/admin/orders/"+greenID, fiber.Map{"finalPrice": -1}, auth)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var report struct {
		Year       int     `json:"year"`
		TotalCount int     `json:"totalCount"`
		GreenRatio float64 `json:"greenRatio"`
		SpendRatio float64 `json:"spendRatio"`
		Tier       string  `json:"tier"`
	}
	resp = doRequest(t, app, http.MethodGet, "/api/v1/admin/reports?mode=calendar", nil, auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &report)
	assert.Equal(t, time.Now().UTC().Year(), report.Year)
	assert.Equal(t, 2, report.TotalCount)
	assert.Equal(t, 50.0, report.GreenRatio)
	assert.Equal(t, 75.0, report.SpendRatio)
	assert.Equal(t, "Eco Explorer", report.Tier)

	resp = doRequest(t, app, http.MethodGet, "/api/v1/admin/reports?mode=weekly", nil, auth)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(t, app, http.MethodGet, "/api/v1/admin/reports/export.csv", nil, auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	csvText := string(raw)
	assert.True(t, strings.HasPrefix(csvText, "Order ID,Material,Quantity"))
	assert.Contains(t, csvText, `"Plastic Binder, large"`)
	assert.Contains(t, csvText, "Recycled Folder,3,-,Yes,Carbon Footprint,300,")

	var stats map[string]interface{}
	decode(t, doRequest(t, app, http.MethodGet, "/api/v1/stats", nil, nil), &stats)
	assert.Equal(t, 50.0, stats["greenRatio"])
}

func TestStoreContract(t *testing.T) {
	app := setupApp(t)

	resp := doRequest(t, app, http.MethodPost, "/store/orders", fiber.Map{"data": []fiber.Map{
		{"id": "ROW-1", "productName": "Paper", "quantity": 2},
	}}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPatch, "/store/orders/id/ROW-1", fiber.Map{"data": fiber.Map{"status": "APPROVED"}}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, http.MethodPatch, "/store/orders/id/ROW-404", fiber.Map{"data": fiber.Map{"status": "APPROVED"}}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	var rows []map[string]interface{}
	decode(t, doRequest(t, app, http.MethodGet, "/store/orders", nil, nil), &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "APPROVED", rows[0]["status"])
	assert.Equal(t, "Paper", rows[0]["productName"])

	resp = doRequest(t, app, http.MethodPost, "/store/orders", fiber.Map{"data": []fiber.Map{}}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
