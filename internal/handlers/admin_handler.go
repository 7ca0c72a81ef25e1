package handlers

import (
	"bytes"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"greenbuild/internal/middleware"
	"greenbuild/internal/models"
	"greenbuild/internal/reports"
	"greenbuild/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AdminHandler handles HTTP requests for the admin views.
type AdminHandler struct {
	authService *services.AuthService
	orders      *services.OrderService
	loc         *time.Location
	validate    *validator.Validate
}

// NewAdminHandler creates a new AdminHandler. Report periods are computed in loc.
func NewAdminHandler(authService *services.AuthService, orders *services.OrderService, loc *time.Location) *AdminHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &AdminHandler{
		authService: authService,
		orders:      orders,
		loc:         loc,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers login publicly and everything else behind the
// admin token check.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	adminRoutes := router.Group("/admin")
	adminRoutes.Post("/login", h.HandleLogin)

	protected := adminRoutes.Group("", middleware.AdminRequired(h.authService))
	protected.Get("/orders", h.HandleGetOrders)
	protected.Patch("/orders/:id", h.HandleUpdateOrder)
	protected.Get("/reports", h.HandleReport)
	protected.Get("/reports/export.csv", h.HandleExportCSV)
}

// LoginRequest represents the request body for admin login.
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Secret     string `json:"secret" validate:"required"`
}

// HandleLogin checks the admin credential and issues a token.
func (h *AdminHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := models.ValidateStruct(h.validate, req); err != nil {
		return respondError(c, err, "Validation failed")
	}

	token, err := h.authService.Login(req.Identifier, req.Secret)
	if err != nil {
		log.Printf("Admin login failed for %s: %v", req.Identifier, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication failed",
			"error":   err.Error(),
		})
	}
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
	})
}

// HandleGetOrders lists all orders for review, newest first.
func (h *AdminHandler) HandleGetOrders(c *fiber.Ctx) error {
	query, err := parseOrderQuery(c)
	if err != nil {
		return respondError(c, err, "Invalid order filter")
	}
	orders, err := h.orders.Search(c.UserContext(), query)
	if err != nil {
		return respondError(c, err, "Could not retrieve orders")
	}
	return c.JSON(fiber.Map{
		"orders": orders,
		"total":  len(orders),
	})
}

// HandleUpdateOrder applies status, price and comment changes to one order.
func (h *AdminHandler) HandleUpdateOrder(c *fiber.Ctx) error {
	orderID := c.Params("id")
	var patch models.OrderPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body for order update",
			"error":   err.Error(),
		})
	}
	if patch.Status != nil {
		normalized := models.OrderStatus(strings.ToUpper(string(*patch.Status)))
		patch.Status = &normalized
	}

	updated, err := h.orders.UpdateOrder(c.UserContext(), orderID, patch)
	if err != nil {
		return respondError(c, err, fmt.Sprintf("Order %s update failed", orderID))
	}
	log.Printf("Admin %s updated order %s to %s", middleware.AdminIdentifier(c), orderID, updated.Status)
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Order %s updated successfully", orderID),
		"order":   updated,
	})
}

func (h *AdminHandler) reportPeriod(c *fiber.Ctx) (int, reports.YearMode, error) {
	year := time.Now().In(h.loc).Year()
	if raw := c.Query("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1900 || parsed > 3000 {
			return 0, "", models.NewValidationError("year", "year must be a four digit number")
		}
		year = parsed
	}
	mode := reports.YearMode(strings.ToUpper(c.Query("mode", string(reports.ModeCalendar))))
	if mode != reports.ModeCalendar && mode != reports.ModeFiscal {
		return 0, "", models.NewValidationError("mode", "mode must be CALENDAR or FISCAL")
	}
	return year, mode, nil
}

// HandleReport returns the green procurement report for ?year= and ?mode=.
func (h *AdminHandler) HandleReport(c *fiber.Ctx) error {
	year, mode, err := h.reportPeriod(c)
	if err != nil {
		return respondError(c, err, "Invalid report period")
	}
	orders, err := h.orders.FetchAll(c.UserContext())
	if err != nil {
		return respondError(c, err, "Could not build report")
	}
	return c.JSON(reports.BuildReport(orders, year, mode, reports.InLocation(h.loc)))
}

// HandleExportCSV streams the orders of the period as CSV.
func (h *AdminHandler) HandleExportCSV(c *fiber.Ctx) error {
	year, mode, err := h.reportPeriod(c)
	if err != nil {
		return respondError(c, err, "Invalid report period")
	}
	orders, err := h.orders.FetchAll(c.UserContext())
	if err != nil {
		return respondError(c, err, "Could not export report")
	}

	period := reports.ByFiscalYear(orders, year, mode, h.loc)
	var buf bytes.Buffer
	if err := reports.WriteCSV(&buf, period, reports.InLocation(h.loc)); err != nil {
		return respondError(c, err, "Could not export report")
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="green_report_%s_%d.csv"`, mode, year))
	return c.Send(buf.Bytes())
}
