package handlers

import (
	"strings"

	"greenbuild/internal/middleware"
	"greenbuild/internal/models"
	"greenbuild/internal/reports"
	"greenbuild/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles requester HTTP requests for submitted orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service: service,
	}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Post("/", middleware.SessionRequired(), h.HandleOrderNow)

	billRoutes := router.Group("/bills")
	billRoutes.Get("/", h.HandleTrackBills)
	billRoutes.Get("/:billId", h.HandleGetBill)

	router.Get("/stats", h.HandleStats)
}

// HandleGetOrders lists orders, newest first, optionally filtered by
// ?q= text and ?status=.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	query, err := parseOrderQuery(c)
	if err != nil {
		return respondError(c, err, "Invalid order filter")
	}
	orders, err := h.service.Search(c.UserContext(), query)
	if err != nil {
		return respondError(c, err, "Could not retrieve orders")
	}
	return c.JSON(orders)
}

func parseOrderQuery(c *fiber.Ctx) (services.OrderQuery, error) {
	q := services.OrderQuery{Text: c.Query("q")}
	if raw := strings.ToUpper(strings.TrimSpace(c.Query("status"))); raw != "" && raw != "ALL" {
		status := models.OrderStatus(raw)
		if !status.IsValid() {
			return q, models.NewValidationError("status", "unknown status "+raw)
		}
		q.Status = status
	}
	return q, nil
}

// HandleOrderNow submits a single item as its own bill.
func (h *OrderHandler) HandleOrderNow(c *fiber.Ctx) error {
	var input models.ItemInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	billID, item, err := h.service.OrderNow(c.UserContext(), middleware.SessionID(c), input)
	if err != nil {
		return respondError(c, err, "Could not submit order")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order submitted successfully",
		"billId":  billID,
		"item":    item,
	})
}

// HandleTrackBills returns the bills matching ?q= with all their items.
func (h *OrderHandler) HandleTrackBills(c *fiber.Ctx) error {
	bills, err := h.service.TrackBills(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, err, "Could not track bills")
	}
	return c.JSON(bills)
}

// HandleGetBill returns one bill.
func (h *OrderHandler) HandleGetBill(c *fiber.Ctx) error {
	bill, err := h.service.GetBill(c.UserContext(), c.Params("billId"))
	if err != nil {
		return respondError(c, err, "Could not retrieve bill")
	}
	return c.JSON(bill)
}

// HandleStats returns the sustainability summary over all orders, or over
// one requester's orders when ?user= is given.
func (h *OrderHandler) HandleStats(c *fiber.Ctx) error {
	orders, err := h.service.Search(c.UserContext(), services.OrderQuery{UserName: c.Query("user")})
	if err != nil {
		return respondError(c, err, "Could not compute statistics")
	}
	return c.JSON(reports.Summarize(orders))
}
