package handlers

import (
	"log"

	"greenbuild/internal/middleware"
	"greenbuild/internal/models"
	"greenbuild/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the requester's profile and cart.
type CartHandler struct {
	carts  *services.CartService
	orders *services.OrderService
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(carts *services.CartService, orders *services.OrderService) *CartHandler {
	return &CartHandler{
		carts:  carts,
		orders: orders,
	}
}

// RegisterRoutes registers profile and cart routes. Every route needs a session.
func (h *CartHandler) RegisterRoutes(router fiber.Router) {
	profileRoutes := router.Group("/profile", middleware.SessionRequired())
	profileRoutes.Get("/", h.HandleGetProfile)
	profileRoutes.Put("/", h.HandleSaveProfile)

	cartRoutes := router.Group("/cart", middleware.SessionRequired())
	cartRoutes.Get("/", h.HandleGetCart)
	cartRoutes.Post("/", h.HandleAddToCart)
	cartRoutes.Post("/checkout", h.HandleCheckout)
	cartRoutes.Delete("/:id", h.HandleRemoveFromCart)
}

// HandleGetProfile returns the remembered requester identity.
func (h *CartHandler) HandleGetProfile(c *fiber.Ctx) error {
	profile, err := h.carts.GetProfile(middleware.SessionID(c))
	if err != nil {
		return respondError(c, err, "Could not load profile")
	}
	return c.JSON(profile)
}

// HandleSaveProfile remembers the requester identity for later submissions.
func (h *CartHandler) HandleSaveProfile(c *fiber.Ctx) error {
	var profile models.Profile
	if err := c.BodyParser(&profile); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.carts.SaveProfile(middleware.SessionID(c), &profile); err != nil {
		return respondError(c, err, "Could not save profile")
	}
	return c.JSON(profile)
}

// HandleGetCart lists the cart.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	items, err := h.carts.Items(middleware.SessionID(c))
	if err != nil {
		return respondError(c, err, "Could not load cart")
	}
	return c.JSON(fiber.Map{
		"items": items,
		"count": len(items),
	})
}

// HandleAddToCart validates the item and appends it to the cart.
func (h *CartHandler) HandleAddToCart(c *fiber.Ctx) error {
	var input models.ItemInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	item, err := h.carts.AddItem(middleware.SessionID(c), input)
	if err != nil {
		return respondError(c, err, "Could not add item to cart")
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleRemoveFromCart drops a cart line; unknown IDs succeed.
func (h *CartHandler) HandleRemoveFromCart(c *fiber.Ctx) error {
	if err := h.carts.Remove(middleware.SessionID(c), c.Params("id")); err != nil {
		return respondError(c, err, "Could not remove item from cart")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleCheckout submits the cart as one bill.
func (h *CartHandler) HandleCheckout(c *fiber.Ctx) error {
	sessionID := middleware.SessionID(c)
	billID, err := h.orders.Checkout(c.UserContext(), sessionID)
	if err != nil {
		return respondError(c, err, "Checkout failed")
	}

	log.Printf("Session %s checked out bill %s", sessionID, billID)
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Order submitted successfully",
		"billId":  billID,
	})
}
