package handlers

import (
	"errors"

	"greenbuild/internal/models"
	"greenbuild/internal/remote"

	"github.com/gofiber/fiber/v2"
)

// StoreHandler serves the tabular order store contract on top of a LocalStore,
// so other tracker instances can use it as their remote store.
type StoreHandler struct {
	store *remote.LocalStore
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(store *remote.LocalStore) *StoreHandler {
	return &StoreHandler{
		store: store,
	}
}

// RegisterRoutes registers the store routes.
func (h *StoreHandler) RegisterRoutes(router fiber.Router) {
	storeRoutes := router.Group("/orders")
	storeRoutes.Get("/", h.HandleGetRows)
	storeRoutes.Post("/", h.HandleCreateRows)
	storeRoutes.Patch("/id/:id", h.HandlePatchRow)
}

// HandleGetRows returns every stored row as-is.
func (h *StoreHandler) HandleGetRows(c *fiber.Ctx) error {
	rows, err := h.store.FetchRows(c.UserContext())
	if err != nil {
		return respondError(c, err, "Could not read rows")
	}
	c.Set(fiber.HeaderCacheControl, "no-store")
	return c.JSON(rows)
}

// HandleCreateRows inserts {"data": [row, ...]} in one transaction.
func (h *StoreHandler) HandleCreateRows(c *fiber.Ctx) error {
	var body struct {
		Data []map[string]interface{} `json:"data"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if len(body.Data) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "data must contain at least one row",
		})
	}

	if err := h.store.InsertRows(c.UserContext(), body.Data); err != nil {
		var syncErr *models.SyncError
		if errors.As(err, &syncErr) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not store rows",
				"error":   err.Error(),
			})
		}
		return respondError(c, err, "Could not store rows")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"created": len(body.Data),
	})
}

// HandlePatchRow merges {"data": {...}} into the row with :id.
func (h *StoreHandler) HandlePatchRow(c *fiber.Ctx) error {
	var body struct {
		Data map[string]interface{} `json:"data"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	id := c.Params("id")
	if err := h.store.MergeRow(c.UserContext(), id, body.Data); err != nil {
		var syncErr *models.SyncError
		if errors.As(err, &syncErr) {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not update row",
				"error":   err.Error(),
			})
		}
		return respondError(c, err, "Could not update row")
	}
	return c.JSON(fiber.Map{
		"updated": id,
	})
}
