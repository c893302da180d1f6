package items

import (
	"errors"

	"shoplist/core/logger"
	"shoplist/core/middleware/identity"
	"shoplist/core/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for items.
type Handler struct {
	service   *Service
	validator *validation.Validator
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validator: validation.New()}
}

// RegisterRoutes registers the item routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	byList := app.Group("/lists/:id/items", identity.New())
	byList.Get("/", h.HandleList)
	byList.Post("/", h.HandleAdd)
	byList.Post("/clear-picked", h.HandleClearPicked)
	byList.Delete("/", h.HandleClearAll)

	byItem := app.Group("/items", identity.New())
	byItem.Patch("/:id", h.HandleUpdate)
	byItem.Post("/:id/pick", h.HandlePick)
	byItem.Delete("/:id/pick", h.HandleUnpick)
	byItem.Delete("/:id", h.HandleDelete)
	byItem.Post("/:id/restore", h.HandleRestore)
}

// ClearResponse reports how many items an operation affected.
type ClearResponse struct {
	Count int64 `json:"count"`
}

// HandleList returns the items of a list.
// @Summary List Items
// @Description Active items grouped by category, then picked and deleted items.
// @Tags items
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param id path string true "List ID"
// @Success 200 {object} items.Grouped "Items"
// @Failure 404 {object} map[string]string "List not found"
// @Router /lists/{id}/items [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	user, _ := identity.User(c)

	grouped, err := h.service.List(c.Context(), user, c.Params("id"))
	if err != nil {
		return h.fail(c, "Failed to list items", err)
	}
	return c.JSON(grouped)
}

// HandleAdd adds an item to a list.
// @Summary Add Item
// @Description Adds an item. Without a category, one is detected from the name.
// @Tags items
// @Accept json
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param id path string true "List ID"
// @Param body body items.AddRequest true "Item"
// @Success 201 {object} items.Item "Created item"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "List not found"
// @Router /lists/{id}/items [post]
func (h *Handler) HandleAdd(c *fiber.Ctx) error {
	user, _ := identity.User(c)

	var req AddRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return h.fail(c, "Invalid item", err)
	}

	it, err := h.service.Add(c.Context(), user, c.Params("id"), req)
	if err != nil {
		return h.fail(c, "Failed to add item", err)
	}
	return c.Status(fiber.StatusCreated).JSON(it)
}

// HandleUpdate edits an item.
// @Summary Update Item
// @Tags items
// @Accept json
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param id path string true "Item ID"
// @Param body body items.UpdateRequest true "Changes"
// @Success 200 {object} items.Item "Updated item"
// @Router /items/{id} [patch]
func (h *Handler) HandleUpdate(c *fiber.Ctx) error {
	user, _ := identity.User(c)

	var req UpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return h.fail(c, "Invalid item", err)
	}

	it, err := h.service.Update(c.Context(), user, c.Params("id"), req)
	if err != nil {
		return h.fail(c, "Failed to update item", err)
	}
	return c.JSON(it)
}

// HandlePick marks an item as picked.
// @Summary Pick Item
// @Tags items
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param id path string true "Item ID"
// @Success 200 {object} items.Item "Updated item"
// @Router /items/{id}/pick [post]
func (h *Handler) HandlePick(c *fiber.Ctx) error {
	return h.pick(c, true)
}

// HandleUnpick moves a picked item back to the active items.
// @Summary Unpick Item
// @Tags items
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param id path string true "Item ID"
// @Success 200 {object} items.Item "Updated item"
// @Router /items/{id}/pick [delete]
func (h *Handler) HandleUnpick(c *fiber.Ctx) error {
	return h.pick(c, false)
}

func (h *Handler) pick(c *fiber.Ctx, picked bool) error {
	user, _ := identity.User(c)

	it, err := h.service.SetPicked(c.Context(), user, c.Params("id"), picked)
	if err != nil {
		return h.fail(c, "Failed to pick item", err)
	}
	return c.JSON(it)
}

// HandleDelete soft-deletes an item.
// @Summary Delete Item
// @Tags items
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param id path string true "Item ID"
// @Success 200 {object} items.Item "Deleted item"
// @Router /items/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	user, _ := identity.User(c)

	it, err := h.service.Delete(c.Context(), user, c.Params("id"))
	if err != nil {
		return h.fail(c, "Failed to delete item", err)
	}
	return c.JSON(it)
}

// HandleRestore restores a deleted item.
// @Summary Restore Item
// @Tags items
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param id path string true "Item ID"
// @Success 200 {object} items.Item "Restored item"
// @Router /items/{id}/restore [post]
func (h *Handler) HandleRestore(c *fiber.Ctx) error {
	user, _ := identity.User(c)

	it, err := h.service.Restore(c.Context(), user, c.Params("id"))
	if err != nil {
		return h.fail(c, "Failed to restore item", err)
	}
	return c.JSON(it)
}

// HandleClearPicked soft-deletes the picked items of a list.
// @Summary Clear Picked Items
// @Tags items
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param id path string true "List ID"
// @Success 200 {object} items.ClearResponse "Affected items"
// @Router /lists/{id}/items/clear-picked [post]
func (h *Handler) HandleClearPicked(c *fiber.Ctx) error {
	user, _ := identity.User(c)

	n, err := h.service.ClearPicked(c.Context(), user, c.Params("id"))
	if err != nil {
		return h.fail(c, "Failed to clear picked items", err)
	}
	return c.JSON(ClearResponse{Count: n})
}

// HandleClearAll permanently removes every item of a list.
// @Summary Clear All Items
// @Tags items
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param id path string true "List ID"
// @Success 200 {object} items.ClearResponse "Removed items"
// @Router /lists/{id}/items [delete]
func (h *Handler) HandleClearAll(c *fiber.Ctx) error {
	user, _ := identity.User(c)

	n, err := h.service.ClearAll(c.Context(), user, c.Params("id"))
	if err != nil {
		return h.fail(c, "Failed to clear items", err)
	}
	return c.JSON(ClearResponse{Count: n})
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": verr.Error(), "fields": verr.Fields})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	logger.WithRayID(h.service.logger, c).Error(msg, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
