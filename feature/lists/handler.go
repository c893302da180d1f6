package lists

import (
	"errors"
	"net/url"

	"shoplist/core/logger"
	"shoplist/core/middleware/identity"
	"shoplist/core/reconcile"
	"shoplist/core/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for lists.
type Handler struct {
	service   *Service
	validator *validation.Validator
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service, validator: validation.New()}
}

// RegisterRoutes registers the list routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/lists", identity.New())
	group.Get("/", h.HandleView)
	group.Post("/", h.HandleCreate)
	group.Post("/cleanup", h.HandleCleanup)
	group.Post("/:id/share", h.HandleShare)
	group.Delete("/:id/share/:email", h.HandleUnshare)
	group.Post("/:id/hide", h.HandleHide)
	group.Delete("/:id/hide", h.HandleUnhide)
}

// ViewResponse is the reconciled view returned to clients.
type ViewResponse struct {
	Lists     []reconcile.Record  `json:"lists"`
	Orphaned  bool                `json:"orphaned"`
	Anomalies []reconcile.Anomaly `json:"anomalies"`
}

// ShareRequest is the payload for sharing a list.
type ShareRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// CleanupRequest is the payload for bulk cleanup.
type CleanupRequest struct {
	Confirm bool `json:"confirm"`
	DryRun  bool `json:"dry_run"`
}

// HandleView returns the reconciled lists of the current user.
// @Summary List Lists
// @Description Owned and shared lists of the current user, validated, merged and capped.
// @Tags lists
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param X-User-Email header string false "User Email"
// @Success 200 {object} lists.ViewResponse "Reconciled view"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /lists [get]
func (h *Handler) HandleView(c *fiber.Ctx) error {
	user, _ := identity.User(c)

	plan, err := h.service.View(c.Context(), user)
	if err != nil {
		return h.fail(c, "Failed to reconcile lists", err)
	}

	anomalies := plan.Anomalies
	if anomalies == nil {
		anomalies = []reconcile.Anomaly{}
	}
	return c.JSON(ViewResponse{Lists: plan.View, Orphaned: plan.Orphaned, Anomalies: anomalies})
}

// HandleCreate creates a list.
// @Summary Create List
// @Tags lists
// @Accept json
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param body body lists.CreateRequest true "List"
// @Success 201 {object} reconcile.Record "Created list"
// @Failure 400 {object} map[string]string "Bad Request"
// @Router /lists [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	user, _ := identity.User(c)

	var req CreateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return h.fail(c, "Invalid list", err)
	}

	rec, err := h.service.Create(c.Context(), user, req)
	if err != nil {
		return h.fail(c, "Failed to create list", err)
	}
	return c.Status(fiber.StatusCreated).JSON(rec)
}

// HandleShare shares a list with an email.
// @Summary Share List
// @Tags lists
// @Accept json
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param id path string true "List ID"
// @Param body body lists.ShareRequest true "Share"
// @Success 200 {object} reconcile.Record "Updated list"
// @Failure 403 {object} map[string]string "Not the owner"
// @Failure 404 {object} map[string]string "Not found"
// @Router /lists/{id}/share [post]
func (h *Handler) HandleShare(c *fiber.Ctx) error {
	user, _ := identity.User(c)

	var req ShareRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := h.validator.Struct(req); err != nil {
		return h.fail(c, "Invalid share", err)
	}

	rec, err := h.service.Share(c.Context(), user, c.Params("id"), req.Email)
	if err != nil {
		return h.fail(c, "Failed to share list", err)
	}
	return c.JSON(rec)
}

// HandleUnshare revokes an email's access.
// @Summary Unshare List
// @Tags lists
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param id path string true "List ID"
// @Param email path string true "Email"
// @Success 200 {object} reconcile.Record "Updated list"
// @Router /lists/{id}/share/{email} [delete]
func (h *Handler) HandleUnshare(c *fiber.Ctx) error {
	user, _ := identity.User(c)

	email, err := url.PathUnescape(c.Params("email"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid email"})
	}

	rec, err := h.service.Unshare(c.Context(), user, c.Params("id"), email)
	if err != nil {
		return h.fail(c, "Failed to unshare list", err)
	}
	return c.JSON(rec)
}

// HandleHide hides a shared list from the current user's view.
// @Summary Hide List
// @Tags lists
// @Param X-User-ID header string true "User ID"
// @Param id path string true "List ID"
// @Success 204
// @Router /lists/{id}/hide [post]
func (h *Handler) HandleHide(c *fiber.Ctx) error {
	user, _ := identity.User(c)

	if err := h.service.Hide(c.Context(), user, c.Params("id")); err != nil {
		return h.fail(c, "Failed to hide list", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleUnhide restores a hidden list.
// @Summary Unhide List
// @Tags lists
// @Param X-User-ID header string true "User ID"
// @Param id path string true "List ID"
// @Success 204
// @Router /lists/{id}/hide [delete]
func (h *Handler) HandleUnhide(c *fiber.Ctx) error {
	user, _ := identity.User(c)

	if err := h.service.Unhide(c.Context(), user, c.Params("id")); err != nil {
		return h.fail(c, "Failed to unhide list", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleCleanup deletes every list the current user owns.
// @Summary Bulk Cleanup
// @Description Deletes all owned lists in batches. Requires confirm=true; dry_run only reports.
// @Tags lists
// @Accept json
// @Produce json
// @Param X-User-ID header string true "User ID"
// @Param body body lists.CleanupRequest true "Confirmation"
// @Success 200 {object} lists.CleanupResult "Result"
// @Router /lists/cleanup [post]
func (h *Handler) HandleCleanup(c *fiber.Ctx) error {
	user, _ := identity.User(c)

	var req CleanupRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
	}

	res, err := h.service.Cleanup(c.Context(), user, reconcile.CleanupOptions{
		Confirmed: req.Confirm,
		DryRun:    req.DryRun,
	})
	if err != nil {
		return h.fail(c, "Bulk cleanup failed", err)
	}
	return c.JSON(res)
}

// fail maps service errors to HTTP statuses.
func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": verr.Error(), "fields": verr.Fields})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNotOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrShareSelf), errors.Is(err, ErrHideOwned):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	logger.WithRayID(h.service.logger, c).Error(msg, zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
