package catalog

import (
	"shoplist/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/catalog")
	group.Get("/detect", h.HandleDetect)
}

// HandleDetect categorizes free-text item input.
// @Summary Detect Category
// @Description Map free-text item input to a product category. Unknown input falls back to "Other".
// @Tags catalog
// @Produce json
// @Param q query string true "Item text (e.g. 'tomatoe')"
// @Success 200 {object} catalog.DetectResponse "Detection result"
// @Failure 400 {object} map[string]string "Missing query"
// @Router /catalog/detect [get]
func (h *Handler) HandleDetect(c *fiber.Ctx) error {
	q := c.Query("q")
	if q == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "query parameter q is required",
		})
	}

	res := h.service.Detect(q)
	logger.WithRayID(h.service.logger, c).Debug("Category detected",
		zap.String("input", q),
		zap.String("category", res.Category),
		zap.Float64("score", res.Score),
	)

	return c.JSON(res)
}
