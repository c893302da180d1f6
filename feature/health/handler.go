package health

import (
	"shoplist/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for health checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the health routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/health")
	group.Get("/", h.HandleHealth)
	group.Get("/storage", h.HandleStorage)
	group.Get("/schema", h.HandleSchema)
}

// HandleHealth runs every check.
// @Summary Health
// @Description Storage reachability, catalog object presence and database schema.
// @Tags health
// @Produce json
// @Success 200 {object} health.Report "Healthy"
// @Failure 503 {object} health.Report "Unhealthy"
// @Router /health [get]
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	report := h.service.Run(c.Context())
	if !report.Healthy {
		logger.WithRayID(h.service.logger, c).Warn("Health check failed",
			zap.String("storage", report.Storage.Status),
			zap.String("catalog", report.Catalog.Status),
			zap.String("schema", report.SchemaStatus.Status),
		)
		return c.Status(fiber.StatusServiceUnavailable).JSON(report)
	}
	return c.JSON(report)
}

// HandleStorage checks the storage backend only.
// @Summary Storage Health
// @Tags health
// @Produce json
// @Success 200 {object} health.Check "Storage"
// @Failure 503 {object} health.Check "Storage unreachable"
// @Router /health/storage [get]
func (h *Handler) HandleStorage(c *fiber.Ctx) error {
	check := h.service.CheckStorage(c.Context())
	if check.Status == StatusError {
		return c.Status(fiber.StatusServiceUnavailable).JSON(check)
	}
	return c.JSON(check)
}

// HandleSchema checks the database schema only.
// @Summary Schema Health
// @Tags health
// @Produce json
// @Success 200 {object} checks.SchemaReport "Schema report"
// @Failure 503 {object} map[string]string "Schema mismatch"
// @Router /health/schema [get]
func (h *Handler) HandleSchema(c *fiber.Ctx) error {
	report, check := h.service.CheckSchema()
	if report == nil {
		status := fiber.StatusOK
		if check.Status == StatusError {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(check)
	}
	if !report.Matched {
		return c.Status(fiber.StatusServiceUnavailable).JSON(report)
	}
	return c.JSON(report)
}
