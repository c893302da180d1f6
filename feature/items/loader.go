package items

import (
	"github.com/gofiber/fiber/v2"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new items feature.
func NewFeature(svc *Service) *Feature {
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "items"
}

// IsEnabled checks if the feature is enabled. Items need a database and a list service.
func (f *Feature) IsEnabled() bool {
	return f.service != nil && f.service.store != nil && f.service.lists != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	if err := f.service.store.Migrate(); err != nil {
		return err
	}
	f.handler.RegisterRoutes(app)
	return nil
}
