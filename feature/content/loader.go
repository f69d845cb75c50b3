package content

import (
	"site-sync/core/reconcile"
	"site-sync/core/storage"
	"site-sync/feature/content/store"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new content sync feature.
func NewFeature(st *store.Store, client storage.Client, storageCfg storage.Config, syncCfg reconcile.Config, logger *zap.Logger) *Feature {
	svc := NewService(st, client, storageCfg.Bucket, syncCfg, logger)
	h := NewHandler(svc, storageCfg.UploadsPrefix)
	return &Feature{service: svc, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "content"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.service.store != nil
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Handler returns the feature's HTTP handler.
func (f *Feature) Handler() *Handler {
	return f.handler
}

// Service returns the feature's service.
func (f *Feature) Service() *Service {
	return f.service
}
