package cmd

import (
	"context"
	"fmt"

	"shoplist/core/config"
	"shoplist/core/database"
	"shoplist/core/logger"
	"shoplist/core/reconcile"
	"shoplist/core/storage"
	"shoplist/feature/catalog"
	"shoplist/feature/lists"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// runtime holds what every command needs once configuration is loaded.
type runtime struct {
	cfg     *config.Config
	logger  *zap.Logger
	db      *gorm.DB
	storage storage.Client
}

// loadRuntime loads configuration and connects the backends. The database and
// storage are optional: a failed connection is logged and left nil.
func loadRuntime() (*runtime, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: logg}

	if conn, err := database.Connect(cfg.Database); err != nil {
		logg.Warn("Optional database connection failed", zap.Error(err))
	} else {
		rt.db = conn
		logg.Info("Connected to database", zap.String("driver", cfg.Database.Driver))
	}

	if client, err := storage.NewClient(cfg.Storage); err != nil {
		logg.Warn("Optional storage client failed", zap.Error(err))
	} else {
		rt.storage = client
	}

	return rt, nil
}

// requireDB fails when the database is not connected.
func (rt *runtime) requireDB() error {
	if rt.db == nil {
		return fmt.Errorf("database is not available")
	}
	return nil
}

// catalogService loads the catalog, preferring the storage override.
func (rt *runtime) catalogService(ctx context.Context) (*catalog.Service, error) {
	return catalog.NewService(ctx, rt.cfg.Catalog, rt.storage, rt.cfg.Storage.Bucket, rt.logger)
}

// listService builds the list service and its expired-list dispatcher.
// The caller closes the dispatcher.
func (rt *runtime) listService() (*lists.Service, *lists.Dispatcher, error) {
	if err := rt.requireDB(); err != nil {
		return nil, nil, err
	}

	store := lists.NewStore(rt.db)
	if err := store.Migrate(); err != nil {
		return nil, nil, err
	}

	dispatcher := lists.NewDispatcher(func(ownerID string) reconcile.Mutator {
		return store.ForOwner(ownerID)
	}, rt.cfg.Lists.DeleteRatePerSec, rt.logger)

	svc := lists.NewService(store, rt.cfg.Lists, dispatcher, rt.logger, rt.cfg.Server.IsDevelopment())
	return svc, dispatcher, nil
}

func (rt *runtime) close() {
	if rt.db != nil {
		if sqlDB, err := rt.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = rt.logger.Sync()
}
