package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"shoplist/core/loader"
	"shoplist/core/logger"
	"shoplist/core/middleware/auth"
	"shoplist/core/middleware/rayid"
	"shoplist/feature/catalog"
	"shoplist/feature/health"
	"shoplist/feature/items"
	"shoplist/feature/lists"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "shoplist/docs/swagger"
)

// @title Shoplist API
// @version 1.0
// @description Collaborative shopping lists with automatic item categorization.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the shoplist server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		cfg := rt.cfg
		logg := rt.logger
		zap.ReplaceGlobals(logg)

		if !cfg.Server.IsValidEnvironment() {
			return fmt.Errorf("invalid server environment %q", cfg.Server.Environment)
		}

		ctx := context.Background()

		catalogSvc, err := rt.catalogService(ctx)
		if err != nil {
			return err
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		mgr := loader.NewManager()
		mgr.Register(catalog.NewFeature(catalogSvc))

		var (
			listSvc    *lists.Service
			dispatcher *lists.Dispatcher
		)
		if rt.db != nil {
			listSvc, dispatcher, err = rt.listService()
			if err != nil {
				return err
			}
			defer dispatcher.Close()

			mgr.Register(lists.NewFeature(listSvc))
			mgr.Register(items.NewFeature(items.NewService(items.NewStore(rt.db), listSvc, catalogSvc.Matcher(), logg)))
		} else {
			logg.Warn("Lists and items are disabled without a database")
		}

		mgr.Register(health.NewFeature(health.NewService(
			rt.storage, cfg.Storage.Bucket, cfg.Catalog.Object, rt.db, logg,
			lists.List{}, lists.HiddenList{}, items.Item{},
		)))

		// RayID first so every later log line carries it
		app.Use(rayid.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Public
		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		if err := mgr.LoadAll(app); err != nil {
			return fmt.Errorf("failed to load features: %w", err)
		}

		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server",
				zap.String("port", cfg.Server.Port),
				zap.String("environment", cfg.Server.Environment),
			)
			errCh <- app.Listen(":" + cfg.Server.Port)
		}()

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case <-sig:
		}

		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
