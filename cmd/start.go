package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"doc-reconciler/core/config"
	"doc-reconciler/core/logger"
	"doc-reconciler/core/middleware/auth"
	"doc-reconciler/core/middleware/rayid"
	"doc-reconciler/feature/compare"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the reconciler server",
	Long:  `Starts the HTTP server. Each request maps 1:1 to an independent comparison run.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Optional default profile
		var defaultProfile *compare.Profile
		if cfg.Server.Profile != "" {
			defaultProfile, err = compare.LoadProfile(cfg.Server.Profile)
			if err != nil {
				logg.Fatal("Failed to load default profile", zap.Error(err))
			}
			logg.Info("Default profile loaded", zap.String("path", cfg.Server.Profile))
		}

		// 4. Optional collaborators (report archive, run history)
		service, err := buildService(cfg, logg)
		if err != nil {
			logg.Fatal("Failed to initialize service", zap.Error(err))
		}

		// 5. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We log our own startup message
			BodyLimit:             cfg.Server.BodyLimitMB * 1024 * 1024,
		})

		// Middleware Registration
		// RayID first so everything downstream can be traced
		app.Use(rayid.New())

		// Request logging with Zap + RayID
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

		// Health check stays public
		app.Get("/healthz", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok"})
		})

		// Auth protects the comparison API
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 6. Register routes
		compare.NewHandler(service, defaultProfile).RegisterRoutes(app)

		// 7. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
