package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"storage-gateway/core/loader"
	"storage-gateway/core/logger"
	"storage-gateway/core/middleware/auth"
	"storage-gateway/core/middleware/rayid"
	"storage-gateway/feature/gateway"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the gateway server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		svc, err := bootstrap(cmd.Context(), bootstrapOptions{metrics: true})
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		logg := svc.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             svc.cfg.Server.BodyLimitBytes,
			JSONEncoder:           json.Marshal,
			JSONDecoder:           json.Unmarshal,
		})

		mgr := loader.NewManager()
		mgr.Register(gateway.NewFeature(svc.gateway))

		// RayID must be first to trace everything.
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

		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

		app.Use(auth.New(auth.Config{
			ApiKey: svc.cfg.Server.ApiKey,
			Public: []string{"/health", "/metrics"},
		}))

		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		health := svc.objects.CheckHealth(cmd.Context())
		if !health.Healthy {
			logg.Warn("Storage backend not reachable at startup", zap.String("error", health.Error))
		}

		go func() {
			logg.Info("Starting server",
				zap.String("addr", svc.cfg.Server.Addr()),
				zap.Bool("thumbnails", svc.thumbs.Available()),
				zap.Bool("audit", svc.audit != nil))
			if err := app.Listen(svc.cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

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
