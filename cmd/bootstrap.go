package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"storage-gateway/core/config"
	"storage-gateway/core/database"
	"storage-gateway/core/logger"
	"storage-gateway/core/storage"
	"storage-gateway/feature/gateway"
	"storage-gateway/feature/ledger"
	"storage-gateway/feature/objects"
	"storage-gateway/feature/thumbnails"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// services is the object graph shared by the server and the CLI commands.
// It is built once per process and passed down explicitly.
type services struct {
	cfg     *config.Config
	logger  *zap.Logger
	objects *objects.Service
	thumbs  *thumbnails.Pipeline
	audit   *ledger.Store
	gateway *gateway.Handler
}

type bootstrapOptions struct {
	// metrics registers the gateway observer on the default Prometheus registry.
	metrics bool
}

func bootstrap(ctx context.Context, opts bootstrapOptions) (*services, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	svc := &services{cfg: cfg, logger: logg}
	svc.objects = objects.NewService(client, cfg.Storage, logg)

	svc.thumbs, err = thumbnails.NewPipeline(svc.objects, thumbnails.DetectResizer(cfg.Thumbnail, logg), cfg.Thumbnail, logg)
	if err != nil {
		return nil, fmt.Errorf("invalid thumbnail configuration: %w", err)
	}

	svc.audit = openLedger(ctx, cfg.Database, logg)

	gwOpts := []gateway.Option{gateway.WithThumbnails(svc.thumbs)}
	if svc.audit != nil {
		gwOpts = append(gwOpts, gateway.WithRecorder(svc.audit))
	}
	if opts.metrics {
		observer, err := gateway.NewPrometheusObserver(cfg.Gateway.MetricsNamespace, prometheus.DefaultRegisterer)
		if err != nil {
			return nil, err
		}
		gwOpts = append(gwOpts, gateway.WithObserver(observer))
	}
	svc.gateway = gateway.NewHandler(svc.objects, cfg.Gateway, logg, gwOpts...)

	return svc, nil
}

// openLedger connects the optional audit database. Failures are logged and the
// process continues without auditing.
func openLedger(ctx context.Context, cfg database.Config, logg *zap.Logger) *ledger.Store {
	if !cfg.Enabled {
		return nil
	}

	db, err := database.Connect(cfg)
	if err != nil {
		logg.Warn("Optional audit database connection failed", zap.Error(err))
		return nil
	}

	store := ledger.NewStore(db)
	if err := store.Migrate(ctx); err != nil {
		logg.Warn("Audit table migration failed, auditing disabled", zap.Error(err))
		return nil
	}
	logg.Debug("Connected to audit database", zap.String("driver", cfg.Driver))
	return store
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// dispatch runs one gateway operation for a CLI command and prints the response.
func dispatch(ctx context.Context, op string, params gateway.Params) error {
	svc, err := bootstrap(ctx, bootstrapOptions{})
	if err != nil {
		return err
	}
	defer svc.logger.Sync()

	resp := svc.gateway.Dispatch(ctx, op, params)
	if err := printJSON(resp); err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("%s failed: %s", op, resp.Error.Message)
	}
	return nil
}
