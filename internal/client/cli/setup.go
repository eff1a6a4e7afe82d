package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrijs2005/fitclub/internal/client/client"
	"github.com/dmitrijs2005/fitclub/internal/client/config"
	"github.com/dmitrijs2005/fitclub/internal/client/services"
	"github.com/dmitrijs2005/fitclub/internal/client/session"
	"github.com/dmitrijs2005/fitclub/internal/logging"
)

// Setup builds the application graph from cfg and restores any saved
// session. The returned cleanup stops the metrics listener and releases
// the database.
func Setup(ctx context.Context, cfg *config.Config, in io.Reader, out, logOut io.Writer) (*App, func() error, error) {
	log := logging.NewTextLogger(logOut, cfg.LogLevel)
	cleanup := func() error { return nil }

	var storage session.Storage
	switch cfg.SessionBackend {
	case config.BackendFile:
		storage = session.NewFileStorage(cfg.SessionFilePath)
	default:
		db, err := client.InitDatabase(ctx, cfg.DatabasePath)
		if err != nil {
			return nil, nil, fmt.Errorf("init database: %w", err)
		}
		storage = session.NewMetadataStorage(db)
		cleanup = func() error { return closeDB(db) }
	}

	store := session.NewStore(storage, log)

	reg := prometheus.NewRegistry()
	gw, err := client.NewGateway(cfg.APIBaseURL, store, log, cfg.RequestTimeout,
		client.WithMetrics(client.NewMetrics(reg)))
	if err != nil {
		_ = cleanup()
		return nil, nil, err
	}

	var ms *metricsServer
	if cfg.MetricsAddr != "" {
		ms, err = startMetricsServer(cfg.MetricsAddr, reg, log)
		if err != nil {
			_ = cleanup()
			return nil, nil, err
		}
		closeStore := cleanup
		cleanup = func() error {
			return errors.Join(ms.Close(), closeStore())
		}
	}

	auth := services.NewAuthController(gw, store, log, cfg.RevalidateOnHydrate)
	st := auth.Restore(ctx)
	log.Debug(ctx, "session restored", "state", st.Kind.String())

	app := NewApp(auth, services.NewCatalogService(gw, store), store, in, out)
	app.metrics = ms
	return app, cleanup, nil
}

func closeDB(db *sql.DB) error {
	if err := db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
