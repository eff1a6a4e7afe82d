// Package server initializes and runs the fitclub development API.
// It wires the user and catalog stores, seeds demo data, handles graceful
// shutdown, and starts the HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrijs2005/fitclub/internal/logging"
	"github.com/dmitrijs2005/fitclub/internal/server/auth"
	"github.com/dmitrijs2005/fitclub/internal/server/catalog"
	"github.com/dmitrijs2005/fitclub/internal/server/config"
	"github.com/dmitrijs2005/fitclub/internal/server/httpapi"
	"github.com/dmitrijs2005/fitclub/internal/server/users"
)

// Demo account created when SeedDemoData is set.
const (
	DemoEmail    = "demo@fitclub.local"
	DemoPassword = "demo123"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	userService *users.Service
	catalog     *catalog.Store
	issuer      *auth.Issuer
	registry    *prometheus.Registry
}

func NewApp(c *config.Config) (*App, error) {
	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	if c.SecretKey == "" {
		return nil, errors.New("secret key must not be empty")
	}

	return &App{
		config:      c,
		logger:      logger,
		userService: users.NewService(users.NewMemoryRepository()),
		catalog:     catalog.NewStore(nil),
		issuer:      auth.NewIssuer([]byte(c.SecretKey), c.AccessTokenValidityDuration),
		registry:    newRegistry(),
	}, nil
}

// newRegistry holds the API metrics plus the runtime collectors that the
// default Prometheus registry would carry.
func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// seed creates the demo member with a subscription and some bookings.
func (app *App) seed(ctx context.Context) error {
	u, err := app.userService.Register(ctx, users.RegisterInput{
		FirstName: "Demo",
		LastName:  "Member",
		Email:     DemoEmail,
		Password:  DemoPassword,
	})
	if err != nil {
		return fmt.Errorf("seed demo user: %w", err)
	}
	if err := app.catalog.SeedMember(u.ID); err != nil {
		return fmt.Errorf("seed demo bookings: %w", err)
	}
	app.logger.Info(ctx, "Demo account ready", "email", DemoEmail)
	return nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.ListenAddr, app.logger, app.userService, app.catalog, app.issuer,
		httpapi.Options{
			BasePath:           app.config.BasePath,
			LoginRatePerSecond: app.config.LoginRatePerSecond,
			LoginBurst:         app.config.LoginBurst,
			Registry:           app.registry,
		})

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	if app.config.SeedDemoData {
		if err := app.seed(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			return
		}
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.logger.Info(ctx, "App stopped")
}
