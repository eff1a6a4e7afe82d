// Package httpapi exposes the fitclub development REST API over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrijs2005/fitclub/internal/logging"
	"github.com/dmitrijs2005/fitclub/internal/server/auth"
	"github.com/dmitrijs2005/fitclub/internal/server/catalog"
	"github.com/dmitrijs2005/fitclub/internal/server/users"
)

const shutdownTimeout = 5 * time.Second

// Options tunes the router. Registry receives the API metrics and is
// served at /metrics; a private registry is used when it is nil.
type Options struct {
	BasePath           string
	LoginRatePerSecond float64
	LoginBurst         int
	Registry           *prometheus.Registry
}

type HTTPServer struct {
	address string
	handler http.Handler
	logger  logging.Logger
}

func NewHTTPServer(address string, l logging.Logger, us *users.Service, cs *catalog.Store, issuer *auth.Issuer, opts Options) *HTTPServer {
	l = l.With("module", "http_server")
	return &HTTPServer{
		address: address,
		handler: NewRouter(NewAPI(us, cs, issuer, l), opts),
		logger:  l,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

func (s *HTTPServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown failed", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
