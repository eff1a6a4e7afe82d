package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/fitclub/internal/common"
	"github.com/dmitrijs2005/fitclub/internal/logging"
)

const metricsShutdownTimeout = 2 * time.Second

// metricsServer exposes a registry at /metrics while the client runs.
type metricsServer struct {
	addr net.Addr
	srv  *http.Server
}

func startMetricsServer(addr string, g prometheus.Gatherer, log logging.Logger) (*metricsServer, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle(common.PathMetrics, promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
	ms := &metricsServer{
		addr: ln.Addr(),
		srv:  &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
	}

	go func() {
		if err := ms.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(context.Background(), "metrics server stopped", "error", err)
		}
	}()
	log.Info(context.Background(), "serving metrics", "url", ms.URL())
	return ms, nil
}

func (m *metricsServer) URL() string {
	return "http://" + m.addr.String() + common.PathMetrics
}

func (m *metricsServer) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
	defer cancel()
	if err := m.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("stop metrics server: %w", err)
	}
	return nil
}
