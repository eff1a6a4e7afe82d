package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrijs2005/fitclub/internal/common"
	"github.com/dmitrijs2005/fitclub/internal/logging"
	"github.com/dmitrijs2005/fitclub/internal/server/auth"
	"github.com/dmitrijs2005/fitclub/internal/server/catalog"
	"github.com/dmitrijs2005/fitclub/internal/server/users"
)

// API holds the handler dependencies.
type API struct {
	users   *users.Service
	catalog *catalog.Store
	issuer  *auth.Issuer
	logger  logging.Logger
	metrics *metrics
}

func NewAPI(us *users.Service, cs *catalog.Store, issuer *auth.Issuer, l logging.Logger) *API {
	return &API{users: us, catalog: cs, issuer: issuer, logger: l}
}

// NewRouter mounts every route under opts.BasePath and the metrics
// endpoint at /metrics.
func NewRouter(a *API, opts Options) http.Handler {
	limiter := newIPLimiter(opts.LoginRatePerSecond, opts.LoginBurst)

	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	a.metrics = newMetrics(reg)

	api := chi.NewRouter()

	api.Group(func(r chi.Router) {
		r.Use(limiter.middleware)
		r.Post(common.PathLogin, a.login)
		r.Post(common.PathRegister, a.register)
	})

	api.Get("/memberships", a.memberships)
	api.Get("/workouts", a.workouts)
	api.Get("/trainers", a.trainers)
	api.Get("/classes", a.classes)

	api.Group(func(r chi.Router) {
		r.Use(a.requireAuth)
		r.Post(common.PathLogout, a.logout)
		r.Get(common.PathMe, a.me)
		r.Post("/memberships/subscribe", a.subscribe)
		r.Get("/memberships/my/subscription", a.mySubscription)
		r.Get("/bookings/my-bookings", a.myBookings)
		r.Post("/bookings", a.book)
	})

	root := chi.NewRouter()
	root.Use(middleware.RequestID)
	root.Use(a.metrics.instrument)
	root.Use(a.logRequests)
	root.Use(middleware.Recoverer)
	root.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Not found")
	})
	root.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	root.Handle(common.PathMetrics, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	base := opts.BasePath
	if base == "" || base == "/" {
		root.Mount("/", api)
	} else {
		root.Mount(base, api)
	}
	return root
}
