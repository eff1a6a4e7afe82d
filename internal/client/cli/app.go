package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dmitrijs2005/fitclub/internal/client/client"
	"github.com/dmitrijs2005/fitclub/internal/client/models"
	"github.com/dmitrijs2005/fitclub/internal/client/services"
	"github.com/dmitrijs2005/fitclub/internal/client/session"
)

// Authenticator is implemented by services.AuthController.
type Authenticator interface {
	Login(ctx context.Context, email, password string) services.Result
	Register(ctx context.Context, req client.RegisterRequest) services.Result
	Logout(ctx context.Context)
}

// Catalog is implemented by services.CatalogService.
type Catalog interface {
	Memberships(ctx context.Context) ([]models.Membership, error)
	Subscribe(ctx context.Context, membershipID int64) error
	Workouts(ctx context.Context, f models.WorkoutFilter) ([]models.Workout, error)
	Trainers(ctx context.Context) ([]models.Trainer, error)
	UpcomingClasses(ctx context.Context) ([]models.Class, error)
	Dashboard(ctx context.Context) (*models.Dashboard, error)
}

// SessionView is implemented by session.Store.
type SessionView interface {
	Current() models.AuthState
	Subscribe(fn session.Observer) (unsubscribe func())
}

// App is the interactive client. It reads commands from in and writes to out.
type App struct {
	auth    Authenticator
	catalog Catalog
	session SessionView
	reader  *bufio.Reader
	out     io.Writer
	metrics *metricsServer

	mu            sync.Mutex
	label         string
	authenticated bool
	loggingOut    bool
}

func NewApp(auth Authenticator, catalog Catalog, sv SessionView, in io.Reader, out io.Writer) *App {
	return &App{
		auth:    auth,
		catalog: catalog,
		session: sv,
		reader:  bufio.NewReader(in),
		out:     out,
	}
}

// Run starts the REPL and blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	a.observe(a.session.Current())
	unsubscribe := a.session.Subscribe(a.observe)
	defer unsubscribe()

	fmt.Fprintln(a.out, titleStyle.Render("Welcome to FitClub CLI (type 'help' for commands)"))
	if a.metrics != nil {
		fmt.Fprintln(a.out, "Metrics:", a.metrics.URL())
	}
	runREPL(ctx, a, a.status, a.reader, a.out)
}

// observe keeps the prompt in step with the session. A session that ends
// without the user asking for it gets a notice.
func (a *App) observe(st models.AuthState) {
	a.mu.Lock()
	defer a.mu.Unlock()

	forced := a.authenticated && st.Kind == models.Anonymous && !a.loggingOut
	a.authenticated = st.IsAuthenticated()

	a.label = ""
	if a.authenticated && st.User != nil {
		a.label = st.User.FirstName
		if a.label == "" {
			a.label = st.User.Email
		}
	}

	if forced {
		fmt.Fprintln(a.out, noticeStyle.Render("Your session has ended. Please log in again."))
	}
}

func (a *App) status() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.label == "" {
		return ""
	}
	return "(" + a.label + ")"
}

func (a *App) isLoggedIn() bool {
	return a.session.Current().IsAuthenticated()
}

// requireAuth runs fn for a signed-in user. Anyone else goes through login
// first, and fn runs only if that succeeds.
func (a *App) requireAuth(ctx context.Context, fn func(context.Context) error) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, hintStyle.Render("Please log in to continue."))
		if err := a.Login(ctx); err != nil {
			return err
		}
	}
	return fn(ctx)
}

// report prints err for the user. A rejected credential is not repeated:
// the session observer has already announced it.
func (a *App) report(err error) {
	if client.IsUnauthorized(err) {
		return
	}
	fmt.Fprintln(a.out, errorStyle.Render("Error: "+client.UserMessage(err)))
}
