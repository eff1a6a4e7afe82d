package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fitclub/internal/client/client"
	"github.com/dmitrijs2005/fitclub/internal/client/models"
	"github.com/dmitrijs2005/fitclub/internal/client/services"
	"github.com/dmitrijs2005/fitclub/internal/client/session"
	"github.com/dmitrijs2005/fitclub/internal/logging"
)

var alice = &models.User{ID: 1, FirstName: "Alice", LastName: "Smith", Email: "a@x.com", Role: models.RoleMember}

// fakeAuth mimics AuthController against a real store.
type fakeAuth struct {
	store *session.Store

	LoginEmail, LoginPassword string
	LoginRes                  services.Result
	LoginCalls                int

	RegisterReq   client.RegisterRequest
	RegisterRes   services.Result
	RegisterCalls int

	LogoutCalls int
}

func (f *fakeAuth) Login(ctx context.Context, email, password string) services.Result {
	f.LoginCalls++
	f.LoginEmail, f.LoginPassword = email, password
	if f.LoginRes.Success {
		_ = f.store.Commit(ctx, f.LoginRes.User, "tok1")
	}
	return f.LoginRes
}

func (f *fakeAuth) Register(ctx context.Context, req client.RegisterRequest) services.Result {
	f.RegisterCalls++
	f.RegisterReq = req
	if f.RegisterRes.Success {
		_ = f.store.Commit(ctx, f.RegisterRes.User, "tok1")
	}
	return f.RegisterRes
}

func (f *fakeAuth) Logout(ctx context.Context) {
	f.LogoutCalls++
	_ = f.store.Clear(ctx)
}

type fakeCatalog struct {
	MembershipsRet []models.Membership
	WorkoutsRet    []models.Workout
	TrainersRet    []models.Trainer
	ClassesRet     []models.Class
	DashboardRet   *models.Dashboard
	Err            error

	LastFilter    models.WorkoutFilter
	SubscribedTo  int64
	DashboardHits int
	OnDashboard   func()
}

func (f *fakeCatalog) Memberships(context.Context) ([]models.Membership, error) {
	return f.MembershipsRet, f.Err
}

func (f *fakeCatalog) Subscribe(_ context.Context, id int64) error {
	f.SubscribedTo = id
	return f.Err
}

func (f *fakeCatalog) Workouts(_ context.Context, flt models.WorkoutFilter) ([]models.Workout, error) {
	f.LastFilter = flt
	return f.WorkoutsRet, f.Err
}

func (f *fakeCatalog) Trainers(context.Context) ([]models.Trainer, error) {
	return f.TrainersRet, f.Err
}

func (f *fakeCatalog) UpcomingClasses(context.Context) ([]models.Class, error) {
	return f.ClassesRet, f.Err
}

func (f *fakeCatalog) Dashboard(context.Context) (*models.Dashboard, error) {
	f.DashboardHits++
	if f.OnDashboard != nil {
		f.OnDashboard()
	}
	return f.DashboardRet, f.Err
}

type testApp struct {
	*App
	out     *bytes.Buffer
	auth    *fakeAuth
	catalog *fakeCatalog
	store   *session.Store
}

// newTestApp builds an App reading input and observing a fresh store.
// Passwords are read from input as if stdin were piped.
func newTestApp(t *testing.T, input ...string) *testApp {
	t.Helper()

	origTerm := isTerminal
	isTerminal = func(int) bool { return false }
	t.Cleanup(func() { isTerminal = origTerm })

	store := session.NewStore(session.NewFileStorage(filepath.Join(t.TempDir(), "s.json")), logging.Discard())
	auth := &fakeAuth{store: store}
	cat := &fakeCatalog{}
	out := &bytes.Buffer{}

	in := strings.Join(input, "\n")
	if in != "" {
		in += "\n"
	}
	app := NewApp(auth, cat, store, strings.NewReader(in), out)
	return &testApp{App: app, out: out, auth: auth, catalog: cat, store: store}
}

// watch subscribes the app to its store the way Run does.
func (ta *testApp) watch(t *testing.T) {
	t.Helper()
	ta.observe(ta.store.Current())
	t.Cleanup(ta.store.Subscribe(ta.observe))
}

func (ta *testApp) signIn(t *testing.T) {
	t.Helper()
	require.NoError(t, ta.store.Commit(context.Background(), alice, "tok1"))
}
