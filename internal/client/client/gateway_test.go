package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/fitclub/internal/client/models"
	"github.com/dmitrijs2005/fitclub/internal/client/session"
	"github.com/dmitrijs2005/fitclub/internal/logging"
)

var alice = &models.User{ID: 1, FirstName: "Alice", Email: "a@x.com", Role: models.RoleMember}

type fixture struct {
	srv     *httptest.Server
	store   *session.Store
	storage *session.FileStorage
	gw      *Gateway
	metrics *Metrics

	mu      sync.Mutex
	headers []string
}

func (f *fixture) authHeaders() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.headers...)
}

func newFixture(t *testing.T, handler http.HandlerFunc) *fixture {
	t.Helper()
	f := &fixture{}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.headers = append(f.headers, r.Header.Get("Authorization"))
		f.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(f.srv.Close)

	f.storage = session.NewFileStorage(filepath.Join(t.TempDir(), "session.json"))
	f.store = session.NewStore(f.storage, logging.Discard())
	f.metrics = NewMetrics(prometheus.NewRegistry())

	gw, err := NewGateway(f.srv.URL, f.store, logging.Discard(), 2*time.Second, WithMetrics(f.metrics))
	require.NoError(t, err)
	f.gw = gw
	return f
}

func (f *fixture) login(t *testing.T, credential string) {
	t.Helper()
	require.NoError(t, f.store.Commit(context.Background(), alice, credential))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestGateway_AttachesCredentialOnlyWhenAuthenticated(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"trainers": []any{}})
	})
	ctx := context.Background()

	_, err := f.gw.Trainers(ctx)
	require.NoError(t, err)

	f.login(t, "tok1")
	_, err = f.gw.Trainers(ctx)
	require.NoError(t, err)

	assert.Equal(t, []string{"", "Bearer tok1"}, f.authHeaders())
}

func TestGateway_DecodesBody(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/memberships", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		writeJSON(w, http.StatusOK, map[string]any{
			"memberships": []map[string]any{{"id": 3, "name": "Elite", "tier": "elite", "price": 99.5}},
		})
	})

	got, err := f.gw.Memberships(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.Membership{ID: 3, Name: "Elite", Tier: "elite", Price: 99.5}, got[0])
}

// Scenario: authenticated user hits a protected endpoint with an expired token.
func TestGateway_401ClearsSession(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token expired"})
	})
	f.login(t, "tok1")

	var seen []models.AuthKind
	f.store.Subscribe(func(s models.AuthState) { seen = append(seen, s.Kind) })

	_, err := f.gw.MyBookings(context.Background())

	require.ErrorIs(t, err, ErrUnauthorized)
	assert.True(t, IsUnauthorized(err))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Token expired", apiErr.Message)

	assert.Equal(t, models.AnonymousState(), f.store.Current())
	assert.Equal(t, []models.AuthKind{models.Anonymous}, seen)

	snap, err := f.storage.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Credential)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.forcedLogouts))
}

func TestGateway_401WithoutCredentialLeavesSessionAlone(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid credentials"})
	})
	f.store.Begin()

	_, err := f.gw.Login(context.Background(), LoginRequest{Email: "a@x.com", Password: "wrong"})

	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Invalid credentials", UserMessage(err))
	assert.Equal(t, models.Authenticating, f.store.Current().Kind)
	assert.Equal(t, 0.0, testutil.ToFloat64(f.metrics.forcedLogouts))
}

func TestGateway_Stale401DoesNotClearNewerSession(t *testing.T) {
	var f *fixture
	f = newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		// A new login lands while the old request is in flight.
		assert.NoError(t, f.store.Commit(context.Background(), alice, "tok2"))
		writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "expired"})
	})
	f.login(t, "tok1")

	_, err := f.gw.MyBookings(context.Background())

	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, []string{"Bearer tok1"}, f.authHeaders())
	assert.Equal(t, "tok2", f.store.Current().Credential)
}

func TestGateway_CredentialReadAtIssueTime(t *testing.T) {
	var f *fixture
	f = newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, f.store.Clear(context.Background()))
		writeJSON(w, http.StatusOK, map[string]any{"bookings": []any{}})
	})
	f.login(t, "tok1")

	_, err := f.gw.MyBookings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Bearer tok1"}, f.authHeaders())
}

func TestGateway_ErrorKinds(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    error
		message string
		keeps   bool
	}{
		{name: "forbidden keeps session", status: 403, body: `{"message":"Admins only"}`, kind: ErrForbidden, message: "Admins only", keeps: true},
		{name: "not found", status: 404, body: `{"error":"no such class"}`, kind: ErrRejected, message: "no such class", keeps: true},
		{name: "conflict plain text", status: 409, body: "already subscribed", kind: ErrRejected, message: "already subscribed", keeps: true},
		{name: "server error", status: 500, body: `{"message":"db down"}`, kind: ErrServer, message: "db down", keeps: true},
		{name: "bad gateway empty", status: 502, body: "", kind: ErrServer, message: "", keeps: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			f.login(t, "tok1")

			err := f.gw.Request(context.Background(), http.MethodGet, "/classes", nil, nil)

			require.ErrorIs(t, err, tt.kind)
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.message, apiErr.Message)
			assert.Equal(t, tt.keeps, f.store.Current().IsAuthenticated())
			assert.False(t, errors.Is(err, ErrUnauthorized))
		})
	}
}

func TestGateway_MalformedSuccessBody(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>oops</html>"))
	})

	_, err := f.gw.Trainers(context.Background())
	require.ErrorIs(t, err, ErrServer)
}

func TestGateway_EmptySuccessBody(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, f.gw.Subscribe(context.Background(), 1))
}

func TestGateway_NetworkError(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {})
	f.login(t, "tok1")
	f.srv.Close()

	_, err := f.gw.Trainers(context.Background())
	require.ErrorIs(t, err, ErrNetwork)
	assert.Equal(t, "Unable to reach the server", UserMessage(err))
	assert.True(t, f.store.Current().IsAuthenticated())
}

func TestGateway_CancelledContextIsNetworkError(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.gw.Trainers(ctx)
	require.ErrorIs(t, err, ErrNetwork)
	require.ErrorIs(t, err, context.Canceled)
}

func TestGateway_RejectsAbsolutePaths(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {})

	for _, p := range []string{"", "classes", "http://evil.example/x"} {
		err := f.gw.Request(context.Background(), http.MethodGet, p, nil, nil)
		require.Error(t, err, p)
	}
	assert.Empty(t, f.authHeaders())
}

func TestGateway_BaseURLWithPrefix(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery = r.URL.Path, r.URL.RawQuery
		writeJSON(w, http.StatusOK, map[string]any{"workouts": []any{}})
	}))
	defer srv.Close()

	store := session.NewStore(session.NewFileStorage(filepath.Join(t.TempDir(), "s.json")), logging.Discard())
	gw, err := NewGateway(srv.URL+"/api/", store, logging.Discard(), time.Second)
	require.NoError(t, err)

	_, err = gw.Workouts(context.Background(), models.WorkoutFilter{Difficulty: "beginner", Category: "cardio"})
	require.NoError(t, err)
	assert.Equal(t, "/api/workouts", gotPath)
	assert.Equal(t, "category=cardio&difficulty=beginner", gotQuery)
}

func TestNewGateway_RejectsBadBaseURL(t *testing.T) {
	store := session.NewStore(session.NewFileStorage(filepath.Join(t.TempDir(), "s.json")), logging.Discard())
	_, err := NewGateway("ftp://example.com", store, logging.Discard(), time.Second)
	require.Error(t, err)
	_, err = NewGateway("::", store, logging.Discard(), time.Second)
	require.Error(t, err)
}

func TestGateway_MetricsCountOutcomes(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/trainers" {
			writeJSON(w, http.StatusOK, map[string]any{"trainers": []any{}})
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, _ = f.gw.Trainers(context.Background())
	_, _ = f.gw.Trainers(context.Background())
	_, _ = f.gw.Memberships(context.Background())

	assert.Equal(t, 2.0, testutil.ToFloat64(f.metrics.requests.WithLabelValues("GET", "/trainers", "2xx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.requests.WithLabelValues("GET", "/memberships", "5xx")))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "plain", UserMessage(errors.New("plain")))
	assert.Equal(t, "Please log in again", UserMessage(&APIError{Kind: ErrUnauthorized}))
	assert.Equal(t, "You are not allowed to do that", UserMessage(&APIError{Kind: ErrForbidden}))
	assert.Equal(t, "Something went wrong, please try again", UserMessage(&APIError{Kind: ErrServer}))
	assert.Equal(t, "from server", UserMessage(&APIError{Kind: ErrServer, Message: "from server"}))
}

func TestAPIError_Error(t *testing.T) {
	e := &APIError{Kind: ErrRejected, Method: "GET", Path: "/x", Status: 404, Message: "gone"}
	assert.Equal(t, "GET /x: request rejected (404): gone", e.Error())

	e = &APIError{Kind: ErrNetwork, Method: "GET", Path: "/x", Err: errors.New("refused")}
	assert.Equal(t, "GET /x: network error: refused", e.Error())
}
