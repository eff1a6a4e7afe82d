package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/fitclub/internal/common"
	"github.com/dmitrijs2005/fitclub/internal/logging"
	"github.com/dmitrijs2005/fitclub/internal/server/auth"
	"github.com/dmitrijs2005/fitclub/internal/server/catalog"
	"github.com/dmitrijs2005/fitclub/internal/server/users"
)

type testEnv struct {
	srv    *httptest.Server
	issuer *auth.Issuer
	users  *users.Service
	store  *catalog.Store
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	if opts.BasePath == "" {
		opts.BasePath = "/api"
	}
	env := &testEnv{
		issuer: auth.NewIssuer([]byte("test-secret"), time.Hour),
		users:  users.NewService(users.NewMemoryRepository()).WithCost(bcrypt.MinCost),
		store:  catalog.NewStore(nil),
	}
	env.srv = httptest.NewServer(NewRouter(NewAPI(env.users, env.store, env.issuer, logging.Discard()), opts))
	t.Cleanup(env.srv.Close)
	return env
}

// call sends a JSON request and decodes the JSON response into out when
// out is non-nil.
func (e *testEnv) call(t *testing.T, method, path, token string, body, out any) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.srv.URL+"/api"+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}

	resp, err := e.srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

var bob = registerRequest{FirstName: "Bob", LastName: "Stone", Email: "bob@fit.club", Password: "hunter22"}

func (e *testEnv) register(t *testing.T) authResponse {
	t.Helper()
	var resp authResponse
	require.Equal(t, http.StatusCreated, e.call(t, http.MethodPost, common.PathRegister, "", bob, &resp))
	return resp
}

func TestRegisterLoginMe(t *testing.T) {
	env := newTestEnv(t, Options{})

	reg := env.register(t)
	require.NotNil(t, reg.User)
	assert.Equal(t, "bob@fit.club", reg.User.Email)
	assert.Equal(t, users.RoleMember, reg.User.Role)
	assert.NotEmpty(t, reg.Token)

	var login authResponse
	status := env.call(t, http.MethodPost, common.PathLogin, "", loginRequest{Email: "BOB@fit.club", Password: "hunter22"}, &login)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, reg.User.ID, login.User.ID)

	var me userResponse
	require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, common.PathMe, login.Token, nil, &me))
	assert.Equal(t, "Bob", me.User.FirstName)
}

func TestRegister_Errors(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.register(t)

	var e common.ErrorResponse
	assert.Equal(t, http.StatusConflict, env.call(t, http.MethodPost, common.PathRegister, "", bob, &e))
	assert.Equal(t, "Email already registered", e.Message)

	short := bob
	short.Email = "other@fit.club"
	short.Password = "abc"
	assert.Equal(t, http.StatusBadRequest, env.call(t, http.MethodPost, common.PathRegister, "", short, &e))
	assert.Equal(t, "Password must be at least 6 characters", e.Message)
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.register(t)

	var e common.ErrorResponse
	status := env.call(t, http.MethodPost, common.PathLogin, "", loginRequest{Email: "bob@fit.club", Password: "wrong-pass"}, &e)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials", e.Message)
}

func TestLogin_BadBody(t *testing.T) {
	env := newTestEnv(t, Options{})

	resp, err := env.srv.Client().Post(env.srv.URL+"/api"+common.PathLogin, "application/json", bytes.NewBufferString("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	env := newTestEnv(t, Options{})

	for _, path := range []string{common.PathMe, "/memberships/my/subscription", "/bookings/my-bookings"} {
		var e common.ErrorResponse
		assert.Equal(t, http.StatusUnauthorized, env.call(t, http.MethodGet, path, "", nil, &e), path)
		assert.Equal(t, "Missing token", e.Message)

		assert.Equal(t, http.StatusUnauthorized, env.call(t, http.MethodGet, path, "garbage", nil, &e), path)
		assert.Equal(t, "Invalid token", e.Message)
	}
}

func TestLogout_RevokesToken(t *testing.T) {
	env := newTestEnv(t, Options{})
	reg := env.register(t)

	require.Equal(t, http.StatusOK, env.call(t, http.MethodPost, common.PathLogout, reg.Token, nil, nil))

	var e common.ErrorResponse
	assert.Equal(t, http.StatusUnauthorized, env.call(t, http.MethodGet, common.PathMe, reg.Token, nil, &e))
	assert.Equal(t, "Token revoked", e.Message)
}

func TestExpiredToken(t *testing.T) {
	env := newTestEnv(t, Options{})
	reg := env.register(t)

	token, err := auth.GenerateToken(reg.User.ID, []byte("test-secret"), -time.Minute)
	require.NoError(t, err)

	var e common.ErrorResponse
	assert.Equal(t, http.StatusUnauthorized, env.call(t, http.MethodGet, common.PathMe, token, nil, &e))
	assert.Equal(t, "Token expired", e.Message)
}

func TestCatalogRoutes(t *testing.T) {
	env := newTestEnv(t, Options{})

	var ms struct {
		Memberships []catalog.Membership `json:"memberships"`
	}
	require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/memberships", "", nil, &ms))
	assert.Len(t, ms.Memberships, 3)

	var ws struct {
		Workouts []catalog.Workout `json:"workouts"`
	}
	require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/workouts?difficulty=beginner&category=strength", "", nil, &ws))
	require.Len(t, ws.Workouts, 1)
	assert.Equal(t, "Foundations", ws.Workouts[0].Name)

	var ts struct {
		Trainers []catalog.Trainer `json:"trainers"`
	}
	require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/trainers", "", nil, &ts))
	assert.NotEmpty(t, ts.Trainers)

	var all, upcoming struct {
		Classes []catalog.Class `json:"classes"`
	}
	require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/classes", "", nil, &all))
	require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/classes?upcoming=true", "", nil, &upcoming))
	assert.Greater(t, len(all.Classes), len(upcoming.Classes))
}

func TestSubscribeAndBook(t *testing.T) {
	env := newTestEnv(t, Options{})
	tok := env.register(t).Token

	var sub struct {
		Subscription *catalog.Subscription `json:"subscription"`
	}
	require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/memberships/my/subscription", tok, nil, &sub))
	assert.Nil(t, sub.Subscription)

	var e common.ErrorResponse
	assert.Equal(t, http.StatusNotFound, env.call(t, http.MethodPost, "/memberships/subscribe", tok, map[string]int64{"membership_id": 99}, &e))
	assert.Equal(t, "Membership not found", e.Message)

	require.Equal(t, http.StatusCreated, env.call(t, http.MethodPost, "/memberships/subscribe", tok, map[string]int64{"membership_id": 2}, nil))
	require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/memberships/my/subscription", tok, nil, &sub))
	require.NotNil(t, sub.Subscription)
	assert.Equal(t, "Premium", sub.Subscription.Name)

	upcoming := env.store.Classes(true)
	require.NotEmpty(t, upcoming)
	classID := upcoming[0].ID

	require.Equal(t, http.StatusCreated, env.call(t, http.MethodPost, "/bookings", tok, map[string]int64{"class_id": classID}, nil))
	assert.Equal(t, http.StatusConflict, env.call(t, http.MethodPost, "/bookings", tok, map[string]int64{"class_id": classID}, &e))
	assert.Equal(t, "You have already booked this class", e.Message)

	var bs struct {
		Bookings []catalog.Booking `json:"bookings"`
	}
	require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/bookings/my-bookings", tok, nil, &bs))
	require.Len(t, bs.Bookings, 1)
	assert.Equal(t, classID, bs.Bookings[0].ClassID)
}

func TestLoginRateLimit(t *testing.T) {
	env := newTestEnv(t, Options{LoginRatePerSecond: 0.001, LoginBurst: 2})

	creds := loginRequest{Email: "nobody@fit.club", Password: "whatever"}
	assert.Equal(t, http.StatusUnauthorized, env.call(t, http.MethodPost, common.PathLogin, "", creds, nil))
	assert.Equal(t, http.StatusUnauthorized, env.call(t, http.MethodPost, common.PathLogin, "", creds, nil))

	var e common.ErrorResponse
	assert.Equal(t, http.StatusTooManyRequests, env.call(t, http.MethodPost, common.PathLogin, "", creds, &e))
	assert.Contains(t, e.Message, "Too many attempts")

	// Catalog routes are not limited.
	assert.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/memberships", "", nil, nil))
}

func TestNotFound(t *testing.T) {
	env := newTestEnv(t, Options{})

	var e common.ErrorResponse
	assert.Equal(t, http.StatusNotFound, env.call(t, http.MethodGet, "/nope", "", nil, &e))
	assert.Equal(t, "Not found", e.Message)
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", clientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", clientIP(r))
}

func TestIPLimiter_Disabled(t *testing.T) {
	l := newIPLimiter(0, 1)
	for i := 0; i < 10; i++ {
		assert.True(t, l.allow("1.2.3.4"))
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, Options{})

	require.Equal(t, http.StatusOK, env.call(t, http.MethodGet, "/memberships", "", nil, nil))
	require.Equal(t, http.StatusUnauthorized, env.call(t, http.MethodGet, common.PathMe, "", nil, nil))
	require.Equal(t, http.StatusUnauthorized, env.call(t, http.MethodGet, common.PathMe, "garbage", nil, nil))

	resp, err := env.srv.Client().Get(env.srv.URL + common.PathMetrics)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := string(body)
	assert.Contains(t, out, `fitclub_api_requests_total{method="GET",route="/api/memberships",status="200"} 1`)
	assert.Contains(t, out, `fitclub_api_requests_total{method="GET",route="/api/auth/me",status="401"} 2`)
	assert.Contains(t, out, `fitclub_api_rejected_tokens_total{reason="missing"} 1`)
	assert.Contains(t, out, `fitclub_api_rejected_tokens_total{reason="invalid"} 1`)
}

func TestMetrics_SharedRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	env := newTestEnv(t, Options{Registry: reg})

	tok := env.register(t).Token
	require.Equal(t, http.StatusOK, env.call(t, http.MethodPost, common.PathLogout, tok, nil, nil))
	require.Equal(t, http.StatusUnauthorized, env.call(t, http.MethodGet, common.PathMe, tok, nil, nil))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	var revoked float64
	for _, mf := range mfs {
		if mf.GetName() != "fitclub_api_rejected_tokens_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, l := range m.GetLabel() {
				if l.GetName() == "reason" && l.GetValue() == rejectRevoked {
					revoked = m.GetCounter().GetValue()
				}
			}
		}
	}
	assert.Equal(t, 1.0, revoked)
}
