// Package services contains application services for the fitclub client.
// This file defines the authentication controller: the only component that
// establishes or ends a session. Login and register resolve to a Result
// rather than an error so callers branch on Success alone.
package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dmitrijs2005/fitclub/internal/client/client"
	"github.com/dmitrijs2005/fitclub/internal/client/models"
	"github.com/dmitrijs2005/fitclub/internal/logging"
)

var (
	// ErrValidation marks input rejected before any network call.
	ErrValidation = errors.New("validation failed")
	// ErrSuperseded is returned for an exchange overtaken by a newer login,
	// register or logout. Its outcome was discarded.
	ErrSuperseded = errors.New("superseded by a newer request")
	// ErrNotAuthenticated is returned by protected operations called while
	// no session is established.
	ErrNotAuthenticated = errors.New("not authenticated")
)

// AuthGateway is the subset of the API used by AuthController.
type AuthGateway interface {
	Login(ctx context.Context, r client.LoginRequest) (*client.AuthResponse, error)
	Register(ctx context.Context, r client.RegisterRequest) (*client.AuthResponse, error)
	Logout(ctx context.Context, credential string) error
	Me(ctx context.Context) (*models.User, error)
}

// SessionStore is the subset of session.Store used by AuthController.
type SessionStore interface {
	Current() models.AuthState
	Hydrate(ctx context.Context)
	Begin()
	Commit(ctx context.Context, user *models.User, credential string) error
	Fail(ctx context.Context, message string)
	Clear(ctx context.Context) error
}

// Result is the outcome of Login and Register. Exactly one of User (on
// success) or Message (on failure) is meaningful. Err carries the cause of a
// failure for callers that need to tell kinds apart.
type Result struct {
	Success bool
	User    *models.User
	Message string
	Err     error
}

func failure(message string, err error) Result {
	return Result{Message: message, Err: err}
}

// AuthController drives login, register, logout and session restore.
//
// Exchanges follow last-call-wins: each call takes a new generation number
// and its response is applied only if no newer call started in the meantime.
type AuthController struct {
	gw         AuthGateway
	store      SessionStore
	log        logging.Logger
	revalidate bool

	mu  sync.Mutex
	gen uint64
	// suspended is the credential an in-flight exchange replaced. Logout
	// revokes it when it interrupts that exchange.
	suspended string
}

// NewAuthController wires a controller. When revalidate is set, Restore
// confirms a hydrated credential with the API before trusting its user.
func NewAuthController(gw AuthGateway, store SessionStore, log logging.Logger, revalidate bool) *AuthController {
	return &AuthController{
		gw:         gw,
		store:      store,
		log:        log.With("component", "auth"),
		revalidate: revalidate,
	}
}

// Login exchanges email and password for a session.
func (a *AuthController) Login(ctx context.Context, email, password string) Result {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return failure("Email and password are required", &ValidationError{Message: "Email and password are required"})
	}

	req := client.LoginRequest{Email: email, Password: password}
	return a.exchange(ctx, "login", func(ctx context.Context) (*client.AuthResponse, error) {
		return a.gw.Login(ctx, req)
	})
}

// Register creates an account and signs in with the session the API returns.
// Password policy and confirmation are checked by ValidateRegistration, which
// callers run first; Register itself only requires the mandatory fields.
func (a *AuthController) Register(ctx context.Context, req client.RegisterRequest) Result {
	req = normalizeRegistration(req)
	if err := requireRegistrationFields(req); err != nil {
		return failure(err.Error(), err)
	}

	return a.exchange(ctx, "register", func(ctx context.Context) (*client.AuthResponse, error) {
		return a.gw.Register(ctx, req)
	})
}

func (a *AuthController) exchange(ctx context.Context, op string,
	call func(context.Context) (*client.AuthResponse, error)) Result {

	a.mu.Lock()
	a.gen++
	gen := a.gen
	if cur := a.store.Current(); cur.IsAuthenticated() {
		a.suspended = cur.Credential
	}
	a.store.Begin()
	a.mu.Unlock()

	resp, err := call(ctx)

	// The outcome is recorded even if the caller gave up waiting.
	ctx = context.WithoutCancel(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()

	if gen != a.gen {
		a.log.Debug(ctx, "discarding superseded exchange", "op", op)
		return failure(ErrSuperseded.Error(), ErrSuperseded)
	}
	a.suspended = ""

	if err != nil {
		msg := client.UserMessage(err)
		a.store.Fail(ctx, msg)
		a.log.Info(ctx, op+" failed", "error", err)
		return failure(msg, err)
	}

	if err := a.store.Commit(ctx, resp.User, resp.BearerCredential()); err != nil {
		const msg = "Could not save the session"
		a.store.Fail(ctx, msg)
		a.log.Error(ctx, "commit session", "op", op, "error", err)
		return failure(msg, err)
	}

	a.log.Info(ctx, op+" succeeded", "user_id", resp.User.ID)
	return Result{Success: true, User: resp.User}
}

// Logout ends the session locally, then asks the API to revoke the dropped
// credential. Interrupting a re-login revokes the credential that re-login
// suspended. The remote call is best-effort: its failure is logged and the
// local logout stands. Logging out while anonymous does nothing.
func (a *AuthController) Logout(ctx context.Context) {
	a.mu.Lock()
	a.gen++
	prev := a.store.Current()
	if prev.Kind == models.Anonymous {
		a.mu.Unlock()
		return
	}
	credential := prev.Credential
	if prev.Kind == models.Authenticating {
		credential = a.suspended
	}
	a.suspended = ""
	if err := a.store.Clear(ctx); err != nil {
		a.log.Warn(ctx, "erase stored session", "error", err)
	}
	a.mu.Unlock()

	if credential == "" {
		return
	}
	if err := a.gw.Logout(ctx, credential); err != nil {
		a.log.Warn(ctx, "remote logout failed", "error", err)
		return
	}
	a.log.Info(ctx, "logged out", "user_id", userID(prev.User))
}

// Restore hydrates the store from durable storage and, when revalidation is
// enabled, confirms the restored credential with GET /auth/me. A rejected
// credential is cleared by the gateway. Any other failure keeps the restored
// session as is. Returns the resulting state.
func (a *AuthController) Restore(ctx context.Context) models.AuthState {
	a.store.Hydrate(ctx)
	restored := a.store.Current()
	if !a.revalidate || !restored.IsAuthenticated() {
		return restored
	}

	user, err := a.gw.Me(ctx)
	switch {
	case err == nil:
		a.mu.Lock()
		cur := a.store.Current()
		if cur.IsAuthenticated() && cur.Credential == restored.Credential {
			if err := a.store.Commit(context.WithoutCancel(ctx), user, cur.Credential); err != nil {
				a.log.Warn(ctx, "refresh stored user", "error", err)
			}
		}
		a.mu.Unlock()
	case client.IsUnauthorized(err):
		a.log.Info(ctx, "stored session rejected by the server")
	default:
		a.log.Warn(ctx, "could not revalidate stored session, keeping it", "error", err)
	}
	return a.store.Current()
}

func userID(u *models.User) int64 {
	if u == nil {
		return 0
	}
	return u.ID
}
