package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/fitclub/internal/client/models"
	"github.com/dmitrijs2005/fitclub/internal/common"
)

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /auth/register.
type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Password  string `json:"password"`
}

// AuthResponse is returned by login and register. Deployments name the
// credential field either "token" or "credential".
type AuthResponse struct {
	User       *models.User `json:"user"`
	Token      string       `json:"token,omitempty"`
	Credential string       `json:"credential,omitempty"`
}

// BearerCredential returns whichever credential field is set.
func (a *AuthResponse) BearerCredential() string {
	if a.Credential != "" {
		return a.Credential
	}
	return a.Token
}

func (g *Gateway) exchange(ctx context.Context, path string, body any) (*AuthResponse, error) {
	var resp AuthResponse
	if err := g.Request(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil || resp.BearerCredential() == "" {
		return nil, &APIError{Kind: ErrServer, Method: http.MethodPost, Path: path, Status: http.StatusOK,
			Message: "malformed auth response"}
	}
	return &resp, nil
}

// Login exchanges email and password for a session.
func (g *Gateway) Login(ctx context.Context, r LoginRequest) (*AuthResponse, error) {
	return g.exchange(ctx, common.PathLogin, r)
}

// Register creates an account and returns its first session.
func (g *Gateway) Register(ctx context.Context, r RegisterRequest) (*AuthResponse, error) {
	return g.exchange(ctx, common.PathRegister, r)
}

// Logout asks the API to revoke credential. The session store is not consulted.
func (g *Gateway) Logout(ctx context.Context, credential string) error {
	return g.Send(ctx, &Request{Method: http.MethodPost, Path: common.PathLogout, Credential: credential}, nil)
}

// Me returns the account behind the current credential.
func (g *Gateway) Me(ctx context.Context) (*models.User, error) {
	var resp struct {
		User *models.User `json:"user"`
	}
	if err := g.Request(ctx, http.MethodGet, common.PathMe, nil, &resp); err != nil {
		return nil, err
	}
	if resp.User == nil {
		return nil, &APIError{Kind: ErrServer, Method: http.MethodGet, Path: common.PathMe, Status: http.StatusOK,
			Message: "malformed user response"}
	}
	return resp.User, nil
}

func (g *Gateway) Memberships(ctx context.Context) ([]models.Membership, error) {
	var resp struct {
		Memberships []models.Membership `json:"memberships"`
	}
	if err := g.Request(ctx, http.MethodGet, "/memberships", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Memberships, nil
}

// Subscribe enrolls the caller in a membership plan.
func (g *Gateway) Subscribe(ctx context.Context, membershipID int64) error {
	body := struct {
		MembershipID int64 `json:"membership_id"`
	}{membershipID}
	return g.Request(ctx, http.MethodPost, "/memberships/subscribe", body, nil)
}

func (g *Gateway) Workouts(ctx context.Context, f models.WorkoutFilter) ([]models.Workout, error) {
	q := url.Values{}
	if f.Difficulty != "" {
		q.Set("difficulty", f.Difficulty)
	}
	if f.Category != "" {
		q.Set("category", f.Category)
	}

	var resp struct {
		Workouts []models.Workout `json:"workouts"`
	}
	if err := g.Send(ctx, &Request{Method: http.MethodGet, Path: "/workouts", Query: q}, &resp); err != nil {
		return nil, err
	}
	return resp.Workouts, nil
}

func (g *Gateway) Trainers(ctx context.Context) ([]models.Trainer, error) {
	var resp struct {
		Trainers []models.Trainer `json:"trainers"`
	}
	if err := g.Request(ctx, http.MethodGet, "/trainers", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Trainers, nil
}

func (g *Gateway) Classes(ctx context.Context, upcoming bool) ([]models.Class, error) {
	q := url.Values{}
	if upcoming {
		q.Set("upcoming", strconv.FormatBool(upcoming))
	}

	var resp struct {
		Classes []models.Class `json:"classes"`
	}
	if err := g.Send(ctx, &Request{Method: http.MethodGet, Path: "/classes", Query: q}, &resp); err != nil {
		return nil, err
	}
	return resp.Classes, nil
}

// MySubscription returns the caller's active membership, or nil if none.
func (g *Gateway) MySubscription(ctx context.Context) (*models.Subscription, error) {
	var resp struct {
		Subscription *models.Subscription `json:"subscription"`
	}
	if err := g.Request(ctx, http.MethodGet, "/memberships/my/subscription", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Subscription, nil
}

func (g *Gateway) MyBookings(ctx context.Context) ([]models.Booking, error) {
	var resp struct {
		Bookings []models.Booking `json:"bookings"`
	}
	if err := g.Request(ctx, http.MethodGet, "/bookings/my-bookings", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Bookings, nil
}
