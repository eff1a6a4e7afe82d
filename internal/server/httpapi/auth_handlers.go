package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/fitclub/internal/server/users"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}

type authResponse struct {
	User  *users.User `json:"user"`
	Token string      `json:"token"`
}

type userResponse struct {
	User *users.User `json:"user"`
}

func (a *API) issue(w http.ResponseWriter, r *http.Request, status int, u *users.User) {
	token, err := a.issuer.Issue(u.ID)
	if err != nil {
		a.logger.Error(r.Context(), "issue token", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, status, authResponse{User: u, Token: token})
}

func (a *API) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}

	u, err := a.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		a.logger.Error(r.Context(), "login", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	a.logger.Info(r.Context(), "login succeeded", "user_id", u.ID)
	a.issue(w, r, http.StatusOK, u)
}

func (a *API) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decode(w, r, &req) {
		return
	}

	u, err := a.users.Register(r.Context(), users.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Password:  req.Password,
	})
	switch {
	case errors.Is(err, users.ErrDuplicate):
		writeError(w, http.StatusConflict, "Email already registered")
		return
	case errors.Is(err, users.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, users.InputMessage(err))
		return
	case err != nil:
		a.logger.Error(r.Context(), "register", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	a.logger.Info(r.Context(), "user registered", "user_id", u.ID)
	a.issue(w, r, http.StatusCreated, u)
}

func (a *API) logout(w http.ResponseWriter, r *http.Request) {
	claims := claimsFrom(r.Context())
	a.issuer.Revoke(claims)
	writeJSON(w, http.StatusOK, map[string]string{"message": "Logged out"})
}

func (a *API) me(w http.ResponseWriter, r *http.Request) {
	u, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, userResponse{User: u})
}

// currentUser loads the account behind the request's token. A token for a
// deleted account is answered with 401.
func (a *API) currentUser(w http.ResponseWriter, r *http.Request) (*users.User, bool) {
	id, err := claimsFrom(r.Context()).UserID()
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return nil, false
	}
	u, err := a.users.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			writeError(w, http.StatusUnauthorized, "Account not found")
			return nil, false
		}
		a.logger.Error(r.Context(), "load user", "error", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return nil, false
	}
	return u, true
}
