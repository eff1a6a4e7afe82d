package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/fitclub/internal/server/catalog"
)

func (a *API) memberships(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"memberships": a.catalog.Memberships()})
}

func (a *API) workouts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list := a.catalog.Workouts(catalog.WorkoutFilter{
		Difficulty: q.Get("difficulty"),
		Category:   q.Get("category"),
	})
	writeJSON(w, http.StatusOK, map[string]any{"workouts": list})
}

func (a *API) trainers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"trainers": a.catalog.Trainers()})
}

func (a *API) classes(w http.ResponseWriter, r *http.Request) {
	upcoming, _ := strconv.ParseBool(r.URL.Query().Get("upcoming"))
	writeJSON(w, http.StatusOK, map[string]any{"classes": a.catalog.Classes(upcoming)})
}

func (a *API) subscribe(w http.ResponseWriter, r *http.Request) {
	u, ok := a.currentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		MembershipID int64 `json:"membership_id"`
	}
	if !decode(w, r, &req) {
		return
	}

	sub, err := a.catalog.Subscribe(u.ID, req.MembershipID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Membership not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"subscription": sub})
}

func (a *API) mySubscription(w http.ResponseWriter, r *http.Request) {
	u, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"subscription": a.catalog.Subscription(u.ID)})
}

func (a *API) myBookings(w http.ResponseWriter, r *http.Request) {
	u, ok := a.currentUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"bookings": a.catalog.Bookings(u.ID)})
}

func (a *API) book(w http.ResponseWriter, r *http.Request) {
	u, ok := a.currentUser(w, r)
	if !ok {
		return
	}

	var req struct {
		ClassID int64 `json:"class_id"`
	}
	if !decode(w, r, &req) {
		return
	}

	b, err := a.catalog.Book(u.ID, req.ClassID)
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "Class not found")
	case errors.Is(err, catalog.ErrClassFull):
		writeError(w, http.StatusConflict, "Class is full")
	case errors.Is(err, catalog.ErrAlreadyBooked):
		writeError(w, http.StatusConflict, "You have already booked this class")
	case errors.Is(err, catalog.ErrClassStarted):
		writeError(w, http.StatusConflict, "Class has already started")
	case err != nil:
		writeError(w, http.StatusInternalServerError, "Internal server error")
	default:
		writeJSON(w, http.StatusCreated, map[string]any{"booking": b})
	}
}
