package session

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/fitclub/internal/client/models"
)

// ErrMalformed reports a durable record that cannot be decoded. Hydrate
// treats it as if nothing had been saved.
var ErrMalformed = errors.New("malformed session record")

// Snapshot is the durable form of an authenticated session. User is an
// optional display copy; only Credential is authoritative.
type Snapshot struct {
	Credential string       `json:"credential"`
	User       *models.User `json:"user,omitempty"`
}

// Storage persists the session across process restarts.
//
// Load returns a zero Snapshot and nil error when nothing is saved.
// Erase must succeed when nothing is saved.
type Storage interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, s Snapshot) error
	Erase(ctx context.Context) error
}
