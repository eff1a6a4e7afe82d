package models

import "fmt"

// AuthKind enumerates the mutually exclusive authentication states.
type AuthKind int

const (
	Anonymous AuthKind = iota
	Authenticating
	Authenticated
	Failed
)

func (k AuthKind) String() string {
	switch k {
	case Anonymous:
		return "anonymous"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case Failed:
		return "error"
	default:
		return fmt.Sprintf("AuthKind(%d)", int(k))
	}
}

// AuthState is an immutable snapshot of the session. Values are only built
// through the constructors below, which keep the credential present exactly
// when Kind is Authenticated.
type AuthState struct {
	Kind       AuthKind
	User       *User
	Credential string

	// Message and Previous are set for the Failed kind only.
	Message  string
	Previous AuthKind
}

// AnonymousState returns the logged-out state.
func AnonymousState() AuthState {
	return AuthState{Kind: Anonymous}
}

// AuthenticatingState returns the in-flight state. The suspended user, if any,
// is kept for display; no credential is carried.
func AuthenticatingState(suspended *User) AuthState {
	return AuthState{Kind: Authenticating, User: suspended}
}

// AuthenticatedState returns a logged-in state holding user and credential.
func AuthenticatedState(user *User, credential string) AuthState {
	return AuthState{Kind: Authenticated, User: user, Credential: credential}
}

// FailedState records the last failed exchange and the kind it started from.
func FailedState(message string, previous AuthKind) AuthState {
	return AuthState{Kind: Failed, Message: message, Previous: previous}
}

// IsAuthenticated reports whether the state carries a usable credential.
func (s AuthState) IsAuthenticated() bool {
	return s.Kind == Authenticated && s.Credential != ""
}

func (s AuthState) String() string {
	switch s.Kind {
	case Authenticated:
		if s.User != nil {
			return fmt.Sprintf("authenticated(%s)", s.User.Email)
		}
		return "authenticated"
	case Failed:
		return fmt.Sprintf("error(%s)", s.Message)
	default:
		return s.Kind.String()
	}
}
