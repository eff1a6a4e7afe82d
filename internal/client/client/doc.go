// Package client is the fitclub client's only way onto the network.
//
// # Overview
//
// Gateway sends every REST call to the API at one fixed base URL. For each
// call it reads the session once, at issue time, and attaches the credential
// as a bearer token when the session is authenticated. Typed helpers
// (Login, Register, Logout, Me and the catalog calls) sit on top of
// Gateway.Send.
//
// # Error Handling
//
// Failures come back as *APIError, which matches exactly one sentinel with
// errors.Is: ErrUnauthorized, ErrForbidden, ErrRejected, ErrServer or
// ErrNetwork. A 401 on a call that carried a credential also clears the
// session, provided the session still holds that same credential. Nothing
// is retried.
//
// The package also owns the local database bootstrap (InitDatabase,
// RunMigrations) and the Prometheus instruments of the gateway (Metrics).
package client
