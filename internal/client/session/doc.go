// Package session owns the process-wide authentication state of the client.
//
// A single Store is created at startup and handed to everything that needs
// to know who is logged in. It holds exactly one models.AuthState at a time,
// persists the credential through a Storage backend and notifies observers
// synchronously, in registration order, on every transition.
//
// Writers are the auth controller (Begin, Commit, Fail, Clear) and the
// request gateway (ClearIfCredential after a 401). Everyone else only reads
// Current or subscribes.
package session
