// Package models defines client-side data models used by the fitclub client:
// the authenticated identity, the authentication state machine value and the
// catalog DTOs returned by the remote API.
package models
