// Package common contains constants and helpers shared by the client and the
// development API.
package common

// AuthorizationHeader carries the bearer credential on outbound requests.
const AuthorizationHeader = "Authorization"

// BearerPrefix precedes the credential inside AuthorizationHeader.
const BearerPrefix = "Bearer "

// Remote API paths used by the auth subsystem.
const (
	PathLogin    = "/auth/login"
	PathRegister = "/auth/register"
	PathLogout   = "/auth/logout"
	PathMe       = "/auth/me"
)

// PathMetrics serves Prometheus metrics on the API and the client listener.
const PathMetrics = "/metrics"
