// Package common contains shared constants, sentinel errors and the
// user-facing error message funnel used across the client.
package common

const (
	// AuthorizationHeaderName carries the bearer token on outbound requests.
	AuthorizationHeaderName = "Authorization"
	// RequestIDHeaderName tags every outbound request for server-side tracing.
	RequestIDHeaderName = "X-Request-ID"
	// SessionKey is the well-known key the persisted session blob lives under.
	SessionKey = "auth"
	// DefaultCurrency is the currency the minor-unit heuristic applies to.
	DefaultCurrency = "INR"
)
