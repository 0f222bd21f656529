// Package common contains constants and helpers shared across the food
// delivery client packages.
package common

const (
	// RequestIDHeader carries a per-request correlation id on outbound calls.
	RequestIDHeader = "X-Request-ID"

	// TokenStorageKey is the fixed metadata key the credential token is
	// persisted under.
	TokenStorageKey = "token"

	// LoginPath is where unauthenticated navigation is redirected.
	LoginPath = "/login"
)
