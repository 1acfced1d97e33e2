// Package common contains shared constants and sentinel errors used across
// leavedesk components.
package common

// AuthorizationHeaderName is the HTTP header that carries the bearer access
// token on authenticated requests.
const AuthorizationHeaderName = "Authorization"

// RequestIDHeaderName is the HTTP header used to propagate the per-request
// correlation id assigned by the server.
const RequestIDHeaderName = "X-Request-Id"
