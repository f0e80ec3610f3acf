package auth

import "errors"

var (
	// ErrNotFound is returned by stores when no row matches.
	ErrNotFound = errors.New("auth: not found")
	// ErrInvalidCredentials covers unknown email, inactive user and password
	// mismatch alike; callers must not learn which check failed.
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
	// ErrMalformedToken means the composite refresh token could not be split
	// into an id and a secret.
	ErrMalformedToken = errors.New("auth: malformed refresh token")
	// ErrInvalidToken covers missing, revoked, expired and digest-mismatch
	// refresh tokens alike; callers must not learn which.
	ErrInvalidToken = errors.New("auth: invalid refresh token")
	// ErrUnauthorized means the identity could not be confirmed.
	ErrUnauthorized = errors.New("auth: unauthorized")
	// ErrForbidden means the identity is confirmed but the operation is not
	// allowed in the resolved tenant.
	ErrForbidden = errors.New("auth: forbidden")
)
