package domain

import "errors"

var (
	// ErrInvalidCredentials covers both unknown email and wrong password.
	// Callers must surface one constant message for either case.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthenticated means the token is missing, malformed, or revoked.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrEmailTaken means the registration email already has an account.
	ErrEmailTaken = errors.New("email already taken")
	// ErrRegistrationDisabled means this deployment does not accept signups.
	ErrRegistrationDisabled = errors.New("registration disabled")
	// ErrNotFound means the entity id does not exist.
	ErrNotFound = errors.New("not found")
)
