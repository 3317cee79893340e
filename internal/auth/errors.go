package auth

import "errors"

var (
	// ErrUsernameExists is returned when attempting to create an admin with a username that already exists.
	ErrUsernameExists = errors.New("admin with this username already exists")

	// ErrInvalidPassword is returned when the provided password is incorrect during authentication.
	ErrInvalidPassword = errors.New("invalid password")

	// ErrUserNotFound is returned when no admin has the given username or id.
	ErrUserNotFound = errors.New("admin not found")

	// ErrMissingCredentials is returned when a username or password is empty.
	ErrMissingCredentials = errors.New("username and password are required")
)
