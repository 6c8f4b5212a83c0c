package database

import "errors"

var (
	// ErrEmailTaken means a user with that email is already registered.
	ErrEmailTaken = errors.New("email address already used")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password, matching the original "Incorrect id" response.
	ErrInvalidCredentials = errors.New("incorrect id")

	ErrRoomNotFound    = errors.New("room not found")
	ErrBookingNotFound = errors.New("reservation not found")
	ErrUserNotFound    = errors.New("user not found")
)
