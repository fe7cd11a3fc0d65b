package model

import "errors"

var (
	// User related errors
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")

	// ErrInvalidCredentials covers both unknown-username and wrong-password
	// login failures. The two branches are deliberately indistinguishable to
	// callers.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Token related errors
	ErrInvalidToken = errors.New("invalid token")

	// Task related errors
	ErrTaskNotFound = errors.New("task not found")

	// Generic errors
	ErrInvalidInput = errors.New("invalid input")
)
