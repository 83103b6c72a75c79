// Package common defines shared constants and sentinel errors used across
// discnote components. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrInternal   = errors.New("internal error")
	ErrValidation = errors.New("validation error")

	// Registration / login errors.
	ErrUsernameTaken  = errors.New("username is already taken")
	ErrAuthentication = errors.New("invalid username or password")

	// Token lifecycle errors.
	ErrUnauthenticated = errors.New("no token presented")
	ErrInvalidToken    = errors.New("invalid token")
	ErrTokenExpired    = errors.New("token expired")
	ErrUnknownSubject  = errors.New("token subject does not exist")

	// Review access errors.
	ErrUserNotFound   = errors.New("there is no account with such username")
	ErrReviewNotFound = errors.New("there is no review with this id")
	ErrNotOwner       = errors.New("not authorised to edit this review")
)
