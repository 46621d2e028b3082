// Sentinel errors shared by every store backend.  Handlers translate
// them into the HTTP status codes of the public API: the *NotFound
// values become 404, ErrUserExists and ErrAlreadyCompleted become 400,
// anything else is a 500 and is assumed to be a transient store
// failure the caller may retry.
package store

import "errors"

// ErrUserExists is returned by CreateUser when the username or email
// is already taken.
var ErrUserExists = errors.New("user already exists")

// ErrUserNotFound is returned when a username lookup matches nothing.
var ErrUserNotFound = errors.New("user not found")

// ErrMovieNotFound is returned when a movie id is unknown.
var ErrMovieNotFound = errors.New("movie not found")

// ErrInvestmentNotFound is returned when an investment id is unknown.
var ErrInvestmentNotFound = errors.New("investment not found")

// ErrAlreadyCompleted is returned by ConfirmPayment when the
// investment has already been confirmed.  The funding increment is
// never applied twice.
var ErrAlreadyCompleted = errors.New("payment already completed")

// ErrFundingExceeded is returned by ApplyFunding (and by ConfirmPayment
// through it) when the increment would push a movie's invested amount
// past its funding target.
var ErrFundingExceeded = errors.New("funding target exceeded")
