// Package store defines the repository interface the service is written
// against.  Three implementations exist: mysql (relational), mongo
// (document) and memory (tests).  Handlers and the investment workflow
// depend only on these interfaces; the backend is selected at startup.
package store

import (
	"context"

	"github.com/iliyamo/movie-crowdfund/internal/model"
)

// UserStore persists users.  Users are write-once.
type UserStore interface {
	// CreateUser inserts a new user.  It returns ErrUserExists when a
	// user with the same username or email already exists.  The
	// password must already be hashed by the caller.
	CreateUser(ctx context.Context, u *model.User) error
	// GetUserByUsername returns ErrUserNotFound when no such user exists.
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	// ListUsers returns all users in unspecified order.
	ListUsers(ctx context.Context) ([]model.User, error)
}

// MovieFilter narrows ListMovies.  Zero values mean no filtering.
type MovieFilter struct {
	CreatorID string
}

// MovieStore persists movies and owns the invested_amount counter.
type MovieStore interface {
	// CreateMovie inserts a movie with InvestedAmount forced to zero.
	CreateMovie(ctx context.Context, m *model.Movie) error
	// GetMovie returns ErrMovieNotFound when the id is unknown.
	GetMovie(ctx context.Context, id string) (*model.Movie, error)
	// ListMovies returns movies matching the filter; order is not
	// significant.
	ListMovies(ctx context.Context, f MovieFilter) ([]model.Movie, error)
	// UpdateMovie applies a partial edit of the descriptive fields and
	// returns the updated movie.  Financial fields cannot be changed
	// through this operation.
	UpdateMovie(ctx context.Context, id string, upd model.MovieUpdate) (*model.Movie, error)
	// ApplyFunding atomically adds delta to the movie's invested
	// amount using the backend's native increment primitive.  The
	// update is guarded: it fails with ErrFundingExceeded when the
	// increment would push invested_amount past total_amount, and the
	// counter is left untouched.
	ApplyFunding(ctx context.Context, id string, delta float64) error
}

// InvestmentFilter narrows ListInvestments.  At most one of the two
// fields is expected to be set.
type InvestmentFilter struct {
	InvestorID string
	CreatorID  string
}

// InvestmentStore persists investments and drives the payment state
// machine.
type InvestmentStore interface {
	// CreateInvestment inserts a pending investment.
	CreateInvestment(ctx context.Context, inv *model.Investment) error
	// GetInvestment returns ErrInvestmentNotFound when the id is unknown.
	GetInvestment(ctx context.Context, id string) (*model.Investment, error)
	// ListInvestments returns investments matching the filter with the
	// movie title joined in.
	ListInvestments(ctx context.Context, f InvestmentFilter) ([]model.Investment, error)
	// ConfirmPayment flips the investment from pending to completed,
	// records the payment method and applies the funding increment to
	// the movie as one durable unit: either both writes persist or
	// neither does.  A second call on the same investment returns
	// ErrAlreadyCompleted without touching the movie total.
	ConfirmPayment(ctx context.Context, id, paymentMethod string) (*model.Investment, error)
}

// NotificationStore persists user notifications.
type NotificationStore interface {
	CreateNotification(ctx context.Context, n *model.Notification) error
	// ListNotifications returns the user's notifications, newest first.
	ListNotifications(ctx context.Context, userID string) ([]model.Notification, error)
}

// Store is the full persistence surface the application is wired with.
type Store interface {
	UserStore
	MovieStore
	InvestmentStore
	NotificationStore
	// Close releases the underlying client or connection pool.
	Close(ctx context.Context) error
}
