// Package memory is an in-process store.Store used by the test suite.
// It reproduces the backend semantics the workflow depends on: the
// guarded funding increment and the idempotent payment confirmation
// both run under one mutex, so the "single durable unit" contract of
// ConfirmPayment holds here too.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/iliyamo/movie-crowdfund/internal/model"
	"github.com/iliyamo/movie-crowdfund/internal/store"
)

// Store keeps everything in maps guarded by a single mutex.
type Store struct {
	mu            sync.Mutex
	users         map[string]model.User
	movies        map[string]model.Movie
	investments   map[string]model.Investment
	notifications map[string]model.Notification
}

// New returns an empty store.
func New() *Store {
	return &Store{
		users:         make(map[string]model.User),
		movies:        make(map[string]model.Movie),
		investments:   make(map[string]model.Investment),
		notifications: make(map[string]model.Notification),
	}
}

// Close is a no-op.
func (s *Store) Close(ctx context.Context) error { return nil }

// ----- users -----

func (s *Store) CreateUser(ctx context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.users {
		if other.Username == u.Username || other.Email == u.Email {
			return store.ErrUserExists
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == username {
			cp := u
			return &cp, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (s *Store) ListUsers(ctx context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// ----- movies -----

func (s *Store) CreateMovie(ctx context.Context, m *model.Movie) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.InvestedAmount = 0
	s.movies[m.ID] = *m
	return nil
}

func (s *Store) GetMovie(ctx context.Context, id string) (*model.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getMovieLocked(id)
}

func (s *Store) getMovieLocked(id string) (*model.Movie, error) {
	m, ok := s.movies[id]
	if !ok {
		return nil, store.ErrMovieNotFound
	}
	cp := m
	return &cp, nil
}

func (s *Store) ListMovies(ctx context.Context, f store.MovieFilter) ([]model.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Movie, 0, len(s.movies))
	for _, m := range s.movies {
		if f.CreatorID != "" && m.CreatorID != f.CreatorID {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateMovie(ctx context.Context, id string, upd model.MovieUpdate) (*model.Movie, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.movies[id]
	if !ok {
		return nil, store.ErrMovieNotFound
	}
	apply := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	apply(&m.Title, upd.Title)
	apply(&m.Poster, upd.Poster)
	apply(&m.Director, upd.Director)
	apply(&m.Producer, upd.Producer)
	apply(&m.Singer, upd.Singer)
	apply(&m.Hero, upd.Hero)
	apply(&m.Heroine, upd.Heroine)
	s.movies[id] = m
	cp := m
	return &cp, nil
}

func (s *Store) ApplyFunding(ctx context.Context, id string, delta float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyFundingLocked(id, delta)
}

func (s *Store) applyFundingLocked(id string, delta float64) error {
	m, ok := s.movies[id]
	if !ok {
		return store.ErrMovieNotFound
	}
	if m.InvestedAmount+delta > m.TotalAmount {
		return store.ErrFundingExceeded
	}
	m.InvestedAmount += delta
	s.movies[id] = m
	return nil
}

// ----- investments -----

func (s *Store) CreateInvestment(ctx context.Context, inv *model.Investment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.investments[inv.ID] = *inv
	return nil
}

func (s *Store) GetInvestment(ctx context.Context, id string) (*model.Investment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.investments[id]
	if !ok {
		return nil, store.ErrInvestmentNotFound
	}
	cp := inv
	return &cp, nil
}

func (s *Store) ListInvestments(ctx context.Context, f store.InvestmentFilter) ([]model.Investment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Investment, 0)
	for _, inv := range s.investments {
		if f.InvestorID != "" && inv.InvestorID != f.InvestorID {
			continue
		}
		if f.CreatorID != "" {
			m, ok := s.movies[inv.MovieID]
			if !ok || m.CreatorID != f.CreatorID {
				continue
			}
		}
		if m, ok := s.movies[inv.MovieID]; ok {
			inv.MovieTitle = m.Title
		}
		out = append(out, inv)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ConfirmPayment(ctx context.Context, id, paymentMethod string) (*model.Investment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.investments[id]
	if !ok {
		return nil, store.ErrInvestmentNotFound
	}
	if inv.PaymentStatus == model.PaymentCompleted {
		return nil, store.ErrAlreadyCompleted
	}
	if err := s.applyFundingLocked(inv.MovieID, inv.TotalAmount); err != nil {
		return nil, err
	}
	inv.PaymentStatus = model.PaymentCompleted
	inv.PaymentMethod = paymentMethod
	s.investments[id] = inv
	cp := inv
	return &cp, nil
}

// ----- notifications -----

func (s *Store) CreateNotification(ctx context.Context, n *model.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[n.ID] = *n
	return nil
}

func (s *Store) ListNotifications(ctx context.Context, userID string) ([]model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Notification, 0)
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
