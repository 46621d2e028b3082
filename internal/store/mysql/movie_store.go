package mysql

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/movie-crowdfund/internal/model"
	"github.com/iliyamo/movie-crowdfund/internal/store"
)

const movieCols = "id, title, poster, director, producer, singer, hero, heroine, total_amount, invested_amount, stock_price, creator_id, created_at"

func scanMovie(row interface{ Scan(...any) error }) (*model.Movie, error) {
	var m model.Movie
	var poster, director, producer, singer, hero, heroine, creatorID sql.NullString
	err := row.Scan(&m.ID, &m.Title, &poster, &director, &producer, &singer, &hero, &heroine,
		&m.TotalAmount, &m.InvestedAmount, &m.StockPrice, &creatorID, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	m.Poster = poster.String
	m.Director = director.String
	m.Producer = producer.String
	m.Singer = singer.String
	m.Hero = hero.String
	m.Heroine = heroine.String
	m.CreatorID = creatorID.String
	return &m, nil
}

// CreateMovie inserts a movie.  InvestedAmount is forced to zero no
// matter what the caller put on the struct.
func (s *Store) CreateMovie(ctx context.Context, m *model.Movie) error {
	m.InvestedAmount = 0
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO movies (id, title, poster, director, producer, singer, hero, heroine, total_amount, invested_amount, stock_price, creator_id, created_at)
		 VALUES (?,?,?,?,?,?,?,?,?,0,?,?,?)`,
		m.ID, m.Title, m.Poster, m.Director, m.Producer, m.Singer, m.Hero, m.Heroine,
		m.TotalAmount, m.StockPrice, m.CreatorID, m.CreatedAt)
	return err
}

// GetMovie fetches a single movie by id.
func (s *Store) GetMovie(ctx context.Context, id string) (*model.Movie, error) {
	m, err := scanMovie(s.db.QueryRowContext(ctx,
		`SELECT `+movieCols+` FROM movies WHERE id = ? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrMovieNotFound
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListMovies returns movies, optionally restricted to one creator.
func (s *Store) ListMovies(ctx context.Context, f store.MovieFilter) ([]model.Movie, error) {
	q := `SELECT ` + movieCols + ` FROM movies`
	args := []any{}
	if f.CreatorID != "" {
		q += ` WHERE creator_id = ?`
		args = append(args, f.CreatorID)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	movies := make([]model.Movie, 0)
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *m)
	}
	return movies, rows.Err()
}

// UpdateMovie merges the non-nil descriptive fields into the row and
// returns the updated movie.  Financial columns are not reachable from
// this statement.
func (s *Store) UpdateMovie(ctx context.Context, id string, upd model.MovieUpdate) (*model.Movie, error) {
	sets := make([]string, 0, 7)
	args := make([]any, 0, 8)
	add := func(col string, v *string) {
		if v != nil {
			sets = append(sets, col+" = ?")
			args = append(args, *v)
		}
	}
	add("title", upd.Title)
	add("poster", upd.Poster)
	add("director", upd.Director)
	add("producer", upd.Producer)
	add("singer", upd.Singer)
	add("hero", upd.Hero)
	add("heroine", upd.Heroine)
	if len(sets) > 0 {
		args = append(args, id)
		// A zero rows-affected result can mean either an unknown id or a
		// no-op edit; the follow-up SELECT distinguishes the two.
		if _, err := s.db.ExecContext(ctx,
			`UPDATE movies SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
			return nil, err
		}
	}
	return s.GetMovie(ctx, id)
}

// ApplyFunding adds delta to invested_amount inside a single UPDATE so
// concurrent confirmations never lose increments.  The WHERE clause
// re-checks the funding target; when it would be exceeded no row
// matches and ErrFundingExceeded is returned.
func (s *Store) ApplyFunding(ctx context.Context, id string, delta float64) error {
	return applyFunding(ctx, s.db, id, delta)
}

// execer covers *sql.DB and *sql.Tx so the guarded increment can run
// standalone or inside the confirm-payment transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func applyFunding(ctx context.Context, ex execer, id string, delta float64) error {
	res, err := ex.ExecContext(ctx,
		`UPDATE movies SET invested_amount = invested_amount + ?
		 WHERE id = ? AND invested_amount + ? <= total_amount`,
		delta, id, delta)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists int
		if err := ex.QueryRowContext(ctx, `SELECT 1 FROM movies WHERE id = ?`, id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return store.ErrMovieNotFound
			}
			return err
		}
		return store.ErrFundingExceeded
	}
	return nil
}
