// Package mysql implements store.Store on top of MySQL using
// database/sql.  Schema bootstrap and sample-data seeding live here so
// the process entry point only has to call Open, EnsureSchema and Seed.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"github.com/iliyamo/movie-crowdfund/internal/model"
	"github.com/iliyamo/movie-crowdfund/internal/utils"
)

// Store holds the shared connection pool.  It satisfies store.Store.
type Store struct {
	db *sql.DB
}

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*Store, error) {
	auth := user
	if pass != "" {
		auth = fmt.Sprintf("%s:%s", user, pass)
	}
	// parseTime=true -> DATETIME/TIMESTAMP -> time.Time | loc=UTC keeps times consistent
	dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, host, port, name)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// DB exposes the raw handle; used only by tests and bootstrap helpers.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the connection pool.
func (s *Store) Close(ctx context.Context) error { return s.db.Close() }

// EnsureSchema creates the three tables when they do not exist.  The
// DDL mirrors the layout the frontend expects: money columns are
// DECIMAL, ids are 36-char strings.
func (s *Store) EnsureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(36) PRIMARY KEY,
			username VARCHAR(255) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL UNIQUE,
			password VARCHAR(255) NOT NULL,
			role ENUM('investor','creator') NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS movies (
			id VARCHAR(36) PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			poster VARCHAR(255),
			director VARCHAR(255),
			producer VARCHAR(255),
			singer VARCHAR(255),
			hero VARCHAR(255),
			heroine VARCHAR(255),
			total_amount DECIMAL(15,2) NOT NULL,
			invested_amount DECIMAL(15,2) DEFAULT 0,
			stock_price DECIMAL(10,2) NOT NULL,
			creator_id VARCHAR(36),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (creator_id) REFERENCES users(id)
		)`,
		`CREATE TABLE IF NOT EXISTS investments (
			id VARCHAR(36) PRIMARY KEY,
			movie_id VARCHAR(36),
			investor_id VARCHAR(36),
			total_amount DECIMAL(15,2) NOT NULL,
			stock_count INT NOT NULL,
			stock_price DECIMAL(10,2) NOT NULL,
			payment_status ENUM('pending','completed','failed') DEFAULT 'pending',
			payment_method VARCHAR(50),
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (movie_id) REFERENCES movies(id),
			FOREIGN KEY (investor_id) REFERENCES users(id)
		)`,
		`CREATE TABLE IF NOT EXISTS notifications (
			id VARCHAR(36) PRIMARY KEY,
			user_id VARCHAR(36),
			message VARCHAR(512) NOT NULL,
			type VARCHAR(32) NOT NULL,
			` + "`read`" + ` BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,
	}
	for _, q := range stmts {
		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// Seed inserts demo users, movies and investments when the users table
// is empty.  Seeded passwords are bcrypt hashed like real signups; the
// seeded investments are completed, so the movie totals already satisfy
// the ledger invariant.
func (s *Store) Seed(ctx context.Context, bcryptCost int) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		return fmt.Errorf("seed count users: %w", err)
	}
	if count > 0 {
		return nil
	}
	log.Println("seeding sample data")

	hash, err := utils.HashPassword("password123", bcryptCost)
	if err != nil {
		return err
	}
	for _, u := range []model.User{
		{ID: "1", Username: "investor1", Email: "investor1@example.com", Role: model.RoleInvestor},
		{ID: "2", Username: "creator1", Email: "creator1@example.com", Role: model.RoleCreator},
	} {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO users (id, username, email, password, role) VALUES (?,?,?,?,?)`,
			u.ID, u.Username, u.Email, hash, u.Role); err != nil {
			return fmt.Errorf("seed users: %w", err)
		}
	}

	movies := []model.Movie{
		{ID: "1", Title: "The Last Adventure", Poster: "https://via.placeholder.com/300x450/1f2937/ffffff?text=The+Last+Adventure",
			Director: "John Director", Producer: "Jane Producer", Singer: "Music Artist", Hero: "Hero Actor", Heroine: "Heroine Actress",
			TotalAmount: 1000000, StockPrice: 100, CreatorID: "2"},
		{ID: "2", Title: "Future Dreams", Poster: "https://via.placeholder.com/300x450/1f2937/ffffff?text=Future+Dreams",
			Director: "Sarah Director", Producer: "Mike Producer", Singer: "Pop Singer", Hero: "Star Actor", Heroine: "Star Actress",
			TotalAmount: 2000000, StockPrice: 150, CreatorID: "2"},
		{ID: "3", Title: "Mountain Journey", Poster: "https://via.placeholder.com/300x450/1f2937/ffffff?text=Mountain+Journey",
			Director: "David Director", Producer: "Lisa Producer", Singer: "Rock Band", Hero: "Lead Actor", Heroine: "Lead Actress",
			TotalAmount: 1500000, StockPrice: 120, CreatorID: "2"},
	}
	for _, m := range movies {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO movies (id, title, poster, director, producer, singer, hero, heroine, total_amount, stock_price, creator_id)
			 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
			m.ID, m.Title, m.Poster, m.Director, m.Producer, m.Singer, m.Hero, m.Heroine,
			m.TotalAmount, m.StockPrice, m.CreatorID); err != nil {
			return fmt.Errorf("seed movies: %w", err)
		}
	}

	seedInvestments := []model.Investment{
		{ID: "1", MovieID: "1", InvestorID: "1", TotalAmount: 5000, StockCount: 50, StockPrice: 100,
			PaymentStatus: model.PaymentCompleted, PaymentMethod: "bank_transfer"},
		{ID: "2", MovieID: "2", InvestorID: "1", TotalAmount: 7500, StockCount: 50, StockPrice: 150,
			PaymentStatus: model.PaymentCompleted, PaymentMethod: "upi"},
	}
	for _, inv := range seedInvestments {
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO investments (id, movie_id, investor_id, total_amount, stock_count, stock_price, payment_status, payment_method)
			 VALUES (?,?,?,?,?,?,?,?)`,
			inv.ID, inv.MovieID, inv.InvestorID, inv.TotalAmount, inv.StockCount, inv.StockPrice,
			inv.PaymentStatus, inv.PaymentMethod); err != nil {
			return fmt.Errorf("seed investments: %w", err)
		}
		if _, err := s.db.ExecContext(ctx,
			`UPDATE movies SET invested_amount = invested_amount + ? WHERE id = ?`,
			inv.TotalAmount, inv.MovieID); err != nil {
			return fmt.Errorf("seed invested amounts: %w", err)
		}
	}
	return nil
}
