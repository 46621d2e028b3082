package model

import "time"

// Payment status values for an investment.  An investment is created
// pending and moves to completed exactly once when its payment is
// confirmed.  The failed state exists in the schema for future use; no
// operation currently sets it.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
)

// Investment records a stock purchase against a movie.  TotalAmount and
// StockPrice are snapshots taken at creation time; once the payment is
// completed the record is immutable.
//
// Fields:
//  ID            – primary key identifier (UUID string).
//  MovieID       – movie being funded.
//  InvestorID    – user making the investment.
//  TotalAmount   – money committed (stock_count * stock_price).
//  StockCount    – number of stock units purchased.
//  StockPrice    – per-unit price snapshot at creation.
//  PaymentStatus – pending, completed or failed.
//  PaymentMethod – set only when the payment completes.
//  MovieTitle    – joined movie title, populated by list queries only.
//  CreatedAt     – creation timestamp.
type Investment struct {
	ID            string    `json:"id" bson:"_id"`
	MovieID       string    `json:"movie_id" bson:"movie_id"`
	InvestorID    string    `json:"investor_id" bson:"investor_id"`
	TotalAmount   float64   `json:"total_amount" bson:"total_amount"`
	StockCount    int64     `json:"stock_count" bson:"stock_count"`
	StockPrice    float64   `json:"stock_price" bson:"stock_price"`
	PaymentStatus string    `json:"payment_status" bson:"payment_status"`
	PaymentMethod string    `json:"payment_method,omitempty" bson:"payment_method,omitempty"`
	MovieTitle    string    `json:"movie_title,omitempty" bson:"-"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
}
