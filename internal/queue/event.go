// Package queue defines message payloads exchanged over the message broker.
package queue

// InvestmentConfirmedEvent is published when a payment is confirmed and
// the movie's funding total has been updated.  It carries enough
// information for downstream consumers to log or notify without
// querying the primary database.
type InvestmentConfirmedEvent struct {
	InvestmentID  string  `json:"investment_id"`
	MovieID       string  `json:"movie_id"`
	MovieTitle    string  `json:"movie_title"`
	CreatorID     string  `json:"creator_id"`
	InvestorID    string  `json:"investor_id"`
	StockCount    int64   `json:"stock_count"`
	TotalAmount   float64 `json:"total_amount"`
	PaymentMethod string  `json:"payment_method"`
	ConfirmedAt   string  `json:"confirmed_at"`
}
