// Package ledger implements the investment workflow: the two-phase
// reserve-then-confirm process that keeps every movie's invested total
// equal to the sum of its completed investments.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/movie-crowdfund/internal/model"
	"github.com/iliyamo/movie-crowdfund/internal/queue"
	"github.com/iliyamo/movie-crowdfund/internal/store"
)

// ErrCapacityExceeded is returned by InitiateInvestment when the
// requested stock count exceeds what the movie can still sell.
var ErrCapacityExceeded = errors.New("not enough stocks available")

// Publisher emits domain events after a payment is confirmed.  The
// broker is best-effort: publish failures are logged and never fail
// the request.
type Publisher interface {
	PublishInvestmentConfirmed(ctx context.Context, ev queue.InvestmentConfirmedEvent) error
}

// Workflow drives investments from pending to completed.
type Workflow struct {
	store     store.Store
	publisher Publisher // may be nil when no broker is configured
}

// New constructs a Workflow.  publisher may be nil.
func New(st store.Store, publisher Publisher) *Workflow {
	if st == nil {
		panic("nil store passed to ledger.New")
	}
	return &Workflow{store: st, publisher: publisher}
}

// InitiateInvestment creates a pending investment for stockCount units
// of the movie's stock.  The committed amount is derived here from the
// movie's stock price; client-supplied totals are never trusted.  The
// capacity check is computed fresh from the movie's current funding
// state and reserves nothing: overcommit by concurrent initiations is
// caught later by the guarded increment at confirmation time.
func (w *Workflow) InitiateInvestment(ctx context.Context, movieID, investorID string, stockCount int64) (*model.Investment, error) {
	if stockCount <= 0 {
		return nil, ErrCapacityExceeded
	}
	movie, err := w.store.GetMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	if stockCount > movie.AvailableStocks() {
		return nil, ErrCapacityExceeded
	}

	inv := &model.Investment{
		ID:            uuid.NewString(),
		MovieID:       movie.ID,
		InvestorID:    investorID,
		TotalAmount:   float64(stockCount) * movie.StockPrice,
		StockCount:    stockCount,
		StockPrice:    movie.StockPrice,
		PaymentStatus: model.PaymentPending,
		CreatedAt:     time.Now().UTC(),
	}
	if err := w.store.CreateInvestment(ctx, inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// ConfirmPayment completes a pending investment.  The store applies
// the status flip and the movie funding increment as one durable unit;
// a repeated confirmation surfaces store.ErrAlreadyCompleted and the
// increment is applied exactly once.  On success a notification is
// written for the movie's creator and an event is published.
func (w *Workflow) ConfirmPayment(ctx context.Context, investmentID, paymentMethod string) (*model.Investment, error) {
	inv, err := w.store.ConfirmPayment(ctx, investmentID, paymentMethod)
	if err != nil {
		return nil, err
	}

	movie, err := w.store.GetMovie(ctx, inv.MovieID)
	if err != nil {
		// The confirmation is already durable; only the follow-ups are lost.
		log.Printf("ledger: load movie after confirm failed: %v", err)
		return inv, nil
	}

	note := &model.Notification{
		ID:        uuid.NewString(),
		UserID:    movie.CreatorID,
		Message:   fmt.Sprintf("New investment received for %q - $%.2f", movie.Title, inv.TotalAmount),
		Type:      model.NotificationInvestment,
		CreatedAt: time.Now().UTC(),
	}
	if err := w.store.CreateNotification(ctx, note); err != nil {
		log.Printf("ledger: create notification failed: %v", err)
	}

	if w.publisher != nil {
		ev := queue.InvestmentConfirmedEvent{
			InvestmentID:  inv.ID,
			MovieID:       movie.ID,
			MovieTitle:    movie.Title,
			CreatorID:     movie.CreatorID,
			InvestorID:    inv.InvestorID,
			StockCount:    inv.StockCount,
			TotalAmount:   inv.TotalAmount,
			PaymentMethod: paymentMethod,
			ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		if err := w.publisher.PublishInvestmentConfirmed(ctx, ev); err != nil {
			log.Printf("ledger: publish investment.confirmed failed: %v", err)
		}
	}
	return inv, nil
}

// PaymentURL is the follow-up reference handed back after initiation;
// the frontend routes it to the payment screen.
func PaymentURL(investmentID string) string {
	return "/investor/payment/" + investmentID
}
