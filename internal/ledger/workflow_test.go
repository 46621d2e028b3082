package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/movie-crowdfund/internal/ledger"
	"github.com/iliyamo/movie-crowdfund/internal/model"
	"github.com/iliyamo/movie-crowdfund/internal/queue"
	"github.com/iliyamo/movie-crowdfund/internal/store"
	"github.com/iliyamo/movie-crowdfund/internal/store/memory"
)

// capturePublisher records events instead of talking to a broker.
type capturePublisher struct {
	events []queue.InvestmentConfirmedEvent
}

func (p *capturePublisher) PublishInvestmentConfirmed(ctx context.Context, ev queue.InvestmentConfirmedEvent) error {
	p.events = append(p.events, ev)
	return nil
}

func newMovie(t *testing.T, st *memory.Store, total, price float64) *model.Movie {
	t.Helper()
	m := &model.Movie{
		ID:          "m-" + t.Name(),
		Title:       "Test Feature",
		TotalAmount: total,
		StockPrice:  price,
		CreatorID:   "creator-1",
		CreatedAt:   time.Now().UTC(),
	}
	require.NoError(t, st.CreateMovie(context.Background(), m))
	return m
}

func TestInitiateInvestmentDerivesTotal(t *testing.T) {
	st := memory.New()
	wf := ledger.New(st, nil)
	movie := newMovie(t, st, 1_000_000, 100)

	inv, err := wf.InitiateInvestment(context.Background(), movie.ID, "investor-1", 50)
	require.NoError(t, err)

	assert.NotEmpty(t, inv.ID)
	assert.Equal(t, movie.ID, inv.MovieID)
	assert.Equal(t, int64(50), inv.StockCount)
	assert.Equal(t, 100.0, inv.StockPrice)
	assert.Equal(t, 5000.0, inv.TotalAmount)
	assert.Equal(t, model.PaymentPending, inv.PaymentStatus)

	// A pending investment must not move the movie's funding.
	got, err := st.GetMovie(context.Background(), movie.ID)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got.InvestedAmount)
}

func TestInitiateInvestmentCapacityBoundary(t *testing.T) {
	st := memory.New()
	wf := ledger.New(st, nil)
	movie := newMovie(t, st, 1_000_000, 100)

	// Exactly all 10000 available stocks is allowed.
	inv, err := wf.InitiateInvestment(context.Background(), movie.ID, "investor-1", 10000)
	require.NoError(t, err)
	assert.Equal(t, 1_000_000.0, inv.TotalAmount)

	// One more than available is rejected and no record is created.
	st2 := memory.New()
	wf2 := ledger.New(st2, nil)
	movie2 := newMovie(t, st2, 1_000_000, 100)

	_, err = wf2.InitiateInvestment(context.Background(), movie2.ID, "investor-1", 10001)
	assert.ErrorIs(t, err, ledger.ErrCapacityExceeded)

	list, err := st2.ListInvestments(context.Background(), store.InvestmentFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestInitiateInvestmentRejectsNonPositiveCount(t *testing.T) {
	st := memory.New()
	wf := ledger.New(st, nil)
	movie := newMovie(t, st, 10_000, 100)

	for _, n := range []int64{0, -1} {
		_, err := wf.InitiateInvestment(context.Background(), movie.ID, "investor-1", n)
		assert.ErrorIs(t, err, ledger.ErrCapacityExceeded)
	}
}

func TestInitiateInvestmentUnknownMovie(t *testing.T) {
	wf := ledger.New(memory.New(), nil)
	_, err := wf.InitiateInvestment(context.Background(), "missing", "investor-1", 1)
	assert.ErrorIs(t, err, store.ErrMovieNotFound)
}

func TestConfirmPaymentUpdatesLedger(t *testing.T) {
	st := memory.New()
	pub := &capturePublisher{}
	wf := ledger.New(st, pub)
	movie := newMovie(t, st, 1_000_000, 100)

	pending, err := wf.InitiateInvestment(context.Background(), movie.ID, "investor-1", 30)
	require.NoError(t, err)

	inv, err := wf.ConfirmPayment(context.Background(), pending.ID, "upi")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, inv.PaymentStatus)
	assert.Equal(t, "upi", inv.PaymentMethod)

	got, err := st.GetMovie(context.Background(), movie.ID)
	require.NoError(t, err)
	assert.Equal(t, 3000.0, got.InvestedAmount)

	// The creator gets a notification about the confirmed investment.
	notes, err := st.ListNotifications(context.Background(), movie.CreatorID)
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, model.NotificationInvestment, notes[0].Type)
	assert.Contains(t, notes[0].Message, movie.Title)

	// And the confirmed event goes out on the queue.
	require.Len(t, pub.events, 1)
	assert.Equal(t, pending.ID, pub.events[0].InvestmentID)
	assert.Equal(t, 3000.0, pub.events[0].TotalAmount)
	assert.Equal(t, "upi", pub.events[0].PaymentMethod)
}

func TestConfirmPaymentIdempotent(t *testing.T) {
	st := memory.New()
	wf := ledger.New(st, nil)
	movie := newMovie(t, st, 1_000_000, 100)

	pending, err := wf.InitiateInvestment(context.Background(), movie.ID, "investor-1", 10)
	require.NoError(t, err)

	_, err = wf.ConfirmPayment(context.Background(), pending.ID, "card")
	require.NoError(t, err)

	_, err = wf.ConfirmPayment(context.Background(), pending.ID, "card")
	assert.ErrorIs(t, err, store.ErrAlreadyCompleted)

	// The funding increment was applied exactly once.
	got, err := st.GetMovie(context.Background(), movie.ID)
	require.NoError(t, err)
	assert.Equal(t, 1000.0, got.InvestedAmount)
}

func TestConfirmPaymentGuardsOverfunding(t *testing.T) {
	st := memory.New()
	wf := ledger.New(st, nil)
	movie := newMovie(t, st, 10_000, 100)

	// Two initiations see enough capacity before either is confirmed.
	first, err := wf.InitiateInvestment(context.Background(), movie.ID, "investor-1", 80)
	require.NoError(t, err)
	second, err := wf.InitiateInvestment(context.Background(), movie.ID, "investor-2", 80)
	require.NoError(t, err)

	_, err = wf.ConfirmPayment(context.Background(), first.ID, "card")
	require.NoError(t, err)

	// Confirming the second would push funding past the target.
	_, err = wf.ConfirmPayment(context.Background(), second.ID, "card")
	assert.ErrorIs(t, err, store.ErrFundingExceeded)

	got, err := st.GetMovie(context.Background(), movie.ID)
	require.NoError(t, err)
	assert.Equal(t, 8000.0, got.InvestedAmount)

	// The rejected investment stays pending.
	stale, err := st.GetInvestment(context.Background(), second.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPending, stale.PaymentStatus)
}

func TestInvestedAmountMatchesCompletedInvestments(t *testing.T) {
	st := memory.New()
	wf := ledger.New(st, nil)
	movie := newMovie(t, st, 1_000_000, 100)

	ids := make([]string, 0, 4)
	for _, n := range []int64{10, 20, 30, 40} {
		inv, err := wf.InitiateInvestment(context.Background(), movie.ID, "investor-1", n)
		require.NoError(t, err)
		ids = append(ids, inv.ID)
	}
	// Confirm all but the last; the pending one must not count.
	for _, id := range ids[:3] {
		_, err := wf.ConfirmPayment(context.Background(), id, "card")
		require.NoError(t, err)
	}

	var completed float64
	list, err := st.ListInvestments(context.Background(), store.InvestmentFilter{})
	require.NoError(t, err)
	for _, inv := range list {
		if inv.PaymentStatus == model.PaymentCompleted {
			completed += inv.TotalAmount
		}
	}

	got, err := st.GetMovie(context.Background(), movie.ID)
	require.NoError(t, err)
	assert.Equal(t, completed, got.InvestedAmount)
	assert.Equal(t, 6000.0, got.InvestedAmount)
}

func TestPaymentURL(t *testing.T) {
	assert.Equal(t, "/investor/payment/abc", ledger.PaymentURL("abc"))
}
