package mysql

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/movie-crowdfund/internal/model"
	"github.com/iliyamo/movie-crowdfund/internal/store"
)

const investmentCols = "id, movie_id, investor_id, total_amount, stock_count, stock_price, payment_status, payment_method, created_at"

func scanInvestment(row interface{ Scan(...any) error }) (*model.Investment, error) {
	var inv model.Investment
	var method sql.NullString
	err := row.Scan(&inv.ID, &inv.MovieID, &inv.InvestorID, &inv.TotalAmount,
		&inv.StockCount, &inv.StockPrice, &inv.PaymentStatus, &method, &inv.CreatedAt)
	if err != nil {
		return nil, err
	}
	inv.PaymentMethod = method.String
	return &inv, nil
}

// CreateInvestment inserts a pending investment row.
func (s *Store) CreateInvestment(ctx context.Context, inv *model.Investment) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO investments (id, movie_id, investor_id, total_amount, stock_count, stock_price, payment_status, created_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
		inv.ID, inv.MovieID, inv.InvestorID, inv.TotalAmount, inv.StockCount,
		inv.StockPrice, inv.PaymentStatus, inv.CreatedAt)
	return err
}

// GetInvestment fetches a single investment by id.
func (s *Store) GetInvestment(ctx context.Context, id string) (*model.Investment, error) {
	inv, err := scanInvestment(s.db.QueryRowContext(ctx,
		`SELECT `+investmentCols+` FROM investments WHERE id = ? LIMIT 1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrInvestmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// ListInvestments returns investments joined with the movie title.
// With a creator filter it covers every investment into that creator's
// movies; with an investor filter it covers that investor's purchases.
func (s *Store) ListInvestments(ctx context.Context, f store.InvestmentFilter) ([]model.Investment, error) {
	q := `SELECT i.id, i.movie_id, i.investor_id, i.total_amount, i.stock_count, i.stock_price,
				 i.payment_status, i.payment_method, i.created_at, m.title
		  FROM investments i
		  JOIN movies m ON m.id = i.movie_id`
	args := []any{}
	switch {
	case f.CreatorID != "":
		q += ` WHERE m.creator_id = ?`
		args = append(args, f.CreatorID)
	case f.InvestorID != "":
		q += ` WHERE i.investor_id = ?`
		args = append(args, f.InvestorID)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Investment, 0)
	for rows.Next() {
		var inv model.Investment
		var method sql.NullString
		if err := rows.Scan(&inv.ID, &inv.MovieID, &inv.InvestorID, &inv.TotalAmount,
			&inv.StockCount, &inv.StockPrice, &inv.PaymentStatus, &method,
			&inv.CreatedAt, &inv.MovieTitle); err != nil {
			return nil, err
		}
		inv.PaymentMethod = method.String
		out = append(out, inv)
	}
	return out, rows.Err()
}

// ConfirmPayment runs the pending->completed flip and the movie funding
// increment inside one transaction.  The status UPDATE is conditional
// on payment_status = 'pending', which makes a repeated confirmation
// fall through to ErrAlreadyCompleted instead of double-counting.
func (s *Store) ConfirmPayment(ctx context.Context, id, paymentMethod string) (*model.Investment, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	inv, err := scanInvestment(tx.QueryRowContext(ctx,
		`SELECT `+investmentCols+` FROM investments WHERE id = ? LIMIT 1 FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrInvestmentNotFound
	}
	if err != nil {
		return nil, err
	}
	if inv.PaymentStatus == model.PaymentCompleted {
		return nil, store.ErrAlreadyCompleted
	}

	res, err := tx.ExecContext(ctx,
		`UPDATE investments SET payment_status = ?, payment_method = ?
		 WHERE id = ? AND payment_status = ?`,
		model.PaymentCompleted, paymentMethod, id, model.PaymentPending)
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, store.ErrAlreadyCompleted
	}

	if err := applyFunding(ctx, tx, inv.MovieID, inv.TotalAmount); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	inv.PaymentStatus = model.PaymentCompleted
	inv.PaymentMethod = paymentMethod
	return inv, nil
}
