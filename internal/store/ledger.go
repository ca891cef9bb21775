package store

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/atharvakonge/stocksim/internal/db"
	"github.com/atharvakonge/stocksim/internal/models"
)

// Ledger is the append-only transaction log. Holdings are never stored;
// they are summed from the log on every read.
type Ledger struct {
	db  *db.DB
	now func() time.Time
}

// NewLedger creates a ledger backed by d.
func NewLedger(d *db.DB) *Ledger {
	return &Ledger{db: d, now: time.Now}
}

// Record appends one entry. It does not validate anything: affordability
// and ownership are the caller's job.
func (l *Ledger) Record(ctx context.Context, q db.Querier, userID int64, symbol string, shares int64, price decimal.Decimal) (models.Transaction, error) {
	t := models.Transaction{
		UserID: userID,
		Symbol: symbol,
		Shares: shares,
		Price:  price,
		Time:   l.now().UTC(),
	}
	err := q.QueryRowContext(ctx,
		l.db.Rebind("INSERT INTO transactions (user_id, symbol, shares, price, time) VALUES (?, ?, ?, ?, ?) RETURNING id"),
		t.UserID, t.Symbol, t.Shares, t.Price, t.Time,
	).Scan(&t.ID)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("%w: record transaction: %w", models.ErrPersistence, err)
	}
	return t, nil
}

// Holdings returns net shares per symbol, sorted by symbol. Closed
// positions (net zero) are left out.
func (l *Ledger) Holdings(ctx context.Context, q db.Querier, userID int64) ([]models.Holding, error) {
	rows, err := q.QueryContext(ctx, l.db.Rebind(`
		SELECT symbol, SUM(shares)
		FROM transactions
		WHERE user_id = ?
		GROUP BY symbol
		HAVING SUM(shares) <> 0
		ORDER BY symbol`), userID)
	if err != nil {
		return nil, fmt.Errorf("%w: holdings: %w", models.ErrPersistence, err)
	}
	defer rows.Close()

	holdings := make([]models.Holding, 0)
	for rows.Next() {
		var h models.Holding
		if err := rows.Scan(&h.Symbol, &h.Shares); err != nil {
			return nil, fmt.Errorf("%w: holdings: %w", models.ErrPersistence, err)
		}
		holdings = append(holdings, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: holdings: %w", models.ErrPersistence, err)
	}
	return holdings, nil
}

// Holding returns the net shares of one symbol, zero if never traded.
func (l *Ledger) Holding(ctx context.Context, q db.Querier, userID int64, symbol string) (int64, error) {
	var shares int64
	err := q.QueryRowContext(ctx,
		l.db.Rebind("SELECT COALESCE(SUM(shares), 0) FROM transactions WHERE user_id = ? AND symbol = ?"),
		userID, symbol,
	).Scan(&shares)
	if err != nil {
		return 0, fmt.Errorf("%w: holding: %w", models.ErrPersistence, err)
	}
	return shares, nil
}

// History returns every entry for the user, most recent first.
func (l *Ledger) History(ctx context.Context, q db.Querier, userID int64) ([]models.Transaction, error) {
	rows, err := q.QueryContext(ctx, l.db.Rebind(`
		SELECT id, user_id, symbol, shares, price, time
		FROM transactions
		WHERE user_id = ?
		ORDER BY time DESC, id DESC`), userID)
	if err != nil {
		return nil, fmt.Errorf("%w: history: %w", models.ErrPersistence, err)
	}
	defer rows.Close()

	history := make([]models.Transaction, 0)
	for rows.Next() {
		var t models.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Symbol, &t.Shares, &t.Price, &t.Time); err != nil {
			return nil, fmt.Errorf("%w: history: %w", models.ErrPersistence, err)
		}
		history = append(history, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: history: %w", models.ErrPersistence, err)
	}
	return history, nil
}
