package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/atharvakonge/stocksim/internal/db"
	"github.com/atharvakonge/stocksim/internal/models"
)

// Accounts reads and moves cash balances.
type Accounts struct {
	db *db.DB
}

// NewAccounts creates an Accounts store over d.
func NewAccounts(d *db.DB) *Accounts {
	return &Accounts{db: d}
}

// Cash returns the current balance.
func (a *Accounts) Cash(ctx context.Context, q db.Querier, userID int64) (decimal.Decimal, error) {
	return a.cash(ctx, q, "SELECT cash FROM users WHERE id = ?", userID)
}

// CashForUpdate is Cash plus a row lock where the dialect supports one.
// Only meaningful inside db.InTx.
func (a *Accounts) CashForUpdate(ctx context.Context, q db.Querier, userID int64) (decimal.Decimal, error) {
	return a.cash(ctx, q, "SELECT cash FROM users WHERE id = ?"+a.db.ForUpdate(), userID)
}

func (a *Accounts) cash(ctx context.Context, q db.Querier, query string, userID int64) (decimal.Decimal, error) {
	var cash decimal.Decimal
	err := q.QueryRowContext(ctx, a.db.Rebind(query), userID).Scan(&cash)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, models.ErrUserNotFound
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: read cash: %w", models.ErrPersistence, err)
	}
	return cash, nil
}

// AdjustCash adds delta (which may be negative) to the balance. The sum
// is computed here rather than in SQL so it stays exact on SQLite; call
// it inside db.InTx so the read and the write see the same row.
func (a *Accounts) AdjustCash(ctx context.Context, q db.Querier, userID int64, delta decimal.Decimal) error {
	cash, err := a.CashForUpdate(ctx, q, userID)
	if err != nil {
		return err
	}

	res, err := q.ExecContext(ctx, a.db.Rebind("UPDATE users SET cash = ? WHERE id = ?"), cash.Add(delta), userID)
	if err != nil {
		return fmt.Errorf("%w: adjust cash: %w", models.ErrPersistence, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: adjust cash: %w", models.ErrPersistence, err)
	}
	if n == 0 {
		return models.ErrUserNotFound
	}
	return nil
}
