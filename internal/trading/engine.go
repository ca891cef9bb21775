// Package trading validates and executes simulated buys and sells.
//
// Every trade moves cash and appends to the ledger inside a single
// database transaction; a trade either applies fully or not at all.
package trading

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/atharvakonge/stocksim/internal/db"
	"github.com/atharvakonge/stocksim/internal/metrics"
	"github.com/atharvakonge/stocksim/internal/models"
	"github.com/atharvakonge/stocksim/internal/quote"
	"github.com/atharvakonge/stocksim/internal/store"
	"github.com/atharvakonge/stocksim/pkg/logger"
)

// Engine executes trades for authenticated users.
type Engine struct {
	db       *db.DB
	accounts *store.Accounts
	ledger   *store.Ledger
	quotes   quote.Provider
	locks    *userLocks
}

// NewEngine creates a trading engine over the given stores and quote source.
func NewEngine(d *db.DB, accounts *store.Accounts, ledger *store.Ledger, quotes quote.Provider) *Engine {
	return &Engine{
		db:       d,
		accounts: accounts,
		ledger:   ledger,
		quotes:   quotes,
		locks:    newUserLocks(),
	}
}

// Buy purchases shares at the current quote.
func (e *Engine) Buy(ctx context.Context, userID int64, symbol string, shares int64) (res models.TradeResult, err error) {
	defer func() { metrics.TradesTotal.WithLabelValues("buy", outcome(err)).Inc() }()

	symbol, err = validate(symbol, shares)
	if err != nil {
		return models.TradeResult{}, err
	}

	q, err := e.quotes.Lookup(ctx, symbol)
	if err != nil {
		return models.TradeResult{}, err
	}
	total := q.Price.Mul(decimal.NewFromInt(shares))

	unlock := e.locks.Lock(userID)
	defer unlock()

	err = e.db.InTx(ctx, func(tx db.Querier) error {
		cash, err := e.accounts.CashForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		if total.GreaterThan(cash) {
			return fmt.Errorf("%w: %d %s costs %s, cash is %s",
				models.ErrInsufficientFunds, shares, q.Symbol, total.StringFixed(2), cash.StringFixed(2))
		}

		if err := e.accounts.AdjustCash(ctx, tx, userID, total.Neg()); err != nil {
			return err
		}
		t, err := e.ledger.Record(ctx, tx, userID, q.Symbol, shares, q.Price)
		if err != nil {
			return err
		}

		res = models.TradeResult{Transaction: t, Total: total, Cash: cash.Sub(total)}
		return nil
	})
	if err != nil {
		return models.TradeResult{}, err
	}

	log := logger.Get()
	log.Info().
		Int64("user_id", userID).
		Str("symbol", q.Symbol).
		Int64("shares", shares).
		Str("price", q.Price.String()).
		Int64("trade_id", res.Transaction.ID).
		Msg("buy executed")
	return res, nil
}

// Sell disposes of owned shares at the current quote.
func (e *Engine) Sell(ctx context.Context, userID int64, symbol string, shares int64) (res models.TradeResult, err error) {
	defer func() { metrics.TradesTotal.WithLabelValues("sell", outcome(err)).Inc() }()

	symbol, err = validate(symbol, shares)
	if err != nil {
		return models.TradeResult{}, err
	}

	owned, err := e.ledger.Holding(ctx, e.db, userID, symbol)
	if err != nil {
		return models.TradeResult{}, err
	}
	if shares > owned {
		return models.TradeResult{}, fmt.Errorf("%w: own %d %s, tried to sell %d",
			models.ErrInsufficientShares, owned, symbol, shares)
	}

	q, err := e.quotes.Lookup(ctx, symbol)
	if err != nil {
		return models.TradeResult{}, err
	}
	total := q.Price.Mul(decimal.NewFromInt(shares))

	unlock := e.locks.Lock(userID)
	defer unlock()

	err = e.db.InTx(ctx, func(tx db.Querier) error {
		// Locking the user row first keeps a concurrent sell on another
		// process from slipping in between the recheck and the insert.
		cash, err := e.accounts.CashForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		owned, err := e.ledger.Holding(ctx, tx, userID, symbol)
		if err != nil {
			return err
		}
		if shares > owned {
			return fmt.Errorf("%w: own %d %s, tried to sell %d",
				models.ErrInsufficientShares, owned, symbol, shares)
		}

		if err := e.accounts.AdjustCash(ctx, tx, userID, total); err != nil {
			return err
		}
		t, err := e.ledger.Record(ctx, tx, userID, symbol, -shares, q.Price)
		if err != nil {
			return err
		}

		res = models.TradeResult{Transaction: t, Total: total, Cash: cash.Add(total)}
		return nil
	})
	if err != nil {
		return models.TradeResult{}, err
	}

	log := logger.Get()
	log.Info().
		Int64("user_id", userID).
		Str("symbol", symbol).
		Int64("shares", shares).
		Str("price", q.Price.String()).
		Int64("trade_id", res.Transaction.ID).
		Msg("sell executed")
	return res, nil
}

// Portfolio values every open position at the current quote. A symbol
// whose quote cannot be fetched is shown at price zero rather than
// failing the whole page.
func (e *Engine) Portfolio(ctx context.Context, userID int64) (models.Portfolio, error) {
	cash, err := e.accounts.Cash(ctx, e.db, userID)
	if err != nil {
		return models.Portfolio{}, err
	}
	holdings, err := e.ledger.Holdings(ctx, e.db, userID)
	if err != nil {
		return models.Portfolio{}, err
	}

	p := models.Portfolio{
		Positions:  make([]models.Position, 0, len(holdings)),
		Cash:       cash,
		StockValue: decimal.Zero,
	}
	for _, h := range holdings {
		pos := models.Position{Symbol: h.Symbol, Shares: h.Shares, Price: decimal.Zero}
		q, err := e.quotes.Lookup(ctx, h.Symbol)
		if err != nil {
			log := logger.Get()
			log.Warn().Err(err).Str("symbol", h.Symbol).Msg("quote unavailable, valuing position at zero")
		} else {
			pos.Name = q.Name
			pos.Price = q.Price
		}
		pos.Total = pos.Price.Mul(decimal.NewFromInt(pos.Shares))
		p.StockValue = p.StockValue.Add(pos.Total)
		p.Positions = append(p.Positions, pos)
	}
	p.Total = p.Cash.Add(p.StockValue)
	return p, nil
}

// Holdings lists the user's open positions, for the sell form.
func (e *Engine) Holdings(ctx context.Context, userID int64) ([]models.Holding, error) {
	return e.ledger.Holdings(ctx, e.db, userID)
}

// History lists the user's transactions, most recent first.
func (e *Engine) History(ctx context.Context, userID int64) ([]models.Transaction, error) {
	return e.ledger.History(ctx, e.db, userID)
}

// Quote looks up a symbol for display.
func (e *Engine) Quote(ctx context.Context, symbol string) (models.Quote, error) {
	symbol = quote.Normalize(symbol)
	if symbol == "" {
		return models.Quote{}, fmt.Errorf("%w: must provide symbol", models.ErrValidation)
	}
	return e.quotes.Lookup(ctx, symbol)
}

func validate(symbol string, shares int64) (string, error) {
	symbol = quote.Normalize(symbol)
	if symbol == "" {
		return "", fmt.Errorf("%w: must provide stock symbol", models.ErrValidation)
	}
	if shares <= 0 {
		return "", fmt.Errorf("%w: must provide valid number of shares", models.ErrValidation)
	}
	return symbol, nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, models.ErrValidation):
		return "invalid_input"
	case errors.Is(err, models.ErrUnknownSymbol):
		return "unknown_symbol"
	case errors.Is(err, models.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, models.ErrInsufficientShares):
		return "insufficient_shares"
	default:
		return "error"
	}
}
