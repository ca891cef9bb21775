package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// User is an account holder. Hash is never rendered.
type User struct {
	ID        int64           `json:"id"`
	Username  string          `json:"username"`
	Hash      string          `json:"-"`
	Cash      decimal.Decimal `json:"cash"`
	CreatedAt time.Time       `json:"created_at"`
}

// Transaction is one immutable ledger entry. Shares is positive for a buy
// and negative for a sell; Price is the per-share quote at execution time.
type Transaction struct {
	ID     int64           `json:"id"`
	UserID int64           `json:"user_id"`
	Symbol string          `json:"symbol"`
	Shares int64           `json:"shares"`
	Price  decimal.Decimal `json:"price"`
	Time   time.Time       `json:"time"`
}

// Side reports "BUY" or "SELL".
func (t Transaction) Side() string {
	if t.Shares < 0 {
		return "SELL"
	}
	return "BUY"
}

// Amount is the absolute cash value of the transaction.
func (t Transaction) Amount() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(t.Shares)).Abs()
}

// Holding is the net share count of one symbol, derived from the ledger.
type Holding struct {
	Symbol string `json:"symbol"`
	Shares int64  `json:"shares"`
}

// Quote is a current price for a symbol.
type Quote struct {
	Symbol string          `json:"symbol"`
	Name   string          `json:"name"`
	Price  decimal.Decimal `json:"price"`
}

// Position is a holding valued at the current quote.
type Position struct {
	Symbol string
	Name   string
	Shares int64
	Price  decimal.Decimal
	Total  decimal.Decimal
}

// Portfolio is what the index page shows.
type Portfolio struct {
	Positions  []Position
	Cash       decimal.Decimal
	StockValue decimal.Decimal
	Total      decimal.Decimal
}

// TradeResult is returned by a successful buy or sell.
type TradeResult struct {
	Transaction Transaction
	Total       decimal.Decimal
	Cash        decimal.Decimal
}

// TradeForm is what the buy and sell forms post.
type TradeForm struct {
	Symbol string `form:"symbol" binding:"required"`
	Shares int64  `form:"shares" binding:"required,gt=0"`
}

// QuoteForm is what the quote form posts.
type QuoteForm struct {
	Symbol string `form:"symbol" binding:"required"`
}

// LoginForm is what the login form posts. Emptiness is checked by
// auth.Service, not by binding tags, so the rules hold outside HTTP too.
type LoginForm struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// RegisterForm is what the registration form posts.
type RegisterForm struct {
	Username     string `form:"username"`
	Password     string `form:"password"`
	Confirmation string `form:"confirmation"`
}
