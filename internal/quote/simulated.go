package quote

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/atharvakonge/stocksim/internal/models"
)

// Simulated serves quotes from an in-process table. It is the default
// provider for development and the one tests use.
type Simulated struct {
	mu     sync.RWMutex
	quotes map[string]models.Quote
}

// NewSimulated seeds the table with a handful of well-known tickers.
func NewSimulated() *Simulated {
	return NewSimulatedWith(
		models.Quote{Symbol: "AAPL", Name: "Apple Inc.", Price: decimal.RequireFromString("150.00")},
		models.Quote{Symbol: "GOOGL", Name: "Alphabet Inc.", Price: decimal.RequireFromString("140.00")},
		models.Quote{Symbol: "MSFT", Name: "Microsoft Corporation", Price: decimal.RequireFromString("380.00")},
		models.Quote{Symbol: "TSLA", Name: "Tesla, Inc.", Price: decimal.RequireFromString("250.00")},
		models.Quote{Symbol: "AMZN", Name: "Amazon.com, Inc.", Price: decimal.RequireFromString("180.00")},
	)
}

// NewSimulatedWith creates a provider that knows only the given quotes.
func NewSimulatedWith(quotes ...models.Quote) *Simulated {
	s := &Simulated{quotes: make(map[string]models.Quote, len(quotes))}
	for _, q := range quotes {
		q.Symbol = Normalize(q.Symbol)
		s.quotes[q.Symbol] = q
	}
	return s
}

// Set changes (or adds) the price of a symbol.
func (s *Simulated) Set(symbol string, price decimal.Decimal) {
	symbol = Normalize(symbol)
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quotes[symbol]
	if !ok {
		q = models.Quote{Symbol: symbol, Name: symbol}
	}
	q.Price = price
	s.quotes[symbol] = q
}

// Remove drops a symbol so later lookups miss.
func (s *Simulated) Remove(symbol string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.quotes, Normalize(symbol))
}

func (s *Simulated) Lookup(_ context.Context, symbol string) (models.Quote, error) {
	symbol = Normalize(symbol)
	s.mu.RLock()
	defer s.mu.RUnlock()
	q, ok := s.quotes[symbol]
	if !ok {
		return models.Quote{}, fmt.Errorf("%w: %s", models.ErrUnknownSymbol, symbol)
	}
	return q, nil
}
