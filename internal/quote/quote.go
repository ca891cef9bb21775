// Package quote looks up current share prices.
package quote

import (
	"context"
	"strings"

	"github.com/atharvakonge/stocksim/internal/models"
)

// Provider returns the current quote for a symbol, or an error wrapping
// models.ErrUnknownSymbol when the symbol does not exist.
type Provider interface {
	Lookup(ctx context.Context, symbol string) (models.Quote, error)
}

// Normalize trims and upper-cases a ticker symbol.
func Normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
