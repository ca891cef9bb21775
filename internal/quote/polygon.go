package quote

import (
	"context"
	"fmt"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/shopspring/decimal"

	stocksim "github.com/atharvakonge/stocksim/internal/models"
	"github.com/atharvakonge/stocksim/pkg/logger"
)

// Polygon prices a symbol at its previous session close from polygon.io.
type Polygon struct {
	client *polygon.Client
}

// NewPolygon creates a provider authenticating with apiKey.
func NewPolygon(apiKey string) *Polygon {
	return &Polygon{client: polygon.New(apiKey)}
}

func (p *Polygon) Lookup(ctx context.Context, symbol string) (stocksim.Quote, error) {
	symbol = Normalize(symbol)
	if symbol == "" {
		return stocksim.Quote{}, fmt.Errorf("%w: empty symbol", stocksim.ErrUnknownSymbol)
	}

	res, err := p.client.GetPreviousCloseAgg(ctx, &models.GetPreviousCloseAggParams{Ticker: symbol})
	if err != nil {
		return stocksim.Quote{}, fmt.Errorf("polygon previous close %s: %w", symbol, err)
	}
	if len(res.Results) == 0 || res.Results[0].Close <= 0 {
		return stocksim.Quote{}, fmt.Errorf("%w: %s", stocksim.ErrUnknownSymbol, symbol)
	}

	q := stocksim.Quote{
		Symbol: symbol,
		Name:   symbol,
		Price:  decimal.NewFromFloat(res.Results[0].Close).Round(2),
	}

	// The name is cosmetic; a failure here must not fail the lookup.
	details, err := p.client.GetTickerDetails(ctx, &models.GetTickerDetailsParams{Ticker: symbol})
	if err != nil {
		log := logger.Get()
		log.Debug().Err(err).Str("symbol", symbol).Msg("ticker details unavailable")
	} else if details.Results.Name != "" {
		q.Name = details.Results.Name
	}
	return q, nil
}
