package quote

import (
	"context"
	"errors"
	"time"

	"github.com/atharvakonge/stocksim/internal/metrics"
	"github.com/atharvakonge/stocksim/internal/models"
)

// Instrumented records lookup counts and latency for the wrapped provider.
type Instrumented struct {
	next Provider
	name string
}

// NewInstrumented wraps next, labelling its metrics with name.
func NewInstrumented(next Provider, name string) *Instrumented {
	return &Instrumented{next: next, name: name}
}

func (i *Instrumented) Lookup(ctx context.Context, symbol string) (models.Quote, error) {
	start := time.Now()
	q, err := i.next.Lookup(ctx, symbol)
	metrics.QuoteLookupDuration.WithLabelValues(i.name).Observe(time.Since(start).Seconds())

	result := "hit"
	switch {
	case errors.Is(err, models.ErrUnknownSymbol):
		result = "miss"
	case err != nil:
		result = "error"
	}
	metrics.QuoteLookupsTotal.WithLabelValues(i.name, result).Inc()
	return q, err
}
