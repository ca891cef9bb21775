package quote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atharvakonge/stocksim/internal/models"
)

// newTestPolygon points a Polygon provider at a local server.
func newTestPolygon(t *testing.T, mux *http.ServeMux) *Polygon {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	c := polygon.NewWithClient("test-key", srv.Client())
	c.HTTP.SetBaseURL(srv.URL)
	c.HTTP.SetRetryCount(0)
	return &Polygon{client: c}
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestPolygonLookup(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/aggs/ticker/AAPL/prev", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, `{"status":"OK","ticker":"AAPL","resultsCount":1,"results":[{"T":"AAPL","c":189.987}]}`)
	})
	mux.HandleFunc("/v3/reference/tickers/AAPL", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"status":"OK","results":{"ticker":"AAPL","name":"Apple Inc."}}`)
	})
	p := newTestPolygon(t, mux)

	q, err := p.Lookup(context.Background(), " aapl ")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", q.Symbol)
	assert.Equal(t, "Apple Inc.", q.Name)
	assert.True(t, q.Price.Equal(decimal.RequireFromString("189.99")), "price = %s", q.Price)
}

func TestPolygonNameFallsBackToSymbol(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/aggs/ticker/XYZ/prev", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"status":"OK","results":[{"c":12.5}]}`)
	})
	mux.HandleFunc("/v3/reference/tickers/XYZ", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, `{"status":"NOT_FOUND","error":"ticker not found"}`)
	})
	p := newTestPolygon(t, mux)

	q, err := p.Lookup(context.Background(), "XYZ")
	require.NoError(t, err)
	assert.Equal(t, "XYZ", q.Name)
	assert.True(t, q.Price.Equal(decimal.RequireFromString("12.5")))
}

func TestPolygonUnknownSymbol(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/aggs/ticker/ZZZZ/prev", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, `{"status":"OK","resultsCount":0,"results":[]}`)
	})
	p := newTestPolygon(t, mux)

	_, err := p.Lookup(context.Background(), "ZZZZ")
	assert.ErrorIs(t, err, models.ErrUnknownSymbol)

	_, err = p.Lookup(context.Background(), "  ")
	assert.ErrorIs(t, err, models.ErrUnknownSymbol)
}

func TestPolygonUpstreamFailure(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/aggs/ticker/AAPL/prev", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"status":"ERROR","error":"boom"}`)
	})
	p := newTestPolygon(t, mux)

	_, err := p.Lookup(context.Background(), "AAPL")
	require.Error(t, err)
	assert.False(t, errors.Is(err, models.ErrUnknownSymbol))
}
