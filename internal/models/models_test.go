package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestTransactionSideAndAmount(t *testing.T) {
	buy := Transaction{Symbol: "AAA", Shares: 10, Price: decimal.NewFromInt(100)}
	sell := Transaction{Symbol: "AAA", Shares: -4, Price: decimal.NewFromInt(150)}

	assert.Equal(t, "BUY", buy.Side())
	assert.Equal(t, "SELL", sell.Side())
	assert.True(t, buy.Amount().Equal(decimal.NewFromInt(1000)))
	assert.True(t, sell.Amount().Equal(decimal.NewFromInt(600)))
}
