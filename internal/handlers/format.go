package handlers

import (
	"html/template"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// usd formats an amount as US dollars, e.g. $1,234.56.
func usd(d decimal.Decimal) string {
	cents := d.Shift(2).Round(0).IntPart()
	return money.New(cents, money.USD).Display()
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{"usd": usd}
}
