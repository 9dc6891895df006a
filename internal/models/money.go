package models

import "github.com/shopspring/decimal"

func init() {
	// Monetary values travel as JSON numbers, never quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// RoundMoney rounds an amount to centavos.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
