package models

import "github.com/shopspring/decimal"

// Card is the single credit card owned by a user.
type Card struct {
	UserID       int64           `json:"userId" yaml:"userId"`
	NomeTitular  string          `json:"nomeTitular" yaml:"nomeTitular"`
	NumeroFinal  string          `json:"numeroFinal" yaml:"numeroFinal"`
	LimiteTotal  decimal.Decimal `json:"limiteTotal" yaml:"limiteTotal"`
	GastosFatura decimal.Decimal `json:"gastosFatura" yaml:"gastosFatura"`
}

// Headroom is the unused part of the limit, never negative.
func (c Card) Headroom() decimal.Decimal {
	free := c.LimiteTotal.Sub(c.GastosFatura)
	if free.IsNegative() {
		return decimal.Zero
	}
	return free
}

// InvoiceItem is a line on the card statement.
type InvoiceItem struct {
	ID        int64           `json:"id" yaml:"id"`
	UserID    int64           `json:"userId" yaml:"userId"`
	Data      Date            `json:"data" yaml:"data"`
	Descricao string          `json:"descricao" yaml:"descricao"`
	Valor     decimal.Decimal `json:"valor" yaml:"valor"`
}
