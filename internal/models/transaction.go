package models

import "github.com/shopspring/decimal"

// Transaction categories written by the ledger operations.
const (
	CategoryDeposit        = "deposito"
	CategoryPixSent        = "pix_envio"
	CategoryRecharge       = "recarga"
	CategoryBillPayment    = "pagamento"
	CategoryInvoicePayment = "pagamento_fatura"
)

// Transaction is an append-only ledger entry. Positive amounts are credits,
// negative amounts are debits.
type Transaction struct {
	ID        int64           `json:"id" yaml:"id"`
	Descricao string          `json:"descricao" yaml:"descricao"`
	Categoria string          `json:"categoria" yaml:"categoria"`
	Valor     decimal.Decimal `json:"valor" yaml:"valor"`
	Data      Date            `json:"data" yaml:"data"`
	UserID    int64           `json:"userId" yaml:"userId"`
}
