package dto

import (
	"github.com/shopspring/decimal"

	"github.com/hongminglow/telecon-hub-be/internal/models"
)

type PixTransferRequest struct {
	UserID       int64           `json:"userId"`
	ChaveDestino string          `json:"chave_destino"`
	Valor        decimal.Decimal `json:"valor"`
}

type RechargeRequest struct {
	UserID int64           `json:"userId"`
	Numero string          `json:"numero"`
	Valor  decimal.Decimal `json:"valor"`
}

type BillPaymentRequest struct {
	UserID       int64           `json:"userId"`
	CodigoBarras string          `json:"codigo_barras"`
	Valor        decimal.Decimal `json:"valor"`
}

type InvoicePaymentRequest struct {
	UserID int64           `json:"userId"`
	Valor  decimal.Decimal `json:"valor"`
}

type LimitIncreaseRequest struct {
	UserID        int64           `json:"userId"`
	ValorDesejado decimal.Decimal `json:"valorDesejado"`
}

// OperationResult is the success/failure envelope of every money-moving endpoint.
type OperationResult struct {
	Sucesso   bool                `json:"sucesso"`
	Mensagem  string              `json:"mensagem"`
	Transacao *models.Transaction `json:"transacao,omitempty"`
}

type TotalResponse struct {
	Total decimal.Decimal `json:"total"`
}

// CardResponse adds the computed available limit to the stored card.
type CardResponse struct {
	models.Card
	LimiteDisponivel decimal.Decimal `json:"limite_disponivel"`
}
