package dto

import (
	"github.com/shopspring/decimal"

	"github.com/hongminglow/telecon-hub-be/internal/models"
)

type QRCodeRequest struct {
	UserID int64           `json:"userId"`
	Valor  decimal.Decimal `json:"valor"`
}

type QRCodeResponse struct {
	Sucesso       bool   `json:"sucesso"`
	QRCodePayload string `json:"qrCodePayload"`
	Mensagem      string `json:"mensagem"`
}

type RandomKeyResponse struct {
	Sucesso bool   `json:"sucesso"`
	Chave   string `json:"chave"`
}

type PixKeyRequest struct {
	UserID int64  `json:"userId"`
	Tipo   string `json:"tipo"`
	Chave  string `json:"chave"`
}

type PixKeyResponse struct {
	Message string         `json:"message"`
	Chave   *models.PixKey `json:"chave,omitempty"`
}
