package handlers

import (
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hongminglow/telecon-hub-be/internal/bank"
	"github.com/hongminglow/telecon-hub-be/internal/http/respond"
	"github.com/hongminglow/telecon-hub-be/internal/models"
	"github.com/hongminglow/telecon-hub-be/internal/models/dto"
)

// ServicesHandler adapts the debit endpoints onto bank.Service.
type ServicesHandler struct {
	bank *bank.Service
	log  zerolog.Logger
}

// NewServicesHandler constructs the handler.
func NewServicesHandler(svc *bank.Service, log zerolog.Logger) *ServicesHandler {
	return &ServicesHandler{bank: svc, log: log}
}

// Register attaches service routes to the mux.
func (h *ServicesHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/servicos/pix", h.handlePix)
	mux.HandleFunc("/servicos/recarga", h.handleRecharge)
	mux.HandleFunc("/servicos/pagamento", h.handleBillPayment)
}

func (h *ServicesHandler) handlePix(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req dto.PixTransferRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.ChaveDestino == "" || req.Valor.IsZero() {
		respond.Error(w, http.StatusBadRequest, "É necessário enviar 'chave_destino' e 'valor'.")
		return
	}
	if !requireUserID(w, req.UserID) || !authorize(w, r, req.UserID) {
		return
	}
	txn, err := h.bank.SendPix(r.Context(), req.UserID, req.ChaveDestino, req.Valor)
	h.finish(w, txn, err, func(amount string) string {
		return fmt.Sprintf("PIX de R$%s enviado para %s com sucesso!", amount, req.ChaveDestino)
	})
}

func (h *ServicesHandler) handleRecharge(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req dto.RechargeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Numero == "" || req.Valor.IsZero() {
		respond.Error(w, http.StatusBadRequest, "É necessário enviar 'numero' e 'valor'.")
		return
	}
	if !requireUserID(w, req.UserID) || !authorize(w, r, req.UserID) {
		return
	}
	txn, err := h.bank.Recharge(r.Context(), req.UserID, req.Numero, req.Valor)
	h.finish(w, txn, err, func(amount string) string {
		return fmt.Sprintf("Recarga de R$%s para o número %s realizada com sucesso!", amount, req.Numero)
	})
}

func (h *ServicesHandler) handleBillPayment(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req dto.BillPaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.CodigoBarras == "" || req.Valor.IsZero() {
		respond.Error(w, http.StatusBadRequest, "É necessário enviar 'codigo_barras' e 'valor'.")
		return
	}
	if !requireUserID(w, req.UserID) || !authorize(w, r, req.UserID) {
		return
	}
	txn, err := h.bank.PayBill(r.Context(), req.UserID, req.CodigoBarras, req.Valor)
	h.finish(w, txn, err, func(amount string) string {
		return fmt.Sprintf("Pagamento de R$%s realizado com sucesso para o boleto %s.", amount, req.CodigoBarras)
	})
}

// finish writes the receipt of a debit, or maps its error.
func (h *ServicesHandler) finish(w http.ResponseWriter, txn models.Transaction, err error, message func(amount string) string) {
	if err != nil {
		writeBankError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.OperationResult{
		Sucesso:   true,
		Mensagem:  message(txn.Valor.Neg().StringFixed(2)),
		Transacao: &txn,
	})
}
