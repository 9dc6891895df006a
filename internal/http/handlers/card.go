package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hongminglow/telecon-hub-be/internal/bank"
	"github.com/hongminglow/telecon-hub-be/internal/http/respond"
	"github.com/hongminglow/telecon-hub-be/internal/models/dto"
)

// CardHandler serves the credit card, its invoice and invoice payment.
type CardHandler struct {
	bank *bank.Service
	log  zerolog.Logger
}

// NewCardHandler constructs the handler.
func NewCardHandler(svc *bank.Service, log zerolog.Logger) *CardHandler {
	return &CardHandler{bank: svc, log: log}
}

// Register attaches card routes to the mux.
func (h *CardHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/cartao", h.handleCard)
	mux.HandleFunc("/cartao/fatura", h.handleInvoice)
	mux.HandleFunc("/cartao/pagar-fatura", h.handlePayInvoice)
	mux.HandleFunc("/cartao/pedir-limite", h.handleLimitIncrease)
}

func (h *CardHandler) handleCard(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := queryUserID(w, r)
	if !ok || !authorize(w, r, userID) {
		return
	}
	card, err := h.bank.Card(r.Context(), userID)
	if err != nil {
		writeBankError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.CardResponse{
		Card:             card,
		LimiteDisponivel: card.LimiteTotal.Sub(card.GastosFatura),
	})
}

func (h *CardHandler) handleInvoice(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := queryUserID(w, r)
	if !ok || !authorize(w, r, userID) {
		return
	}
	items, err := h.bank.InvoiceItems(r.Context(), userID)
	if err != nil {
		writeBankError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, list(items))
}

func (h *CardHandler) handlePayInvoice(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req dto.InvoicePaymentRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !requireUserID(w, req.UserID) || !authorize(w, r, req.UserID) {
		return
	}

	txn, err := h.bank.PayInvoice(r.Context(), req.UserID, req.Valor)
	if err != nil {
		if errors.Is(err, bank.ErrInsufficientFunds) {
			respond.Error(w, http.StatusBadRequest, "Saldo em conta insuficiente para pagar a fatura.")
			return
		}
		writeBankError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.OperationResult{
		Sucesso:   true,
		Mensagem:  fmt.Sprintf("Pagamento de R$%s da sua fatura realizado com sucesso!", txn.Valor.Neg().StringFixed(2)),
		Transacao: &txn,
	})
}

func (h *CardHandler) handleLimitIncrease(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req dto.LimitIncreaseRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !requireUserID(w, req.UserID) || !authorize(w, r, req.UserID) {
		return
	}
	if err := h.bank.RequestLimitIncrease(r.Context(), req.UserID, req.ValorDesejado); err != nil {
		writeBankError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.OperationResult{
		Sucesso:  true,
		Mensagem: "Sua solicitação de aumento de limite foi recebida e está em análise.",
	})
}
