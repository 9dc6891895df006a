package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hongminglow/telecon-hub-be/internal/bank"
	"github.com/hongminglow/telecon-hub-be/internal/http/respond"
	"github.com/hongminglow/telecon-hub-be/internal/models/dto"
)

// AccountHandler serves balance, statement and spending analysis.
type AccountHandler struct {
	bank *bank.Service
	log  zerolog.Logger
}

// NewAccountHandler constructs the handler.
func NewAccountHandler(svc *bank.Service, log zerolog.Logger) *AccountHandler {
	return &AccountHandler{bank: svc, log: log}
}

// Register attaches account routes to the mux.
func (h *AccountHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/gastos", h.handleTotal)
	mux.HandleFunc("/gastos/categorias", h.handleCategories)
	mux.HandleFunc("/transacoes", h.handleTransactions)
}

func (h *AccountHandler) handleTotal(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := queryUserID(w, r)
	if !ok || !authorize(w, r, userID) {
		return
	}
	total, err := h.bank.Total(r.Context(), userID)
	if err != nil {
		writeBankError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.TotalResponse{Total: total})
}

func (h *AccountHandler) handleTransactions(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := queryUserID(w, r)
	if !ok || !authorize(w, r, userID) {
		return
	}
	txns, err := h.bank.Transactions(r.Context(), userID)
	if err != nil {
		writeBankError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, list(txns))
}

func (h *AccountHandler) handleCategories(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	userID, ok := queryUserID(w, r)
	if !ok || !authorize(w, r, userID) {
		return
	}
	groups, err := h.bank.SpendingByCategory(r.Context(), userID)
	if err != nil {
		writeBankError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, groups)
}
