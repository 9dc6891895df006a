package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/hongminglow/telecon-hub-be/internal/auth"
	"github.com/hongminglow/telecon-hub-be/internal/bank"
	"github.com/hongminglow/telecon-hub-be/internal/http/respond"
)

const maxBodyBytes = 1 << 20

const (
	msgUserIDRequired = "userId é obrigatório."
	msgInvalidJSON    = "JSON inválido."
	msgInternal       = "Erro interno. Tente novamente mais tarde."
)

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		w.Header().Set("Allow", method)
		respond.Error(w, http.StatusMethodNotAllowed, "Método não permitido.")
		return false
	}
	return true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		respond.Error(w, http.StatusBadRequest, msgInvalidJSON)
		return false
	}
	return true
}

// queryUserID reads a positive userId query parameter, answering 400 otherwise.
func queryUserID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get("userId")), 10, 64)
	if err != nil || id <= 0 {
		respond.Error(w, http.StatusBadRequest, msgUserIDRequired)
		return 0, false
	}
	return id, true
}

func requireUserID(w http.ResponseWriter, id int64) bool {
	if id <= 0 {
		respond.Error(w, http.StatusBadRequest, msgUserIDRequired)
		return false
	}
	return true
}

// authorize rejects requests whose session belongs to another user.
func authorize(w http.ResponseWriter, r *http.Request, userID int64) bool {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if ok && claims.UserID != userID {
		respond.Error(w, http.StatusForbidden, "Acesso negado para este usuário.")
		return false
	}
	return true
}

// writeBankError maps domain errors onto the API error taxonomy.
func writeBankError(w http.ResponseWriter, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, bank.ErrInvalidAmount):
		respond.Error(w, http.StatusBadRequest, "Informe um valor válido maior que zero.")
	case errors.Is(err, bank.ErrInvalidInput):
		respond.Error(w, http.StatusBadRequest, "Dados obrigatórios ausentes ou inválidos.")
	case errors.Is(err, bank.ErrInvalidPixKey):
		respond.Error(w, http.StatusBadRequest, "Chave PIX inválida para o tipo informado.")
	case errors.Is(err, bank.ErrInsufficientFunds):
		respond.Error(w, http.StatusBadRequest, "Saldo insuficiente para realizar esta operação.")
	case errors.Is(err, bank.ErrNothingToPay):
		respond.Error(w, http.StatusBadRequest, "Não há valor a ser pago ou a fatura já está quitada.")
	case errors.Is(err, bank.ErrUserNotFound):
		respond.Error(w, http.StatusNotFound, "Usuário não encontrado.")
	case errors.Is(err, bank.ErrCardNotFound):
		respond.Error(w, http.StatusNotFound, "Cartão não encontrado para este usuário.")
	case errors.Is(err, bank.ErrDuplicateCPF):
		respond.Error(w, http.StatusConflict, "Este CPF já está cadastrado.")
	case errors.Is(err, bank.ErrDuplicatePixKey):
		respond.Error(w, http.StatusConflict, "Chave PIX já cadastrada.")
	case errors.Is(err, context.Canceled):
		log.Debug().Err(err).Msg("request canceled")
	default:
		log.Error().Err(err).Msg("unhandled error")
		respond.Error(w, http.StatusInternalServerError, msgInternal)
	}
}

// list keeps empty collections encoded as [] rather than null.
func list[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
