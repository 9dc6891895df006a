package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/hongminglow/telecon-hub-be/internal/auth"
	"github.com/hongminglow/telecon-hub-be/internal/bank"
	"github.com/hongminglow/telecon-hub-be/internal/http/respond"
	"github.com/hongminglow/telecon-hub-be/internal/models"
	"github.com/hongminglow/telecon-hub-be/internal/models/dto"
)

const minPasswordLength = 6

// AuthHandler owns signup/login endpoints.
type AuthHandler struct {
	bank   *bank.Service
	tokens *auth.TokenManager
	log    zerolog.Logger
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(svc *bank.Service, tokens *auth.TokenManager, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{bank: svc, tokens: tokens, log: log}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/cadastro", h.handleRegister)
	mux.HandleFunc("/login", h.handleLogin)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req dto.RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if problem := registrationProblem(req); problem != "" {
		respond.JSON(w, http.StatusBadRequest, dto.AuthResponse{Message: problem})
		return
	}
	passwordHash, err := auth.HashPassword(req.Senha)
	if err != nil {
		h.log.Error().Err(err).Msg("hash password")
		respond.Error(w, http.StatusInternalServerError, msgInternal)
		return
	}

	user, err := h.bank.Register(r.Context(), bank.NewAccount{
		Nome:         req.Nome,
		CPF:          req.CPF,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, bank.ErrDuplicateCPF) {
			respond.JSON(w, http.StatusConflict, dto.AuthResponse{Message: "Este CPF já está cadastrado."})
			return
		}
		writeBankError(w, h.log, err)
		return
	}

	respond.JSON(w, http.StatusCreated, dto.AuthResponse{
		Success: true,
		Message: "Usuário cadastrado com sucesso!",
		User:    summary(user),
	})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req dto.LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.CPF) == "" || req.Senha == "" {
		respond.JSON(w, http.StatusBadRequest, dto.AuthResponse{Message: "CPF e senha são obrigatórios."})
		return
	}

	user, err := h.bank.UserByCPF(r.Context(), req.CPF)
	if err != nil && !errors.Is(err, bank.ErrUserNotFound) {
		writeBankError(w, h.log, err)
		return
	}
	if err != nil || !auth.CheckPassword(user.PasswordHash, req.Senha) {
		h.log.Debug().Msg("login failed: invalid credentials")
		respond.JSON(w, http.StatusUnauthorized, dto.AuthResponse{Message: "CPF ou senha inválidos."})
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		h.log.Error().Err(err).Int64("user_id", user.ID).Msg("generate token")
		respond.Error(w, http.StatusInternalServerError, msgInternal)
		return
	}
	respond.JSON(w, http.StatusOK, dto.AuthResponse{
		Success: true,
		Message: "Login bem-sucedido!",
		User:    summary(user),
		Token:   token,
	})
}

// registrationProblem returns a display message for invalid signups, or "".
func registrationProblem(req dto.RegisterRequest) string {
	if strings.TrimSpace(req.Nome) == "" || bank.NormalizeCPF(req.CPF) == "" {
		return "Nome, CPF e senha são obrigatórios."
	}
	if !utf8.ValidString(req.Senha) || utf8.RuneCountInString(req.Senha) < minPasswordLength {
		return fmt.Sprintf("A senha deve ter pelo menos %d caracteres.", minPasswordLength)
	}
	return ""
}

func summary(u models.User) *dto.UserSummary {
	return &dto.UserSummary{ID: u.ID, Nome: u.Nome, CPF: u.CPF}
}
