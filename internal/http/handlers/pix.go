package handlers

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/hongminglow/telecon-hub-be/internal/bank"
	"github.com/hongminglow/telecon-hub-be/internal/http/respond"
	"github.com/hongminglow/telecon-hub-be/internal/models/dto"
	"github.com/hongminglow/telecon-hub-be/internal/pix"
)

// PixHandler serves QR charges, random keys and key registration.
type PixHandler struct {
	bank *bank.Service
	log  zerolog.Logger
}

// NewPixHandler constructs the handler.
func NewPixHandler(svc *bank.Service, log zerolog.Logger) *PixHandler {
	return &PixHandler{bank: svc, log: log}
}

// Register attaches PIX routes to the mux.
func (h *PixHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/pix/gerar-qr-code", h.handleQRCode)
	mux.HandleFunc("/pix/gerar-chave-aleatoria", h.handleRandomKey)
	mux.HandleFunc("/chaves-pix", h.handleKeys)
}

func (h *PixHandler) handleQRCode(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req dto.QRCodeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID <= 0 || !req.Valor.IsPositive() {
		respond.Error(w, http.StatusBadRequest, "userId e um valor válido são obrigatórios.")
		return
	}
	if !authorize(w, r, req.UserID) {
		return
	}
	payload, err := h.bank.ChargeQRCode(r.Context(), req.UserID, req.Valor)
	if err != nil {
		writeBankError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, dto.QRCodeResponse{
		Sucesso:       true,
		QRCodePayload: payload,
		Mensagem:      "QR Code gerado com sucesso.",
	})
}

func (h *PixHandler) handleRandomKey(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	respond.JSON(w, http.StatusOK, dto.RandomKeyResponse{Sucesso: true, Chave: pix.NewRandomKey()})
}

func (h *PixHandler) handleKeys(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listKeys(w, r)
	case http.MethodPost:
		h.createKey(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		respond.Error(w, http.StatusMethodNotAllowed, "Método não permitido.")
	}
}

func (h *PixHandler) listKeys(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUserID(w, r)
	if !ok || !authorize(w, r, userID) {
		return
	}
	keys, err := h.bank.PixKeys(r.Context(), userID)
	if err != nil {
		writeBankError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusOK, list(keys))
}

func (h *PixHandler) createKey(w http.ResponseWriter, r *http.Request) {
	var req dto.PixKeyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.UserID <= 0 || req.Tipo == "" || req.Chave == "" {
		respond.Error(w, http.StatusBadRequest, "Todos os campos (userId, tipo, chave) são obrigatórios.")
		return
	}
	if !authorize(w, r, req.UserID) {
		return
	}
	key, err := h.bank.RegisterPixKey(r.Context(), req.UserID, req.Tipo, req.Chave)
	if err != nil {
		writeBankError(w, h.log, err)
		return
	}
	respond.JSON(w, http.StatusCreated, dto.PixKeyResponse{Message: "Chave PIX cadastrada com sucesso!", Chave: &key})
}
