package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/telecon-hub-be/internal/bank"
	"github.com/hongminglow/telecon-hub-be/internal/config"
	"github.com/hongminglow/telecon-hub-be/internal/pix"
	"github.com/hongminglow/telecon-hub-be/internal/server"
	"github.com/hongminglow/telecon-hub-be/internal/storage/jsonfile"
)

type apiClient struct {
	t    *testing.T
	base string
}

func newAPI(t *testing.T, authRequired bool) *apiClient {
	t.Helper()
	store, err := jsonfile.Open(t.TempDir())
	require.NoError(t, err)
	svc := bank.New(store, bank.WithCardSuffix(func() string { return "4242" }))
	cfg := config.Config{
		JWTSecret:    "test-secret",
		JWTIssuer:    "telecon-hub",
		JWTTTL:       time.Hour,
		AuthRequired: authRequired,
		CORSOrigins:  []string{"*"},
	}
	ts := httptest.NewServer(server.Handler(cfg, svc, zerolog.Nop()))
	t.Cleanup(ts.Close)
	return &apiClient{t: t, base: ts.URL}
}

func (c *apiClient) do(method, path string, body any, token string) (int, map[string]any) {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, c.base+path, reader)
	require.NoError(c.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(c.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(c.t, err)
	var out map[string]any
	if len(bytes.TrimSpace(raw)) > 0 && raw[0] == '{' {
		require.NoError(c.t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func (c *apiClient) list(path string) []map[string]any {
	c.t.Helper()
	resp, err := http.Get(c.base + path)
	require.NoError(c.t, err)
	defer resp.Body.Close()
	require.Equal(c.t, http.StatusOK, resp.StatusCode)
	var out []map[string]any
	require.NoError(c.t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func (c *apiClient) signup(nome, cpf, senha string) int64 {
	c.t.Helper()
	status, body := c.do(http.MethodPost, "/cadastro", map[string]string{"nome": nome, "cpf": cpf, "senha": senha}, "")
	require.Equal(c.t, http.StatusCreated, status, body)
	user := body["user"].(map[string]any)
	return int64(user["id"].(float64))
}

func TestSignupLoginAndLedgerFlow(t *testing.T) {
	api := newAPI(t, false)

	id := api.signup("Ana Souza", "123.456.789-09", "segredo1")
	assert.Equal(t, int64(1), id)

	status, body := api.do(http.MethodPost, "/cadastro", map[string]string{"nome": "Outra", "cpf": "12345678909", "senha": "segredo2"}, "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Este CPF já está cadastrado.", body["message"])

	status, body = api.do(http.MethodPost, "/cadastro", map[string]string{"nome": "Curta", "cpf": "11122233344", "senha": "123"}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["success"])

	status, body = api.do(http.MethodPost, "/login", map[string]string{"cpf": "12345678909", "senha": "errada"}, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "CPF ou senha inválidos.", body["message"])

	status, body = api.do(http.MethodPost, "/login", map[string]string{"cpf": "123.456.789-09", "senha": "segredo1"}, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["success"])
	assert.NotEmpty(t, body["token"])
	user := body["user"].(map[string]any)
	assert.EqualValues(t, 1, user["id"])
	assert.Equal(t, "Ana Souza", user["nome"])

	status, body = api.do(http.MethodGet, "/gastos?userId=1", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 500, body["total"])

	status, body = api.do(http.MethodPost, "/servicos/pix", map[string]any{"userId": 1, "chave_destino": "joao@example.com", "valor": 200}, "")
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, true, body["sucesso"])
	assert.Equal(t, "PIX de R$200.00 enviado para joao@example.com com sucesso!", body["mensagem"])
	txn := body["transacao"].(map[string]any)
	assert.EqualValues(t, 2, txn["id"])
	assert.EqualValues(t, -200, txn["valor"])
	assert.Equal(t, "pix_envio", txn["categoria"])
	assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, txn["data"])

	status, body = api.do(http.MethodGet, "/gastos?userId=1", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 300, body["total"])

	status, body = api.do(http.MethodPost, "/cartao/pagar-fatura", map[string]any{"userId": 1, "valor": 50}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, false, body["sucesso"])
	assert.Equal(t, "Não há valor a ser pago ou a fatura já está quitada.", body["mensagem"])

	status, body = api.do(http.MethodGet, "/gastos?userId=1", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 300, body["total"])

	txns := api.list("/transacoes?userId=1")
	require.Len(t, txns, 2)
	assert.Equal(t, bank.WelcomeDepositDescription, txns[0]["descricao"])

	status, body = api.do(http.MethodGet, "/gastos/categorias?userId=1", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, map[string]any{bank.LabelPix: float64(-200)}, body)
}

func TestDebitEndpoints(t *testing.T) {
	api := newAPI(t, false)
	api.signup("Ana", "12345678909", "segredo1")

	status, body := api.do(http.MethodPost, "/servicos/recarga", map[string]any{"userId": 1, "numero": "11988887777", "valor": 20}, "")
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Recarga de R$20.00 para o número 11988887777 realizada com sucesso!", body["mensagem"])
	assert.Equal(t, "recarga", body["transacao"].(map[string]any)["categoria"])

	status, body = api.do(http.MethodPost, "/servicos/pagamento", map[string]any{"userId": 1, "codigo_barras": "34191790010104351004", "valor": 80.5}, "")
	require.Equal(t, http.StatusOK, status, body)
	assert.Equal(t, "Pagamento de R$80.50 realizado com sucesso para o boleto 34191790010104351004.", body["mensagem"])

	// 399.50 in the account plus 1000 of card headroom.
	status, body = api.do(http.MethodPost, "/servicos/pix", map[string]any{"userId": 1, "chave_destino": "x", "valor": 1399.51}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Saldo insuficiente para realizar esta operação.", body["mensagem"])

	status, _ = api.do(http.MethodPost, "/servicos/pix", map[string]any{"userId": 1, "chave_destino": "x", "valor": 1399.50}, "")
	assert.Equal(t, http.StatusOK, status)

	status, body = api.do(http.MethodPost, "/servicos/pix", map[string]any{"userId": 1, "valor": 10}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, body["mensagem"], "chave_destino")

	status, _ = api.do(http.MethodPost, "/servicos/pix", map[string]any{"userId": 1, "chave_destino": "x", "valor": -5}, "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = api.do(http.MethodPost, "/servicos/recarga", map[string]any{"userId": 77, "numero": "1", "valor": 5}, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = api.do(http.MethodPost, "/servicos/pagamento", map[string]any{"codigo_barras": "1", "valor": 5}, "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = api.do(http.MethodGet, "/servicos/pix", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, status)

	req, err := http.NewRequest(http.MethodPost, api.base+"/servicos/pix", strings.NewReader("{not json"))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCardEndpoints(t *testing.T) {
	api := newAPI(t, false)
	api.signup("Ana", "12345678909", "segredo1")

	status, body := api.do(http.MethodGet, "/cartao?userId=1", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "4242", body["numeroFinal"])
	assert.Equal(t, "Ana", body["nomeTitular"])
	assert.EqualValues(t, 1000, body["limiteTotal"])
	assert.EqualValues(t, 0, body["gastosFatura"])
	assert.EqualValues(t, 1000, body["limite_disponivel"])

	status, body = api.do(http.MethodGet, "/cartao?userId=9", nil, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Cartão não encontrado para este usuário.", body["mensagem"])

	status, body = api.do(http.MethodGet, "/cartao", nil, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "userId é obrigatório.", body["mensagem"])

	assert.Empty(t, api.list("/cartao/fatura?userId=1"))

	status, body = api.do(http.MethodPost, "/cartao/pedir-limite", map[string]any{"userId": 1, "valorDesejado": 5000}, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, true, body["sucesso"])

	status, _ = api.do(http.MethodPost, "/cartao/pedir-limite", map[string]any{"userId": 1}, "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = api.do(http.MethodPost, "/cartao/pagar-fatura", map[string]any{"userId": 9, "valor": 10}, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestPixEndpoints(t *testing.T) {
	api := newAPI(t, false)
	api.signup("Ana Souza", "12345678909", "segredo1")
	api.signup("Bruno", "98765432100", "segredo2")

	status, body := api.do(http.MethodPost, "/chaves-pix", map[string]any{"userId": 1, "tipo": "email", "chave": "Ana@Example.com"}, "")
	require.Equal(t, http.StatusCreated, status, body)
	assert.Equal(t, "Chave PIX cadastrada com sucesso!", body["message"])
	key := body["chave"].(map[string]any)
	assert.Equal(t, "ana@example.com", key["chave"])
	assert.EqualValues(t, 1, key["userId"])

	status, body = api.do(http.MethodPost, "/chaves-pix", map[string]any{"userId": 2, "tipo": "email", "chave": "ana@example.com"}, "")
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Chave PIX já cadastrada.", body["mensagem"])

	status, _ = api.do(http.MethodPost, "/chaves-pix", map[string]any{"userId": 3, "tipo": "cpf", "chave": "11122233344"}, "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = api.do(http.MethodPost, "/chaves-pix", map[string]any{"userId": 2, "tipo": "cpf", "chave": "123"}, "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = api.do(http.MethodPost, "/chaves-pix", map[string]any{"userId": 2, "tipo": "cpf"}, "")
	assert.Equal(t, http.StatusBadRequest, status)

	keys := api.list("/chaves-pix?userId=1")
	require.Len(t, keys, 1)
	assert.Empty(t, api.list("/chaves-pix?userId=2"))

	status, body = api.do(http.MethodPost, "/pix/gerar-qr-code", map[string]any{"userId": 1, "valor": 42.5}, "")
	require.Equal(t, http.StatusOK, status)
	payload := body["qrCodePayload"].(string)
	assert.True(t, pix.Valid(payload))
	assert.Contains(t, payload, "ana@example.com")
	assert.Contains(t, payload, "540542.50")

	status, _ = api.do(http.MethodPost, "/pix/gerar-qr-code", map[string]any{"userId": 1}, "")
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = api.do(http.MethodPost, "/pix/gerar-qr-code", map[string]any{"userId": 1, "valor": 12345678901.5}, "")
	assert.Equal(t, http.StatusBadRequest, status, body)
	assert.Equal(t, "Informe um valor válido maior que zero.", body["mensagem"])

	status, body = api.do(http.MethodPost, "/chaves-pix", map[string]any{"userId": 2, "tipo": "email", "chave": strings.Repeat("b", 70) + "@example.com"}, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Chave PIX inválida para o tipo informado.", body["mensagem"])

	status, body = api.do(http.MethodPost, "/pix/gerar-chave-aleatoria", nil, "")
	require.Equal(t, http.StatusOK, status)
	_, err := uuid.Parse(body["chave"].(string))
	assert.NoError(t, err)
}

func TestAuthRequiredMode(t *testing.T) {
	api := newAPI(t, true)

	status, _ := api.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, status)

	api.signup("Ana", "12345678909", "segredo1")
	api.signup("Bruno", "98765432100", "segredo2")

	status, _ = api.do(http.MethodGet, "/gastos?userId=1", nil, "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := api.do(http.MethodPost, "/login", map[string]string{"cpf": "12345678909", "senha": "segredo1"}, "")
	require.Equal(t, http.StatusOK, status)
	token := body["token"].(string)

	status, body = api.do(http.MethodGet, "/gastos?userId=1", nil, token)
	assert.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 500, body["total"])

	status, _ = api.do(http.MethodGet, "/gastos?userId=2", nil, token)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = api.do(http.MethodPost, "/servicos/pix", map[string]any{"userId": 2, "chave_destino": "x", "valor": 1}, token)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = api.do(http.MethodGet, "/gastos?userId=1", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, status)

	// a stale session token must not block logging in again
	status, body = api.do(http.MethodPost, "/login", map[string]string{"cpf": "12345678909", "senha": "segredo1"}, "garbage")
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, body["token"])
}

func TestHealthAndCORS(t *testing.T) {
	api := newAPI(t, false)

	status, body := api.do(http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	req, err := http.NewRequest(http.MethodOptions, api.base+"/servicos/pix", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "*", resp.Header.Get("Access-Control-Allow-Origin"))
}
