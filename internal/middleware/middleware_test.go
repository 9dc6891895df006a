package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/telecon-hub-be/internal/auth"
	"github.com/hongminglow/telecon-hub-be/internal/models"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, ok := auth.ClaimsFromContext(r.Context()); ok {
			w.Header().Set("X-User", c.Nome)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
}

func TestCORSWildcard(t *testing.T) {
	h := CORS([]string{"*"}, okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/gastos", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestCORSAllowList(t *testing.T) {
	h := CORS([]string{"https://app.example.com/"}, okHandler())

	req := httptest.NewRequest(http.MethodGet, "/gastos", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))

	req = httptest.NewRequest(http.MethodGet, "/gastos", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestAuthenticate(t *testing.T) {
	tokens := auth.NewTokenManager("secret", "telecon-hub", time.Hour)
	token, err := tokens.Generate(models.User{ID: 1, Nome: "Ana"})
	require.NoError(t, err)
	expired, err := auth.NewTokenManager("secret", "telecon-hub", -time.Minute).Generate(models.User{ID: 1, Nome: "Ana"})
	require.NoError(t, err)

	cases := []struct {
		name     string
		required bool
		path     string
		header   string
		want     int
		user     string
	}{
		{name: "optional without token", path: "/gastos", want: http.StatusOK},
		{name: "optional with token", path: "/gastos", header: "Bearer " + token, want: http.StatusOK, user: "Ana"},
		{name: "optional with bad token", path: "/gastos", header: "Bearer nope", want: http.StatusOK},
		{name: "optional login with bad token", path: "/login", header: "Bearer nope", want: http.StatusOK},
		{name: "required without token", required: true, path: "/gastos", want: http.StatusUnauthorized},
		{name: "required public path", required: true, path: "/login", want: http.StatusOK},
		{name: "required public path with bad token", required: true, path: "/login", header: "Bearer nope", want: http.StatusOK},
		{name: "required public path with expired token", required: true, path: "/cadastro", header: "Bearer " + expired, want: http.StatusOK},
		{name: "required with bad token", required: true, path: "/gastos", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "required with expired token", required: true, path: "/gastos", header: "Bearer " + expired, want: http.StatusUnauthorized},
		{name: "required with token", required: true, path: "/gastos", header: "Bearer " + token, want: http.StatusOK, user: "Ana"},
		{name: "wrong scheme", required: true, path: "/gastos", header: "Basic abc", want: http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := Authenticate(tokens, tc.required, []string{"/login", "/cadastro"}, okHandler())
			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code)
			assert.Equal(t, tc.user, rec.Header().Get("X-User"))
			if tc.want == http.StatusUnauthorized {
				var body map[string]any
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
				assert.Equal(t, false, body["sucesso"])
				assert.NotEmpty(t, body["mensagem"])
			}
		})
	}
}

func TestLoggingRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)
	h := Logging(log, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/servicos/pix", nil))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "error", line["level"])
	assert.Equal(t, "POST", line["method"])
	assert.Equal(t, "/servicos/pix", line["path"])
	assert.EqualValues(t, 500, line["status"])
	assert.EqualValues(t, len("boom\n"), line["bytes"])
}
