package middleware

import (
	"net/http"
	"strings"

	"github.com/hongminglow/telecon-hub-be/internal/auth"
	"github.com/hongminglow/telecon-hub-be/internal/http/respond"
)

// Authenticate verifies bearer tokens and stores their claims in the request
// context. With required set, requests to paths outside public must carry a
// valid token. Anywhere a token is not required, a missing or unusable one
// lets the request through without claims, so a client holding an expired
// token can still log in again.
func Authenticate(tokens *auth.TokenManager, required bool, public []string, next http.Handler) http.Handler {
	open := make(map[string]bool, len(public))
	for _, p := range public {
		open[p] = true
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mustAuth := required && !open[r.URL.Path] && r.Method != http.MethodOptions

		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" {
			if mustAuth {
				respond.Error(w, http.StatusUnauthorized, "Autenticação necessária.")
				return
			}
			next.ServeHTTP(w, r)
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			if mustAuth {
				respond.Error(w, http.StatusUnauthorized, "Cabeçalho Authorization inválido.")
				return
			}
			next.ServeHTTP(w, r)
			return
		}
		claims, err := tokens.Parse(strings.TrimSpace(raw))
		if err != nil {
			if mustAuth {
				respond.Error(w, http.StatusUnauthorized, "Sessão inválida ou expirada.")
				return
			}
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
	})
}
