package pix

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/hongminglow/telecon-hub-be/internal/models"
)

// ErrInvalidKey reports a key whose value does not fit its declared type.
var ErrInvalidKey = errors.New("invalid pix key")

// maxEmailKeySize keeps an email key inside the 99-byte merchant account
// field of a BRCode.
const maxEmailKeySize = 77

var keyTypeAliases = map[string]string{
	"cpf":       models.PixKeyCPF,
	"email":     models.PixKeyEmail,
	"e-mail":    models.PixKeyEmail,
	"telefone":  models.PixKeyPhone,
	"phone":     models.PixKeyPhone,
	"celular":   models.PixKeyPhone,
	"aleatoria": models.PixKeyRandom,
	"aleatória": models.PixKeyRandom,
	"random":    models.PixKeyRandom,
	"evp":       models.PixKeyRandom,
}

// NormalizeKey resolves the key type and returns the canonical key value.
func NormalizeKey(tipo, chave string) (string, string, error) {
	kind, ok := keyTypeAliases[strings.ToLower(strings.TrimSpace(tipo))]
	if !ok {
		return "", "", fmt.Errorf("%w: unknown type %q", ErrInvalidKey, tipo)
	}
	chave = strings.TrimSpace(chave)
	if chave == "" {
		return "", "", fmt.Errorf("%w: empty value", ErrInvalidKey)
	}

	switch kind {
	case models.PixKeyCPF:
		digits := DigitsOnly(chave)
		if len(digits) != 11 {
			return "", "", fmt.Errorf("%w: cpf must have 11 digits", ErrInvalidKey)
		}
		return kind, digits, nil
	case models.PixKeyEmail:
		email := strings.ToLower(chave)
		if len(email) > maxEmailKeySize {
			return "", "", fmt.Errorf("%w: email longer than %d bytes", ErrInvalidKey, maxEmailKeySize)
		}
		local, domain, found := strings.Cut(email, "@")
		if !found || local == "" || !strings.Contains(domain, ".") || strings.Contains(domain, "@") {
			return "", "", fmt.Errorf("%w: malformed email", ErrInvalidKey)
		}
		return kind, email, nil
	case models.PixKeyPhone:
		digits := DigitsOnly(chave)
		switch {
		case len(digits) == 10 || len(digits) == 11:
			return kind, "+55" + digits, nil
		case strings.HasPrefix(digits, "55") && (len(digits) == 12 || len(digits) == 13):
			return kind, "+" + digits, nil
		}
		return "", "", fmt.Errorf("%w: phone must have area code and number", ErrInvalidKey)
	default:
		id, err := uuid.Parse(chave)
		if err != nil {
			return "", "", fmt.Errorf("%w: random key must be a uuid", ErrInvalidKey)
		}
		return kind, id.String(), nil
	}
}

// NewRandomKey returns a fresh random (EVP) key.
func NewRandomKey() string {
	return uuid.NewString()
}

// DigitsOnly strips everything but ASCII digits.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
