package pix

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/telecon-hub-be/internal/models"
)

func TestNormalizeKey(t *testing.T) {
	cases := []struct {
		tipo, chave string
		wantKind    string
		wantValue   string
	}{
		{"cpf", "123.456.789-09", models.PixKeyCPF, "12345678909"},
		{"CPF", "12345678909", models.PixKeyCPF, "12345678909"},
		{"email", " Ana@Example.COM ", models.PixKeyEmail, "ana@example.com"},
		{"telefone", "(11) 98888-7777", models.PixKeyPhone, "+5511988887777"},
		{"phone", "1133334444", models.PixKeyPhone, "+551133334444"},
		{"celular", "+55 11 98888-7777", models.PixKeyPhone, "+5511988887777"},
		{"aleatoria", "123E4567-E89B-12D3-A456-426614174000", models.PixKeyRandom, "123e4567-e89b-12d3-a456-426614174000"},
		{"random", "123e4567-e89b-12d3-a456-426614174000", models.PixKeyRandom, "123e4567-e89b-12d3-a456-426614174000"},
	}
	for _, tc := range cases {
		t.Run(tc.tipo+"/"+tc.chave, func(t *testing.T) {
			kind, value, err := NormalizeKey(tc.tipo, tc.chave)
			require.NoError(t, err)
			assert.Equal(t, tc.wantKind, kind)
			assert.Equal(t, tc.wantValue, value)
		})
	}
}

func TestNormalizeKeyRejects(t *testing.T) {
	cases := [][2]string{
		{"boleto", "123"},
		{"cpf", ""},
		{"cpf", "1234"},
		{"email", "ana.example.com"},
		{"email", "@example.com"},
		{"email", "ana@localhost"},
		{"telefone", "98888"},
		{"aleatoria", "not-a-uuid"},
		{"email", strings.Repeat("a", 66) + "@example.com"},
	}
	for _, tc := range cases {
		_, _, err := NormalizeKey(tc[0], tc[1])
		assert.ErrorIs(t, err, ErrInvalidKey, "%s=%q", tc[0], tc[1])
	}
}

func TestNewRandomKey(t *testing.T) {
	a, b := NewRandomKey(), NewRandomKey()
	assert.NotEqual(t, a, b)
	id, err := uuid.Parse(a)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), id.Version())
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "12345678909", DigitsOnly("123.456.789-09"))
	assert.Equal(t, "", DigitsOnly("abc"))
}

func TestEmailKeyFitsQRCode(t *testing.T) {
	longest := strings.Repeat("a", 65) + "@example.com"
	require.Len(t, longest, 77)

	_, value, err := NormalizeKey("email", longest)
	require.NoError(t, err)

	payload, err := Payload{Key: value, Amount: decimal.NewFromInt(1)}.Encode()
	require.NoError(t, err)
	assert.True(t, Valid(payload))
}
