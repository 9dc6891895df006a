package pix

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// EMV field ids used by the static BRCode.
const (
	idFormatIndicator   = "00"
	idMerchantAccount   = "26"
	idCategoryCode      = "52"
	idCurrency          = "53"
	idAmount            = "54"
	idCountry           = "58"
	idMerchantName      = "59"
	idMerchantCity      = "60"
	idAdditionalData    = "62"
	idCRC               = "63"
	idGUI               = "00"
	idKey               = "01"
	idTxID              = "05"
	gui                 = "br.gov.bcb.pix"
	currencyBRL         = "986"
	maxMerchantNameSize = 25
	maxMerchantCitySize = 15
	maxTxIDSize         = 25
	maxAmountSize       = 13
)

// ErrInvalidAmount reports an amount that does not fit the BRCode amount field.
var ErrInvalidAmount = errors.New("invalid pix amount")

// Payload describes a static "Copia e Cola" charge.
type Payload struct {
	Key          string
	Amount       decimal.Decimal
	MerchantName string
	MerchantCity string
	TxID         string
}

// Encode renders the payload as an EMV BRCode string ending in its CRC.
func (p Payload) Encode() (string, error) {
	if strings.TrimSpace(p.Key) == "" {
		return "", errors.New("pix payload: key is required")
	}
	if p.Amount.IsNegative() {
		return "", fmt.Errorf("%w: amount must not be negative", ErrInvalidAmount)
	}
	amount := p.Amount.StringFixed(2)
	if len(amount) > maxAmountSize {
		return "", fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidAmount, amount, maxAmountSize)
	}
	txid := strings.TrimSpace(p.TxID)
	if txid == "" {
		txid = "***"
	}
	if len(txid) > maxTxIDSize {
		txid = txid[:maxTxIDSize]
	}

	account := field(idGUI, gui) + field(idKey, p.Key)
	if len(account) > 99 {
		return "", fmt.Errorf("%w: merchant account too long (%d)", ErrInvalidKey, len(account))
	}
	var b strings.Builder
	b.WriteString(field(idFormatIndicator, "01"))
	b.WriteString(field(idMerchantAccount, account))
	b.WriteString(field(idCategoryCode, "0000"))
	b.WriteString(field(idCurrency, currencyBRL))
	if p.Amount.IsPositive() {
		b.WriteString(field(idAmount, amount))
	}
	b.WriteString(field(idCountry, "BR"))
	b.WriteString(field(idMerchantName, fallback(sanitize(p.MerchantName, maxMerchantNameSize), "TELECON HUB")))
	b.WriteString(field(idMerchantCity, fallback(sanitize(p.MerchantCity, maxMerchantCitySize), "SAO PAULO")))
	b.WriteString(field(idAdditionalData, field(idTxID, txid)))
	b.WriteString(idCRC + "04")

	body := b.String()
	return body + fmt.Sprintf("%04X", CRC16(body)), nil
}

// Valid reports whether payload ends in a CRC field matching its body.
func Valid(payload string) bool {
	if len(payload) < 8 {
		return false
	}
	body, sum := payload[:len(payload)-4], payload[len(payload)-4:]
	if !strings.HasSuffix(body, idCRC+"04") {
		return false
	}
	return strings.EqualFold(sum, fmt.Sprintf("%04X", CRC16(body)))
}

// CRC16 computes CRC-16/CCITT-FALSE (poly 0x1021, init 0xFFFF).
func CRC16(s string) uint16 {
	crc := uint16(0xFFFF)
	for i := 0; i < len(s); i++ {
		crc ^= uint16(s[i]) << 8
		for bit := 0; bit < 8; bit++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

func field(id, value string) string {
	return fmt.Sprintf("%s%02d%s", id, len(value), value)
}

// sanitize strips accents and anything outside printable ASCII, uppercases
// and truncates to limit bytes.
func sanitize(s string, limit int) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	plain, _, err := transform.String(t, s)
	if err != nil {
		plain = s
	}
	var b strings.Builder
	for _, r := range strings.ToUpper(plain) {
		if r >= 0x20 && r < 0x7f {
			b.WriteRune(r)
		}
	}
	out := strings.TrimSpace(b.String())
	if len(out) > limit {
		out = strings.TrimSpace(out[:limit])
	}
	return out
}

func fallback(value, def string) string {
	if value == "" {
		return def
	}
	return value
}
