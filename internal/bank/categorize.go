package bank

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hongminglow/telecon-hub-be/internal/models"
	"github.com/hongminglow/telecon-hub-be/internal/storage"
)

// Reporting labels produced by Categorize.
const (
	LabelTransport = "Transporte"
	LabelFood      = "Alimentação"
	LabelRecharge  = "Recarga e Serviços"
	LabelBills     = "Pagamento de Contas"
	LabelInvoice   = "Fatura do Cartão"
	LabelPix       = "Transferências PIX"
	LabelIncome    = "Entradas"
	LabelOther     = "Outros"
)

// CategoryLabels lists every label in report order.
var CategoryLabels = []string{
	LabelTransport, LabelFood, LabelRecharge, LabelBills,
	LabelInvoice, LabelPix, LabelIncome, LabelOther,
}

type categoryRule struct {
	label    string
	keywords []string
}

// categoryRules are evaluated in order; the first match wins.
var categoryRules = []categoryRule{
	{label: LabelTransport, keywords: []string{"uber", "99", "transporte"}},
	{label: LabelFood, keywords: []string{"ifood", "restaurante", "comida", "mercado"}},
	{label: LabelRecharge, keywords: []string{"recarga"}},
	{label: LabelBills, keywords: []string{"pagamento de boleto"}},
	{label: LabelInvoice, keywords: []string{"pagamento da fatura"}},
	{label: LabelPix, keywords: []string{"pix enviado"}},
}

// Categorize maps a transaction to its reporting label by case-insensitive
// keyword match on the description. Unmatched credits are income.
func Categorize(t models.Transaction) string {
	desc := strings.ToLower(t.Descricao)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(desc, kw) {
				return rule.label
			}
		}
	}
	if t.Valor.IsPositive() {
		return LabelIncome
	}
	return LabelOther
}

// IsWelcomeDeposit reports whether t is the registration bonus, which is
// left out of spending analysis.
func IsWelcomeDeposit(t models.Transaction) bool {
	return strings.Contains(t.Descricao, WelcomeDepositDescription)
}

// SpendingByCategory sums signed amounts per label, skipping welcome deposits.
func (s *Service) SpendingByCategory(ctx context.Context, userID int64) (map[string]decimal.Decimal, error) {
	txns, err := s.Transactions(ctx, userID)
	if err != nil {
		return nil, err
	}
	return GroupByCategory(txns), nil
}

// GroupByCategory is the pure aggregation behind SpendingByCategory.
func GroupByCategory(txns []models.Transaction) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, t := range txns {
		if IsWelcomeDeposit(t) {
			continue
		}
		label := Categorize(t)
		out[label] = out[label].Add(t.Valor)
	}
	for label, total := range out {
		out[label] = models.RoundMoney(total)
	}
	return out
}

// Total returns the user's balance rounded to centavos.
func (s *Service) Total(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := s.store.View(ctx, func(tx storage.Tx) error {
		var err error
		total, err = balance(ctx, tx, userID)
		return err
	})
	return models.RoundMoney(total), err
}
