package bank

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hongminglow/telecon-hub-be/internal/models"
	"github.com/hongminglow/telecon-hub-be/internal/storage"
)

// Debit describes an outgoing payment from the user's account.
type Debit struct {
	UserID    int64
	Descricao string
	Categoria string
	Amount    decimal.Decimal
}

// Debit validates the amount against balance plus card headroom and records
// a negative transaction. Nothing is written when the check fails.
func (s *Service) Debit(ctx context.Context, d Debit) (models.Transaction, error) {
	amount, err := validAmount(d.Amount)
	if err != nil {
		return models.Transaction{}, err
	}

	var out models.Transaction
	err = s.store.Update(ctx, func(tx storage.Tx) error {
		if err := requireUser(ctx, tx, d.UserID); err != nil {
			return err
		}
		funds, err := available(ctx, tx, d.UserID)
		if err != nil {
			return err
		}
		if funds.LessThan(amount) {
			return fmt.Errorf("%w: requested %s, available %s", ErrInsufficientFunds, amount.StringFixed(2), funds.StringFixed(2))
		}
		out, err = recordTransaction(ctx, tx, models.Transaction{
			Descricao: d.Descricao,
			Categoria: d.Categoria,
			Valor:     amount.Neg(),
			Data:      s.today(),
			UserID:    d.UserID,
		})
		return err
	})
	if err != nil {
		s.log.Warn().Err(err).Int64("user_id", d.UserID).Str("categoria", d.Categoria).Str("amount", amount.StringFixed(2)).Msg("debit rejected")
		return models.Transaction{}, err
	}
	s.log.Info().Int64("user_id", d.UserID).Int64("transaction_id", out.ID).Str("categoria", out.Categoria).Str("valor", out.Valor.StringFixed(2)).Msg("debit recorded")
	return out, nil
}

// SendPix debits a PIX transfer to chaveDestino.
func (s *Service) SendPix(ctx context.Context, userID int64, chaveDestino string, amount decimal.Decimal) (models.Transaction, error) {
	chaveDestino = strings.TrimSpace(chaveDestino)
	if chaveDestino == "" {
		return models.Transaction{}, fmt.Errorf("%w: chave_destino is required", ErrInvalidInput)
	}
	return s.Debit(ctx, Debit{
		UserID:    userID,
		Descricao: "PIX enviado para " + chaveDestino,
		Categoria: models.CategoryPixSent,
		Amount:    amount,
	})
}

// Recharge debits a mobile top-up for numero.
func (s *Service) Recharge(ctx context.Context, userID int64, numero string, amount decimal.Decimal) (models.Transaction, error) {
	numero = strings.TrimSpace(numero)
	if numero == "" {
		return models.Transaction{}, fmt.Errorf("%w: numero is required", ErrInvalidInput)
	}
	return s.Debit(ctx, Debit{
		UserID:    userID,
		Descricao: "Recarga de celular para " + numero,
		Categoria: models.CategoryRecharge,
		Amount:    amount,
	})
}

// PayBill debits a boleto payment.
func (s *Service) PayBill(ctx context.Context, userID int64, codigoBarras string, amount decimal.Decimal) (models.Transaction, error) {
	if strings.TrimSpace(codigoBarras) == "" {
		return models.Transaction{}, fmt.Errorf("%w: codigo_barras is required", ErrInvalidInput)
	}
	return s.Debit(ctx, Debit{
		UserID:    userID,
		Descricao: "Pagamento de boleto",
		Categoria: models.CategoryBillPayment,
		Amount:    amount,
	})
}

func requireUser(ctx context.Context, tx storage.Tx, userID int64) error {
	if _, err := tx.UserByID(ctx, userID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return nil
}
