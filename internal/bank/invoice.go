package bank

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hongminglow/telecon-hub-be/internal/models"
	"github.com/hongminglow/telecon-hub-be/internal/storage"
)

// InvoicePaymentDescription labels invoice payment transactions.
const InvoicePaymentDescription = "Pagamento da fatura do cartão"

// PayInvoice pays down the card invoice from the account balance:
//  1. the card must exist,
//  2. the payment is clamped to the outstanding usage,
//  3. a clamped amount of zero is rejected,
//  4. the account balance alone (not the credit headroom) must cover it,
//  5. usage is decremented,
//  6. a negative pagamento_fatura transaction is recorded.
//
// Steps 5 and 6 commit together.
func (s *Service) PayInvoice(ctx context.Context, userID int64, requested decimal.Decimal) (models.Transaction, error) {
	requested, err := validAmount(requested)
	if err != nil {
		return models.Transaction{}, err
	}

	var out models.Transaction
	err = s.store.Update(ctx, func(tx storage.Tx) error {
		card, err := tx.CardByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrCardNotFound
			}
			return err
		}

		pay := decimal.Min(requested, card.GastosFatura)
		if !pay.IsPositive() {
			return ErrNothingToPay
		}

		bal, err := balance(ctx, tx, userID)
		if err != nil {
			return err
		}
		if bal.LessThan(pay) {
			return fmt.Errorf("%w: balance %s, invoice payment %s", ErrInsufficientFunds, bal.StringFixed(2), pay.StringFixed(2))
		}

		card.GastosFatura = card.GastosFatura.Sub(pay)
		if err := tx.UpdateCard(ctx, card); err != nil {
			return fmt.Errorf("update card: %w", err)
		}

		out, err = recordTransaction(ctx, tx, models.Transaction{
			Descricao: InvoicePaymentDescription,
			Categoria: models.CategoryInvoicePayment,
			Valor:     pay.Neg(),
			Data:      s.today(),
			UserID:    userID,
		})
		return err
	})
	if err != nil {
		s.log.Warn().Err(err).Int64("user_id", userID).Str("requested", requested.StringFixed(2)).Msg("invoice payment rejected")
		return models.Transaction{}, err
	}
	s.log.Info().Int64("user_id", userID).Int64("transaction_id", out.ID).Str("valor", out.Valor.StringFixed(2)).Msg("invoice paid")
	return out, nil
}

// Card returns the user's card.
func (s *Service) Card(ctx context.Context, userID int64) (models.Card, error) {
	var card models.Card
	err := s.store.View(ctx, func(tx storage.Tx) error {
		var err error
		card, err = tx.CardByUser(ctx, userID)
		return err
	})
	if errors.Is(err, storage.ErrNotFound) {
		return models.Card{}, ErrCardNotFound
	}
	return card, err
}

// InvoiceItems lists the statement lines of the user's card.
func (s *Service) InvoiceItems(ctx context.Context, userID int64) ([]models.InvoiceItem, error) {
	var items []models.InvoiceItem
	err := s.store.View(ctx, func(tx storage.Tx) error {
		var err error
		items, err = tx.InvoiceItemsByUser(ctx, userID)
		return err
	})
	return items, err
}

// RequestLimitIncrease records a request for a higher card limit. Requests
// are only logged for manual review.
func (s *Service) RequestLimitIncrease(ctx context.Context, userID int64, desired decimal.Decimal) error {
	desired, err := validAmount(desired)
	if err != nil {
		return err
	}
	card, err := s.Card(ctx, userID)
	if err != nil {
		return err
	}
	s.log.Info().
		Int64("user_id", userID).
		Str("limite_atual", card.LimiteTotal.StringFixed(2)).
		Str("valor_desejado", desired.StringFixed(2)).
		Msg("limit increase requested")
	return nil
}
