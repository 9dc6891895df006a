package bank

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/hongminglow/telecon-hub-be/internal/models"
	"github.com/hongminglow/telecon-hub-be/internal/storage"
)

// Balance returns the sum of the user's transaction amounts.
func (s *Service) Balance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var out decimal.Decimal
	err := s.store.View(ctx, func(tx storage.Tx) error {
		var err error
		out, err = balance(ctx, tx, userID)
		return err
	})
	return out, err
}

// Available returns balance plus unused card limit.
func (s *Service) Available(ctx context.Context, userID int64) (decimal.Decimal, error) {
	var out decimal.Decimal
	err := s.store.View(ctx, func(tx storage.Tx) error {
		var err error
		out, err = available(ctx, tx, userID)
		return err
	})
	return out, err
}

// CanSpend reports whether amount fits in the user's available funds. The
// comparison is inclusive.
func (s *Service) CanSpend(ctx context.Context, userID int64, amount decimal.Decimal) (bool, error) {
	funds, err := s.Available(ctx, userID)
	if err != nil {
		return false, err
	}
	return funds.GreaterThanOrEqual(amount), nil
}

func balance(ctx context.Context, tx storage.Tx, userID int64) (decimal.Decimal, error) {
	txns, err := tx.TransactionsByUser(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return sum(txns), nil
}

// available is balance + max(0, limit - usage); a user without a card has
// no credit headroom.
func available(ctx context.Context, tx storage.Tx, userID int64) (decimal.Decimal, error) {
	bal, err := balance(ctx, tx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	card, err := tx.CardByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return bal, nil
		}
		return decimal.Zero, err
	}
	return bal.Add(card.Headroom()), nil
}

func sum(txns []models.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range txns {
		total = total.Add(t.Valor)
	}
	return total
}

// validAmount rounds to centavos and rejects non-positive values.
func validAmount(amount decimal.Decimal) (decimal.Decimal, error) {
	amount = models.RoundMoney(amount)
	if !amount.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return amount, nil
}
