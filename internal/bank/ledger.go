package bank

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/hongminglow/telecon-hub-be/internal/models"
	"github.com/hongminglow/telecon-hub-be/internal/storage"
)

// RecordTransaction appends a transaction with the next store-wide id and
// returns the persisted record.
func (s *Service) RecordTransaction(ctx context.Context, userID int64, descricao, categoria string, valor decimal.Decimal, data models.Date) (models.Transaction, error) {
	var out models.Transaction
	err := s.store.Update(ctx, func(tx storage.Tx) error {
		var err error
		out, err = recordTransaction(ctx, tx, models.Transaction{
			Descricao: descricao,
			Categoria: categoria,
			Valor:     valor,
			Data:      data,
			UserID:    userID,
		})
		return err
	})
	return out, err
}

// Transactions lists the user's transactions in insertion order.
func (s *Service) Transactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	var out []models.Transaction
	err := s.store.View(ctx, func(tx storage.Tx) error {
		var err error
		out, err = tx.TransactionsByUser(ctx, userID)
		return err
	})
	return out, err
}

// recordTransaction assigns max(existing ids)+1, or 1 on an empty store.
func recordTransaction(ctx context.Context, tx storage.Tx, txn models.Transaction) (models.Transaction, error) {
	last, err := tx.MaxTransactionID(ctx)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("next transaction id: %w", err)
	}
	txn.ID = last + 1
	txn.Valor = models.RoundMoney(txn.Valor)
	if err := tx.InsertTransaction(ctx, txn); err != nil {
		return models.Transaction{}, fmt.Errorf("insert transaction: %w", err)
	}
	return txn, nil
}

func (s *Service) today() models.Date {
	return models.NewDate(s.now())
}
