package storage

import (
	"context"
	"errors"

	"github.com/hongminglow/telecon-hub-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrAlreadyExists indicates a uniqueness conflict.
var ErrAlreadyExists = errors.New("record already exists")

// ErrCorrupt indicates a persisted collection could not be decoded.
var ErrCorrupt = errors.New("stored data is corrupt")

// Store is the persistence boundary used by the bank service. Every
// mutating operation runs inside Update, which backends serialize globally;
// a callback error discards everything written through its Tx.
type Store interface {
	View(ctx context.Context, fn func(Tx) error) error
	Update(ctx context.Context, fn func(Tx) error) error
	Close()
}

// Tx exposes the collections within one View or Update.
type Tx interface {
	UserByID(ctx context.Context, id int64) (models.User, error)
	UserByCPF(ctx context.Context, cpf string) (models.User, error)
	MaxUserID(ctx context.Context) (int64, error)
	InsertUser(ctx context.Context, user models.User) error

	TransactionsByUser(ctx context.Context, userID int64) ([]models.Transaction, error)
	MaxTransactionID(ctx context.Context) (int64, error)
	InsertTransaction(ctx context.Context, txn models.Transaction) error

	CardByUser(ctx context.Context, userID int64) (models.Card, error)
	InsertCard(ctx context.Context, card models.Card) error
	UpdateCard(ctx context.Context, card models.Card) error

	InvoiceItemsByUser(ctx context.Context, userID int64) ([]models.InvoiceItem, error)
	InsertInvoiceItem(ctx context.Context, item models.InvoiceItem) error

	PixKeysByUser(ctx context.Context, userID int64) ([]models.PixKey, error)
	PixKeyByValue(ctx context.Context, chave string) (models.PixKey, error)
	InsertPixKey(ctx context.Context, key models.PixKey) error
}
