package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hongminglow/telecon-hub-be/internal/models"
	"github.com/hongminglow/telecon-hub-be/internal/storage"
)

// TestStoreIntegration runs the storage contract against a live database.
func TestStoreIntegration(t *testing.T) {
	if os.Getenv("RUN_PG_INTEGRATION") != "true" {
		t.Skip("set RUN_PG_INTEGRATION=true to run this integration test")
	}
	for _, path := range []string{".env", "../.env", "../../.env", "../../../.env"} {
		_ = godotenv.Overload(path)
	}
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	store, err := NewStore(ctx, dbURL)
	require.NoError(t, err)
	defer store.Close()

	stamp := time.Now().UnixNano()
	cpf := fmt.Sprintf("%011d", stamp%100_000_000_000)
	var userID, txnID int64

	err = store.Update(ctx, func(tx storage.Tx) error {
		last, err := tx.MaxUserID(ctx)
		require.NoError(t, err)
		userID = last + 1
		require.NoError(t, tx.InsertUser(ctx, models.User{ID: userID, Nome: "PG Test", CPF: cpf, PasswordHash: "hash"}))
		assert.ErrorIs(t, tx.InsertUser(ctx, models.User{ID: userID + 1, Nome: "Dup", CPF: cpf, PasswordHash: "hash"}), storage.ErrAlreadyExists)

		lastTxn, err := tx.MaxTransactionID(ctx)
		require.NoError(t, err)
		txnID = lastTxn + 1
		require.NoError(t, tx.InsertTransaction(ctx, models.Transaction{
			ID: txnID, Descricao: "Depósito de boas-vindas", Categoria: models.CategoryDeposit,
			Valor: decimal.RequireFromString("500.00"), Data: models.NewDate(time.Now()), UserID: userID,
		}))
		require.NoError(t, tx.InsertCard(ctx, models.Card{
			UserID: userID, NomeTitular: "PG Test", NumeroFinal: "1234",
			LimiteTotal: decimal.NewFromInt(1000), GastosFatura: decimal.RequireFromString("120.35"),
		}))
		require.NoError(t, tx.InsertInvoiceItem(ctx, models.InvoiceItem{
			UserID: userID, Data: models.NewDate(time.Now()), Descricao: "Livraria", Valor: decimal.RequireFromString("120.35"),
		}))
		require.NoError(t, tx.InsertPixKey(ctx, models.PixKey{ID: fmt.Sprintf("pg-%d", stamp), UserID: userID, Tipo: models.PixKeyCPF, Chave: cpf}))
		require.NoError(t, tx.InsertPixKey(ctx, models.PixKey{ID: fmt.Sprintf("pg-%d-z", stamp), UserID: userID, Tipo: models.PixKeyEmail, Chave: fmt.Sprintf("zeta%d@example.com", stamp)}))
		return tx.InsertPixKey(ctx, models.PixKey{ID: fmt.Sprintf("pg-%d-a", stamp), UserID: userID, Tipo: models.PixKeyEmail, Chave: fmt.Sprintf("alfa%d@example.com", stamp)})
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = store.Update(ctx, func(tx storage.Tx) error {
		card, err := tx.CardByUser(ctx, userID)
		require.NoError(t, err)
		card.GastosFatura = decimal.Zero
		require.NoError(t, tx.UpdateCard(ctx, card))
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = store.View(ctx, func(tx storage.Tx) error {
		user, err := tx.UserByCPF(ctx, cpf)
		require.NoError(t, err)
		assert.Equal(t, userID, user.ID)

		txns, err := tx.TransactionsByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, txns, 1)
		assert.Equal(t, txnID, txns[0].ID)
		assert.Equal(t, "500.00", txns[0].Valor.StringFixed(2))

		card, err := tx.CardByUser(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, "120.35", card.GastosFatura.StringFixed(2), "rolled back update must not persist")

		items, err := tx.InvoiceItemsByUser(ctx, userID)
		require.NoError(t, err)
		assert.Len(t, items, 1)

		key, err := tx.PixKeyByValue(ctx, cpf)
		require.NoError(t, err)
		assert.Equal(t, userID, key.UserID)

		keys, err := tx.PixKeysByUser(ctx, userID)
		require.NoError(t, err)
		require.Len(t, keys, 3)
		assert.Equal(t, cpf, keys[0].Chave, "keys come back in registration order")
		assert.Equal(t, fmt.Sprintf("zeta%d@example.com", stamp), keys[1].Chave)
		assert.Equal(t, fmt.Sprintf("alfa%d@example.com", stamp), keys[2].Chave)

		_, err = tx.CardByUser(ctx, -1)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		return nil
	})
	require.NoError(t, err)
}
