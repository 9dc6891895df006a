package bank

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hongminglow/telecon-hub-be/internal/models"
	"github.com/hongminglow/telecon-hub-be/internal/pix"
	"github.com/hongminglow/telecon-hub-be/internal/storage"
)

// RegisterPixKey binds a key to the user. Key values are unique across all
// users.
func (s *Service) RegisterPixKey(ctx context.Context, userID int64, tipo, chave string) (models.PixKey, error) {
	kind, value, err := pix.NormalizeKey(tipo, chave)
	if err != nil {
		return models.PixKey{}, fmt.Errorf("%w: %v", ErrInvalidPixKey, err)
	}

	key := models.PixKey{
		ID:     uuid.NewString(),
		UserID: userID,
		Tipo:   kind,
		Chave:  value,
	}
	err = s.store.Update(ctx, func(tx storage.Tx) error {
		if err := requireUser(ctx, tx, userID); err != nil {
			return err
		}
		if _, err := tx.PixKeyByValue(ctx, value); err == nil {
			return ErrDuplicatePixKey
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}
		if err := tx.InsertPixKey(ctx, key); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				return ErrDuplicatePixKey
			}
			return err
		}
		return nil
	})
	if err != nil {
		return models.PixKey{}, err
	}
	s.log.Info().Int64("user_id", userID).Str("tipo", kind).Str("key_id", key.ID).Msg("pix key registered")
	return key, nil
}

// PixKeys lists the user's registered keys.
func (s *Service) PixKeys(ctx context.Context, userID int64) ([]models.PixKey, error) {
	var keys []models.PixKey
	err := s.store.View(ctx, func(tx storage.Tx) error {
		var err error
		keys, err = tx.PixKeysByUser(ctx, userID)
		return err
	})
	return keys, err
}

// ChargeQRCode builds a "Copia e Cola" payload charging amount to the user.
// The user's first registered key receives the funds; without one a fresh
// random key is used.
func (s *Service) ChargeQRCode(ctx context.Context, userID int64, amount decimal.Decimal) (string, error) {
	amount, err := validAmount(amount)
	if err != nil {
		return "", err
	}

	var (
		user models.User
		keys []models.PixKey
	)
	err = s.store.View(ctx, func(tx storage.Tx) error {
		var err error
		if user, err = tx.UserByID(ctx, userID); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}
		keys, err = tx.PixKeysByUser(ctx, userID)
		return err
	})
	if err != nil {
		return "", err
	}

	key := pix.NewRandomKey()
	if len(keys) > 0 {
		key = keys[0].Chave
	}
	payload, err := pix.Payload{
		Key:          key,
		Amount:       amount,
		MerchantName: user.Nome,
		MerchantCity: s.merchantCity,
	}.Encode()
	switch {
	case errors.Is(err, pix.ErrInvalidAmount):
		return "", fmt.Errorf("%w: %v", ErrInvalidAmount, err)
	case errors.Is(err, pix.ErrInvalidKey):
		return "", fmt.Errorf("%w: %v", ErrInvalidPixKey, err)
	case err != nil:
		return "", err
	}
	return payload, nil
}
