package bank

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/hongminglow/telecon-hub-be/internal/models"
	"github.com/hongminglow/telecon-hub-be/internal/pix"
	"github.com/hongminglow/telecon-hub-be/internal/storage"
)

// WelcomeDepositDescription labels the deposit made on registration.
const WelcomeDepositDescription = "Depósito de boas-vindas"

// NewAccount carries the registration data; the password is already hashed.
type NewAccount struct {
	Nome         string
	CPF          string
	PasswordHash string
}

// Register creates the user, the welcome deposit and the default card in a
// single Update.
func (s *Service) Register(ctx context.Context, acc NewAccount) (models.User, error) {
	nome := strings.TrimSpace(acc.Nome)
	cpf := NormalizeCPF(acc.CPF)
	if nome == "" || cpf == "" || acc.PasswordHash == "" {
		return models.User{}, fmt.Errorf("%w: nome, cpf and senha are required", ErrInvalidInput)
	}

	var user models.User
	err := s.store.Update(ctx, func(tx storage.Tx) error {
		if _, err := tx.UserByCPF(ctx, cpf); err == nil {
			return ErrDuplicateCPF
		} else if !errors.Is(err, storage.ErrNotFound) {
			return err
		}

		last, err := tx.MaxUserID(ctx)
		if err != nil {
			return fmt.Errorf("next user id: %w", err)
		}
		user = models.User{
			ID:           last + 1,
			Nome:         nome,
			CPF:          cpf,
			PasswordHash: acc.PasswordHash,
			CreatedAt:    s.now().UTC(),
		}
		if err := tx.InsertUser(ctx, user); err != nil {
			if errors.Is(err, storage.ErrAlreadyExists) {
				return ErrDuplicateCPF
			}
			return fmt.Errorf("insert user: %w", err)
		}

		if _, err := recordTransaction(ctx, tx, models.Transaction{
			Descricao: WelcomeDepositDescription,
			Categoria: models.CategoryDeposit,
			Valor:     s.welcomeDeposit,
			Data:      s.today(),
			UserID:    user.ID,
		}); err != nil {
			return err
		}

		return tx.InsertCard(ctx, models.Card{
			UserID:       user.ID,
			NomeTitular:  user.Nome,
			NumeroFinal:  s.cardSuffix(),
			LimiteTotal:  s.cardLimit,
			GastosFatura: decimal.Zero,
		})
	})
	if err != nil {
		return models.User{}, err
	}
	s.log.Info().Int64("user_id", user.ID).Msg("account opened")
	return user, nil
}

// UserByCPF looks a user up by national id, for authentication.
func (s *Service) UserByCPF(ctx context.Context, cpf string) (models.User, error) {
	var user models.User
	err := s.store.View(ctx, func(tx storage.Tx) error {
		var err error
		user, err = tx.UserByCPF(ctx, NormalizeCPF(cpf))
		return err
	})
	if errors.Is(err, storage.ErrNotFound) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// User returns the user with the given id.
func (s *Service) User(ctx context.Context, userID int64) (models.User, error) {
	var user models.User
	err := s.store.View(ctx, func(tx storage.Tx) error {
		var err error
		user, err = tx.UserByID(ctx, userID)
		return err
	})
	if errors.Is(err, storage.ErrNotFound) {
		return models.User{}, ErrUserNotFound
	}
	return user, err
}

// NormalizeCPF drops punctuation so "123.456.789-09" and "12345678909"
// identify the same person.
func NormalizeCPF(cpf string) string {
	return pix.DigitsOnly(cpf)
}
