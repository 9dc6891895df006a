// Package seed loads demo data into a storage.Store, either from a YAML
// fixture or from a legacy data directory of plain JSON files.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hongminglow/telecon-hub-be/internal/auth"
	"github.com/hongminglow/telecon-hub-be/internal/models"
	"github.com/hongminglow/telecon-hub-be/internal/pix"
	"github.com/hongminglow/telecon-hub-be/internal/storage"
)

// Fixture is a full demo dataset. Users carry plaintext passwords which are
// hashed on Apply; zero ids are assigned from the store.
type Fixture struct {
	Users        []User               `yaml:"users"`
	Transactions []models.Transaction `yaml:"transactions"`
	Cards        []models.Card        `yaml:"cards"`
	Invoice      []models.InvoiceItem `yaml:"invoice"`
	PixKeys      []models.PixKey      `yaml:"pixKeys"`
}

// User is a fixture account.
type User struct {
	ID    int64  `yaml:"id"`
	Nome  string `yaml:"nome"`
	CPF   string `yaml:"cpf"`
	Senha string `yaml:"senha"`
}

// Summary counts what Apply wrote, what it left alone because the record
// already existed and what it refused as invalid.
type Summary struct {
	Inserted map[string]int
	Skipped  map[string]int
	Invalid  map[string]int
}

func newSummary() Summary {
	return Summary{Inserted: map[string]int{}, Skipped: map[string]int{}, Invalid: map[string]int{}}
}

func (s Summary) String() string {
	var b strings.Builder
	for _, name := range []string{"users", "transactions", "cards", "invoice", "pixKeys"} {
		fmt.Fprintf(&b, "%-13s inserted=%d skipped=%d", name, s.Inserted[name], s.Skipped[name])
		if n := s.Invalid[name]; n > 0 {
			fmt.Fprintf(&b, " invalid=%d", n)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// LoadFixture reads a YAML fixture from path.
func LoadFixture(path string) (Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Fixture{}, fmt.Errorf("read fixture: %w", err)
	}
	var f Fixture
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return Fixture{}, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return f, nil
}

// Apply writes the fixture in a single store update. Records that collide
// with existing ones are skipped, so applying twice is harmless.
func Apply(ctx context.Context, store storage.Store, f Fixture) (Summary, error) {
	sum := newSummary()
	now := time.Now().UTC()
	err := store.Update(ctx, func(tx storage.Tx) error {
		for _, u := range f.Users {
			user, err := newUser(ctx, tx, u, now)
			if err != nil {
				return err
			}
			if err := count(sum, "users", tx.InsertUser(ctx, user)); err != nil {
				return fmt.Errorf("insert user %s: %w", u.CPF, err)
			}
		}
		for _, t := range f.Transactions {
			if t.ID == 0 {
				maxID, err := tx.MaxTransactionID(ctx)
				if err != nil {
					return err
				}
				t.ID = maxID + 1
			}
			t.Valor = models.RoundMoney(t.Valor)
			if t.Data.IsZero() {
				t.Data = models.NewDate(now)
			}
			if err := count(sum, "transactions", tx.InsertTransaction(ctx, t)); err != nil {
				return fmt.Errorf("insert transaction %d: %w", t.ID, err)
			}
		}
		for _, c := range f.Cards {
			if err := count(sum, "cards", tx.InsertCard(ctx, c)); err != nil {
				return fmt.Errorf("insert card for user %d: %w", c.UserID, err)
			}
		}
		for _, item := range f.Invoice {
			if err := count(sum, "invoice", tx.InsertInvoiceItem(ctx, item)); err != nil {
				return fmt.Errorf("insert invoice item %d: %w", item.ID, err)
			}
		}
		for _, k := range f.PixKeys {
			// same canonical form as keys registered through the API, so
			// global uniqueness holds across both paths
			kind, value, err := pix.NormalizeKey(k.Tipo, k.Chave)
			if err != nil {
				sum.Invalid["pixKeys"]++
				continue
			}
			k.Tipo, k.Chave = kind, value
			if k.ID == "" {
				k.ID = pix.NewRandomKey()
			}
			if err := count(sum, "pixKeys", tx.InsertPixKey(ctx, k)); err != nil {
				return fmt.Errorf("insert pix key %s: %w", k.Chave, err)
			}
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	return sum, nil
}

func newUser(ctx context.Context, tx storage.Tx, u User, now time.Time) (models.User, error) {
	cpf := pix.DigitsOnly(u.CPF)
	if strings.TrimSpace(u.Nome) == "" || cpf == "" || u.Senha == "" {
		return models.User{}, fmt.Errorf("fixture user %q: nome, cpf and senha are required", u.Nome)
	}
	id := u.ID
	if id == 0 {
		maxID, err := tx.MaxUserID(ctx)
		if err != nil {
			return models.User{}, err
		}
		id = maxID + 1
	}
	hash, err := auth.HashPassword(u.Senha)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password for %s: %w", cpf, err)
	}
	return models.User{ID: id, Nome: u.Nome, CPF: cpf, PasswordHash: hash, CreatedAt: now}, nil
}

// count records the outcome of an insert; duplicates are not errors here.
func count(sum Summary, name string, err error) error {
	switch {
	case err == nil:
		sum.Inserted[name]++
		return nil
	case errors.Is(err, storage.ErrAlreadyExists):
		sum.Skipped[name]++
		return nil
	default:
		return err
	}
}
