package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/hongminglow/telecon-hub-be/internal/models"
	"github.com/hongminglow/telecon-hub-be/internal/storage"
)

// Collection file names, kept compatible with the legacy data directory.
const (
	UsersFile        = "usuarios.json"
	TransactionsFile = "transacoes.json"
	CardsFile        = "cartao.json"
	InvoiceFile      = "fatura.json"
	PixKeysFile      = "chavesPix.json"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// Store persists every collection as a flat JSON file under one directory.
// Updates are serialized by a store-wide lock; readers share it.
type Store struct {
	dir string
	mu  sync.RWMutex
}

// userRecord is the on-disk shape of a user; the hash never leaves the store
// through models.User JSON.
type userRecord struct {
	ID        int64     `json:"id"`
	Nome      string    `json:"nome"`
	CPF       string    `json:"cpf"`
	SenhaHash string    `json:"senhaHash"`
	CreatedAt time.Time `json:"createdAt"`
}

// Open prepares dir for use, creating it if needed.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

// Close is a no-op; files are closed after every write.
func (s *Store) Close() {}

// View runs fn against a read-only snapshot of the files.
func (s *Store) View(ctx context.Context, fn func(storage.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(newTx(s.dir, false))
}

// Update runs fn exclusively and persists the collections it changed. Every
// dirty collection is staged before any file is replaced, so a failure while
// staging leaves all files untouched.
func (s *Store) Update(ctx context.Context, fn func(storage.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t := newTx(s.dir, true)
	if err := fn(t); err != nil {
		return err
	}
	return t.commit()
}

type tx struct {
	dir      string
	writable bool

	users    collection[userRecord]
	txns     collection[models.Transaction]
	cards    collection[models.Card]
	invoices collection[models.InvoiceItem]
	pixKeys  collection[models.PixKey]
}

func newTx(dir string, writable bool) *tx {
	return &tx{
		dir:      dir,
		writable: writable,
		users:    collection[userRecord]{file: UsersFile},
		txns:     collection[models.Transaction]{file: TransactionsFile},
		cards:    collection[models.Card]{file: CardsFile},
		invoices: collection[models.InvoiceItem]{file: InvoiceFile},
		pixKeys:  collection[models.PixKey]{file: PixKeysFile},
	}
}

func (t *tx) commit() error {
	stagers := []func(string) (staged, bool, error){
		t.users.stage, t.txns.stage, t.cards.stage, t.invoices.stage, t.pixKeys.stage,
	}
	var pending []staged
	for _, stage := range stagers {
		st, ok, err := stage(t.dir)
		if err != nil {
			discard(pending)
			return err
		}
		if ok {
			pending = append(pending, st)
		}
	}
	for i, st := range pending {
		if err := os.Rename(st.tmp, st.final); err != nil {
			discard(pending[i:])
			return fmt.Errorf("replace %s: %w", st.final, err)
		}
	}
	return nil
}

func discard(pending []staged) {
	for _, st := range pending {
		_ = os.Remove(st.tmp)
	}
}

func (t *tx) checkWritable() error {
	if !t.writable {
		return errors.New("jsonfile: write in read-only transaction")
	}
	return nil
}

func (t *tx) UserByID(_ context.Context, id int64) (models.User, error) {
	users, err := t.users.all(t.dir)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u.model(), nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (t *tx) UserByCPF(_ context.Context, cpf string) (models.User, error) {
	users, err := t.users.all(t.dir)
	if err != nil {
		return models.User{}, err
	}
	for _, u := range users {
		if u.CPF == cpf {
			return u.model(), nil
		}
	}
	return models.User{}, storage.ErrNotFound
}

func (t *tx) MaxUserID(_ context.Context) (int64, error) {
	users, err := t.users.all(t.dir)
	if err != nil {
		return 0, err
	}
	var maxID int64
	for _, u := range users {
		if u.ID > maxID {
			maxID = u.ID
		}
	}
	return maxID, nil
}

func (t *tx) InsertUser(_ context.Context, user models.User) error {
	if err := t.checkWritable(); err != nil {
		return err
	}
	users, err := t.users.all(t.dir)
	if err != nil {
		return err
	}
	for _, u := range users {
		if u.ID == user.ID || u.CPF == user.CPF {
			return storage.ErrAlreadyExists
		}
	}
	return t.users.append(t.dir, userRecord{
		ID:        user.ID,
		Nome:      user.Nome,
		CPF:       user.CPF,
		SenhaHash: user.PasswordHash,
		CreatedAt: user.CreatedAt,
	})
}

func (t *tx) TransactionsByUser(_ context.Context, userID int64) ([]models.Transaction, error) {
	txns, err := t.txns.all(t.dir)
	if err != nil {
		return nil, err
	}
	out := make([]models.Transaction, 0)
	for _, txn := range txns {
		if txn.UserID == userID {
			out = append(out, txn)
		}
	}
	return out, nil
}

func (t *tx) MaxTransactionID(_ context.Context) (int64, error) {
	txns, err := t.txns.all(t.dir)
	if err != nil {
		return 0, err
	}
	var maxID int64
	for _, txn := range txns {
		if txn.ID > maxID {
			maxID = txn.ID
		}
	}
	return maxID, nil
}

func (t *tx) InsertTransaction(_ context.Context, txn models.Transaction) error {
	if err := t.checkWritable(); err != nil {
		return err
	}
	txns, err := t.txns.all(t.dir)
	if err != nil {
		return err
	}
	for _, existing := range txns {
		if existing.ID == txn.ID {
			return storage.ErrAlreadyExists
		}
	}
	return t.txns.append(t.dir, txn)
}

func (t *tx) CardByUser(_ context.Context, userID int64) (models.Card, error) {
	cards, err := t.cards.all(t.dir)
	if err != nil {
		return models.Card{}, err
	}
	for _, c := range cards {
		if c.UserID == userID {
			return c, nil
		}
	}
	return models.Card{}, storage.ErrNotFound
}

func (t *tx) InsertCard(_ context.Context, card models.Card) error {
	if err := t.checkWritable(); err != nil {
		return err
	}
	cards, err := t.cards.all(t.dir)
	if err != nil {
		return err
	}
	for _, c := range cards {
		if c.UserID == card.UserID {
			return storage.ErrAlreadyExists
		}
	}
	return t.cards.append(t.dir, card)
}

func (t *tx) UpdateCard(_ context.Context, card models.Card) error {
	if err := t.checkWritable(); err != nil {
		return err
	}
	cards, err := t.cards.all(t.dir)
	if err != nil {
		return err
	}
	for i := range cards {
		if cards[i].UserID == card.UserID {
			cards[i] = card
			t.cards.dirty = true
			return nil
		}
	}
	return storage.ErrNotFound
}

func (t *tx) InvoiceItemsByUser(_ context.Context, userID int64) ([]models.InvoiceItem, error) {
	items, err := t.invoices.all(t.dir)
	if err != nil {
		return nil, err
	}
	out := make([]models.InvoiceItem, 0)
	for _, item := range items {
		if item.UserID == userID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (t *tx) InsertInvoiceItem(_ context.Context, item models.InvoiceItem) error {
	if err := t.checkWritable(); err != nil {
		return err
	}
	items, err := t.invoices.all(t.dir)
	if err != nil {
		return err
	}
	if item.ID == 0 {
		for _, existing := range items {
			if existing.ID > item.ID {
				item.ID = existing.ID
			}
		}
		item.ID++
	} else {
		for _, existing := range items {
			if existing.ID == item.ID {
				return storage.ErrAlreadyExists
			}
		}
	}
	return t.invoices.append(t.dir, item)
}

func (t *tx) PixKeysByUser(_ context.Context, userID int64) ([]models.PixKey, error) {
	keys, err := t.pixKeys.all(t.dir)
	if err != nil {
		return nil, err
	}
	out := make([]models.PixKey, 0)
	for _, k := range keys {
		if k.UserID == userID {
			out = append(out, k)
		}
	}
	return out, nil
}

func (t *tx) PixKeyByValue(_ context.Context, chave string) (models.PixKey, error) {
	keys, err := t.pixKeys.all(t.dir)
	if err != nil {
		return models.PixKey{}, err
	}
	for _, k := range keys {
		if k.Chave == chave {
			return k, nil
		}
	}
	return models.PixKey{}, storage.ErrNotFound
}

func (t *tx) InsertPixKey(ctx context.Context, key models.PixKey) error {
	if err := t.checkWritable(); err != nil {
		return err
	}
	if _, err := t.PixKeyByValue(ctx, key.Chave); err == nil {
		return storage.ErrAlreadyExists
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	return t.pixKeys.append(t.dir, key)
}

func (u userRecord) model() models.User {
	return models.User{
		ID:           u.ID,
		Nome:         u.Nome,
		CPF:          u.CPF,
		PasswordHash: u.SenhaHash,
		CreatedAt:    u.CreatedAt,
	}
}
