package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/hongminglow/telecon-hub-be/internal/models"
	"github.com/hongminglow/telecon-hub-be/internal/storage"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

// updateLockKey is the advisory lock taken by every Update.
const updateLockKey int64 = 0x7465_6c65_636f_6e

// Store provides Postgres-backed persistence for every collection.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a new Store and runs migrations.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{pool: pool}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT PRIMARY KEY,
			nome TEXT NOT NULL,
			cpf TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id BIGINT PRIMARY KEY,
			descricao TEXT NOT NULL,
			categoria TEXT NOT NULL,
			valor NUMERIC(24,2) NOT NULL,
			data DATE NOT NULL,
			user_id BIGINT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS transactions_user_idx ON transactions (user_id);`,
		`CREATE TABLE IF NOT EXISTS cards (
			user_id BIGINT PRIMARY KEY,
			nome_titular TEXT NOT NULL,
			numero_final TEXT NOT NULL,
			limite_total NUMERIC(24,2) NOT NULL DEFAULT 0,
			gastos_fatura NUMERIC(24,2) NOT NULL DEFAULT 0
		);`,
		`CREATE TABLE IF NOT EXISTS invoice_items (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL,
			data DATE NOT NULL,
			descricao TEXT NOT NULL,
			valor NUMERIC(24,2) NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS invoice_items_user_idx ON invoice_items (user_id);`,
		`CREATE TABLE IF NOT EXISTS pix_keys (
			id TEXT PRIMARY KEY,
			seq BIGSERIAL NOT NULL,
			user_id BIGINT NOT NULL,
			tipo TEXT NOT NULL,
			chave TEXT UNIQUE NOT NULL
		);`,
		`ALTER TABLE pix_keys ADD COLUMN IF NOT EXISTS seq BIGSERIAL NOT NULL;`,
		`CREATE INDEX IF NOT EXISTS pix_keys_user_idx ON pix_keys (user_id, seq);`,
	}
	for _, stmt := range stmts {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}

// View runs fn inside a read-only transaction.
func (s *Store) View(ctx context.Context, fn func(storage.Tx) error) error {
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{AccessMode: pgx.ReadOnly}, func(t pgx.Tx) error {
		return fn(&tx{q: t})
	})
}

// Update runs fn inside one transaction serialized by an advisory lock, so
// balance checks and max(id)+1 issuance never interleave.
func (s *Store) Update(ctx context.Context, fn func(storage.Tx) error) error {
	return pgx.BeginTxFunc(ctx, s.pool, pgx.TxOptions{}, func(t pgx.Tx) error {
		if _, err := t.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, updateLockKey); err != nil {
			return fmt.Errorf("acquire update lock: %w", err)
		}
		return fn(&tx{q: t})
	})
}

type tx struct {
	q pgx.Tx
}

func (t *tx) UserByID(ctx context.Context, id int64) (models.User, error) {
	const query = `SELECT id, nome, cpf, password_hash, created_at FROM users WHERE id = $1;`
	return scanUser(t.q.QueryRow(ctx, query, id))
}

func (t *tx) UserByCPF(ctx context.Context, cpf string) (models.User, error) {
	const query = `SELECT id, nome, cpf, password_hash, created_at FROM users WHERE cpf = $1;`
	return scanUser(t.q.QueryRow(ctx, query, cpf))
}

func (t *tx) MaxUserID(ctx context.Context) (int64, error) {
	var id int64
	err := t.q.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) FROM users;`).Scan(&id)
	return id, err
}

func (t *tx) InsertUser(ctx context.Context, user models.User) error {
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	const query = `INSERT INTO users (id, nome, cpf, password_hash, created_at) VALUES ($1, $2, $3, $4, $5) ON CONFLICT DO NOTHING;`
	return t.insertOnce(ctx, query, user.ID, user.Nome, user.CPF, user.PasswordHash, createdAt)
}

func (t *tx) TransactionsByUser(ctx context.Context, userID int64) ([]models.Transaction, error) {
	const query = `
	SELECT id, descricao, categoria, valor::text, data, user_id
	FROM transactions
	WHERE user_id = $1
	ORDER BY id;
	`
	rows, err := t.q.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.Transaction, 0)
	for rows.Next() {
		var (
			txn   models.Transaction
			valor string
			data  time.Time
		)
		if err := rows.Scan(&txn.ID, &txn.Descricao, &txn.Categoria, &valor, &data, &txn.UserID); err != nil {
			return nil, err
		}
		if txn.Valor, err = decimal.NewFromString(valor); err != nil {
			return nil, fmt.Errorf("%w: transaction %d valor: %v", storage.ErrCorrupt, txn.ID, err)
		}
		txn.Data = models.NewDate(data)
		out = append(out, txn)
	}
	return out, rows.Err()
}

func (t *tx) MaxTransactionID(ctx context.Context) (int64, error) {
	var id int64
	err := t.q.QueryRow(ctx, `SELECT COALESCE(MAX(id), 0) FROM transactions;`).Scan(&id)
	return id, err
}

func (t *tx) InsertTransaction(ctx context.Context, txn models.Transaction) error {
	const query = `
	INSERT INTO transactions (id, descricao, categoria, valor, data, user_id)
	VALUES ($1, $2, $3, $4::numeric, $5, $6)
	ON CONFLICT DO NOTHING;
	`
	return t.insertOnce(ctx, query, txn.ID, txn.Descricao, txn.Categoria, txn.Valor.String(), txn.Data.Time, txn.UserID)
}

func (t *tx) CardByUser(ctx context.Context, userID int64) (models.Card, error) {
	const query = `
	SELECT user_id, nome_titular, numero_final, limite_total::text, gastos_fatura::text
	FROM cards
	WHERE user_id = $1;
	`
	var (
		card         models.Card
		limit, inUse string
	)
	err := t.q.QueryRow(ctx, query, userID).Scan(&card.UserID, &card.NomeTitular, &card.NumeroFinal, &limit, &inUse)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Card{}, storage.ErrNotFound
		}
		return models.Card{}, err
	}
	if card.LimiteTotal, err = decimal.NewFromString(limit); err != nil {
		return models.Card{}, fmt.Errorf("%w: card %d limite: %v", storage.ErrCorrupt, userID, err)
	}
	if card.GastosFatura, err = decimal.NewFromString(inUse); err != nil {
		return models.Card{}, fmt.Errorf("%w: card %d gastos: %v", storage.ErrCorrupt, userID, err)
	}
	return card, nil
}

func (t *tx) InsertCard(ctx context.Context, card models.Card) error {
	const query = `
	INSERT INTO cards (user_id, nome_titular, numero_final, limite_total, gastos_fatura)
	VALUES ($1, $2, $3, $4::numeric, $5::numeric)
	ON CONFLICT DO NOTHING;
	`
	return t.insertOnce(ctx, query, card.UserID, card.NomeTitular, card.NumeroFinal, card.LimiteTotal.String(), card.GastosFatura.String())
}

func (t *tx) UpdateCard(ctx context.Context, card models.Card) error {
	const query = `
	UPDATE cards
	SET nome_titular = $2, numero_final = $3, limite_total = $4::numeric, gastos_fatura = $5::numeric
	WHERE user_id = $1;
	`
	tag, err := t.q.Exec(ctx, query, card.UserID, card.NomeTitular, card.NumeroFinal, card.LimiteTotal.String(), card.GastosFatura.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (t *tx) InvoiceItemsByUser(ctx context.Context, userID int64) ([]models.InvoiceItem, error) {
	const query = `
	SELECT id, user_id, data, descricao, valor::text
	FROM invoice_items
	WHERE user_id = $1
	ORDER BY data, id;
	`
	rows, err := t.q.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.InvoiceItem, 0)
	for rows.Next() {
		var (
			item  models.InvoiceItem
			data  time.Time
			valor string
		)
		if err := rows.Scan(&item.ID, &item.UserID, &data, &item.Descricao, &valor); err != nil {
			return nil, err
		}
		if item.Valor, err = decimal.NewFromString(valor); err != nil {
			return nil, fmt.Errorf("%w: invoice item %d valor: %v", storage.ErrCorrupt, item.ID, err)
		}
		item.Data = models.NewDate(data)
		out = append(out, item)
	}
	return out, rows.Err()
}

func (t *tx) InsertInvoiceItem(ctx context.Context, item models.InvoiceItem) error {
	if item.ID == 0 {
		const query = `INSERT INTO invoice_items (user_id, data, descricao, valor) VALUES ($1, $2, $3, $4::numeric);`
		_, err := t.q.Exec(ctx, query, item.UserID, item.Data.Time, item.Descricao, item.Valor.String())
		return mapWriteErr(err)
	}
	const query = `INSERT INTO invoice_items (id, user_id, data, descricao, valor) VALUES ($1, $2, $3, $4, $5::numeric) ON CONFLICT DO NOTHING;`
	if err := t.insertOnce(ctx, query, item.ID, item.UserID, item.Data.Time, item.Descricao, item.Valor.String()); err != nil {
		return err
	}
	// keep the serial ahead of explicitly numbered rows
	const bump = `SELECT setval(pg_get_serial_sequence('invoice_items', 'id'), (SELECT MAX(id) FROM invoice_items));`
	_, err := t.q.Exec(ctx, bump)
	return err
}

func (t *tx) PixKeysByUser(ctx context.Context, userID int64) ([]models.PixKey, error) {
	// registration order; the first key receives QR charges
	const query = `SELECT id, user_id, tipo, chave FROM pix_keys WHERE user_id = $1 ORDER BY seq;`
	rows, err := t.q.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.PixKey, 0)
	for rows.Next() {
		var k models.PixKey
		if err := rows.Scan(&k.ID, &k.UserID, &k.Tipo, &k.Chave); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

func (t *tx) PixKeyByValue(ctx context.Context, chave string) (models.PixKey, error) {
	const query = `SELECT id, user_id, tipo, chave FROM pix_keys WHERE chave = $1;`
	var k models.PixKey
	if err := t.q.QueryRow(ctx, query, chave).Scan(&k.ID, &k.UserID, &k.Tipo, &k.Chave); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.PixKey{}, storage.ErrNotFound
		}
		return models.PixKey{}, err
	}
	return k, nil
}

func (t *tx) InsertPixKey(ctx context.Context, key models.PixKey) error {
	const query = `INSERT INTO pix_keys (id, user_id, tipo, chave) VALUES ($1, $2, $3, $4) ON CONFLICT DO NOTHING;`
	return t.insertOnce(ctx, query, key.ID, key.UserID, key.Tipo, key.Chave)
}

// insertOnce runs an INSERT ... ON CONFLICT DO NOTHING and reports a skipped
// row as storage.ErrAlreadyExists. A raised unique violation would abort the
// surrounding transaction.
func (t *tx) insertOnce(ctx context.Context, query string, args ...any) error {
	tag, err := t.q.Exec(ctx, query, args...)
	if err != nil {
		return mapWriteErr(err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrAlreadyExists
	}
	return nil
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(&user.ID, &user.Nome, &user.CPF, &user.PasswordHash, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return storage.ErrAlreadyExists
	}
	return err
}
