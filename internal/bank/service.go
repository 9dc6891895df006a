// Package bank implements the account ledger: derived balances, the funds
// validator, transaction recording, debit operations, invoice payment,
// account opening, categorization and PIX key management.
package bank

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/hongminglow/telecon-hub-be/internal/storage"
)

// Defaults applied to every new account.
var (
	DefaultWelcomeDeposit = decimal.NewFromInt(500)
	DefaultCardLimit      = decimal.NewFromInt(1000)
)

// DefaultMerchantCity is printed on generated PIX charges.
const DefaultMerchantCity = "SAO PAULO"

// Service runs every ledger operation against a storage.Store. Mutations go
// through Store.Update, which serializes them.
type Service struct {
	store          storage.Store
	log            zerolog.Logger
	now            func() time.Time
	welcomeDeposit decimal.Decimal
	cardLimit      decimal.Decimal
	merchantCity   string
	cardSuffix     func() string
}

// Option customizes a Service.
type Option func(*Service)

// WithLogger sets the logger used for operation events.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock overrides the time source used to date transactions.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithWelcomeDeposit sets the credit given to new accounts.
func WithWelcomeDeposit(amount decimal.Decimal) Option {
	return func(s *Service) { s.welcomeDeposit = amount }
}

// WithCardLimit sets the limit of cards issued on registration.
func WithCardLimit(limit decimal.Decimal) Option {
	return func(s *Service) { s.cardLimit = limit }
}

// WithMerchantCity sets the city printed on PIX charges.
func WithMerchantCity(city string) Option {
	return func(s *Service) { s.merchantCity = city }
}

// WithCardSuffix overrides the generator of masked card digits.
func WithCardSuffix(gen func() string) Option {
	return func(s *Service) { s.cardSuffix = gen }
}

// New constructs the service.
func New(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store:          store,
		log:            zerolog.Nop(),
		now:            time.Now,
		welcomeDeposit: DefaultWelcomeDeposit,
		cardLimit:      DefaultCardLimit,
		merchantCity:   DefaultMerchantCity,
		cardSuffix:     randomCardSuffix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func randomCardSuffix() string {
	return fmt.Sprintf("%04d", 1000+rand.Intn(9000))
}
