package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/evgeny-myasishchev/bank-ledger/pkg/dal"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/events"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/lib-core-golang/diag"
)

var logger = diag.CreateLogger()

const (
	defaultRecentLimit     = 3
	defaultHistoryMaxLimit = 100
)

// NowFunc returns current time
type NowFunc func() time.Time

// Service is a ledger service
type Service interface {
	OpenAccount(ctx context.Context, params OpenAccountParams) (*Account, error)
	GetAccount(ctx context.Context, accountID string) (*Account, error)
	UpdateProfile(ctx context.Context, accountID string, profile Profile) (*Account, error)
	ChangeCredential(ctx context.Context, accountID string, current string, next string) error
	Authenticate(ctx context.Context, accountID string, credential string) error

	Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (*MutationResult, error)
	Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, credential string) (*MutationResult, error)

	RecentHistory(ctx context.Context, accountID string, limit int) ([]Transaction, error)
	HistoryInRange(ctx context.Context, accountID string, startDate string, endDate string) ([]Transaction, error)
	FilteredHistory(ctx context.Context, filter HistoryFilter) ([]Transaction, error)

	VerifyBalance(ctx context.Context, accountID string) (*BalanceReport, error)
}

type service struct {
	storage         dal.Storage
	publisher       events.Publisher
	now             NowFunc
	newID           func() string
	locks           *accountLocks
	bcryptCost      int
	historyMaxLimit int
}

// ServiceOpt is an option of the ledger service
type ServiceOpt func(s *service)

// WithNow sets the clock
func WithNow(now NowFunc) ServiceOpt {
	return func(s *service) {
		s.now = now
	}
}

// WithPublisher sets the publisher of transaction events
func WithPublisher(publisher events.Publisher) ServiceOpt {
	return func(s *service) {
		s.publisher = publisher
	}
}

// WithBcryptCost sets the cost of credential hashes
func WithBcryptCost(cost int) ServiceOpt {
	return func(s *service) {
		if cost > 0 {
			s.bcryptCost = cost
		}
	}
}

// WithHistoryMaxLimit caps the number of recent transactions
func WithHistoryMaxLimit(limit int) ServiceOpt {
	return func(s *service) {
		if limit > 0 {
			s.historyMaxLimit = limit
		}
	}
}

func withIDGenerator(newID func() string) ServiceOpt {
	return func(s *service) {
		s.newID = newID
	}
}

// NewService creates a ledger service on top of the storage
func NewService(storage dal.Storage, opts ...ServiceOpt) Service {
	s := &service{
		storage:         storage,
		publisher:       events.NewNoopPublisher(),
		now:             time.Now,
		newID:           func() string { return uuid.New().String() },
		locks:           newAccountLocks(),
		bcryptCost:      bcrypt.DefaultCost,
		historyMaxLimit: defaultHistoryMaxLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
