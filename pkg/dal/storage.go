package dal

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/evgeny-myasishchev/bank-ledger/pkg/lib-core-golang/diag"
)

var logger = diag.CreateLogger()

var (
	// ErrNotFound is returned when requested account does not exist
	ErrNotFound = errors.New("Record not found")

	// ErrDuplicate is returned when inserting an account with an existing id
	ErrDuplicate = errors.New("Duplicate record")

	// ErrVersionConflict is returned when the account was modified concurrently
	ErrVersionConflict = errors.New("Version conflict")
)

// Transaction types
const (
	TransactionTypeDeposit  = "Deposit"
	TransactionTypeWithdraw = "Withdraw"
)

// ProfileDTO holds descriptive account fields
type ProfileDTO struct {
	FullName      string
	Phone         string
	AccountType   string
	AccountNumber string
	Branch        string
	DateOfBirth   string
	Gender        string
	MaritalStatus string
	Age           int
	Aadhaar       string
	PAN           string
}

// AccountDTO is a stored account. Amounts are in minor units
type AccountDTO struct {
	ID             string
	CredentialHash string
	Balance        int64
	InitialBalance int64
	Version        int64
	Profile        ProfileDTO
	CreatedAt      time.Time
}

// TransactionDTO is an immutable ledger record
type TransactionDTO struct {
	ID           string
	AccountID    string
	Type         string
	Amount       int64
	BalanceAfter int64
	CreatedAt    time.Time
}

// MutationDTO describes a balance change together with its ledger record.
// The change is applied only if the account is still at ExpectedVersion
type MutationDTO struct {
	AccountID       string
	ExpectedVersion int64
	NewBalance      int64
	Transaction     TransactionDTO
}

// TransactionsQuery filters transactions. Zero values are unconstrained.
// From is inclusive, To is exclusive
type TransactionsQuery struct {
	AccountID string
	Type      string
	From      time.Time
	To        time.Time
	Limit     int
}

// Storage is a persistance layer
type Storage interface {
	Setup(ctx context.Context) error

	CreateAccount(ctx context.Context, account *AccountDTO) error
	GetAccount(ctx context.Context, accountID string) (*AccountDTO, error)
	UpdateProfile(ctx context.Context, accountID string, profile ProfileDTO) error
	UpdateCredential(ctx context.Context, accountID string, credentialHash string) error

	// ApplyMutation updates the balance and appends the transaction atomically
	ApplyMutation(ctx context.Context, mutation *MutationDTO) error

	// QueryTransactions returns matching transactions, most recent first
	QueryTransactions(ctx context.Context, query TransactionsQuery) ([]TransactionDTO, error)
}
