package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/evgeny-myasishchev/bank-ledger/pkg/dal"
)

// TransactionType is a type of a ledger transaction
type TransactionType string

// Transaction types
const (
	TransactionTypeDeposit  TransactionType = dal.TransactionTypeDeposit
	TransactionTypeWithdraw TransactionType = dal.TransactionTypeWithdraw
)

func parseTransactionType(raw string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
		return "", nil
	case "deposit":
		return TransactionTypeDeposit, nil
	case "withdraw":
		return TransactionTypeWithdraw, nil
	}
	return "", newError(KindInvalidInput, "Unknown transaction type %q", raw)
}

// Transaction is an immutable ledger record
type Transaction struct {
	ID           string          `json:"id"`
	AccountID    string          `json:"accountId"`
	Type         TransactionType `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	BalanceAfter decimal.Decimal `json:"balanceAfter"`
	Timestamp    time.Time       `json:"timestamp"`
}

func newTransactionFromDTO(dto dal.TransactionDTO) Transaction {
	return Transaction{
		ID:           dto.ID,
		AccountID:    dto.AccountID,
		Type:         TransactionType(dto.Type),
		Amount:       fromMinorUnits(dto.Amount),
		BalanceAfter: fromMinorUnits(dto.BalanceAfter),
		Timestamp:    dto.CreatedAt,
	}
}

// MutationResult is a result of a deposit or withdrawal
type MutationResult struct {
	AccountID   string          `json:"accountId"`
	Balance     decimal.Decimal `json:"balance"`
	Transaction Transaction     `json:"transaction"`
}

// Profile holds descriptive account fields
type Profile struct {
	FullName      string `json:"fullName"`
	Phone         string `json:"phone"`
	AccountType   string `json:"accountType"`
	AccountNumber string `json:"accountNumber"`
	Branch        string `json:"branch"`
	DateOfBirth   string `json:"dateOfBirth"`
	Gender        string `json:"gender"`
	MaritalStatus string `json:"maritalStatus"`
	Age           int    `json:"age"`
	Aadhaar       string `json:"aadhaar"`
	PAN           string `json:"pan"`
}

func (p Profile) toDTO() dal.ProfileDTO {
	return dal.ProfileDTO(p)
}

// Account is an account without its credential
type Account struct {
	ID             string          `json:"id"`
	Balance        decimal.Decimal `json:"balance"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	Profile        Profile         `json:"profile"`
	CreatedAt      time.Time       `json:"createdAt"`
}

func newAccountFromDTO(dto *dal.AccountDTO) *Account {
	return &Account{
		ID:             dto.ID,
		Balance:        fromMinorUnits(dto.Balance),
		InitialBalance: fromMinorUnits(dto.InitialBalance),
		Profile:        Profile(dto.Profile),
		CreatedAt:      dto.CreatedAt,
	}
}

// OpenAccountParams are params of a new account
type OpenAccountParams struct {
	AccountID      string
	Credential     string
	InitialBalance decimal.Decimal
	Profile        Profile
}

// HistoryFilter filters transactions. Empty fields are unconstrained.
// Day is YYYY-MM-DD, Type is Deposit, Withdraw or all
type HistoryFilter struct {
	AccountID string
	Type      string
	Day       string
}

// BalanceReport compares the stored balance with the ledger
type BalanceReport struct {
	AccountID      string          `json:"accountId"`
	Balance        decimal.Decimal `json:"balance"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	LedgerTotal    decimal.Decimal `json:"ledgerTotal"`
	Consistent     bool            `json:"consistent"`
}
