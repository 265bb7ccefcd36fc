package ledger

import (
	"context"

	"github.com/evgeny-myasishchev/bank-ledger/pkg/dal"
)

// VerifyBalance folds the account ledger and compares it with the stored balance
func (s *service) VerifyBalance(ctx context.Context, accountID string) (*BalanceReport, error) {
	unlock := s.locks.lock(accountID)
	defer unlock()

	account, err := s.storage.GetAccount(ctx, accountID)
	if err != nil {
		return nil, storeError(err, accountID, "get account")
	}
	trxs, err := s.storage.QueryTransactions(ctx, dal.TransactionsQuery{AccountID: accountID})
	if err != nil {
		return nil, storeError(err, accountID, "query transactions")
	}
	var total int64
	for _, trx := range trxs {
		switch trx.Type {
		case dal.TransactionTypeDeposit:
			total += trx.Amount
		case dal.TransactionTypeWithdraw:
			total -= trx.Amount
		}
	}
	report := &BalanceReport{
		AccountID:      accountID,
		Balance:        fromMinorUnits(account.Balance),
		InitialBalance: fromMinorUnits(account.InitialBalance),
		LedgerTotal:    fromMinorUnits(total),
		Consistent:     account.Balance-account.InitialBalance == total,
	}
	if !report.Consistent {
		logger.Warn(ctx, "Ledger of %v does not match balance: %v != %v - %v",
			accountID, report.LedgerTotal, report.Balance, report.InitialBalance)
	}
	return report, nil
}
