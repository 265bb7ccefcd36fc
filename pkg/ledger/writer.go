package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/evgeny-myasishchev/bank-ledger/pkg/dal"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/events"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/lib-core-golang/diag"
)

type mutation struct {
	accountID  string
	trxType    TransactionType
	amount     decimal.Decimal
	credential *string
}

func (s *service) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (*MutationResult, error) {
	return s.mutate(ctx, mutation{
		accountID: accountID,
		trxType:   TransactionTypeDeposit,
		amount:    amount,
	})
}

func (s *service) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, credential string) (*MutationResult, error) {
	return s.mutate(ctx, mutation{
		accountID:  accountID,
		trxType:    TransactionTypeWithdraw,
		amount:     amount,
		credential: &credential,
	})
}

func (s *service) mutate(ctx context.Context, m mutation) (*MutationResult, error) {
	if err := requireAccountID(m.accountID); err != nil {
		return nil, err
	}
	amount, err := toMinorUnits(m.amount, false)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.lock(m.accountID)
	defer unlock()

	account, err := s.storage.GetAccount(ctx, m.accountID)
	if err != nil {
		return nil, storeError(err, m.accountID, "get account")
	}

	newBalance := account.Balance + amount
	if m.trxType == TransactionTypeWithdraw {
		if err := verifyCredential(account, *m.credential); err != nil {
			return nil, err
		}
		if amount > account.Balance {
			return nil, newError(KindInsufficientFunds,
				"Insufficient funds on account %v: balance %v, requested %v",
				m.accountID, fromMinorUnits(account.Balance), fromMinorUnits(amount),
			)
		}
		newBalance = account.Balance - amount
	} else if newBalance < account.Balance {
		return nil, newError(KindInvalidInput, "Deposit of %v overflows balance of %v", m.amount, m.accountID)
	}

	trx := dal.TransactionDTO{
		ID:           s.newID(),
		AccountID:    m.accountID,
		Type:         string(m.trxType),
		Amount:       amount,
		BalanceAfter: newBalance,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.storage.ApplyMutation(ctx, &dal.MutationDTO{
		AccountID:       m.accountID,
		ExpectedVersion: account.Version,
		NewBalance:      newBalance,
		Transaction:     trx,
	}); err != nil {
		return nil, storeError(err, m.accountID, "apply "+string(m.trxType))
	}

	result := &MutationResult{
		AccountID:   m.accountID,
		Balance:     fromMinorUnits(newBalance),
		Transaction: newTransactionFromDTO(trx),
	}
	logger.WithData(diag.MsgData{
		"accountID":     m.accountID,
		"transactionID": trx.ID,
		"type":          trx.Type,
		"amount":        result.Transaction.Amount,
	}).Info(ctx, "Transaction completed")

	s.publishCompleted(ctx, result)
	return result, nil
}

func (s *service) publishCompleted(ctx context.Context, result *MutationResult) {
	event := &events.TransactionCompleted{
		TransactionID: result.Transaction.ID,
		AccountID:     result.AccountID,
		Type:          string(result.Transaction.Type),
		Amount:        result.Transaction.Amount,
		Balance:       result.Balance,
		OccurredAt:    result.Transaction.Timestamp,
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.WithError(err).Error(ctx, "Failed to publish completion of transaction %v", event.TransactionID)
	}
}
