package ledger

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/evgeny-myasishchev/bank-ledger/pkg/dal"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/lib-core-golang/diag"
)

func (s *service) hashCredential(credential string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(credential), s.bcryptCost)
	if err != nil {
		return "", &Error{Kind: KindInvalidInput, Message: "Failed to hash credential", cause: err}
	}
	return string(hash), nil
}

func verifyCredential(account *dal.AccountDTO, credential string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(account.CredentialHash), []byte(credential)); err != nil {
		return newError(KindUnauthorized, "Invalid credential for account %v", account.ID)
	}
	return nil
}

func requireAccountID(accountID string) error {
	if strings.TrimSpace(accountID) == "" {
		return newError(KindInvalidInput, "Account id is required")
	}
	return nil
}

func (s *service) OpenAccount(ctx context.Context, params OpenAccountParams) (*Account, error) {
	if err := requireAccountID(params.AccountID); err != nil {
		return nil, err
	}
	if params.Credential == "" {
		return nil, newError(KindInvalidInput, "Credential is required")
	}
	initialBalance, err := toMinorUnits(params.InitialBalance, true)
	if err != nil {
		return nil, err
	}
	hash, err := s.hashCredential(params.Credential)
	if err != nil {
		return nil, err
	}
	account := &dal.AccountDTO{
		ID:             params.AccountID,
		CredentialHash: hash,
		Balance:        initialBalance,
		InitialBalance: initialBalance,
		Version:        1,
		Profile:        params.Profile.toDTO(),
		CreatedAt:      s.now().UTC(),
	}
	if err := s.storage.CreateAccount(ctx, account); err != nil {
		return nil, storeError(err, params.AccountID, "create account")
	}
	logger.WithData(diag.MsgData{"accountID": account.ID}).Info(ctx, "Account opened")
	return newAccountFromDTO(account), nil
}

func (s *service) GetAccount(ctx context.Context, accountID string) (*Account, error) {
	account, err := s.storage.GetAccount(ctx, accountID)
	if err != nil {
		return nil, storeError(err, accountID, "get account")
	}
	return newAccountFromDTO(account), nil
}

func (s *service) UpdateProfile(ctx context.Context, accountID string, profile Profile) (*Account, error) {
	if err := s.storage.UpdateProfile(ctx, accountID, profile.toDTO()); err != nil {
		return nil, storeError(err, accountID, "update profile")
	}
	return s.GetAccount(ctx, accountID)
}

func (s *service) ChangeCredential(ctx context.Context, accountID string, current string, next string) error {
	if next == "" {
		return newError(KindInvalidInput, "New credential is required")
	}
	unlock := s.locks.lock(accountID)
	defer unlock()

	account, err := s.storage.GetAccount(ctx, accountID)
	if err != nil {
		return storeError(err, accountID, "get account")
	}
	if err := verifyCredential(account, current); err != nil {
		return err
	}
	hash, err := s.hashCredential(next)
	if err != nil {
		return err
	}
	if err := s.storage.UpdateCredential(ctx, accountID, hash); err != nil {
		return storeError(err, accountID, "update credential")
	}
	logger.WithData(diag.MsgData{"accountID": accountID}).Info(ctx, "Credential changed")
	return nil
}

func (s *service) Authenticate(ctx context.Context, accountID string, credential string) error {
	account, err := s.storage.GetAccount(ctx, accountID)
	if err != nil {
		if errors.Cause(err) == dal.ErrNotFound {
			return newError(KindUnauthorized, "Invalid credential for account %v", accountID)
		}
		return storeError(err, accountID, "get account")
	}
	return verifyCredential(account, credential)
}
