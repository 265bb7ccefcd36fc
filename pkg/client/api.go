package client

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/evgeny-myasishchev/bank-ledger/pkg/api"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/ledger"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/lib-core-golang/request"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/lib-core-golang/router"
)

// API is an interface to communicate with the bank ledger server
type API interface {
	OpenAccount(ctx context.Context, params ledger.OpenAccountParams) (*ledger.Account, error)
	GetAccount(ctx context.Context, accountID string) (*ledger.Account, error)
	UpdateProfile(ctx context.Context, accountID string, profile ledger.Profile) (*ledger.Account, error)
	ChangeCredential(ctx context.Context, accountID string, current string, next string) error

	Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (*ledger.MutationResult, error)
	Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, credential string) (*ledger.MutationResult, error)

	RecentHistory(ctx context.Context, accountID string, limit int) ([]ledger.Transaction, error)
	HistoryInRange(ctx context.Context, accountID string, startDate string, endDate string) ([]ledger.Transaction, error)
	FilteredHistory(ctx context.Context, filter ledger.HistoryFilter) ([]ledger.Transaction, error)

	VerifyBalance(ctx context.Context, accountID string) (*ledger.BalanceReport, error)
}

type apiClient struct {
	baseURL string
	opts    []request.SendOpt
}

// NewAPI returns an API client for given server base url
func NewAPI(baseURL string, opts ...request.SendOpt) API {
	return &apiClient{baseURL: baseURL, opts: opts}
}

func (a *apiClient) accountURL(accountID string, segments ...string) string {
	result := a.baseURL + "/v1/accounts/" + url.PathEscape(accountID)
	for _, segment := range segments {
		result += "/" + segment
	}
	return result
}

// fromHTTPError restores ledger errors from the server error response
func fromHTTPError(err error) error {
	httpErr, ok := errors.Cause(err).(request.HTTPError)
	if !ok {
		return err
	}
	var body router.HTTPError
	if jsonErr := json.Unmarshal(httpErr.Body, &body); jsonErr != nil || body.Kind == "" {
		return err
	}
	return &ledger.Error{Kind: ledger.Kind(body.Kind), Message: body.Message}
}

func (a *apiClient) send(ctx context.Context, req request.ReqFactory, receiver interface{}) error {
	res := request.Do(ctx, req, a.opts...)
	if receiver == nil {
		_, err := res.ReadAll()
		return fromHTTPError(err)
	}
	return fromHTTPError(res.DecodeJSON(receiver))
}

func (a *apiClient) OpenAccount(ctx context.Context, params ledger.OpenAccountParams) (*ledger.Account, error) {
	var account ledger.Account
	if err := a.send(ctx, request.Post(a.baseURL+"/v1/accounts", api.OpenAccountRequest{
		AccountID:      params.AccountID,
		Credential:     params.Credential,
		InitialBalance: params.InitialBalance.String(),
		Profile:        params.Profile,
	}), &account); err != nil {
		return nil, errors.Wrapf(err, "Failed to open account %v", params.AccountID)
	}
	return &account, nil
}

func (a *apiClient) GetAccount(ctx context.Context, accountID string) (*ledger.Account, error) {
	var account ledger.Account
	if err := a.send(ctx, request.Get(a.accountURL(accountID)), &account); err != nil {
		return nil, errors.Wrapf(err, "Failed to get account %v", accountID)
	}
	return &account, nil
}

func (a *apiClient) UpdateProfile(ctx context.Context, accountID string, profile ledger.Profile) (*ledger.Account, error) {
	var account ledger.Account
	if err := a.send(ctx, request.Put(a.accountURL(accountID, "profile"), profile), &account); err != nil {
		return nil, errors.Wrapf(err, "Failed to update profile of %v", accountID)
	}
	return &account, nil
}

func (a *apiClient) ChangeCredential(ctx context.Context, accountID string, current string, next string) error {
	req := request.Post(a.accountURL(accountID, "credential"), api.ChangeCredentialRequest{
		Current: current,
		New:     next,
	})
	return errors.Wrapf(a.send(ctx, req, nil), "Failed to change credential of %v", accountID)
}

func (a *apiClient) Deposit(ctx context.Context, accountID string, amount decimal.Decimal) (*ledger.MutationResult, error) {
	var result ledger.MutationResult
	req := request.Post(a.accountURL(accountID, "deposits"), api.AmountRequest{Amount: amount.String()})
	if err := a.send(ctx, req, &result); err != nil {
		return nil, errors.Wrapf(err, "Failed to deposit to %v", accountID)
	}
	return &result, nil
}

func (a *apiClient) Withdraw(ctx context.Context, accountID string, amount decimal.Decimal, credential string) (*ledger.MutationResult, error) {
	var result ledger.MutationResult
	req := request.Post(a.accountURL(accountID, "withdrawals"), api.AmountRequest{Amount: amount.String()}).
		WithHeader(api.CredentialHeader, credential)
	if err := a.send(ctx, req, &result); err != nil {
		return nil, errors.Wrapf(err, "Failed to withdraw from %v", accountID)
	}
	return &result, nil
}

func (a *apiClient) fetchTransactions(ctx context.Context, target string) ([]ledger.Transaction, error) {
	var resp api.TransactionsResponse
	if err := a.send(ctx, request.Get(target), &resp); err != nil {
		return nil, err
	}
	return resp.Transactions, nil
}

func (a *apiClient) RecentHistory(ctx context.Context, accountID string, limit int) ([]ledger.Transaction, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	trxs, err := a.fetchTransactions(ctx, a.accountURL(accountID, "transactions")+"?"+query.Encode())
	return trxs, errors.Wrapf(err, "Failed to fetch recent history of %v", accountID)
}

func (a *apiClient) HistoryInRange(ctx context.Context, accountID string, startDate string, endDate string) ([]ledger.Transaction, error) {
	query := url.Values{}
	query.Set("from", startDate)
	query.Set("to", endDate)
	trxs, err := a.fetchTransactions(ctx, a.accountURL(accountID, "transactions", "range")+"?"+query.Encode())
	return trxs, errors.Wrapf(err, "Failed to fetch history of %v", accountID)
}

func (a *apiClient) FilteredHistory(ctx context.Context, filter ledger.HistoryFilter) ([]ledger.Transaction, error) {
	query := url.Values{}
	if filter.AccountID != "" {
		query.Set("accountId", filter.AccountID)
	}
	if filter.Type != "" {
		query.Set("type", filter.Type)
	}
	if filter.Day != "" {
		query.Set("day", filter.Day)
	}
	trxs, err := a.fetchTransactions(ctx, a.baseURL+"/v1/transactions?"+query.Encode())
	return trxs, errors.Wrap(err, "Failed to fetch transactions")
}

func (a *apiClient) VerifyBalance(ctx context.Context, accountID string) (*ledger.BalanceReport, error) {
	var report ledger.BalanceReport
	if err := a.send(ctx, request.Get(a.accountURL(accountID, "balance-report")), &report); err != nil {
		return nil, errors.Wrapf(err, "Failed to verify balance of %v", accountID)
	}
	return &report, nil
}
