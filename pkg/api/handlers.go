package api

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/evgeny-myasishchev/bank-ledger/pkg/ledger"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/lib-core-golang/router"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/version"
)

// CredentialHeader carries the credential that authorizes a withdrawal
const CredentialHeader = "X-Credential"

// OpenAccountRequest is a payload of the open account request
type OpenAccountRequest struct {
	AccountID      string         `json:"accountId" validate:"required"`
	Credential     string         `json:"credential" validate:"required"`
	InitialBalance string         `json:"initialBalance"`
	Profile        ledger.Profile `json:"profile"`
}

// AmountRequest is a payload of deposit and withdrawal requests
type AmountRequest struct {
	Amount string `json:"amount" validate:"required"`
}

// ChangeCredentialRequest is a payload of the change credential request
type ChangeCredentialRequest struct {
	Current string `json:"current" validate:"required"`
	New     string `json:"new" validate:"required"`
}

// TransactionsResponse wraps a list of transactions
type TransactionsResponse struct {
	Transactions []ledger.Transaction `json:"transactions"`
}

// Handlers expose the ledger service over http
type Handlers struct {
	svc ledger.Service
}

// NewHandlers creates handlers for the ledger service
func NewHandlers(svc ledger.Service) *Handlers {
	return &Handlers{svc: svc}
}

// Register mounts all routes on the router
func (h *Handlers) Register(r router.Router) {
	r.Handle("GET", "/v1/healthcheck/ping", router.ToolkitHandlerFunc(h.ping))

	r.Handle("POST", "/v1/accounts", router.ToolkitHandlerFunc(h.openAccount))
	r.Handle("GET", "/v1/accounts/:id", router.ToolkitHandlerFunc(h.getAccount))
	r.Handle("PUT", "/v1/accounts/:id/profile", router.ToolkitHandlerFunc(h.updateProfile))
	r.Handle("POST", "/v1/accounts/:id/credential", router.ToolkitHandlerFunc(h.changeCredential))

	r.Handle("POST", "/v1/accounts/:id/deposits", router.ToolkitHandlerFunc(h.deposit))
	r.Handle("POST", "/v1/accounts/:id/withdrawals", router.ToolkitHandlerFunc(h.withdraw))

	r.Handle("GET", "/v1/accounts/:id/transactions", router.ToolkitHandlerFunc(h.recentHistory))
	r.Handle("GET", "/v1/accounts/:id/transactions/range", router.ToolkitHandlerFunc(h.historyInRange))
	r.Handle("GET", "/v1/accounts/:id/balance-report", router.ToolkitHandlerFunc(h.verifyBalance))
	r.Handle("GET", "/v1/transactions", router.ToolkitHandlerFunc(h.filteredHistory))
}

func bindAccountID(t router.HandlerToolkit) (string, error) {
	var params struct {
		AccountID string `validate:"required"`
	}
	if err := t.BindParams().PathParam("id").String(&params.AccountID).Validate(&params); err != nil {
		return "", err
	}
	return params.AccountID, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := ledger.ParseAmount(raw)
	if err != nil {
		return decimal.Zero, toHTTPError(err)
	}
	return amount, nil
}

func (h *Handlers) ping(w http.ResponseWriter, req *http.Request, t router.HandlerToolkit) error {
	return t.WriteJSON(map[string]string{
		"status":  "ok",
		"app":     version.AppName,
		"version": version.Version,
	})
}

func (h *Handlers) openAccount(w http.ResponseWriter, req *http.Request, t router.HandlerToolkit) error {
	var payload OpenAccountRequest
	if err := t.BindPayload(&payload); err != nil {
		return err
	}
	if payload.InitialBalance == "" {
		payload.InitialBalance = "0"
	}
	initialBalance, err := parseAmount(payload.InitialBalance)
	if err != nil {
		return err
	}
	account, err := h.svc.OpenAccount(req.Context(), ledger.OpenAccountParams{
		AccountID:      payload.AccountID,
		Credential:     payload.Credential,
		InitialBalance: initialBalance,
		Profile:        payload.Profile,
	})
	if err != nil {
		return toHTTPError(err)
	}
	return t.WriteJSON(account, t.WithStatus(http.StatusCreated))
}

func (h *Handlers) getAccount(w http.ResponseWriter, req *http.Request, t router.HandlerToolkit) error {
	accountID, err := bindAccountID(t)
	if err != nil {
		return err
	}
	account, err := h.svc.GetAccount(req.Context(), accountID)
	if err != nil {
		return toHTTPError(err)
	}
	return t.WriteJSON(account)
}

func (h *Handlers) updateProfile(w http.ResponseWriter, req *http.Request, t router.HandlerToolkit) error {
	accountID, err := bindAccountID(t)
	if err != nil {
		return err
	}
	var profile ledger.Profile
	if err := t.BindPayload(&profile); err != nil {
		return err
	}
	account, err := h.svc.UpdateProfile(req.Context(), accountID, profile)
	if err != nil {
		return toHTTPError(err)
	}
	return t.WriteJSON(account)
}

func (h *Handlers) changeCredential(w http.ResponseWriter, req *http.Request, t router.HandlerToolkit) error {
	accountID, err := bindAccountID(t)
	if err != nil {
		return err
	}
	var payload ChangeCredentialRequest
	if err := t.BindPayload(&payload); err != nil {
		return err
	}
	if err := h.svc.ChangeCredential(req.Context(), accountID, payload.Current, payload.New); err != nil {
		return toHTTPError(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (h *Handlers) deposit(w http.ResponseWriter, req *http.Request, t router.HandlerToolkit) error {
	accountID, err := bindAccountID(t)
	if err != nil {
		return err
	}
	var payload AmountRequest
	if err := t.BindPayload(&payload); err != nil {
		return err
	}
	amount, err := parseAmount(payload.Amount)
	if err != nil {
		return err
	}
	result, err := h.svc.Deposit(req.Context(), accountID, amount)
	if err != nil {
		return toHTTPError(err)
	}
	return t.WriteJSON(result)
}

func (h *Handlers) withdraw(w http.ResponseWriter, req *http.Request, t router.HandlerToolkit) error {
	accountID, err := bindAccountID(t)
	if err != nil {
		return err
	}
	var payload AmountRequest
	if err := t.BindPayload(&payload); err != nil {
		return err
	}
	amount, err := parseAmount(payload.Amount)
	if err != nil {
		return err
	}
	result, err := h.svc.Withdraw(req.Context(), accountID, amount, req.Header.Get(CredentialHeader))
	if err != nil {
		return toHTTPError(err)
	}
	return t.WriteJSON(result)
}

func (h *Handlers) recentHistory(w http.ResponseWriter, req *http.Request, t router.HandlerToolkit) error {
	var params struct {
		AccountID string `validate:"required"`
		Limit     int
	}
	if err := t.BindParams().
		PathParam("id").String(&params.AccountID).
		QueryParam("limit").Default("0").Int(&params.Limit).
		Validate(&params); err != nil {
		return err
	}
	trxs, err := h.svc.RecentHistory(req.Context(), params.AccountID, params.Limit)
	if err != nil {
		return toHTTPError(err)
	}
	return t.WriteJSON(TransactionsResponse{Transactions: trxs})
}

func (h *Handlers) historyInRange(w http.ResponseWriter, req *http.Request, t router.HandlerToolkit) error {
	var params struct {
		AccountID string `validate:"required"`
		From      string `validate:"required"`
		To        string `validate:"required"`
	}
	if err := t.BindParams().
		PathParam("id").String(&params.AccountID).
		QueryParam("from").String(&params.From).
		QueryParam("to").String(&params.To).
		Validate(&params); err != nil {
		return err
	}
	trxs, err := h.svc.HistoryInRange(req.Context(), params.AccountID, params.From, params.To)
	if err != nil {
		return toHTTPError(err)
	}
	return t.WriteJSON(TransactionsResponse{Transactions: trxs})
}

func (h *Handlers) filteredHistory(w http.ResponseWriter, req *http.Request, t router.HandlerToolkit) error {
	var filter ledger.HistoryFilter
	if err := t.BindParams().
		QueryParam("accountId").String(&filter.AccountID).
		QueryParam("type").String(&filter.Type).
		QueryParam("day").String(&filter.Day).
		Validate(&filter); err != nil {
		return err
	}
	trxs, err := h.svc.FilteredHistory(req.Context(), filter)
	if err != nil {
		return toHTTPError(err)
	}
	return t.WriteJSON(TransactionsResponse{Transactions: trxs})
}

func (h *Handlers) verifyBalance(w http.ResponseWriter, req *http.Request, t router.HandlerToolkit) error {
	accountID, err := bindAccountID(t)
	if err != nil {
		return err
	}
	report, err := h.svc.VerifyBalance(req.Context(), accountID)
	if err != nil {
		return toHTTPError(err)
	}
	return t.WriteJSON(report)
}
