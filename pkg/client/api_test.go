package client

import (
	"context"
	"net/http"
	"testing"

	"github.com/bxcodec/faker/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gopkg.in/h2non/gock.v1"

	"github.com/evgeny-myasishchev/bank-ledger/pkg/api"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/ledger"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/lib-core-golang/router"
)

const baseURL = "http://bank-ledger.local"

func TestAPI(t *testing.T) {
	defer gock.Off()

	type tcFn func(*testing.T, API)
	tests := []func() (string, tcFn){
		func() (string, tcFn) {
			return "open account", func(t *testing.T, client API) {
				accountID := "acc-" + faker.Username()
				credential := faker.Password()
				profile := ledger.Profile{FullName: faker.Name()}
				gock.New(baseURL).
					Post("/v1/accounts").
					MatchType("json").
					JSON(api.OpenAccountRequest{
						AccountID:      accountID,
						Credential:     credential,
						InitialBalance: "100.5",
						Profile:        profile,
					}).
					Reply(http.StatusCreated).
					JSON(map[string]interface{}{"id": accountID, "balance": "100.5", "profile": profile})

				got, err := client.OpenAccount(context.Background(), ledger.OpenAccountParams{
					AccountID:      accountID,
					Credential:     credential,
					InitialBalance: decimal.RequireFromString("100.50"),
					Profile:        profile,
				})
				if !assert.NoError(t, err) {
					return
				}
				assert.True(t, gock.IsDone(), "No request performed")
				assert.Equal(t, accountID, got.ID)
				assert.True(t, decimal.RequireFromString("100.5").Equal(got.Balance))
				assert.Equal(t, profile, got.Profile)
			}
		},
		func() (string, tcFn) {
			return "withdraw sends credential header", func(t *testing.T, client API) {
				accountID := "acc-" + faker.Username()
				credential := faker.Password()
				trxID := faker.UUIDHyphenated()
				gock.New(baseURL).
					Post("/v1/accounts/"+accountID+"/withdrawals").
					MatchHeader(api.CredentialHeader, credential).
					JSON(api.AmountRequest{Amount: "25"}).
					Reply(http.StatusOK).
					JSON(map[string]interface{}{
						"accountId": accountID,
						"balance":   "75",
						"transaction": map[string]interface{}{
							"id":     trxID,
							"type":   "Withdraw",
							"amount": "25",
						},
					})

				got, err := client.Withdraw(context.Background(), accountID, decimal.NewFromInt(25), credential)
				if !assert.NoError(t, err) {
					return
				}
				assert.True(t, gock.IsDone(), "No request performed")
				assert.True(t, decimal.NewFromInt(75).Equal(got.Balance))
				assert.Equal(t, trxID, got.Transaction.ID)
				assert.Equal(t, ledger.TransactionTypeWithdraw, got.Transaction.Type)
			}
		},
		func() (string, tcFn) {
			return "restore ledger error kind", func(t *testing.T, client API) {
				accountID := "acc-" + faker.Username()
				message := faker.Sentence()
				gock.New(baseURL).
					Post("/v1/accounts/"+accountID+"/withdrawals").
					Reply(http.StatusUnprocessableEntity).
					JSON(router.HTTPError{
						StatusCode: http.StatusUnprocessableEntity,
						Status:     http.StatusText(http.StatusUnprocessableEntity),
						Message:    message,
						Kind:       string(ledger.KindInsufficientFunds),
					})

				_, err := client.Withdraw(context.Background(), accountID, decimal.NewFromInt(1000), faker.Password())
				assert.True(t, gock.IsDone(), "No request performed")
				assert.Equal(t, ledger.KindInsufficientFunds, ledger.KindOf(err))
				assert.Contains(t, err.Error(), message)
			}
		},
		func() (string, tcFn) {
			return "keep http error without kind", func(t *testing.T, client API) {
				accountID := "acc-" + faker.Username()
				gock.New(baseURL).
					Get("/v1/accounts/" + accountID).
					Reply(http.StatusBadGateway).
					BodyString("upstream failed")

				_, err := client.GetAccount(context.Background(), accountID)
				if !assert.Error(t, err) {
					return
				}
				assert.Equal(t, ledger.Kind(""), ledger.KindOf(err))
				assert.Contains(t, err.Error(), "upstream failed")
			}
		},
		func() (string, tcFn) {
			return "update profile", func(t *testing.T, client API) {
				accountID := "acc-" + faker.Username()
				profile := ledger.Profile{FullName: faker.Name(), Phone: faker.Phonenumber(), Age: 41}
				gock.New(baseURL).
					Put("/v1/accounts/" + accountID + "/profile").
					MatchType("json").
					JSON(profile).
					Reply(http.StatusOK).
					JSON(map[string]interface{}{"id": accountID, "balance": "0", "profile": profile})

				got, err := client.UpdateProfile(context.Background(), accountID, profile)
				if !assert.NoError(t, err) {
					return
				}
				assert.True(t, gock.IsDone(), "No request performed")
				assert.Equal(t, accountID, got.ID)
				assert.Equal(t, profile, got.Profile)
			}
		},
		func() (string, tcFn) {
			return "update profile of unknown account", func(t *testing.T, client API) {
				accountID := "acc-" + faker.Username()
				gock.New(baseURL).
					Put("/v1/accounts/" + accountID + "/profile").
					Reply(http.StatusNotFound).
					JSON(router.HTTPError{
						StatusCode: http.StatusNotFound,
						Status:     http.StatusText(http.StatusNotFound),
						Message:    "Account " + accountID + " not found",
						Kind:       string(ledger.KindNotFound),
					})

				_, err := client.UpdateProfile(context.Background(), accountID, ledger.Profile{FullName: faker.Name()})
				assert.Equal(t, ledger.KindNotFound, ledger.KindOf(err))
			}
		},
		func() (string, tcFn) {
			return "change credential", func(t *testing.T, client API) {
				accountID := "acc-" + faker.Username()
				current := faker.Password()
				next := faker.Password()
				gock.New(baseURL).
					Post("/v1/accounts/" + accountID + "/credential").
					JSON(api.ChangeCredentialRequest{Current: current, New: next}).
					Reply(http.StatusNoContent)

				err := client.ChangeCredential(context.Background(), accountID, current, next)
				assert.NoError(t, err)
				assert.True(t, gock.IsDone(), "No request performed")
			}
		},
		func() (string, tcFn) {
			return "fetch history", func(t *testing.T, client API) {
				accountID := "acc-" + faker.Username()
				trxs := []map[string]interface{}{
					{"id": faker.UUIDHyphenated(), "accountId": accountID, "type": "Deposit", "amount": "10"},
					{"id": faker.UUIDHyphenated(), "accountId": accountID, "type": "Withdraw", "amount": "5"},
				}
				gock.New(baseURL).
					Get("/v1/accounts/"+accountID+"/transactions").
					MatchParam("limit", "5").
					Reply(http.StatusOK).
					JSON(map[string]interface{}{"transactions": trxs})
				gock.New(baseURL).
					Get("/v1/accounts/"+accountID+"/transactions/range").
					MatchParam("from", "2024-01-01").
					MatchParam("to", "2024-01-31").
					Reply(http.StatusOK).
					JSON(map[string]interface{}{"transactions": trxs[:1]})
				gock.New(baseURL).
					Get("/v1/transactions").
					MatchParam("accountId", accountID).
					MatchParam("type", "Withdraw").
					MatchParam("day", "2024-01-02").
					Reply(http.StatusOK).
					JSON(map[string]interface{}{"transactions": trxs[1:]})

				ctx := context.Background()
				recent, err := client.RecentHistory(ctx, accountID, 5)
				if !assert.NoError(t, err) {
					return
				}
				assert.Len(t, recent, 2)

				inRange, err := client.HistoryInRange(ctx, accountID, "2024-01-01", "2024-01-31")
				if !assert.NoError(t, err) {
					return
				}
				if assert.Len(t, inRange, 1) {
					assert.Equal(t, ledger.TransactionTypeDeposit, inRange[0].Type)
				}

				filtered, err := client.FilteredHistory(ctx, ledger.HistoryFilter{
					AccountID: accountID,
					Type:      "Withdraw",
					Day:       "2024-01-02",
				})
				if !assert.NoError(t, err) {
					return
				}
				if assert.Len(t, filtered, 1) {
					assert.True(t, decimal.NewFromInt(5).Equal(filtered[0].Amount))
				}
				assert.True(t, gock.IsDone(), "Not all requests performed")
			}
		},
		func() (string, tcFn) {
			return "verify balance", func(t *testing.T, client API) {
				accountID := "acc-" + faker.Username()
				gock.New(baseURL).
					Get("/v1/accounts/" + accountID + "/balance-report").
					Reply(http.StatusOK).
					JSON(map[string]interface{}{"accountId": accountID, "balance": "10", "consistent": true})

				report, err := client.VerifyBalance(context.Background(), accountID)
				if !assert.NoError(t, err) {
					return
				}
				assert.Equal(t, accountID, report.AccountID)
				assert.True(t, report.Consistent)
			}
		},
	}
	for _, tt := range tests {
		name, tc := tt()
		t.Run(name, func(t *testing.T) {
			defer gock.Flush()
			tc(t, NewAPI(baseURL))
		})
	}
}
