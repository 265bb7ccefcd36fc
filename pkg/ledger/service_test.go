package ledger

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/bxcodec/faker/v3"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/evgeny-myasishchev/bank-ledger/pkg/dal"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/events/mock_events"
	tst "github.com/evgeny-myasishchev/bank-ledger/pkg/internal/testing"
)

func init() {
	rand.Seed(time.Now().UnixNano())
}

type testEnv struct {
	svc       Service
	storage   dal.Storage
	clock     *tst.MockNowService
	publisher *mock_events.MockPublisher
}

func newTestEnv(t *testing.T, opts ...ServiceOpt) *testEnv {
	db, err := dal.OpenDB("sqlite3", ":memory:")
	if err != nil {
		panic(err)
	}
	t.Cleanup(func() { db.Close() })
	storage, err := dal.NewSQLStorage(dal.WithSQLDb(db))
	if err != nil {
		panic(err)
	}
	if err := storage.Setup(context.Background()); err != nil {
		panic(err)
	}
	return newTestEnvWithStorage(t, storage, opts...)
}

func newTestEnvWithStorage(t *testing.T, storage dal.Storage, opts ...ServiceOpt) *testEnv {
	clock := tst.NewMockNowService(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC))
	publisher := mock_events.NewMockPublisher(gomock.NewController(t))
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	svc := NewService(storage, append([]ServiceOpt{
		WithNow(clock.Now),
		WithPublisher(publisher),
		WithBcryptCost(bcrypt.MinCost),
	}, opts...)...)
	return &testEnv{svc: svc, storage: storage, clock: clock, publisher: publisher}
}

func (env *testEnv) openAccount(t *testing.T, balance string) (*Account, string) {
	credential := faker.Password()
	account, err := env.svc.OpenAccount(context.Background(), OpenAccountParams{
		AccountID:      "acc-" + faker.Username(),
		Credential:     credential,
		InitialBalance: decimal.RequireFromString(balance),
		Profile:        Profile{FullName: faker.Name(), Phone: faker.Phonenumber()},
	})
	if err != nil {
		panic(err)
	}
	return account, credential
}

func (env *testEnv) ledgerOf(t *testing.T, accountID string) []dal.TransactionDTO {
	trxs, err := env.storage.QueryTransactions(context.Background(), dal.TransactionsQuery{AccountID: accountID})
	if err != nil {
		panic(err)
	}
	return trxs
}

func (env *testEnv) balanceOf(t *testing.T, accountID string) decimal.Decimal {
	account, err := env.svc.GetAccount(context.Background(), accountID)
	if err != nil {
		panic(err)
	}
	return account.Balance
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}
