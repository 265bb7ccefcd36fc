package dal

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/bxcodec/faker/v3"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func init() {
	rand.Seed(time.Now().Unix())
}

func newTestStorage(t *testing.T) Storage {
	db, err := OpenDB("sqlite3", ":memory:")
	if err != nil {
		panic(err)
	}
	t.Cleanup(func() { db.Close() })
	s, err := NewSQLStorage(WithSQLDb(db))
	if err != nil {
		panic(err)
	}
	if err := s.Setup(context.Background()); err != nil {
		panic(err)
	}
	return s
}

func randomProfile() ProfileDTO {
	return ProfileDTO{
		FullName:      faker.Name(),
		Phone:         faker.Phonenumber(),
		AccountType:   "savings",
		AccountNumber: faker.CCNumber(),
		Branch:        faker.Word(),
		DateOfBirth:   faker.Date(),
		Gender:        faker.Gender(),
		MaritalStatus: "single",
		Age:           18 + rand.Intn(60),
		Aadhaar:       faker.Word(),
		PAN:           faker.Word(),
	}
}

func randomAccount() *AccountDTO {
	balance := rand.Int63n(100000)
	return &AccountDTO{
		ID:             "acc-" + faker.Username(),
		CredentialHash: "hash-" + faker.Word(),
		Balance:        balance,
		InitialBalance: balance,
		Version:        1,
		Profile:        randomProfile(),
		CreatedAt:      time.Unix(0, rand.Int63n(time.Now().UnixNano())).UTC(),
	}
}

func randomTransaction(accountID string, createdAt time.Time) TransactionDTO {
	trxType := TransactionTypeDeposit
	if rand.Intn(2) == 1 {
		trxType = TransactionTypeWithdraw
	}
	return TransactionDTO{
		ID:           uuid.New().String(),
		AccountID:    accountID,
		Type:         trxType,
		Amount:       1 + rand.Int63n(1000),
		BalanceAfter: rand.Int63n(100000),
		CreatedAt:    time.Unix(0, createdAt.UnixNano()).UTC(),
	}
}

func Test_sqlStorage_Accounts(t *testing.T) {
	type testCase struct {
		name string
		run  func(t *testing.T, s Storage)
	}
	tests := []func() testCase{
		func() testCase {
			return testCase{
				name: "create and get account",
				run: func(t *testing.T, s Storage) {
					account := randomAccount()
					if err := s.CreateAccount(context.Background(), account); !assert.NoError(t, err) {
						return
					}
					got, err := s.GetAccount(context.Background(), account.ID)
					if !assert.NoError(t, err) {
						return
					}
					assert.Equal(t, account, got)
				},
			}
		},
		func() testCase {
			return testCase{
				name: "fail to create duplicate",
				run: func(t *testing.T, s Storage) {
					account := randomAccount()
					if err := s.CreateAccount(context.Background(), account); !assert.NoError(t, err) {
						return
					}
					err := s.CreateAccount(context.Background(), account)
					assert.Equal(t, ErrDuplicate, err)
				},
			}
		},
		func() testCase {
			return testCase{
				name: "get not existing account",
				run: func(t *testing.T, s Storage) {
					_, err := s.GetAccount(context.Background(), "acc-"+faker.Word())
					assert.Equal(t, ErrNotFound, err)
				},
			}
		},
		func() testCase {
			return testCase{
				name: "update profile",
				run: func(t *testing.T, s Storage) {
					account := randomAccount()
					if err := s.CreateAccount(context.Background(), account); !assert.NoError(t, err) {
						return
					}
					newProfile := randomProfile()
					if err := s.UpdateProfile(context.Background(), account.ID, newProfile); !assert.NoError(t, err) {
						return
					}
					got, err := s.GetAccount(context.Background(), account.ID)
					if !assert.NoError(t, err) {
						return
					}
					assert.Equal(t, newProfile, got.Profile)
					assert.Equal(t, account.Balance, got.Balance)
				},
			}
		},
		func() testCase {
			return testCase{
				name: "update credential",
				run: func(t *testing.T, s Storage) {
					account := randomAccount()
					if err := s.CreateAccount(context.Background(), account); !assert.NoError(t, err) {
						return
					}
					newHash := "hash-" + faker.Word()
					if err := s.UpdateCredential(context.Background(), account.ID, newHash); !assert.NoError(t, err) {
						return
					}
					got, err := s.GetAccount(context.Background(), account.ID)
					if !assert.NoError(t, err) {
						return
					}
					assert.Equal(t, newHash, got.CredentialHash)
				},
			}
		},
		func() testCase {
			return testCase{
				name: "update not existing account",
				run: func(t *testing.T, s Storage) {
					assert.Equal(t, ErrNotFound, s.UpdateProfile(context.Background(), faker.Word(), randomProfile()))
					assert.Equal(t, ErrNotFound, s.UpdateCredential(context.Background(), faker.Word(), faker.Word()))
				},
			}
		},
	}
	for _, ttFn := range tests {
		tt := ttFn()
		t.Run(tt.name, func(t *testing.T) {
			tt.run(t, newTestStorage(t))
		})
	}
}

func Test_sqlStorage_ApplyMutation(t *testing.T) {
	type testCase struct {
		name string
		run  func(t *testing.T, s Storage, account *AccountDTO)
	}
	tests := []func() testCase{
		func() testCase {
			return testCase{
				name: "update balance and append transaction",
				run: func(t *testing.T, s Storage, account *AccountDTO) {
					trx := randomTransaction(account.ID, time.Now())
					trx.Type = TransactionTypeDeposit
					trx.BalanceAfter = account.Balance + trx.Amount
					err := s.ApplyMutation(context.Background(), &MutationDTO{
						AccountID:       account.ID,
						ExpectedVersion: account.Version,
						NewBalance:      trx.BalanceAfter,
						Transaction:     trx,
					})
					if !assert.NoError(t, err) {
						return
					}
					got, err := s.GetAccount(context.Background(), account.ID)
					if !assert.NoError(t, err) {
						return
					}
					assert.Equal(t, trx.BalanceAfter, got.Balance)
					assert.Equal(t, account.Version+1, got.Version)

					trxs, err := s.QueryTransactions(context.Background(), TransactionsQuery{AccountID: account.ID})
					if !assert.NoError(t, err) {
						return
					}
					assert.Equal(t, []TransactionDTO{trx}, trxs)
				},
			}
		},
		func() testCase {
			return testCase{
				name: "reject stale version without side effects",
				run: func(t *testing.T, s Storage, account *AccountDTO) {
					trx := randomTransaction(account.ID, time.Now())
					err := s.ApplyMutation(context.Background(), &MutationDTO{
						AccountID:       account.ID,
						ExpectedVersion: account.Version + 1,
						NewBalance:      account.Balance + 100,
						Transaction:     trx,
					})
					assert.Equal(t, ErrVersionConflict, err)

					got, err := s.GetAccount(context.Background(), account.ID)
					if !assert.NoError(t, err) {
						return
					}
					assert.Equal(t, account.Balance, got.Balance)
					assert.Equal(t, account.Version, got.Version)

					trxs, err := s.QueryTransactions(context.Background(), TransactionsQuery{AccountID: account.ID})
					if !assert.NoError(t, err) {
						return
					}
					assert.Empty(t, trxs)
				},
			}
		},
		func() testCase {
			return testCase{
				name: "rollback balance if transaction insert failed",
				run: func(t *testing.T, s Storage, account *AccountDTO) {
					existing := randomTransaction(account.ID, time.Now())
					if !assert.NoError(t, s.ApplyMutation(context.Background(), &MutationDTO{
						AccountID:       account.ID,
						ExpectedVersion: account.Version,
						NewBalance:      account.Balance,
						Transaction:     existing,
					})) {
						return
					}
					duplicate := randomTransaction(account.ID, time.Now())
					duplicate.ID = existing.ID
					err := s.ApplyMutation(context.Background(), &MutationDTO{
						AccountID:       account.ID,
						ExpectedVersion: account.Version + 1,
						NewBalance:      account.Balance + 500,
						Transaction:     duplicate,
					})
					if !assert.Error(t, err) {
						return
					}
					got, err := s.GetAccount(context.Background(), account.ID)
					if !assert.NoError(t, err) {
						return
					}
					assert.Equal(t, account.Balance, got.Balance)
					assert.Equal(t, account.Version+1, got.Version)
				},
			}
		},
		func() testCase {
			return testCase{
				name: "reject negative balance",
				run: func(t *testing.T, s Storage, account *AccountDTO) {
					err := s.ApplyMutation(context.Background(), &MutationDTO{
						AccountID:       account.ID,
						ExpectedVersion: account.Version,
						NewBalance:      -1,
						Transaction:     randomTransaction(account.ID, time.Now()),
					})
					assert.Error(t, err)
				},
			}
		},
	}
	for _, ttFn := range tests {
		tt := ttFn()
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStorage(t)
			account := randomAccount()
			if err := s.CreateAccount(context.Background(), account); err != nil {
				panic(err)
			}
			tt.run(t, s, account)
		})
	}
}

func Test_sqlStorage_QueryTransactions(t *testing.T) {
	s := newTestStorage(t)
	acc1 := randomAccount()
	acc2 := randomAccount()
	for _, acc := range []*AccountDTO{acc1, acc2} {
		if err := s.CreateAccount(context.Background(), acc); err != nil {
			panic(err)
		}
	}

	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	insert := func(acc *AccountDTO, trx TransactionDTO) TransactionDTO {
		if err := s.ApplyMutation(context.Background(), &MutationDTO{
			AccountID:       acc.ID,
			ExpectedVersion: acc.Version,
			NewBalance:      trx.BalanceAfter,
			Transaction:     trx,
		}); err != nil {
			panic(err)
		}
		acc.Version++
		return trx
	}
	withType := func(trx TransactionDTO, trxType string) TransactionDTO {
		trx.Type = trxType
		return trx
	}

	t1 := insert(acc1, withType(randomTransaction(acc1.ID, day.Add(-time.Nanosecond)), TransactionTypeDeposit))
	t2 := insert(acc1, withType(randomTransaction(acc1.ID, day), TransactionTypeWithdraw))
	t3 := insert(acc1, withType(randomTransaction(acc1.ID, day.Add(12*time.Hour)), TransactionTypeDeposit))
	t4 := insert(acc1, withType(randomTransaction(acc1.ID, day.Add(24*time.Hour)), TransactionTypeDeposit))
	t5 := insert(acc2, withType(randomTransaction(acc2.ID, day.Add(time.Hour)), TransactionTypeDeposit))

	tests := []struct {
		name  string
		query TransactionsQuery
		want  []TransactionDTO
	}{
		{name: "all", query: TransactionsQuery{}, want: []TransactionDTO{t4, t3, t5, t2, t1}},
		{name: "by account", query: TransactionsQuery{AccountID: acc1.ID}, want: []TransactionDTO{t4, t3, t2, t1}},
		{name: "by account with limit", query: TransactionsQuery{AccountID: acc1.ID, Limit: 2}, want: []TransactionDTO{t4, t3}},
		{name: "by type", query: TransactionsQuery{Type: TransactionTypeDeposit}, want: []TransactionDTO{t4, t3, t5, t1}},
		{
			name:  "by day window",
			query: TransactionsQuery{From: day, To: day.Add(24 * time.Hour)},
			want:  []TransactionDTO{t3, t5, t2},
		},
		{
			name:  "all filters",
			query: TransactionsQuery{AccountID: acc1.ID, Type: TransactionTypeDeposit, From: day, To: day.Add(24 * time.Hour)},
			want:  []TransactionDTO{t3},
		},
		{name: "nothing", query: TransactionsQuery{AccountID: "acc-" + faker.Word()}, want: []TransactionDTO{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.QueryTransactions(context.Background(), tt.query)
			if !assert.NoError(t, err) {
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
