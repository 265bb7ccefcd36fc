package dal

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"

	// Drivers have to be here to let go mods work
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

type sqlStorage struct {
	db *sql.DB
}

func (s *sqlStorage) Setup(ctx context.Context) error {
	logger.Info(ctx, "Setup SQL storage")
	_, err := s.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS accounts(
	id              VARCHAR(64) NOT NULL PRIMARY KEY,
	credential_hash VARCHAR(255) NOT NULL,
	balance         BIGINT NOT NULL CHECK (balance >= 0),
	initial_balance BIGINT NOT NULL,
	version         BIGINT NOT NULL,
	full_name       VARCHAR(255) NOT NULL,
	phone           VARCHAR(64) NOT NULL,
	account_type    VARCHAR(64) NOT NULL,
	account_number  VARCHAR(64) NOT NULL,
	branch          VARCHAR(255) NOT NULL,
	date_of_birth   VARCHAR(10) NOT NULL,
	gender          VARCHAR(32) NOT NULL,
	marital_status  VARCHAR(32) NOT NULL,
	age             INTEGER NOT NULL,
	aadhaar         VARCHAR(32) NOT NULL,
	pan             VARCHAR(32) NOT NULL,
	created_at      BIGINT NOT NULL
);
CREATE TABLE IF NOT EXISTS transactions(
	id            VARCHAR(36) NOT NULL PRIMARY KEY,
	account_id    VARCHAR(64) NOT NULL REFERENCES accounts(id),
	type          VARCHAR(16) NOT NULL,
	amount        BIGINT NOT NULL CHECK (amount > 0),
	balance_after BIGINT NOT NULL,
	created_at    BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS transactions_account_created_idx ON transactions(account_id, created_at);
CREATE INDEX IF NOT EXISTS transactions_created_idx ON transactions(created_at);
`)
	return errors.Wrap(err, "Failed to setup storage")
}

func (s *sqlStorage) CreateAccount(ctx context.Context, account *AccountDTO) error {
	p := account.Profile
	if _, err := s.db.ExecContext(ctx, `
	INSERT INTO accounts(
		id, credential_hash, balance, initial_balance, version,
		full_name, phone, account_type, account_number, branch,
		date_of_birth, gender, marital_status, age, aadhaar, pan,
		created_at
	)
	VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		account.ID, account.CredentialHash, account.Balance, account.InitialBalance, account.Version,
		p.FullName, p.Phone, p.AccountType, p.AccountNumber, p.Branch,
		p.DateOfBirth, p.Gender, p.MaritalStatus, p.Age, p.Aadhaar, p.PAN,
		account.CreatedAt.UnixNano(),
	); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return errors.Wrapf(err, "Failed to insert account %v", account.ID)
	}
	return nil
}

func (s *sqlStorage) GetAccount(ctx context.Context, accountID string) (*AccountDTO, error) {
	row := s.db.QueryRowContext(ctx, `
	SELECT
		id, credential_hash, balance, initial_balance, version,
		full_name, phone, account_type, account_number, branch,
		date_of_birth, gender, marital_status, age, aadhaar, pan,
		created_at
	FROM accounts WHERE id = $1`, accountID)

	result := &AccountDTO{}
	p := &result.Profile
	var createdAt int64
	if err := row.Scan(
		&result.ID, &result.CredentialHash, &result.Balance, &result.InitialBalance, &result.Version,
		&p.FullName, &p.Phone, &p.AccountType, &p.AccountNumber, &p.Branch,
		&p.DateOfBirth, &p.Gender, &p.MaritalStatus, &p.Age, &p.Aadhaar, &p.PAN,
		&createdAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "Failed to get account %v", accountID)
	}
	result.CreatedAt = time.Unix(0, createdAt).UTC()
	return result, nil
}

func expectAffected(res sql.Result, noRowsErr error) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "Failed to get affected rows")
	}
	if affected == 0 {
		return noRowsErr
	}
	return nil
}

func (s *sqlStorage) UpdateProfile(ctx context.Context, accountID string, p ProfileDTO) error {
	res, err := s.db.ExecContext(ctx, `
	UPDATE accounts SET
		full_name = $2, phone = $3, account_type = $4, account_number = $5, branch = $6,
		date_of_birth = $7, gender = $8, marital_status = $9, age = $10, aadhaar = $11, pan = $12
	WHERE id = $1`,
		accountID,
		p.FullName, p.Phone, p.AccountType, p.AccountNumber, p.Branch,
		p.DateOfBirth, p.Gender, p.MaritalStatus, p.Age, p.Aadhaar, p.PAN,
	)
	if err != nil {
		return errors.Wrapf(err, "Failed to update profile of %v", accountID)
	}
	return expectAffected(res, ErrNotFound)
}

func (s *sqlStorage) UpdateCredential(ctx context.Context, accountID string, credentialHash string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE accounts SET credential_hash = $2 WHERE id = $1`, accountID, credentialHash)
	if err != nil {
		return errors.Wrapf(err, "Failed to update credential of %v", accountID)
	}
	return expectAffected(res, ErrNotFound)
}

func (s *sqlStorage) ApplyMutation(ctx context.Context, mutation *MutationDTO) (err error) {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "Failed to begin transaction")
	}
	defer func() {
		if err != nil {
			if rollbackErr := dbTx.Rollback(); rollbackErr != nil {
				logger.WithError(rollbackErr).Error(ctx, "Failed to rollback mutation of %v", mutation.AccountID)
			}
		}
	}()

	res, err := dbTx.ExecContext(ctx, `
	UPDATE accounts SET balance = $1, version = version + 1
	WHERE id = $2 AND version = $3`,
		mutation.NewBalance, mutation.AccountID, mutation.ExpectedVersion,
	)
	if err != nil {
		return errors.Wrapf(err, "Failed to update balance of %v", mutation.AccountID)
	}
	if err = expectAffected(res, ErrVersionConflict); err != nil {
		return err
	}

	trx := mutation.Transaction
	if _, err = dbTx.ExecContext(ctx, `
	INSERT INTO transactions(id, account_id, type, amount, balance_after, created_at)
	VALUES($1, $2, $3, $4, $5, $6)`,
		trx.ID, trx.AccountID, trx.Type, trx.Amount, trx.BalanceAfter, trx.CreatedAt.UnixNano(),
	); err != nil {
		return errors.Wrapf(err, "Failed to insert transaction %v", trx.ID)
	}

	if err = dbTx.Commit(); err != nil {
		return errors.Wrap(err, "Failed to commit mutation")
	}
	return nil
}

func (s *sqlStorage) QueryTransactions(ctx context.Context, query TransactionsQuery) ([]TransactionDTO, error) {
	conditions := []string{}
	args := []interface{}{}
	addCondition := func(condition string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(condition, len(args)))
	}
	if query.AccountID != "" {
		addCondition("account_id = $%d", query.AccountID)
	}
	if query.Type != "" {
		addCondition("type = $%d", query.Type)
	}
	if !query.From.IsZero() {
		addCondition("created_at >= $%d", query.From.UnixNano())
	}
	if !query.To.IsZero() {
		addCondition("created_at < $%d", query.To.UnixNano())
	}

	statement := "SELECT id, account_id, type, amount, balance_after, created_at FROM transactions"
	if len(conditions) > 0 {
		statement += " WHERE " + strings.Join(conditions, " AND ")
	}
	statement += " ORDER BY created_at DESC, id DESC"
	if query.Limit > 0 {
		args = append(args, query.Limit)
		statement += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, statement, args...)
	if err != nil {
		return nil, errors.Wrap(err, "Failed to query transactions")
	}
	defer rows.Close()

	result := []TransactionDTO{}
	for rows.Next() {
		var trx TransactionDTO
		var createdAt int64
		if err := rows.Scan(&trx.ID, &trx.AccountID, &trx.Type, &trx.Amount, &trx.BalanceAfter, &createdAt); err != nil {
			return nil, errors.Wrap(err, "Failed to scan transaction")
		}
		trx.CreatedAt = time.Unix(0, createdAt).UTC()
		result = append(result, trx)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "Failed to read transactions")
	}
	return result, nil
}

// SQLStorageOpt is an option of SQL storage
type SQLStorageOpt func(s *sqlStorage)

// WithSQLDb will set an explicit db instance for a storage
func WithSQLDb(db *sql.DB) SQLStorageOpt {
	return func(s *sqlStorage) {
		s.db = db
	}
}

// NewSQLStorage returns an instance of a SQL storage
func NewSQLStorage(opts ...SQLStorageOpt) (Storage, error) {
	storage := &sqlStorage{}
	for _, opt := range opts {
		opt(storage)
	}
	if storage.db == nil {
		return nil, errors.New("SQL db is required")
	}
	return storage, nil
}

// OpenDB opens a db using given driver (sqlite3 or postgres)
func OpenDB(driver string, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to open %v db", driver)
	}
	if driver == "sqlite3" {
		// sqlite allows only one writer and in-memory dbs are per connection
		db.SetMaxOpenConns(1)
	}
	return db, nil
}
