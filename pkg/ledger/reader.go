package ledger

import (
	"context"
	"time"

	"github.com/evgeny-myasishchev/bank-ledger/pkg/dal"
)

const dayLayout = "2006-01-02"

func parseDay(raw string) (time.Time, error) {
	day, err := time.ParseInLocation(dayLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, newError(KindInvalidInput, "Date %q is not in YYYY-MM-DD format", raw)
	}
	return day, nil
}

func (s *service) queryTransactions(ctx context.Context, query dal.TransactionsQuery) ([]Transaction, error) {
	dtos, err := s.storage.QueryTransactions(ctx, query)
	if err != nil {
		return nil, storeError(err, query.AccountID, "query transactions")
	}
	result := make([]Transaction, 0, len(dtos))
	for _, dto := range dtos {
		result = append(result, newTransactionFromDTO(dto))
	}
	return result, nil
}

func (s *service) RecentHistory(ctx context.Context, accountID string, limit int) ([]Transaction, error) {
	if err := requireAccountID(accountID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	if limit > s.historyMaxLimit {
		limit = s.historyMaxLimit
	}
	return s.queryTransactions(ctx, dal.TransactionsQuery{AccountID: accountID, Limit: limit})
}

// HistoryInRange includes both days entirely
func (s *service) HistoryInRange(ctx context.Context, accountID string, startDate string, endDate string) ([]Transaction, error) {
	if err := requireAccountID(accountID); err != nil {
		return nil, err
	}
	start, err := parseDay(startDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDay(endDate)
	if err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, newError(KindInvalidInput, "Start date %v is after end date %v", startDate, endDate)
	}
	return s.queryTransactions(ctx, dal.TransactionsQuery{
		AccountID: accountID,
		From:      start,
		To:        end.AddDate(0, 0, 1),
	})
}

func (s *service) FilteredHistory(ctx context.Context, filter HistoryFilter) ([]Transaction, error) {
	trxType, err := parseTransactionType(filter.Type)
	if err != nil {
		return nil, err
	}
	query := dal.TransactionsQuery{
		AccountID: filter.AccountID,
		Type:      string(trxType),
	}
	if filter.Day != "" {
		day, err := parseDay(filter.Day)
		if err != nil {
			return nil, err
		}
		query.From = day
		query.To = day.Add(24 * time.Hour)
	}
	return s.queryTransactions(ctx, query)
}
