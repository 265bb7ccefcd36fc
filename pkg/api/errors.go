package api

import (
	"errors"
	"net/http"

	"github.com/evgeny-myasishchev/bank-ledger/pkg/ledger"
	"github.com/evgeny-myasishchev/bank-ledger/pkg/lib-core-golang/router"
)

var kindStatus = map[ledger.Kind]int{
	ledger.KindNotFound:          http.StatusNotFound,
	ledger.KindUnauthorized:      http.StatusUnauthorized,
	ledger.KindInsufficientFunds: http.StatusUnprocessableEntity,
	ledger.KindInvalidInput:      http.StatusBadRequest,
	ledger.KindStoreFailure:      http.StatusInternalServerError,
	ledger.KindConflict:          http.StatusConflict,
}

// KindStatus returns http status of a given ledger error kind
func KindStatus(kind ledger.Kind) int {
	if status, ok := kindStatus[kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func toHTTPError(err error) error {
	var ledgerErr *ledger.Error
	if !errors.As(err, &ledgerErr) {
		return err
	}
	return router.NewKindHTTPError(KindStatus(ledgerErr.Kind), string(ledgerErr.Kind), ledgerErr.Message)
}
