package dal

import (
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

const pqUniqueViolation = pq.ErrorCode("23505")

func isUniqueViolation(err error) bool {
	switch e := err.(type) {
	case sqlite3.Error:
		return e.ExtendedCode == sqlite3.ErrConstraintPrimaryKey || e.ExtendedCode == sqlite3.ErrConstraintUnique
	case *pq.Error:
		return e.Code == pqUniqueViolation
	}
	return false
}
