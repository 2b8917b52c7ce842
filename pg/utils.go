package pg

import (
	"errors"
	"fmt"
	"strings"

	"github.com/code19m/errx"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation  = "23505"
	codeInvalidTextInput = "22P02"
	codeUndefinedTable   = "42P01"
)

// IsConflict reports whether err is a unique constraint violation.
func IsConflict(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// IsInvalidInput reports whether err is a failed text to type conversion, such as
// casting a JSON string to numeric.
func IsInvalidInput(err error) bool {
	return hasCode(err, codeInvalidTextInput)
}

// IsUndefinedTable reports whether err was caused by a missing table.
func IsUndefinedTable(err error) bool {
	return hasCode(err, codeUndefinedTable)
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}

// ErrorDetails extracts the server side details of err and the failed statement.
func ErrorDetails(err error, query fmt.Stringer) errx.D {
	details := make(errx.D)
	if q := safeString(query); q != "" {
		details["query"] = strings.ReplaceAll(q, `"`, ``)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return details
	}

	details["pg.code"] = pgErr.Code
	details["pg.message"] = pgErr.Message
	details["pg.detail"] = pgErr.Detail
	details["pg.table"] = pgErr.TableName
	details["pg.constraint"] = pgErr.ConstraintName

	return details
}

// safeString renders query, which may panic for some bun queries.
func safeString(query fmt.Stringer) (s string) {
	defer func() {
		if recover() != nil {
			s = ""
		}
	}()

	if query == nil {
		return ""
	}
	return query.String()
}
