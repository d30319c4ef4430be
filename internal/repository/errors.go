package repository

import (
	"errors"
	"regexp"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation = "23505"
	codeUndefinedColumn = "42703"
	codeUndefinedTable  = "42P01"
)

// IsDuplicate - signals that the error is a duplicate key violation.
func IsDuplicate(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// IsNotFound - signals that the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// IsUndefinedColumn reports a reference to a column the live schema lacks.
func IsUndefinedColumn(err error) bool {
	return hasCode(err, codeUndefinedColumn)
}

// IsUndefinedTable reports a reference to a table the live schema lacks.
func IsUndefinedTable(err error) bool {
	return hasCode(err, codeUndefinedTable)
}

// IsSchemaDrift reports whether err comes from the live schema differing from
// what the queries expect.
func IsSchemaDrift(err error) bool {
	return IsUndefinedColumn(err) || IsUndefinedTable(err)
}

var undefinedColumnRe = regexp.MustCompile(`column "?(?:[A-Za-z_][A-Za-z0-9_]*\.)?([A-Za-z_][A-Za-z0-9_]*)"?(?: of relation "[^"]+")? does not exist`)

// UndefinedColumn extracts the missing column name from an undefined_column error.
func UndefinedColumn(err error) (string, bool) {
	var pgerr *pgconn.PgError
	if !errors.As(err, &pgerr) || pgerr.Code != codeUndefinedColumn {
		return "", false
	}
	if pgerr.ColumnName != "" {
		return pgerr.ColumnName, true
	}
	m := undefinedColumnRe.FindStringSubmatch(pgerr.Message)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func hasCode(err error, code string) bool {
	var pgerr *pgconn.PgError
	return errors.As(err, &pgerr) && pgerr.Code == code
}
