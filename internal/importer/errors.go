package importer

// errors.go translates raw database errors into messages safe to show
// on a failed row. Raw driver errors leak schema details and confuse
// non-technical users; these stay in the server log only.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes we handle explicitly.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgNotNullViolation    = "23502"
)

// FriendlyDBError maps a row-level insert error to a user-facing
// reason. The duplicate case matters most: it is how uniqueness races
// between concurrent imports surface.
func FriendlyDBError(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			if strings.Contains(pgErr.ConstraintName, "serial") {
				return "serial number already exists"
			}
			if strings.Contains(pgErr.ConstraintName, "tag") {
				return "asset tag already exists"
			}
			return "duplicate value for a unique field"
		case pgForeignKeyViolation:
			return "referenced record does not exist"
		case pgNotNullViolation:
			return "required database field is empty"
		}
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "deadline"):
		return "database operation timed out"
	// pgx reports these as "failed to connect to ..." and
	// "connection reset"; "connect" covers both wordings.
	case strings.Contains(msg, "connect"):
		return "database connection problem"
	default:
		return "database error"
	}
}

func formatCompletionMessage(imported, failed int) string {
	// Wording is load-bearing: the asset list page surfaces it verbatim
	// as the post-import flash notice.
	return fmt.Sprintf("Import completed! Successfully imported %d assets. Failed: %d", imported, failed)
}
