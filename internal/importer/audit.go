package importer

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// AuditAction represents the type of action being audited.
type AuditAction string

const (
	ActionAssetImport   AuditAction = "asset_import"
	ActionImportConfirm AuditAction = "import_confirm"
	ActionImportCancel  AuditAction = "import_cancel"
)

// AuditSeverity represents the severity level of an audit entry.
type AuditSeverity string

const (
	SeverityLow    AuditSeverity = "low"
	SeverityMedium AuditSeverity = "medium"
	SeverityHigh   AuditSeverity = "high"
)

// AuditParams contains the fields written to one audit_log row.
type AuditParams struct {
	Action       AuditAction
	Entity       string
	EntityID     pgtype.UUID
	ImportID     string
	UserName     string
	IPAddress    string
	UserAgent    string
	Detail       string
	RowsAffected int
}

// determineSeverity returns the appropriate severity for an action.
func determineSeverity(action AuditAction) AuditSeverity {
	switch action {
	case ActionImportConfirm:
		return SeverityHigh
	case ActionImportCancel:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// InsertAuditLog writes one audit row. Callers inside the import
// transaction pass their pgx.Tx so audit entries roll back with the
// batch on top-level failure.
func (st *Store) InsertAuditLog(ctx context.Context, db DBTX, params AuditParams) error {
	const query = `
		INSERT INTO audit_log (
			action, severity, entity, entity_id, import_id,
			user_name, ip_address, user_agent, detail, rows_affected
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	var rowsAffected pgtype.Int4
	if params.RowsAffected != 0 {
		rowsAffected = pgtype.Int4{Int32: int32(params.RowsAffected), Valid: true}
	}

	_, err := db.Exec(ctx, query,
		string(params.Action),
		string(determineSeverity(params.Action)),
		params.Entity,
		params.EntityID,
		ToPgUUID(params.ImportID),
		ToPgText(params.UserName),
		ToPgText(params.IPAddress),
		ToPgText(params.UserAgent),
		ToPgText(params.Detail),
		rowsAffected,
	)
	return err
}
