package importer

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Canonical field names produced by the header mapper. Every downstream
// stage (validator, executor) keys row values by these constants.
const (
	FieldAssetType      = "asset_type"
	FieldManufacturer   = "manufacturer"
	FieldModel          = "model"
	FieldSerialNumber   = "serial_number"
	FieldAssetTag       = "asset_tag"
	FieldIPAddress      = "ip_address"
	FieldMACAddress     = "mac_address"
	FieldPurchaseDate   = "purchase_date"
	FieldWarrantyExpiry = "warranty_expiry"
	FieldAMCExpiry      = "amc_expiry"
	FieldLicenseExpiry  = "license_expiry"
	FieldStatus         = "status"
	FieldClient         = "client"
	FieldAssignedTo     = "assigned_to"
	FieldLocation       = "location"
	FieldNotes          = "notes"
)

// RequiredFields must all be present among the mapped columns for an
// import to proceed past the header stage.
var RequiredFields = []string{FieldAssetType, FieldManufacturer, FieldModel}

// dateFields are normalized to YYYY-MM-DD during validation.
var dateFields = []string{FieldPurchaseDate, FieldWarrantyExpiry, FieldAMCExpiry, FieldLicenseExpiry}

// RowStatus is the validation outcome of a single import row.
type RowStatus string

const (
	RowPending RowStatus = "pending"
	RowValid   RowStatus = "valid"
	RowInvalid RowStatus = "invalid"
)

// ImportRow is one data line of the uploaded file, annotated by the
// validator. Raw holds values exactly as parsed (keyed by canonical
// field); Fields holds the normalized values that the executor inserts.
type ImportRow struct {
	RowNumber int               `json:"rowNumber"` // 1-based; header is row 1
	Raw       map[string]string `json:"raw"`
	Fields    map[string]string `json:"fields"`
	Status    RowStatus         `json:"status"`
	Errors    []string          `json:"errors,omitempty"`

	// Resolved during validation so the executor never re-resolves.
	ClientID   pgtype.UUID `json:"-"`
	LocationID pgtype.UUID `json:"-"`
	AssignedTo pgtype.UUID `json:"-"`
}

// addError records a validation error and marks the row invalid.
// Errors accumulate; validation never short-circuits a row.
func (r *ImportRow) addError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.Status = RowInvalid
}

// ImportSummary is the outcome of one confirmed import batch.
type ImportSummary struct {
	ImportID   string        `json:"importId"`
	FileName   string        `json:"fileName"`
	Total      int           `json:"total"`
	Imported   int           `json:"imported"`
	Failed     int           `json:"failed"`
	FailedRows []FailedRow   `json:"failedRows,omitempty"`
	Duration   time.Duration `json:"-"`
}

// Message returns the user-facing completion notice.
func (s ImportSummary) Message() string {
	return formatCompletionMessage(s.Imported, s.Failed)
}

// FailedRow describes a row that validated but failed at insert time.
type FailedRow struct {
	RowNumber int    `json:"rowNumber"`
	Reason    string `json:"reason"`
}

// ImportLogEntry is one persisted row of the import_logs table,
// written once per confirmed batch and never mutated.
type ImportLogEntry struct {
	ID           string    `json:"id"`
	FileName     string    `json:"fileName"`
	TotalRows    int       `json:"totalRows"`
	SuccessCount int       `json:"successCount"`
	FailCount    int       `json:"failCount"`
	ImportedBy   string    `json:"importedBy"`
	CreatedAt    time.Time `json:"createdAt"`
}
