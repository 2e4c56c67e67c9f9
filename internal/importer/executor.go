package importer

// executor.go runs a confirmed import batch.
//
// The whole batch runs inside one transaction with a savepoint per row.
// A failed insert rolls back to its savepoint and is recorded as a
// failed row; the rest of the batch proceeds. Unexpected errors abort
// the transaction entirely, so a half-written batch never commits. The
// import_logs summary and audit entries are written inside the same
// transaction and share its fate.

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// contextCheckInterval is how many rows between cancellation checks.
const contextCheckInterval = 100

// RequestMeta carries the request-scoped identity recorded in audit
// and import log rows.
type RequestMeta struct {
	User      string
	IP        string
	UserAgent string
}

// ExecuteBatch inserts every valid row of a claimed session and writes
// the batch summary. Invalid rows are counted as failed with their
// validation errors; rows that fail at insert time are rolled back
// individually and recorded with a sanitized reason.
func (st *Store) ExecuteBatch(ctx context.Context, sess *Session, meta RequestMeta) (*ImportSummary, error) {
	startTime := time.Now()
	importID := uuid.New().String()

	summary := &ImportSummary{
		ImportID: importID,
		FileName: sess.FileName,
		Total:    len(sess.Rows),
	}

	tx, err := st.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, row := range sess.Rows {
		if i%contextCheckInterval == 0 && ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if row.Status != RowValid {
			recordRowFailure(summary, row, joinErrors(row.Errors))
			continue
		}

		savepoint := fmt.Sprintf("sp_%d", i)
		if _, err := tx.Exec(ctx, "SAVEPOINT "+savepoint); err != nil {
			return nil, fmt.Errorf("create savepoint: %w", err)
		}

		assetID, err := st.InsertAsset(ctx, tx, row)
		if err != nil {
			_, _ = tx.Exec(ctx, "ROLLBACK TO SAVEPOINT "+savepoint)
			recordRowFailure(summary, row, FriendlyDBError(err))
			continue
		}

		if _, err := tx.Exec(ctx, "RELEASE SAVEPOINT "+savepoint); err != nil {
			return nil, fmt.Errorf("release savepoint: %w", err)
		}

		err = st.InsertAuditLog(ctx, tx, AuditParams{
			Action:    ActionAssetImport,
			Entity:    "asset",
			EntityID:  pgtype.UUID{Bytes: assetID, Valid: true},
			ImportID:  importID,
			UserName:  meta.User,
			IPAddress: meta.IP,
			UserAgent: meta.UserAgent,
			Detail:    fmt.Sprintf("imported from %s row %d", sess.FileName, row.RowNumber),
		})
		if err != nil {
			return nil, fmt.Errorf("audit asset insert: %w", err)
		}

		summary.Imported++
	}

	err = st.InsertImportLog(ctx, tx, ImportLogEntry{
		ID:           importID,
		FileName:     sess.FileName,
		TotalRows:    summary.Total,
		SuccessCount: summary.Imported,
		FailCount:    summary.Failed,
		ImportedBy:   meta.User,
	})
	if err != nil {
		return nil, fmt.Errorf("write import log: %w", err)
	}

	err = st.InsertAuditLog(ctx, tx, AuditParams{
		Action:       ActionImportConfirm,
		Entity:       "import",
		ImportID:     importID,
		UserName:     meta.User,
		IPAddress:    meta.IP,
		UserAgent:    meta.UserAgent,
		Detail:       summary.Message(),
		RowsAffected: summary.Imported,
	})
	if err != nil {
		return nil, fmt.Errorf("audit import confirm: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}

	summary.Duration = time.Since(startTime)
	return summary, nil
}

// recordRowFailure counts a failed row on the summary. The session row
// itself is left untouched: if the batch later aborts and rolls back,
// the released session still holds every validated row, so a retried
// confirm re-attempts inserts that were undone.
func recordRowFailure(summary *ImportSummary, row *ImportRow, reason string) {
	summary.Failed++
	summary.FailedRows = append(summary.FailedRows, FailedRow{
		RowNumber: row.RowNumber,
		Reason:    reason,
	})
}

// joinErrors flattens a row's validation errors into one reason line.
func joinErrors(errs []string) string {
	if len(errs) == 0 {
		return "validation failed"
	}
	out := errs[0]
	for _, e := range errs[1:] {
		out += "; " + e
	}
	return out
}
