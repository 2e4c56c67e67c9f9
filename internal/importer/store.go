package importer

// store.go is the persistence layer for the import pipeline: preloading
// validation state, inserting assets, and writing import/audit logs.
// Queries are hand-written pgx with positional parameters throughout.

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

// Store executes all database operations for the importer.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store over a connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Pool exposes the underlying pool for transaction management.
func (st *Store) Pool() *pgxpool.Pool {
	return st.pool
}

// LoadValidationContext preloads everything validation needs: the
// existing serial and tag sets plus the reference name→id tables. The
// four loads run concurrently; one import run pays for them once.
func (st *Store) LoadValidationContext(ctx context.Context) (*ValidationContext, error) {
	vc := &ValidationContext{Refs: NewRefTable()}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		set, err := st.loadKeySet(gctx, "serial_number")
		if err != nil {
			return fmt.Errorf("load serial numbers: %w", err)
		}
		vc.ExistingSerials = set
		return nil
	})

	g.Go(func() error {
		set, err := st.loadKeySet(gctx, "asset_tag")
		if err != nil {
			return fmt.Errorf("load asset tags: %w", err)
		}
		vc.ExistingTags = set
		return nil
	})

	g.Go(func() error {
		if err := st.loadNameTable(gctx, "SELECT id, company_name FROM clients", vc.Refs.Clients); err != nil {
			return fmt.Errorf("load clients: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := st.loadNameTable(gctx, "SELECT id, full_name FROM staff", vc.Refs.Staff); err != nil {
			return fmt.Errorf("load staff: %w", err)
		}
		if err := st.loadNameTable(gctx, "SELECT id, name FROM locations", vc.Refs.Locations); err != nil {
			return fmt.Errorf("load locations: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return vc, nil
}

// loadKeySet reads every non-null value of one assets column into a
// lowercased set for uniqueness checks.
func (st *Store) loadKeySet(ctx context.Context, column string) (map[string]struct{}, error) {
	query := fmt.Sprintf("SELECT %s FROM assets WHERE %s IS NOT NULL", column, column)

	rows, err := st.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	set := make(map[string]struct{})
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		set[strings.ToLower(v)] = struct{}{}
	}

	return set, rows.Err()
}

// loadNameTable fills a name→id map from an id/name query.
func (st *Store) loadNameTable(ctx context.Context, query string, dst map[string]uuid.UUID) error {
	rows, err := st.pool.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var id uuid.UUID
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return err
		}
		dst[strings.ToLower(strings.TrimSpace(name))] = id
	}

	return rows.Err()
}

// InsertAsset inserts one asset row and returns its generated id.
func (st *Store) InsertAsset(ctx context.Context, db DBTX, row *ImportRow) (uuid.UUID, error) {
	const query = `
		INSERT INTO assets (
			asset_type, manufacturer, model, serial_number, asset_tag,
			ip_address, mac_address, purchase_date, warranty_expiry,
			amc_expiry, license_expiry, status, client_id, location_id,
			assigned_to, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id`

	var id uuid.UUID
	err := db.QueryRow(ctx, query,
		row.Fields[FieldAssetType],
		row.Fields[FieldManufacturer],
		row.Fields[FieldModel],
		ToPgText(row.Fields[FieldSerialNumber]),
		ToPgText(row.Fields[FieldAssetTag]),
		ToPgText(row.Fields[FieldIPAddress]),
		ToPgText(row.Fields[FieldMACAddress]),
		ToPgDate(row.Fields[FieldPurchaseDate]),
		ToPgDate(row.Fields[FieldWarrantyExpiry]),
		ToPgDate(row.Fields[FieldAMCExpiry]),
		ToPgDate(row.Fields[FieldLicenseExpiry]),
		row.Fields[FieldStatus],
		row.ClientID,
		row.LocationID,
		row.AssignedTo,
		ToPgText(row.Fields[FieldNotes]),
	).Scan(&id)

	return id, err
}

// InsertImportLog writes the immutable per-batch summary row.
func (st *Store) InsertImportLog(ctx context.Context, db DBTX, entry ImportLogEntry) error {
	const query = `
		INSERT INTO import_logs (id, file_name, total_rows, success_count, fail_count, imported_by)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := db.Exec(ctx, query,
		ToPgUUID(entry.ID),
		entry.FileName,
		entry.TotalRows,
		entry.SuccessCount,
		entry.FailCount,
		ToPgText(entry.ImportedBy),
	)
	return err
}

// ListImportLogs returns batch summaries, newest first.
func (st *Store) ListImportLogs(ctx context.Context, limit int) ([]ImportLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	const query = `
		SELECT id, file_name, total_rows, success_count, fail_count,
		       COALESCE(imported_by, ''), created_at
		FROM import_logs
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := st.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []ImportLogEntry
	for rows.Next() {
		var e ImportLogEntry
		var id uuid.UUID
		if err := rows.Scan(&id, &e.FileName, &e.TotalRows, &e.SuccessCount, &e.FailCount, &e.ImportedBy, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.ID = id.String()
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
