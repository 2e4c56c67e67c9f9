package assets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const assetColumns = `id, asset_type, manufacturer, model, serial_number, asset_tag,
	ip_address, mac_address, purchase_date, warranty_expiry, amc_expiry,
	license_expiry, status, client_id, location_id, assigned_to, notes, created_at`

// Store runs read queries against the assets table.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store over a connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// List returns one page of assets matching the query plus the total
// match count for pagination.
func (st *Store) List(ctx context.Context, q ListQuery) ([]Asset, int, error) {
	wb := NewWhereBuilder()
	wb.AddSearch(q.Search)
	wb.AddFilters(q.Filters)
	whereClause, args := wb.Build()

	total, err := st.count(ctx, whereClause, args)
	if err != nil {
		return nil, 0, err
	}

	orderBy := "created_at"
	if q.OrderBy != "" && FilterableColumn(q.OrderBy) {
		orderBy = q.OrderBy
	}
	direction := "ASC"
	if q.Desc || q.OrderBy == "" {
		direction = "DESC"
	}

	limit := q.Limit
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	argIdx := wb.NextArgIndex()
	query := fmt.Sprintf(
		"SELECT %s FROM assets%s ORDER BY %s %s LIMIT $%d OFFSET $%d",
		assetColumns, whereClause, quoteIdentifier(orderBy), direction, argIdx, argIdx+1,
	)
	args = append(args, limit, offset)

	rows, err := st.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list assets: %w", err)
	}
	defer rows.Close()

	var out []Asset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, a)
	}

	return out, total, rows.Err()
}

func (st *Store) count(ctx context.Context, whereClause string, args []interface{}) (int, error) {
	var total int
	query := "SELECT COUNT(*) FROM assets" + whereClause
	if err := st.pool.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count assets: %w", err)
	}
	return total, nil
}

// StreamAll walks every asset matching the query in stable order,
// invoking the callback per row. Used for CSV export so a large table
// never accumulates in memory.
func (st *Store) StreamAll(ctx context.Context, q ListQuery, fn func(Asset) error) error {
	wb := NewWhereBuilder()
	wb.AddSearch(q.Search)
	wb.AddFilters(q.Filters)
	whereClause, args := wb.Build()

	query := fmt.Sprintf(
		"SELECT %s FROM assets%s ORDER BY created_at DESC",
		assetColumns, whereClause,
	)

	rows, err := st.pool.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("export assets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return err
		}
		if err := fn(a); err != nil {
			return err
		}
	}

	return rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAsset(row rowScanner) (Asset, error) {
	var a Asset
	err := row.Scan(
		&a.ID, &a.AssetType, &a.Manufacturer, &a.Model,
		&a.SerialNumber, &a.AssetTag, &a.IPAddress, &a.MACAddress,
		&a.PurchaseDate, &a.Warranty, &a.AMCExpiry, &a.License,
		&a.Status, &a.ClientID, &a.LocationID, &a.AssignedTo,
		&a.Notes, &a.CreatedAt,
	)
	if err != nil {
		return Asset{}, fmt.Errorf("scan asset: %w", err)
	}
	return a, nil
}

// CSVHeader is the column order used by the export endpoint.
var CSVHeader = []string{
	"asset_type", "manufacturer", "model", "serial_number", "asset_tag",
	"ip_address", "mac_address", "purchase_date", "warranty_expiry",
	"amc_expiry", "license_expiry", "status", "notes",
}

// CSVRecord renders an asset into the export column order.
func CSVRecord(a Asset) []string {
	fmtDate := func(valid bool, t time.Time) string {
		if !valid {
			return ""
		}
		return t.Format("2006-01-02")
	}

	return []string{
		a.AssetType,
		a.Manufacturer,
		a.Model,
		textOrEmpty(a.SerialNumber.String, a.SerialNumber.Valid),
		textOrEmpty(a.AssetTag.String, a.AssetTag.Valid),
		textOrEmpty(a.IPAddress.String, a.IPAddress.Valid),
		textOrEmpty(a.MACAddress.String, a.MACAddress.Valid),
		fmtDate(a.PurchaseDate.Valid, a.PurchaseDate.Time),
		fmtDate(a.Warranty.Valid, a.Warranty.Time),
		fmtDate(a.AMCExpiry.Valid, a.AMCExpiry.Time),
		fmtDate(a.License.Valid, a.License.Time),
		a.Status,
		textOrEmpty(a.Notes.String, a.Notes.Valid),
	}
}

func textOrEmpty(s string, valid bool) string {
	if !valid {
		return ""
	}
	return strings.TrimSpace(s)
}
