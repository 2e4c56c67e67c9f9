// Package assets provides querying and export over the assets table.
package assets

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Asset is one row of the assets table as served by the list and
// export endpoints. Nullable columns use pgtype so NULL survives the
// round trip instead of collapsing to zero values.
type Asset struct {
	ID           string      `json:"id"`
	AssetType    string      `json:"assetType"`
	Manufacturer string      `json:"manufacturer"`
	Model        string      `json:"model"`
	SerialNumber pgtype.Text `json:"serialNumber"`
	AssetTag     pgtype.Text `json:"assetTag"`
	IPAddress    pgtype.Text `json:"ipAddress"`
	MACAddress   pgtype.Text `json:"macAddress"`
	PurchaseDate pgtype.Date `json:"purchaseDate"`
	Warranty     pgtype.Date `json:"warrantyExpiry"`
	AMCExpiry    pgtype.Date `json:"amcExpiry"`
	License      pgtype.Date `json:"licenseExpiry"`
	Status       string      `json:"status"`
	ClientID     pgtype.UUID `json:"clientId"`
	LocationID   pgtype.UUID `json:"locationId"`
	AssignedTo   pgtype.UUID `json:"assignedTo"`
	Notes        pgtype.Text `json:"notes"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// FilterOp is a comparison operator accepted in list queries.
type FilterOp string

const (
	OpEquals     FilterOp = "eq"
	OpContains   FilterOp = "contains"
	OpStartsWith FilterOp = "starts_with"
	OpEndsWith   FilterOp = "ends_with"
	OpGreaterEq  FilterOp = "gte"
	OpLessEq     FilterOp = "lte"
	OpGreater    FilterOp = "gt"
	OpLess       FilterOp = "lt"
	OpIn         FilterOp = "in"
)

// Filter is one column condition from the query string.
type Filter struct {
	Column string
	Op     FilterOp
	Value  string
}

// filterableColumns is the whitelist of columns a client may filter or
// sort by. Anything else is rejected before SQL is built.
var filterableColumns = map[string]bool{
	"asset_type":      true,
	"manufacturer":    true,
	"model":           true,
	"serial_number":   true,
	"asset_tag":       true,
	"ip_address":      true,
	"mac_address":     true,
	"purchase_date":   true,
	"warranty_expiry": true,
	"amc_expiry":      true,
	"license_expiry":  true,
	"status":          true,
	"created_at":      true,
}

// searchColumns are the text columns a free-text search matches.
var searchColumns = []string{
	"asset_type", "manufacturer", "model",
	"serial_number", "asset_tag", "status", "notes",
}

// FilterableColumn reports whether clients may filter or sort on col.
func FilterableColumn(col string) bool {
	return filterableColumns[col]
}

// ListQuery describes one list request after parsing.
type ListQuery struct {
	Search  string
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int
	Offset  int
}
