package importer

// mapper.go maps uploaded CSV headers onto canonical asset fields.
//
// Matching is case-insensitive exact match against a fixed synonym
// table: several human spellings ("Vendor", "Make") collapse onto one
// canonical field ("manufacturer"). Columns that match nothing are
// carried as unmapped and ignored by the rest of the pipeline.

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingColumns reports a header row without every required column.
var ErrMissingColumns = errors.New("missing required columns")

// headerSynonyms maps lowercased header text to canonical field names.
var headerSynonyms = map[string]string{
	"type":       FieldAssetType,
	"asset type": FieldAssetType,
	"asset_type": FieldAssetType,
	"category":   FieldAssetType,

	"manufacturer": FieldManufacturer,
	"vendor":       FieldManufacturer,
	"make":         FieldManufacturer,
	"brand":        FieldManufacturer,

	"model":      FieldModel,
	"model name": FieldModel,
	"model no":   FieldModel,

	"serial":        FieldSerialNumber,
	"serial no":     FieldSerialNumber,
	"serial number": FieldSerialNumber,
	"serial_number": FieldSerialNumber,
	"sn":            FieldSerialNumber,

	"tag":       FieldAssetTag,
	"asset tag": FieldAssetTag,
	"asset_tag": FieldAssetTag,
	"tag no":    FieldAssetTag,

	"ip":         FieldIPAddress,
	"ip address": FieldIPAddress,
	"ip_address": FieldIPAddress,

	"mac":         FieldMACAddress,
	"mac address": FieldMACAddress,
	"mac_address": FieldMACAddress,

	"purchase date": FieldPurchaseDate,
	"purchase_date": FieldPurchaseDate,
	"purchased":     FieldPurchaseDate,
	"purchased on":  FieldPurchaseDate,

	"warranty":        FieldWarrantyExpiry,
	"warranty expiry": FieldWarrantyExpiry,
	"warranty_expiry": FieldWarrantyExpiry,
	"warranty end":    FieldWarrantyExpiry,

	"amc":        FieldAMCExpiry,
	"amc expiry": FieldAMCExpiry,
	"amc_expiry": FieldAMCExpiry,
	"amc end":    FieldAMCExpiry,

	"license":        FieldLicenseExpiry,
	"license expiry": FieldLicenseExpiry,
	"license_expiry": FieldLicenseExpiry,
	"licence expiry": FieldLicenseExpiry,

	"status": FieldStatus,
	"state":  FieldStatus,

	"client":   FieldClient,
	"company":  FieldClient,
	"customer": FieldClient,

	"assigned to": FieldAssignedTo,
	"assigned_to": FieldAssignedTo,
	"owner":       FieldAssignedTo,
	"staff":       FieldAssignedTo,
	"user":        FieldAssignedTo,

	"location": FieldLocation,
	"site":     FieldLocation,
	"office":   FieldLocation,

	"notes":       FieldNotes,
	"note":        FieldNotes,
	"comments":    FieldNotes,
	"description": FieldNotes,
}

// ColumnMap maps a CSV column index to its canonical field name.
// Unmapped columns have an empty string entry.
type ColumnMap []string

// Field returns the canonical field for column i, or "" if unmapped.
func (m ColumnMap) Field(i int) string {
	if i < 0 || i >= len(m) {
		return ""
	}
	return m[i]
}

// MappedFields returns the set of canonical fields present in the map.
func (m ColumnMap) MappedFields() map[string]bool {
	fields := make(map[string]bool)
	for _, f := range m {
		if f != "" {
			fields[f] = true
		}
	}
	return fields
}

// MapHeaders resolves raw header cells to a ColumnMap. When two columns
// map to the same field, the first one wins. Returns an error listing
// the missing fields when any required field is absent; the whole
// import is rejected at this stage.
func MapHeaders(headers []string) (ColumnMap, error) {
	m := make(ColumnMap, len(headers))
	seen := make(map[string]bool)

	for i, h := range headers {
		key := strings.ToLower(CleanCell(h))
		field, ok := headerSynonyms[key]
		if !ok || seen[field] {
			continue
		}
		m[i] = field
		seen[field] = true
	}

	var missing []string
	for _, f := range RequiredFields {
		if !seen[f] {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}

	return m, nil
}
