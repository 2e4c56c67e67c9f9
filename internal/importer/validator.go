package importer

// validator.go performs per-row validation and normalization.
//
// Every applicable check runs on every row: errors accumulate so the
// preview shows a user every problem at once instead of one per upload
// attempt. A row is valid iff its error list is empty after all checks.
//
// Uniqueness is checked against sets preloaded from the database, not
// with per-row queries. Two concurrent imports can still race past this
// check; the unique constraints on assets(serial_number) and
// assets(asset_tag) are the authority, and constraint violations at
// insert time are recorded as per-row failures by the executor.

import (
	"fmt"
	"net/netip"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/jackc/pgx/v5/pgtype"
)

// maxFieldLength caps asset_type, manufacturer, and model.
const maxFieldLength = 100

// DefaultStatus is applied when the status field is empty.
const DefaultStatus = "Active"

// macRegex matches six hex pairs separated consistently by ':' or '-'.
var macRegex = regexp.MustCompile(`^([0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2}$|^([0-9A-Fa-f]{2}-){5}[0-9A-Fa-f]{2}$`)

// ValidationContext carries the state preloaded once per import run:
// existing uniqueness sets and the reference lookup table.
type ValidationContext struct {
	ExistingSerials map[string]struct{}
	ExistingTags    map[string]struct{}
	Refs            *RefTable
}

// Validator validates and normalizes parsed rows. It also tracks
// serials and tags seen earlier in the same file, so in-file duplicates
// are caught before they reach the database.
type Validator struct {
	vc          *ValidationContext
	seenSerials map[string]int // serial → first row number
	seenTags    map[string]int
}

// NewValidator creates a validator over a preloaded context.
func NewValidator(vc *ValidationContext) *Validator {
	return &Validator{
		vc:          vc,
		seenSerials: make(map[string]int),
		seenTags:    make(map[string]int),
	}
}

// ValidateAll validates every row in order and returns the counts of
// valid and invalid rows.
func (v *Validator) ValidateAll(rows []*ImportRow) (valid, invalid int) {
	for _, row := range rows {
		v.ValidateRow(row)
		if row.Status == RowValid {
			valid++
		} else {
			invalid++
		}
	}
	return valid, invalid
}

// ValidateRow runs the full check sequence on one row, mutating its
// Fields (normalization), Status, and Errors.
func (v *Validator) ValidateRow(row *ImportRow) {
	row.Status = RowValid
	row.Errors = nil

	v.checkRequired(row)
	v.checkLengths(row)
	v.checkUniqueness(row)
	v.checkFormats(row)
	v.normalizeDates(row)
	v.resolveReferences(row)

	if row.Fields[FieldStatus] == "" {
		row.Fields[FieldStatus] = DefaultStatus
	}
}

func (v *Validator) checkRequired(row *ImportRow) {
	for _, f := range RequiredFields {
		if row.Fields[f] == "" {
			row.addError(fmt.Sprintf("missing required field %q", f))
		}
	}
}

func (v *Validator) checkLengths(row *ImportRow) {
	for _, f := range RequiredFields {
		// Characters, not bytes: multibyte names count by rune.
		if utf8.RuneCountInString(row.Fields[f]) > maxFieldLength {
			row.addError(fmt.Sprintf("%s exceeds %d characters", f, maxFieldLength))
		}
	}
}

func (v *Validator) checkUniqueness(row *ImportRow) {
	if serial := row.Fields[FieldSerialNumber]; serial != "" {
		key := strings.ToLower(serial)
		if _, exists := v.vc.ExistingSerials[key]; exists {
			row.addError(fmt.Sprintf("serial number %q already exists", serial))
		} else if first, dup := v.seenSerials[key]; dup {
			row.addError(fmt.Sprintf("serial number %q duplicates row %d in this file", serial, first))
		} else {
			v.seenSerials[key] = row.RowNumber
		}
	}

	if tag := row.Fields[FieldAssetTag]; tag != "" {
		key := strings.ToLower(tag)
		if _, exists := v.vc.ExistingTags[key]; exists {
			row.addError(fmt.Sprintf("asset tag %q already exists", tag))
		} else if first, dup := v.seenTags[key]; dup {
			row.addError(fmt.Sprintf("asset tag %q duplicates row %d in this file", tag, first))
		} else {
			v.seenTags[key] = row.RowNumber
		}
	}
}

func (v *Validator) checkFormats(row *ImportRow) {
	if ip := row.Fields[FieldIPAddress]; ip != "" {
		if _, err := netip.ParseAddr(ip); err != nil {
			row.addError(fmt.Sprintf("invalid IP address %q", ip))
		}
	}

	if mac := row.Fields[FieldMACAddress]; mac != "" {
		if !macRegex.MatchString(mac) {
			row.addError(fmt.Sprintf("invalid MAC format %q (expected XX:XX:XX:XX:XX:XX)", mac))
		}
	}
}

func (v *Validator) normalizeDates(row *ImportRow) {
	for _, f := range dateFields {
		val := row.Fields[f]
		if val == "" {
			continue
		}
		normalized, ok := NormalizeDate(val)
		if !ok {
			// Leave the field unchanged so the preview shows what was sent.
			row.addError(fmt.Sprintf("invalid date %q for %s (use YYYY-MM-DD)", val, f))
			continue
		}
		row.Fields[f] = normalized
	}
}

func (v *Validator) resolveReferences(row *ImportRow) {
	resolve := func(kind RefKind, field string) pgtype.UUID {
		val := row.Fields[field]
		if val == "" {
			return pgtype.UUID{Valid: false}
		}
		id, err := v.vc.Refs.Resolve(kind, val)
		if err != nil {
			row.addError(err.Error())
			return pgtype.UUID{Valid: false}
		}
		return id
	}

	row.ClientID = resolve(RefClient, FieldClient)
	row.AssignedTo = resolve(RefStaff, FieldAssignedTo)
	row.LocationID = resolve(RefLocation, FieldLocation)
}
