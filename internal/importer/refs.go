package importer

// refs.go resolves the client / assigned_to / location columns.
//
// Cells may carry either a UUID literal or a human name. Names are
// looked up in a RefTable preloaded once per import run, so validation
// never issues per-row queries.

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// RefKind identifies which reference table a cell resolves against.
type RefKind string

const (
	RefClient   RefKind = "client"
	RefStaff    RefKind = "staff"
	RefLocation RefKind = "location"
)

// RefTable holds name→id lookups for every referenced entity, built
// once per import run. Keys are lowercased trimmed names.
type RefTable struct {
	Clients   map[string]uuid.UUID
	Staff     map[string]uuid.UUID
	Locations map[string]uuid.UUID
}

// NewRefTable returns an empty table with all maps allocated.
func NewRefTable() *RefTable {
	return &RefTable{
		Clients:   make(map[string]uuid.UUID),
		Staff:     make(map[string]uuid.UUID),
		Locations: make(map[string]uuid.UUID),
	}
}

// Resolve turns a cell value into a reference id. UUID literals pass
// through directly; anything else is treated as a name and looked up.
// An unresolved name is an error that names the missing reference.
func (t *RefTable) Resolve(kind RefKind, value string) (pgtype.UUID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return pgtype.UUID{Valid: false}, nil
	}

	if id, err := uuid.Parse(value); err == nil {
		return pgtype.UUID{Bytes: id, Valid: true}, nil
	}

	var m map[string]uuid.UUID
	switch kind {
	case RefClient:
		m = t.Clients
	case RefStaff:
		m = t.Staff
	case RefLocation:
		m = t.Locations
	default:
		return pgtype.UUID{Valid: false}, fmt.Errorf("unknown reference kind %q", kind)
	}

	id, ok := m[strings.ToLower(value)]
	if !ok {
		return pgtype.UUID{Valid: false}, fmt.Errorf("unknown %s %q", kind, value)
	}

	return pgtype.UUID{Bytes: id, Valid: true}, nil
}
