package importer

import (
	"errors"
	"strings"
	"testing"
)

func TestMapHeaders_Synonyms(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    map[int]string // column index → canonical field
	}{
		{
			name:    "exact canonical names",
			headers: []string{"asset_type", "manufacturer", "model"},
			want:    map[int]string{0: FieldAssetType, 1: FieldManufacturer, 2: FieldModel},
		},
		{
			name:    "human spellings",
			headers: []string{"Type", "Vendor", "Model Name", "Serial No", "Tag"},
			want: map[int]string{
				0: FieldAssetType,
				1: FieldManufacturer,
				2: FieldModel,
				3: FieldSerialNumber,
				4: FieldAssetTag,
			},
		},
		{
			name:    "case insensitive",
			headers: []string{"CATEGORY", "MAKE", "model no"},
			want:    map[int]string{0: FieldAssetType, 1: FieldManufacturer, 2: FieldModel},
		},
		{
			name:    "unknown columns unmapped",
			headers: []string{"type", "make", "model", "favourite colour"},
			want:    map[int]string{0: FieldAssetType, 1: FieldManufacturer, 2: FieldModel, 3: ""},
		},
		{
			name:    "whitespace around headers",
			headers: []string{"  type  ", " brand ", "model"},
			want:    map[int]string{0: FieldAssetType, 1: FieldManufacturer, 2: FieldModel},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := MapHeaders(tt.headers)
			if err != nil {
				t.Fatalf("MapHeaders(%v) error: %v", tt.headers, err)
			}
			for col, field := range tt.want {
				if got := m.Field(col); got != field {
					t.Errorf("column %d mapped to %q, want %q", col, got, field)
				}
			}
		})
	}
}

func TestMapHeaders_FirstColumnWins(t *testing.T) {
	m, err := MapHeaders([]string{"type", "category", "make", "model"})
	if err != nil {
		t.Fatalf("MapHeaders error: %v", err)
	}

	if got := m.Field(0); got != FieldAssetType {
		t.Errorf("column 0 = %q, want %q", got, FieldAssetType)
	}
	// "category" maps to the same field; the earlier column keeps it.
	if got := m.Field(1); got != "" {
		t.Errorf("column 1 = %q, want unmapped", got)
	}
}

func TestMapHeaders_MissingRequired(t *testing.T) {
	tests := []struct {
		name        string
		headers     []string
		wantMissing []string
	}{
		{
			name:        "no model column",
			headers:     []string{"type", "make", "serial"},
			wantMissing: []string{FieldModel},
		},
		{
			name:        "only optional columns",
			headers:     []string{"serial", "tag", "notes"},
			wantMissing: []string{FieldAssetType, FieldManufacturer, FieldModel},
		},
		{
			name:        "empty header row",
			headers:     nil,
			wantMissing: []string{FieldAssetType, FieldManufacturer, FieldModel},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MapHeaders(tt.headers)
			if err == nil {
				t.Fatal("expected error for missing required columns")
			}
			if !errors.Is(err, ErrMissingColumns) {
				t.Errorf("error = %v, want ErrMissingColumns", err)
			}
			for _, f := range tt.wantMissing {
				if !strings.Contains(err.Error(), f) {
					t.Errorf("error %q does not name missing field %q", err, f)
				}
			}
		})
	}
}

func TestColumnMap_Field_OutOfRange(t *testing.T) {
	m := ColumnMap{FieldAssetType}
	if got := m.Field(-1); got != "" {
		t.Errorf("Field(-1) = %q, want empty", got)
	}
	if got := m.Field(5); got != "" {
		t.Errorf("Field(5) = %q, want empty", got)
	}
}

func TestColumnMap_MappedFields(t *testing.T) {
	m, err := MapHeaders([]string{"type", "make", "model", "ip", "unmapped"})
	if err != nil {
		t.Fatalf("MapHeaders error: %v", err)
	}

	fields := m.MappedFields()
	for _, f := range []string{FieldAssetType, FieldManufacturer, FieldModel, FieldIPAddress} {
		if !fields[f] {
			t.Errorf("MappedFields missing %q", f)
		}
	}
	if len(fields) != 4 {
		t.Errorf("MappedFields has %d entries, want 4", len(fields))
	}
}
