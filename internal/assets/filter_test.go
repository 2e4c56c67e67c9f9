package assets

import (
	"strings"
	"testing"
)

func TestNewWhereBuilder(t *testing.T) {
	wb := NewWhereBuilder()

	if wb == nil {
		t.Fatal("NewWhereBuilder returned nil")
	}
	if wb.argIndex != 1 {
		t.Errorf("expected argIndex to be 1, got %d", wb.argIndex)
	}
	if len(wb.conditions) != 0 || len(wb.args) != 0 {
		t.Errorf("expected empty builder, got %d conditions, %d args",
			len(wb.conditions), len(wb.args))
	}
}

func TestWhereBuilder_Build_Empty(t *testing.T) {
	wb := NewWhereBuilder()
	whereClause, args := wb.Build()

	if whereClause != "" {
		t.Errorf("expected empty string for no conditions, got %q", whereClause)
	}
	if args != nil {
		t.Errorf("expected nil args for no conditions, got %v", args)
	}
}

func TestWhereBuilder_AddSearch(t *testing.T) {
	wb := NewWhereBuilder()
	wb.AddSearch("dell")

	whereClause, args := wb.Build()

	for _, col := range searchColumns {
		if !strings.Contains(whereClause, quoteIdentifier(col)+" ILIKE $1") {
			t.Errorf("clause %q missing search over %q", whereClause, col)
		}
	}
	if len(args) != 1 || args[0] != "%dell%" {
		t.Errorf("args = %v, want [%%dell%%]", args)
	}
}

func TestWhereBuilder_AddSearch_Empty_Skipped(t *testing.T) {
	wb := NewWhereBuilder()
	wb.AddSearch("")

	if whereClause, _ := wb.Build(); whereClause != "" {
		t.Errorf("expected empty clause, got %q", whereClause)
	}
}

func TestWhereBuilder_AddFilters(t *testing.T) {
	tests := []struct {
		name       string
		filters    []Filter
		wantClause string
		wantArgs   []interface{}
	}{
		{
			name:       "no filters",
			filters:    nil,
			wantClause: "",
		},
		{
			name: "equals",
			filters: []Filter{
				{Column: "status", Op: OpEquals, Value: "Active"},
			},
			wantClause: ` WHERE "status" = $1`,
			wantArgs:   []interface{}{"Active"},
		},
		{
			name: "contains",
			filters: []Filter{
				{Column: "manufacturer", Op: OpContains, Value: "dell"},
			},
			wantClause: ` WHERE "manufacturer" ILIKE $1`,
			wantArgs:   []interface{}{"%dell%"},
		},
		{
			name: "starts and ends with",
			filters: []Filter{
				{Column: "asset_tag", Op: OpStartsWith, Value: "LAP"},
				{Column: "serial_number", Op: OpEndsWith, Value: "42"},
			},
			wantClause: ` WHERE "asset_tag" ILIKE $1 AND "serial_number" ILIKE $2`,
			wantArgs:   []interface{}{"LAP%", "%42"},
		},
		{
			name: "range on dates",
			filters: []Filter{
				{Column: "warranty_expiry", Op: OpGreaterEq, Value: "2024-01-01"},
				{Column: "warranty_expiry", Op: OpLessEq, Value: "2024-12-31"},
			},
			wantClause: ` WHERE "warranty_expiry" >= $1 AND "warranty_expiry" <= $2`,
			wantArgs:   []interface{}{"2024-01-01", "2024-12-31"},
		},
		{
			name: "in list",
			filters: []Filter{
				{Column: "status", Op: OpIn, Value: "Active, Retired,Repair"},
			},
			wantClause: ` WHERE "status" IN ($1, $2, $3)`,
			wantArgs:   []interface{}{"Active", "Retired", "Repair"},
		},
		{
			name: "unknown column dropped",
			filters: []Filter{
				{Column: "password", Op: OpEquals, Value: "x"},
				{Column: "status", Op: OpEquals, Value: "Active"},
			},
			wantClause: ` WHERE "status" = $1`,
			wantArgs:   []interface{}{"Active"},
		},
		{
			name: "unknown operator dropped",
			filters: []Filter{
				{Column: "status", Op: "regex", Value: ".*"},
			},
			wantClause: "",
		},
		{
			name: "empty value dropped",
			filters: []Filter{
				{Column: "status", Op: OpEquals, Value: ""},
			},
			wantClause: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wb := NewWhereBuilder()
			wb.AddFilters(tt.filters)

			gotClause, gotArgs := wb.Build()

			if gotClause != tt.wantClause {
				t.Errorf("clause = %q, want %q", gotClause, tt.wantClause)
			}
			if len(gotArgs) != len(tt.wantArgs) {
				t.Fatalf("args = %v, want %v", gotArgs, tt.wantArgs)
			}
			for i, want := range tt.wantArgs {
				if gotArgs[i] != want {
					t.Errorf("arg[%d] = %v, want %v", i, gotArgs[i], want)
				}
			}
		})
	}
}

func TestWhereBuilder_NextArgIndex(t *testing.T) {
	wb := NewWhereBuilder()

	if wb.NextArgIndex() != 1 {
		t.Errorf("initial NextArgIndex = %d, want 1", wb.NextArgIndex())
	}

	wb.AddSearch("dell")
	if wb.NextArgIndex() != 2 {
		t.Errorf("after AddSearch, NextArgIndex = %d, want 2", wb.NextArgIndex())
	}

	wb.AddFilters([]Filter{
		{Column: "status", Op: OpIn, Value: "a,b,c"},
	})
	if wb.NextArgIndex() != 5 {
		t.Errorf("after IN filter, NextArgIndex = %d, want 5", wb.NextArgIndex())
	}
}

func TestBuildSingleFilter_ArgNumbering(t *testing.T) {
	sql, args, nextIdx := buildSingleFilter(
		Filter{Column: "status", Op: OpEquals, Value: "Active"}, 7)

	if sql != `"status" = $7` {
		t.Errorf("sql = %q", sql)
	}
	if len(args) != 1 || nextIdx != 8 {
		t.Errorf("args = %v, nextIdx = %d", args, nextIdx)
	}
}

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"normal identifier", "assets", `"assets"`},
		{"reserved word quoted", "select", `"select"`},
		{"embedded quote escaped", `col"name`, `"col""name"`},
		{"injection attempt safely quoted", `assets"; DROP TABLE assets; --`, `"assets""; DROP TABLE assets; --"`},
		{"empty string", "", `""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := quoteIdentifier(tt.input); got != tt.want {
				t.Errorf("quoteIdentifier(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a, ,b ,, c")
	want := []string{"a", "b", "c"}

	if len(got) != len(want) {
		t.Fatalf("splitList = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitList[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
