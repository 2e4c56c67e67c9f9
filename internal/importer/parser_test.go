package importer

import (
	"errors"
	"strings"
	"testing"
)

func TestDetectDelimiter(t *testing.T) {
	tests := []struct {
		name string
		line string
		want rune
	}{
		{"comma", "type,make,model", ','},
		{"semicolon", "type;make;model", ';'},
		{"tab", "type\tmake\tmodel", '\t'},
		{"comma wins tie", "a,b;c", ','},
		{"empty defaults to comma", "", ','},
		{"semicolon majority", "a;b;c,d", ';'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectDelimiter(tt.line); got != tt.want {
				t.Errorf("DetectDelimiter(%q) = %q, want %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseFile_Comma(t *testing.T) {
	data := []byte("Type,Make,Model,Serial\nLaptop,Dell,XPS 13,SN-1\nDesktop,HP,EliteDesk,SN-2\n")

	pf, err := ParseFile(data)
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}

	if len(pf.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(pf.Rows))
	}

	first := pf.Rows[0]
	if first.RowNumber != 2 {
		t.Errorf("first data row number = %d, want 2 (header is row 1)", first.RowNumber)
	}
	if got := first.Fields[FieldAssetType]; got != "Laptop" {
		t.Errorf("asset_type = %q, want %q", got, "Laptop")
	}
	if got := first.Fields[FieldSerialNumber]; got != "SN-1" {
		t.Errorf("serial_number = %q, want %q", got, "SN-1")
	}
	if first.Status != RowPending {
		t.Errorf("parsed row status = %q, want %q", first.Status, RowPending)
	}
}

func TestParseFile_Semicolon(t *testing.T) {
	data := []byte("Type;Make;Model\nLaptop;Dell;XPS 13\n")

	pf, err := ParseFile(data)
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	if len(pf.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(pf.Rows))
	}
	if got := pf.Rows[0].Fields[FieldManufacturer]; got != "Dell" {
		t.Errorf("manufacturer = %q, want %q", got, "Dell")
	}
}

func TestParseFile_SkipsBlankRowsKeepsNumbers(t *testing.T) {
	data := []byte("type,make,model\nLaptop,Dell,XPS\n,,\nDesktop,HP,Elite\n")

	pf, err := ParseFile(data)
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}

	if len(pf.Rows) != 2 {
		t.Fatalf("got %d rows, want 2 (blank row skipped)", len(pf.Rows))
	}
	// Row numbers track the file, not the filtered slice.
	if pf.Rows[0].RowNumber != 2 || pf.Rows[1].RowNumber != 4 {
		t.Errorf("row numbers = %d, %d; want 2, 4",
			pf.Rows[0].RowNumber, pf.Rows[1].RowNumber)
	}
}

func TestParseFile_StripsBOM(t *testing.T) {
	// Excel and most Windows tools prepend a UTF-8 BOM; it must not
	// glue itself onto the first header cell.
	data := []byte("\xef\xbb\xbfType,Vendor,Model\r\nFirewall,Fortinet,FG-60F\r\n")

	pf, err := ParseFile(data)
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}

	if got := pf.Columns.Field(0); got != FieldAssetType {
		t.Errorf("first column mapped to %q, want %q", got, FieldAssetType)
	}
	if len(pf.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(pf.Rows))
	}
	if got := pf.Rows[0].Fields[FieldAssetType]; got != "Firewall" {
		t.Errorf("asset_type = %q, want %q", got, "Firewall")
	}
}

func TestParseFile_MissingRequiredColumn(t *testing.T) {
	data := []byte("serial,tag\nSN-1,TAG-1\n")

	_, err := ParseFile(data)
	if err == nil {
		t.Fatal("expected error for missing required columns")
	}
	if !errors.Is(err, ErrMissingColumns) {
		t.Errorf("error = %v, want ErrMissingColumns", err)
	}
	if !strings.Contains(err.Error(), "missing required columns") {
		t.Errorf("error = %q, want missing-columns message", err)
	}
}

func TestParseFile_EmptyInput(t *testing.T) {
	if _, err := ParseFile(nil); !errors.Is(err, ErrEmptyFile) {
		t.Errorf("error = %v, want ErrEmptyFile", err)
	}
}

func TestParseFile_RaggedRows(t *testing.T) {
	// Short rows only populate the columns they have.
	data := []byte("type,make,model,notes\nLaptop,Dell,XPS\n")

	pf, err := ParseFile(data)
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	if len(pf.Rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(pf.Rows))
	}
	if _, ok := pf.Rows[0].Fields[FieldNotes]; ok {
		t.Error("short row should not have a notes value")
	}
}

func TestParseFile_ExcelArtifacts(t *testing.T) {
	data := []byte("type,make,model,serial\nLaptop,Dell,XPS,\"=\"\"SN-001\"\"\"\n")

	pf, err := ParseFile(data)
	if err != nil {
		t.Fatalf("ParseFile error: %v", err)
	}
	if got := pf.Rows[0].Fields[FieldSerialNumber]; got != "SN-001" {
		t.Errorf("serial = %q, want %q", got, "SN-001")
	}
}

func TestSanitizeUTF8(t *testing.T) {
	valid := []byte("hello")
	if got := sanitizeUTF8(valid); string(got) != "hello" {
		t.Errorf("valid input changed: %q", got)
	}

	invalid := []byte{'h', 0xff, 'i'}
	got := string(sanitizeUTF8(invalid))
	if !strings.Contains(got, "�") {
		t.Errorf("invalid byte not replaced: %q", got)
	}
	if !strings.HasPrefix(got, "h") || !strings.HasSuffix(got, "i") {
		t.Errorf("surrounding bytes damaged: %q", got)
	}
}
