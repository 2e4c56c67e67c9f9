package importer

import "testing"

func TestRecordRowFailure(t *testing.T) {
	summary := &ImportSummary{Total: 3}
	row := &ImportRow{
		RowNumber: 7,
		Status:    RowValid,
	}

	recordRowFailure(summary, row, "serial number already exists")

	if summary.Failed != 1 {
		t.Errorf("Failed = %d, want 1", summary.Failed)
	}
	if len(summary.FailedRows) != 1 {
		t.Fatalf("FailedRows = %v, want one entry", summary.FailedRows)
	}
	fr := summary.FailedRows[0]
	if fr.RowNumber != 7 || fr.Reason != "serial number already exists" {
		t.Errorf("FailedRow = %+v", fr)
	}

	// The session row must stay untouched. A batch that aborts after
	// this point rolls everything back; if the row were marked invalid
	// here, a retried confirm would skip an insert that never committed.
	if row.Status != RowValid {
		t.Errorf("row status = %q, want %q", row.Status, RowValid)
	}
	if len(row.Errors) != 0 {
		t.Errorf("row errors = %v, want none", row.Errors)
	}
}
