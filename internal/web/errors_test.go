package web

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/mspdesk/assetdesk/internal/importer"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"session not found", importer.ErrSessionNotFound, http.StatusNotFound},
		{"session in progress", importer.ErrSessionInProgress, http.StatusConflict},
		{"too many imports", importer.ErrTooManyImports, http.StatusTooManyRequests},
		{"file too large", importer.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{"empty file", importer.ErrEmptyFile, http.StatusBadRequest},
		{
			name: "missing columns",
			err:  fmt.Errorf("%w: asset_type, model", importer.ErrMissingColumns),
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "csv syntax error",
			err:  fmt.Errorf("%w: record on line 3: wrong number of fields", importer.ErrParse),
			want: http.StatusUnprocessableEntity,
		},
		{
			name: "wrapped sentinel",
			err:  fmt.Errorf("preview: %w", importer.ErrSessionNotFound),
			want: http.StatusNotFound,
		},
		{"unknown error", errors.New("pool exhausted"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusForError(tt.err); got != tt.want {
				t.Errorf("statusForError(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestClientMessage_HidesServerFaults(t *testing.T) {
	err := errors.New("connect failed: password authentication failed for user app")

	if got := clientMessage(err, http.StatusInternalServerError); got != "internal server error" {
		t.Errorf("5xx message = %q, want generic", got)
	}
	if got := clientMessage(importer.ErrEmptyFile, http.StatusBadRequest); got != importer.ErrEmptyFile.Error() {
		t.Errorf("4xx message = %q, want echoed", got)
	}
}
