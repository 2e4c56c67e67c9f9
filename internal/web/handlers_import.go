package web

import (
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mspdesk/assetdesk/internal/importer"
)

// importFileField is the multipart form field carrying the upload.
const importFileField = "import_file"

// handleImportPreview accepts a CSV upload, validates every row, and
// returns a preview plus a session id for the confirm step. Nothing is
// written to the assets table here.
func (s *Server) handleImportPreview(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Import.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile(importFileField)
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided in field "+importFileField)
		return
	}
	defer file.Close()

	if !allowedImportFile(header.Filename) {
		writeError(w, http.StatusBadRequest, "only .csv and .txt files are accepted")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read file")
		return
	}

	meta := requestMeta(r)
	result, err := s.imports.Preview(r.Context(), header.Filename, data, meta.User)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, result)
}

// handleImportConfirm executes a previewed session.
func (s *Server) handleImportConfirm(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "missing session ID")
		return
	}

	summary, err := s.imports.Confirm(r.Context(), sessionID, requestMeta(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"summary": summary,
		"message": summary.Message(),
	})
}

// handleImportCancel discards a previewed session.
func (s *Server) handleImportCancel(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "missing session ID")
		return
	}

	if err := s.imports.Cancel(r.Context(), sessionID, requestMeta(r)); err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, map[string]string{"status": "cancelled"})
}

// handleImportSession returns a live session's rows for inspection,
// paginated through the rows query parameter.
func (s *Server) handleImportSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "missing session ID")
		return
	}

	sess, err := s.imports.GetSession(sessionID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	limit := parseIntParam(r, "rows", len(sess.Rows))
	rows := sess.Rows
	if limit > 0 && limit < len(rows) {
		rows = rows[:limit]
	}

	writeJSON(w, map[string]interface{}{
		"sessionId": sess.ID,
		"fileName":  sess.FileName,
		"totalRows": len(sess.Rows),
		"validRows": sess.ValidCount(),
		"rows":      rows,
	})
}

// handleImportErrorsCSV exports a session's invalid rows as CSV so the
// uploader can fix and re-import them.
func (s *Server) handleImportErrorsCSV(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "missing session ID")
		return
	}

	sess, err := s.imports.GetSession(sessionID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	filename := fmt.Sprintf("import_errors_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	cw := csv.NewWriter(w)
	cw.Write(append([]string{"_row", "_errors"}, importer.RequiredFields...))

	for _, row := range sess.Rows {
		if row.Status != importer.RowInvalid {
			continue
		}
		record := []string{
			strconv.Itoa(row.RowNumber),
			strings.Join(row.Errors, "; "),
		}
		for _, f := range importer.RequiredFields {
			record = append(record, row.Raw[f])
		}
		cw.Write(record)
	}

	cw.Flush()
}

// handleImportHistory returns past batch summaries, newest first.
func (s *Server) handleImportHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", 50)

	entries, err := s.imports.History(r.Context(), limit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, map[string]interface{}{"imports": entries})
}

// allowedImportFile restricts uploads to CSV-like extensions.
func allowedImportFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return true
	default:
		return false
	}
}

// parseIntParam reads an integer query parameter with a fallback.
func parseIntParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
