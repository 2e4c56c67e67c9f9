package web

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mspdesk/assetdesk/internal/assets"
)

// handleListAssets returns one page of assets. Query parameters:
//
//	q       free-text search over the text columns
//	filter  repeatable column:op:value condition, e.g. status:eq:Active
//	sort    column name, prefix with - for descending
//	limit   page size (default 50)
//	offset  page start
func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, total, err := s.assets.List(r.Context(), q)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, map[string]interface{}{
		"assets": items,
		"total":  total,
		"limit":  q.Limit,
		"offset": q.Offset,
	})
}

// handleExportAssets streams every matching asset as CSV.
func (s *Server) handleExportAssets(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	filename := fmt.Sprintf("assets_%s.csv", time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))

	cw := csv.NewWriter(w)
	cw.Write(assets.CSVHeader)

	err = s.assets.StreamAll(r.Context(), q, func(a assets.Asset) error {
		return cw.Write(assets.CSVRecord(a))
	})
	if err != nil {
		// Headers are already out; the truncated file is the signal.
		return
	}

	cw.Flush()
}

// handleHealth reports liveness plus current import concurrency.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":  "ok",
		"imports": s.imports.LimiterStatus(),
	})
}

// parseListQuery translates query parameters into an assets.ListQuery.
func parseListQuery(r *http.Request) (assets.ListQuery, error) {
	values := r.URL.Query()

	q := assets.ListQuery{
		Search: values.Get("q"),
		Limit:  parseIntParam(r, "limit", 50),
		Offset: parseIntParam(r, "offset", 0),
	}

	if sort := values.Get("sort"); sort != "" {
		if strings.HasPrefix(sort, "-") {
			q.Desc = true
			sort = sort[1:]
		}
		if !assets.FilterableColumn(sort) {
			return q, fmt.Errorf("cannot sort by %q", sort)
		}
		q.OrderBy = sort
	}

	for _, raw := range values["filter"] {
		parts := strings.SplitN(raw, ":", 3)
		if len(parts) != 3 {
			return q, fmt.Errorf("malformed filter %q, want column:op:value", raw)
		}
		if !assets.FilterableColumn(parts[0]) {
			return q, fmt.Errorf("cannot filter by %q", parts[0])
		}
		q.Filters = append(q.Filters, assets.Filter{
			Column: parts[0],
			Op:     assets.FilterOp(parts[1]),
			Value:  parts[2],
		})
	}

	return q, nil
}
