package importer

// service.go is the orchestration layer the web handlers call. It owns
// the preview → confirm lifecycle: parse and validate on preview, hold
// the rows in a session, execute on confirm under the concurrency
// limiter, and clean up on cancel or expiry.

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// PreviewRowLimit caps the rows echoed back in a preview response.
// The session keeps every row; only the response is truncated.
const PreviewRowLimit = 10

// ErrFileTooLarge is returned when an upload exceeds the size limit.
var ErrFileTooLarge = errors.New("file exceeds the upload size limit")

// ErrEmptyFile is returned when the upload has no content.
var ErrEmptyFile = errors.New("uploaded file is empty")

// ServiceConfig tunes the import service.
type ServiceConfig struct {
	MaxFileSize    int64
	MaxConcurrent  int
	MaxWait        time.Duration
	SessionTTL     time.Duration
	ExecuteTimeout time.Duration
}

// Service coordinates the import pipeline.
type Service struct {
	store    *Store
	sessions *SessionStore
	limiter  *ImportLimiter
	logger   *slog.Logger

	maxFileSize    int64
	executeTimeout time.Duration
}

// NewService wires a Service over a Store.
func NewService(store *Store, cfg ServiceConfig, logger *slog.Logger) *Service {
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 10 * 1024 * 1024
	}
	if cfg.ExecuteTimeout <= 0 {
		cfg.ExecuteTimeout = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		store:          store,
		sessions:       NewSessionStore(cfg.SessionTTL),
		limiter:        NewImportLimiter(cfg.MaxConcurrent, cfg.MaxWait),
		logger:         logger,
		maxFileSize:    cfg.MaxFileSize,
		executeTimeout: cfg.ExecuteTimeout,
	}
}

// PreviewResult is what the preview endpoint returns: a session handle,
// the mapped columns, counts, and the first rows for display.
type PreviewResult struct {
	SessionID   string       `json:"sessionId"`
	FileName    string       `json:"fileName"`
	Columns     []string     `json:"columns"`
	TotalRows   int          `json:"totalRows"`
	ValidRows   int          `json:"validRows"`
	InvalidRows int          `json:"invalidRows"`
	Preview     []*ImportRow `json:"preview"`
}

// Preview parses, maps, and validates an uploaded file, stores the
// result as a session, and returns the preview. Nothing is written to
// the assets table until the session is confirmed.
func (s *Service) Preview(ctx context.Context, fileName string, data []byte, uploader string) (*PreviewResult, error) {
	if int64(len(data)) > s.maxFileSize {
		return nil, ErrFileTooLarge
	}
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	parsed, err := ParseFile(data)
	if err != nil {
		return nil, err
	}

	vc, err := s.store.LoadValidationContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("load validation context: %w", err)
	}

	valid, invalid := NewValidator(vc).ValidateAll(parsed.Rows)

	sess := s.sessions.Put(fileName, uploader, parsed.Rows)

	s.logger.Info("import preview created",
		"session_id", sess.ID,
		"file_name", fileName,
		"total_rows", len(parsed.Rows),
		"valid_rows", valid,
		"invalid_rows", invalid,
		"uploader", uploader,
	)

	preview := parsed.Rows
	if len(preview) > PreviewRowLimit {
		preview = preview[:PreviewRowLimit]
	}

	return &PreviewResult{
		SessionID:   sess.ID,
		FileName:    fileName,
		Columns:     parsed.Columns,
		TotalRows:   len(parsed.Rows),
		ValidRows:   valid,
		InvalidRows: invalid,
		Preview:     preview,
	}, nil
}

// Confirm executes a previewed session. The session is claimed first so
// a double confirm cannot run the same batch twice; execution happens
// under the concurrency limiter with its own timeout.
func (s *Service) Confirm(ctx context.Context, sessionID string, meta RequestMeta) (*ImportSummary, error) {
	sess, err := s.sessions.Claim(sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.limiter.Acquire(ctx); err != nil {
		s.sessions.Release(sessionID)
		return nil, err
	}
	defer s.limiter.Release()

	execCtx, cancel := context.WithTimeout(ctx, s.executeTimeout)
	defer cancel()

	summary, err := s.store.ExecuteBatch(execCtx, sess, meta)
	if err != nil {
		s.sessions.Release(sessionID)
		s.logger.Error("import execution failed",
			"session_id", sessionID,
			"file_name", sess.FileName,
			"error", err,
		)
		return nil, err
	}

	s.sessions.Delete(sessionID)

	s.logger.Info("import completed",
		"import_id", summary.ImportID,
		"file_name", summary.FileName,
		"imported", summary.Imported,
		"failed", summary.Failed,
		"duration", summary.Duration,
	)

	return summary, nil
}

// Cancel discards a previewed session without importing anything.
func (s *Service) Cancel(ctx context.Context, sessionID string, meta RequestMeta) error {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return err
	}

	s.sessions.Delete(sessionID)

	err = s.store.InsertAuditLog(ctx, s.store.Pool(), AuditParams{
		Action:    ActionImportCancel,
		Entity:    "import",
		UserName:  meta.User,
		IPAddress: meta.IP,
		UserAgent: meta.UserAgent,
		Detail:    fmt.Sprintf("cancelled import of %s (%d rows)", sess.FileName, len(sess.Rows)),
	})
	if err != nil {
		// The session is already gone; losing the audit row is not
		// worth failing the cancel for.
		s.logger.Warn("audit cancel failed", "session_id", sessionID, "error", err)
	}

	return nil
}

// GetSession returns a live session for inspection.
func (s *Service) GetSession(sessionID string) (*Session, error) {
	return s.sessions.Get(sessionID)
}

// History returns past batch summaries, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]ImportLogEntry, error) {
	return s.store.ListImportLogs(ctx, limit)
}

// LimiterStatus reports current execution concurrency.
func (s *Service) LimiterStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// Drain blocks until running executions finish, for graceful shutdown.
func (s *Service) Drain(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// Close stops background work owned by the service.
func (s *Service) Close() {
	s.sessions.Close()
}
