package service

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/riteshkumar/building-ledger/internal/clock"
	"github.com/riteshkumar/building-ledger/internal/errors"
	"github.com/riteshkumar/building-ledger/internal/models"
	"github.com/riteshkumar/building-ledger/internal/report"
	"github.com/riteshkumar/building-ledger/internal/repository"
)

type AuditServiceImpl struct {
	store  repository.Store
	clock  clock.Clock
	logger *slog.Logger
}

func NewAuditService(store repository.Store, clk clock.Clock, logger *slog.Logger) *AuditServiceImpl {
	return &AuditServiceImpl{
		store:  store,
		clock:  clk,
		logger: logger,
	}
}

// Record appends a free-standing audit entry.
func (s *AuditServiceImpl) Record(ctx context.Context, action models.AuditAction, details, actor string) (*models.AuditEntry, error) {
	entry, err := appendAudit(ctx, s.store, s.clock, action, details, actor)
	if err != nil {
		logFailure(s.logger, "failed to record audit entry", err, "action", action, "actor", actor)
		return nil, errors.NewStorageError("record audit entry", err)
	}
	return entry, nil
}

// ListAuditEntries returns the trail newest first.
func (s *AuditServiceImpl) ListAuditEntries(ctx context.Context, filter repository.AuditFilter) iter.Seq2[models.AuditEntry, error] {
	return storageSeq("list audit entries", s.store.Audit().List(ctx, filter))
}

// ExportCSV streams the filtered trail as CSV. It never writes to the trail.
func (s *AuditServiceImpl) ExportCSV(ctx context.Context, filter repository.AuditFilter, w io.Writer) error {
	return report.WriteAuditCSV(w, s.ListAuditEntries(ctx, filter))
}

// appendAudit writes one entry through st, which is usually the unit of work of the
// mutation being audited.
func appendAudit(ctx context.Context, st repository.Store, clk clock.Clock, action models.AuditAction, details, actor string) (*models.AuditEntry, error) {
	if !action.Valid() {
		return nil, errors.NewValidationError("action", "unknown audit action "+string(action))
	}
	if strings.TrimSpace(actor) == "" {
		return nil, errors.NewValidationError("user", "must be non-empty")
	}

	entry := &models.AuditEntry{
		ID:        uuid.New().String(),
		Action:    action,
		Details:   details,
		Actor:     actor,
		Timestamp: clk.Now(),
	}
	if err := st.Audit().Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// logFailure logs rejected requests at Warn and infrastructure failures at Error.
func logFailure(logger *slog.Logger, msg string, err error, args ...any) {
	args = append(args, "error", err.Error())
	if errors.IsDomainError(err) && !errors.IsStorageError(err) {
		logger.Warn(msg, args...)
		return
	}
	logger.Error(msg, args...)
}
