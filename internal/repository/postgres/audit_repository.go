package postgres

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/riteshkumar/building-ledger/internal/models"
	"github.com/riteshkumar/building-ledger/internal/repository"
)

type auditRepo struct {
	q dbtx
}

// Create inserts a new audit entry. The seq column breaks timestamp ties on listing.
func (r *auditRepo) Create(ctx context.Context, entry *models.AuditEntry) error {
	query := `INSERT INTO audit_entries (id, action, details, actor, timestamp)
		VALUES ($1, $2, $3, $4, $5)`

	_, err := r.q.ExecContext(ctx, query,
		entry.ID,
		string(entry.Action),
		entry.Details,
		entry.Actor,
		entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}
	return nil
}

func (r *auditRepo) List(ctx context.Context, filter repository.AuditFilter) iter.Seq2[models.AuditEntry, error] {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.Action != "" {
		add("action = $%d", string(filter.Action))
	}
	if filter.Actor != "" {
		add("actor = $%d", filter.Actor)
	}
	if !filter.From.IsZero() {
		add("timestamp >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("timestamp < $%d", filter.To)
	}

	query := `SELECT id, action, details, actor, timestamp FROM audit_entries`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY timestamp DESC, seq DESC`

	return func(yield func(models.AuditEntry, error) bool) {
		rows, err := r.q.QueryContext(ctx, query, args...)
		if err != nil {
			yield(models.AuditEntry{}, fmt.Errorf("failed to list audit entries: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var (
				e      models.AuditEntry
				action string
			)
			if err := rows.Scan(&e.ID, &action, &e.Details, &e.Actor, &e.Timestamp); err != nil {
				yield(models.AuditEntry{}, fmt.Errorf("failed to scan audit entry: %w", err))
				return
			}
			e.Action = models.AuditAction(action)
			if !yield(e, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(models.AuditEntry{}, fmt.Errorf("error iterating over audit entries: %w", err))
		}
	}
}
