package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/riteshkumar/building-ledger/internal/errors"
	"github.com/riteshkumar/building-ledger/internal/models"
	"github.com/riteshkumar/building-ledger/internal/money"
	"github.com/riteshkumar/building-ledger/internal/repository"
)

const transactionColumns = `id, occurred_at, recorded_at, amount_minor, direction, category,
	unit_ref, description, proof_ref, created_by, voided, voided_at, voided_by`

type transactionRepo struct {
	q dbtx
}

func (r *transactionRepo) Create(ctx context.Context, tx *models.Transaction) error {
	query := `INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, FALSE, NULL, NULL)`

	_, err := r.q.ExecContext(ctx, query,
		tx.ID,
		tx.OccurredAt,
		tx.RecordedAt,
		int64(tx.Amount),
		string(tx.Direction),
		string(tx.Category),
		nullString(tx.UnitRef),
		tx.Description,
		nullString(tx.ProofRef),
		tx.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepo) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	tx, err := scanTransaction(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction by ID: %w", err)
	}
	return tx, nil
}

func (r *transactionRepo) MarkVoided(ctx context.Context, id string, voidedAt time.Time, voidedBy string) error {
	query := `UPDATE transactions SET voided = TRUE, voided_at = $1, voided_by = $2
		WHERE id = $3 AND voided = FALSE`

	result, err := r.q.ExecContext(ctx, query, voidedAt, voidedBy, id)
	if err != nil {
		return fmt.Errorf("failed to void transaction: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after voiding transaction: %w", err)
	}
	if rowsAffected == 1 {
		return nil
	}

	// Nothing changed: tell unknown ids apart from ones already voided.
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	return errors.ErrAlreadyVoided
}

func (r *transactionRepo) List(ctx context.Context, filter repository.TransactionFilter) iter.Seq2[models.Transaction, error] {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if filter.UnitRef != "" {
		add("unit_ref = $%d", filter.UnitRef)
	}
	if filter.Direction != "" {
		add("direction = $%d", string(filter.Direction))
	}
	if filter.Category != "" {
		add("category = $%d", string(filter.Category))
	}
	if !filter.From.IsZero() {
		add("occurred_at >= $%d", filter.From)
	}
	if !filter.To.IsZero() {
		add("occurred_at < $%d", filter.To)
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY occurred_at DESC, recorded_at DESC`

	return func(yield func(models.Transaction, error) bool) {
		rows, err := r.q.QueryContext(ctx, query, args...)
		if err != nil {
			yield(models.Transaction{}, fmt.Errorf("failed to list transactions: %w", err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			tx, err := scanTransaction(rows)
			if err != nil {
				yield(models.Transaction{}, fmt.Errorf("failed to scan transaction: %w", err))
				return
			}
			if !yield(*tx, nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield(models.Transaction{}, fmt.Errorf("error iterating over transactions: %w", err))
		}
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var (
		tx                          models.Transaction
		amount                      int64
		direction, category         string
		unitRef, proofRef, voidedBy sql.NullString
		voidedAt                    sql.NullTime
	)

	err := row.Scan(
		&tx.ID, &tx.OccurredAt, &tx.RecordedAt, &amount, &direction, &category,
		&unitRef, &tx.Description, &proofRef, &tx.CreatedBy, &tx.Voided, &voidedAt, &voidedBy,
	)
	if err != nil {
		return nil, err
	}

	tx.Amount = money.Amount(amount)
	tx.Direction = models.Direction(direction)
	tx.Category = models.Category(category)
	tx.UnitRef = unitRef.String
	tx.ProofRef = proofRef.String
	tx.VoidedBy = voidedBy.String
	if voidedAt.Valid {
		at := voidedAt.Time
		tx.VoidedAt = &at
	}
	return &tx, nil
}
