package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/riteshkumar/building-ledger/internal/errors"
	"github.com/riteshkumar/building-ledger/internal/models"
	"github.com/riteshkumar/building-ledger/internal/money"
)

const periodColumns = `year, month, opening_balance_minor, total_income_minor,
	total_expense_minor, closing_balance_minor, locked, seeded, created_at, updated_at`

type periodRepo struct {
	q    dbtx
	inTx bool
}

func (r *periodRepo) Create(ctx context.Context, p *models.MonthlyPeriod) error {
	query := `INSERT INTO monthly_periods (period_id, ` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.q.ExecContext(ctx, query,
		p.Key.ID(),
		p.Key.Year,
		int(p.Key.Month),
		int64(p.OpeningBalance),
		int64(p.TotalIncome),
		int64(p.TotalExpense),
		int64(p.ClosingBalance),
		p.Locked,
		p.Seeded,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.ErrPeriodAlreadyExists
		}
		return fmt.Errorf("failed to create period: %w", err)
	}
	return nil
}

func (r *periodRepo) Get(ctx context.Context, key models.PeriodKey) (*models.MonthlyPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM monthly_periods WHERE period_id = $1`
	return r.getOne(ctx, query, key.ID())
}

// GetForUpdate locks the period row for the rest of the surrounding transaction.
func (r *periodRepo) GetForUpdate(ctx context.Context, key models.PeriodKey) (*models.MonthlyPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM monthly_periods WHERE period_id = $1`
	if r.inTx {
		query += ` FOR UPDATE`
	}
	return r.getOne(ctx, query, key.ID())
}

func (r *periodRepo) Update(ctx context.Context, p *models.MonthlyPeriod) error {
	query := `UPDATE monthly_periods SET opening_balance_minor = $1, total_income_minor = $2,
		total_expense_minor = $3, closing_balance_minor = $4, locked = $5, seeded = $6,
		updated_at = $7 WHERE period_id = $8`

	result, err := r.q.ExecContext(ctx, query,
		int64(p.OpeningBalance),
		int64(p.TotalIncome),
		int64(p.TotalExpense),
		int64(p.ClosingBalance),
		p.Locked,
		p.Seeded,
		p.UpdatedAt,
		p.Key.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update period: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating period: %w", err)
	}
	if rowsAffected == 0 {
		return errors.ErrPeriodNotFound
	}
	return nil
}

func (r *periodRepo) First(ctx context.Context) (*models.MonthlyPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM monthly_periods ORDER BY period_id ASC LIMIT 1`
	return r.getOne(ctx, query)
}

func (r *periodRepo) List(ctx context.Context) ([]*models.MonthlyPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM monthly_periods ORDER BY period_id ASC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	defer rows.Close()

	var periods []*models.MonthlyPeriod
	for rows.Next() {
		p, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period: %w", err)
		}
		periods = append(periods, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over periods: %w", err)
	}
	return periods, nil
}

func (r *periodRepo) getOne(ctx context.Context, query string, args ...any) (*models.MonthlyPeriod, error) {
	p, err := scanPeriod(r.q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrPeriodNotFound
		}
		return nil, fmt.Errorf("failed to get period: %w", err)
	}
	return p, nil
}

func scanPeriod(row rowScanner) (*models.MonthlyPeriod, error) {
	var (
		p                                 models.MonthlyPeriod
		month                             int
		opening, income, expense, closing int64
		createdAt, updatedAt              time.Time
	)
	err := row.Scan(&p.Key.Year, &month, &opening, &income, &expense, &closing, &p.Locked, &p.Seeded, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	p.Key.Month = time.Month(month)
	p.OpeningBalance = money.Amount(opening)
	p.TotalIncome = money.Amount(income)
	p.TotalExpense = money.Amount(expense)
	p.ClosingBalance = money.Amount(closing)
	p.CreatedAt = createdAt
	p.UpdatedAt = updatedAt
	return &p, nil
}
