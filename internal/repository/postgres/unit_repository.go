package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riteshkumar/building-ledger/internal/errors"
	"github.com/riteshkumar/building-ledger/internal/models"
)

type unitRepo struct {
	q dbtx
}

func (r *unitRepo) Create(ctx context.Context, unit *models.Unit) error {
	query := `INSERT INTO units (id, floor_label, owner_name, owner_phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.q.ExecContext(ctx, query,
		unit.ID, unit.FloorLabel, unit.OwnerName, unit.OwnerPhone, unit.CreatedAt, unit.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return errors.ErrUnitAlreadyExists
		}
		return fmt.Errorf("failed to create unit: %w", err)
	}
	return nil
}

func (r *unitRepo) Get(ctx context.Context, id string) (*models.Unit, error) {
	query := `SELECT id, floor_label, owner_name, owner_phone, created_at, updated_at
		FROM units WHERE id = $1`

	unit := &models.Unit{}
	err := r.q.QueryRowContext(ctx, query, id).
		Scan(&unit.ID, &unit.FloorLabel, &unit.OwnerName, &unit.OwnerPhone, &unit.CreatedAt, &unit.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrUnitNotFound
		}
		return nil, fmt.Errorf("failed to get unit by ID: %w", err)
	}
	return unit, nil
}

func (r *unitRepo) Update(ctx context.Context, unit *models.Unit) error {
	query := `UPDATE units SET floor_label = $1, owner_name = $2, owner_phone = $3, updated_at = $4
		WHERE id = $5`

	result, err := r.q.ExecContext(ctx, query,
		unit.FloorLabel, unit.OwnerName, unit.OwnerPhone, unit.UpdatedAt, unit.ID)
	if err != nil {
		return fmt.Errorf("failed to update unit: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected after updating unit: %w", err)
	}
	if rowsAffected == 0 {
		return errors.ErrUnitNotFound
	}
	return nil
}

func (r *unitRepo) List(ctx context.Context) ([]*models.Unit, error) {
	query := `SELECT id, floor_label, owner_name, owner_phone, created_at, updated_at
		FROM units ORDER BY id ASC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	defer rows.Close()

	var units []*models.Unit
	for rows.Next() {
		unit := &models.Unit{}
		if err := rows.Scan(&unit.ID, &unit.FloorLabel, &unit.OwnerName, &unit.OwnerPhone, &unit.CreatedAt, &unit.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		units = append(units, unit)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over units: %w", err)
	}
	return units, nil
}
