package service

import (
	"context"
	"io"
	"iter"
	"time"

	"github.com/riteshkumar/building-ledger/internal/models"
	"github.com/riteshkumar/building-ledger/internal/money"
	"github.com/riteshkumar/building-ledger/internal/repository"
)

// The handler layer depends on these interfaces, not on the implementations.
//
//go:generate mockgen -destination=mocks/mock_service.go -package=mocks -source=interface.go

type TransactionService interface {
	RecordTransaction(ctx context.Context, req *models.RecordTransactionRequest) (*models.Transaction, error)
	VoidTransaction(ctx context.Context, id, actor string) (*models.Transaction, error)
	CorrectTransaction(ctx context.Context, id string, req *models.CorrectTransactionRequest) (*models.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
	ListTransactions(ctx context.Context, filter repository.TransactionFilter) iter.Seq2[models.Transaction, error]
}

type BalanceService interface {
	UnitBalance(ctx context.Context, unitRef string) (*models.UnitBalance, error)
	BuildingBalance(ctx context.Context) (*models.BuildingBalance, error)
}

type AuditService interface {
	Record(ctx context.Context, action models.AuditAction, details, actor string) (*models.AuditEntry, error)
	ListAuditEntries(ctx context.Context, filter repository.AuditFilter) iter.Seq2[models.AuditEntry, error]
	ExportCSV(ctx context.Context, filter repository.AuditFilter, w io.Writer) error
}

type PeriodService interface {
	GetOrCreatePeriod(ctx context.Context, key models.PeriodKey) (*models.MonthlyPeriod, error)
	GetMonthlyPeriod(ctx context.Context, key models.PeriodKey) (*models.MonthlyPeriod, error)
	SeedPeriod(ctx context.Context, key models.PeriodKey, opening money.Amount, actor string) (*models.MonthlyPeriod, error)
	Recompute(ctx context.Context, key models.PeriodKey, override bool) (*models.MonthlyPeriod, error)
	LockPeriod(ctx context.Context, key models.PeriodKey, actor string) (*models.MonthlyPeriod, error)
	UnlockPeriod(ctx context.Context, key models.PeriodKey, actor string) (*models.MonthlyPeriod, error)
	ListPeriods(ctx context.Context) ([]*models.MonthlyPeriod, error)
	WriteMonthlyReport(ctx context.Context, key models.PeriodKey, w io.Writer) error
}

type UnitService interface {
	CreateUnit(ctx context.Context, req *models.CreateUnitRequest) (*models.UnitView, error)
	GetUnit(ctx context.Context, id string) (*models.UnitView, error)
	ListUnits(ctx context.Context) ([]*models.UnitView, error)
	UpdateProfile(ctx context.Context, id string, req *models.UpdateProfileRequest) (*models.UnitView, error)
}

type DuesService interface {
	Statement(ctx context.Context, unitRef string, asOf time.Time) (*models.DuesStatement, error)
}
