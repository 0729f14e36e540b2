package mongostore

import (
	"time"

	"github.com/riteshkumar/building-ledger/internal/models"
	"github.com/riteshkumar/building-ledger/internal/money"
)

// BSON dates only keep milliseconds, so process-clock stamps are stored as integer
// microseconds to preserve their ordering.

type transactionDoc struct {
	ID               string     `bson:"_id"`
	OccurredAt       time.Time  `bson:"occurredAt"`
	RecordedAtMicros int64      `bson:"recordedAtMicros"`
	AmountMinor      int64      `bson:"amountMinor"`
	Direction        string     `bson:"direction"`
	Category         string     `bson:"category"`
	UnitRef          string     `bson:"unitRef,omitempty"`
	Description      string     `bson:"description"`
	ProofRef         string     `bson:"proofRef,omitempty"`
	CreatedBy        string     `bson:"createdBy"`
	Voided           bool       `bson:"voided"`
	VoidedAt         *time.Time `bson:"voidedAt,omitempty"`
	VoidedBy         string     `bson:"voidedBy,omitempty"`
}

func newTransactionDoc(tx *models.Transaction) transactionDoc {
	return transactionDoc{
		ID:               tx.ID,
		OccurredAt:       tx.OccurredAt,
		RecordedAtMicros: tx.RecordedAt.UnixMicro(),
		AmountMinor:      int64(tx.Amount),
		Direction:        string(tx.Direction),
		Category:         string(tx.Category),
		UnitRef:          tx.UnitRef,
		Description:      tx.Description,
		ProofRef:         tx.ProofRef,
		CreatedBy:        tx.CreatedBy,
		Voided:           tx.Voided,
		VoidedAt:         tx.VoidedAt,
		VoidedBy:         tx.VoidedBy,
	}
}

func (d transactionDoc) model() models.Transaction {
	return models.Transaction{
		ID:          d.ID,
		OccurredAt:  d.OccurredAt,
		RecordedAt:  time.UnixMicro(d.RecordedAtMicros).UTC(),
		Amount:      money.Amount(d.AmountMinor),
		Direction:   models.Direction(d.Direction),
		Category:    models.Category(d.Category),
		UnitRef:     d.UnitRef,
		Description: d.Description,
		ProofRef:    d.ProofRef,
		CreatedBy:   d.CreatedBy,
		Voided:      d.Voided,
		VoidedAt:    d.VoidedAt,
		VoidedBy:    d.VoidedBy,
	}
}

type auditDoc struct {
	ID              string `bson:"_id"`
	Action          string `bson:"action"`
	Details         string `bson:"details"`
	Actor           string `bson:"actor"`
	TimestampMicros int64  `bson:"timestampMicros"`
}

func (d auditDoc) model() models.AuditEntry {
	return models.AuditEntry{
		ID:        d.ID,
		Action:    models.AuditAction(d.Action),
		Details:   d.Details,
		Actor:     d.Actor,
		Timestamp: time.UnixMicro(d.TimestampMicros).UTC(),
	}
}

type periodDoc struct {
	ID                  string    `bson:"_id"`
	Year                int       `bson:"year"`
	Month               int       `bson:"month"`
	OpeningBalanceMinor int64     `bson:"openingBalanceMinor"`
	TotalIncomeMinor    int64     `bson:"totalIncomeMinor"`
	TotalExpenseMinor   int64     `bson:"totalExpenseMinor"`
	ClosingBalanceMinor int64     `bson:"closingBalanceMinor"`
	Locked              bool      `bson:"locked"`
	Seeded              bool      `bson:"seeded"`
	CreatedAt           time.Time `bson:"createdAt"`
	UpdatedAt           time.Time `bson:"updatedAt"`
}

func newPeriodDoc(p *models.MonthlyPeriod) periodDoc {
	return periodDoc{
		ID:                  p.Key.ID(),
		Year:                p.Key.Year,
		Month:               int(p.Key.Month),
		OpeningBalanceMinor: int64(p.OpeningBalance),
		TotalIncomeMinor:    int64(p.TotalIncome),
		TotalExpenseMinor:   int64(p.TotalExpense),
		ClosingBalanceMinor: int64(p.ClosingBalance),
		Locked:              p.Locked,
		Seeded:              p.Seeded,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

func (d periodDoc) model() *models.MonthlyPeriod {
	return &models.MonthlyPeriod{
		Key:            models.PeriodKey{Year: d.Year, Month: time.Month(d.Month)},
		OpeningBalance: money.Amount(d.OpeningBalanceMinor),
		TotalIncome:    money.Amount(d.TotalIncomeMinor),
		TotalExpense:   money.Amount(d.TotalExpenseMinor),
		ClosingBalance: money.Amount(d.ClosingBalanceMinor),
		Locked:         d.Locked,
		Seeded:         d.Seeded,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

type unitDoc struct {
	ID         string    `bson:"_id"`
	FloorLabel string    `bson:"floor"`
	OwnerName  string    `bson:"owner"`
	OwnerPhone string    `bson:"phone"`
	CreatedAt  time.Time `bson:"createdAt"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}

func (d unitDoc) model() *models.Unit {
	return &models.Unit{
		ID:         d.ID,
		FloorLabel: d.FloorLabel,
		OwnerName:  d.OwnerName,
		OwnerPhone: d.OwnerPhone,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}
