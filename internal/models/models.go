package models

import (
	"time"

	"github.com/riteshkumar/building-ledger/internal/money"
)

type Direction string

const (
	DirectionCredit Direction = "CREDIT"
	DirectionDebit  Direction = "DEBIT"
)

func (d Direction) Valid() bool {
	return d == DirectionCredit || d == DirectionDebit
}

type Category string

const (
	CategoryMaintenance    Category = "MAINTENANCE"
	CategoryAdvance        Category = "ADVANCE"
	CategoryExpense        Category = "EXPENSE"
	CategoryPenalty        Category = "PENALTY"
	CategoryAdjustment     Category = "ADJUSTMENT"
	CategoryOpeningBalance Category = "OPENING_BALANCE"
)

// Categories lists every category in report order.
var Categories = []Category{
	CategoryMaintenance,
	CategoryAdvance,
	CategoryExpense,
	CategoryPenalty,
	CategoryAdjustment,
	CategoryOpeningBalance,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Transaction is an immutable financial event. Only the void marker changes after the
// record is appended.
type Transaction struct {
	ID          string       `json:"id"`
	OccurredAt  time.Time    `json:"occurredAt"`
	RecordedAt  time.Time    `json:"recordedAt"`
	Amount      money.Amount `json:"amount"`
	Direction   Direction    `json:"direction"`
	Category    Category     `json:"category"`
	UnitRef     string       `json:"unitRef,omitempty"`
	Description string       `json:"description"`
	ProofRef    string       `json:"proofRef,omitempty"`
	CreatedBy   string       `json:"createdBy"`
	Voided      bool         `json:"voided"`
	VoidedAt    *time.Time   `json:"voidedAt,omitempty"`
	VoidedBy    string       `json:"voidedBy,omitempty"`
}

type AuditAction string

const (
	AuditActionAddTransaction    AuditAction = "ADD_TRANSACTION"
	AuditActionEditTransaction   AuditAction = "EDIT_TRANSACTION"
	AuditActionDeleteTransaction AuditAction = "DELETE_TRANSACTION"
	AuditActionLockPeriod        AuditAction = "LOCK_PERIOD"
	AuditActionUnlockPeriod      AuditAction = "UNLOCK_PERIOD"
	AuditActionUpdateProfile     AuditAction = "UPDATE_PROFILE"
)

func (a AuditAction) Valid() bool {
	switch a {
	case AuditActionAddTransaction, AuditActionEditTransaction, AuditActionDeleteTransaction,
		AuditActionLockPeriod, AuditActionUnlockPeriod, AuditActionUpdateProfile:
		return true
	}
	return false
}

type AuditEntry struct {
	ID        string      `json:"id"`
	Action    AuditAction `json:"action"`
	Details   string      `json:"details"`
	Actor     string      `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
}

// MonthlyPeriod is a calendar-month accounting window.
type MonthlyPeriod struct {
	Key            PeriodKey    `json:"key"`
	OpeningBalance money.Amount `json:"openingBalance"`
	TotalIncome    money.Amount `json:"totalIncome"`
	TotalExpense   money.Amount `json:"totalExpense"`
	ClosingBalance money.Amount `json:"closingBalance"`
	Locked         bool         `json:"locked"`
	// Seeded marks the period whose opening balance was entered by hand. It is then
	// the start of the ledger.
	Seeded    bool      `json:"seeded"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Unit is an apartment's profile. Balances are never stored on it.
type Unit struct {
	ID         string    `json:"id"`
	FloorLabel string    `json:"floor"`
	OwnerName  string    `json:"owner"`
	OwnerPhone string    `json:"phone"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// UnitView is the read model served to clients: the profile plus balances derived
// from the transaction log at read time.
type UnitView struct {
	Unit
	AdvanceBalance money.Amount
	PendingBalance money.Amount
	// DepositBalance is the net of the unit's ADVANCE transactions: money paid
	// ahead less what has been drawn from it.
	DepositBalance   money.Amount
	LastPaymentLabel string
}

type UnitBalance struct {
	UnitRef      string       `json:"flatId"`
	TotalPaid    money.Amount `json:"totalPaid"`
	TotalCharged money.Amount `json:"totalCharged"`
	Balance      money.Amount `json:"balance"`
}

type BuildingBalance struct {
	TotalIncome  money.Amount `json:"totalIncome"`
	TotalExpense money.Amount `json:"totalExpense"`
	Net          money.Amount `json:"net"`
}

// DuesStatement is a unit's position against the monthly dues schedule.
type DuesStatement struct {
	UnitRef        string
	MonthlyDue     money.Amount
	MonthsCharged  int
	TotalDue       money.Amount
	TotalPaid      money.Amount
	PendingMonths  []PeriodKey
	OldestPending  *PeriodKey
	PendingAmount  money.Amount
	AdvanceMonths  int
	AdvanceAmount  money.Amount
	PaidThrough    *PeriodKey
	PartialAdvance bool
	StatusLabel    string
}
