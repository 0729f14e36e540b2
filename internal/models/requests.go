package models

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/riteshkumar/building-ledger/internal/money"
)

// UnitRef accepts a flat id as either a JSON string or a JSON number ("101" or 101).
type UnitRef string

func (u *UnitRef) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*u = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*u = UnitRef(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*u = UnitRef(n.String())
	return nil
}

type RecordTransactionRequest struct {
	Date        string       `json:"date"`
	Amount      money.Amount `json:"amount"`
	Type        Direction    `json:"type"`
	Category    Category     `json:"category"`
	FlatID      UnitRef      `json:"flatId"`
	Description string       `json:"description"`
	ProofURL    string       `json:"proofUrl"`
	CreatedBy   string       `json:"createdBy"`
}

type ActorRequest struct {
	User string `json:"user"`
}

type CorrectTransactionRequest struct {
	RecordTransactionRequest
	Reason string `json:"reason"`
}

type SeedPeriodRequest struct {
	Month          string       `json:"month"`
	Year           int          `json:"year"`
	OpeningBalance money.Amount `json:"openingBalance"`
	User           string       `json:"user"`
}

type CreateUnitRequest struct {
	ID    UnitRef `json:"id"`
	Floor string  `json:"floor"`
	Owner string  `json:"owner"`
	Phone string  `json:"phone"`
	User  string  `json:"user"`
}

type UpdateProfileRequest struct {
	Floor *string `json:"floor"`
	Owner *string `json:"owner"`
	Phone *string `json:"phone"`
	User  string  `json:"user"`
}

type TransactionResponse struct {
	ID          string       `json:"id"`
	Date        time.Time    `json:"date"`
	Amount      money.Amount `json:"amount"`
	Type        Direction    `json:"type"`
	Category    Category     `json:"category"`
	FlatID      string       `json:"flatId,omitempty"`
	Description string       `json:"description"`
	ProofURL    string       `json:"proofUrl,omitempty"`
	CreatedBy   string       `json:"createdBy"`
	Timestamp   int64        `json:"timestamp"`
	Voided      bool         `json:"voided"`
	VoidedAt    *time.Time   `json:"voidedAt,omitempty"`
	VoidedBy    string       `json:"voidedBy,omitempty"`
}

func NewTransactionResponse(tx *Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID,
		Date:        tx.OccurredAt,
		Amount:      tx.Amount,
		Type:        tx.Direction,
		Category:    tx.Category,
		FlatID:      tx.UnitRef,
		Description: tx.Description,
		ProofURL:    tx.ProofRef,
		CreatedBy:   tx.CreatedBy,
		Timestamp:   tx.RecordedAt.UnixMilli(),
		Voided:      tx.Voided,
		VoidedAt:    tx.VoidedAt,
		VoidedBy:    tx.VoidedBy,
	}
}

type AuditEntryResponse struct {
	ID        string      `json:"id"`
	Action    AuditAction `json:"action"`
	Details   string      `json:"details"`
	User      string      `json:"user"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewAuditEntryResponse(e *AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:        e.ID,
		Action:    e.Action,
		Details:   e.Details,
		User:      e.Actor,
		Timestamp: e.Timestamp,
	}
}

type PeriodResponse struct {
	Month          string       `json:"month"`
	Year           int          `json:"year"`
	OpeningBalance money.Amount `json:"openingBalance"`
	TotalIncome    money.Amount `json:"totalIncome"`
	TotalExpense   money.Amount `json:"totalExpense"`
	ClosingBalance money.Amount `json:"closingBalance"`
	IsLocked       bool         `json:"isLocked"`
	IsSeeded       bool         `json:"isSeeded"`
}

func NewPeriodResponse(p *MonthlyPeriod) PeriodResponse {
	return PeriodResponse{
		Month:          p.Key.MonthName(),
		Year:           p.Key.Year,
		OpeningBalance: p.OpeningBalance,
		TotalIncome:    p.TotalIncome,
		TotalExpense:   p.TotalExpense,
		ClosingBalance: p.ClosingBalance,
		IsLocked:       p.Locked,
		IsSeeded:       p.Seeded,
	}
}

type UnitResponse struct {
	ID          string       `json:"id"`
	Floor       string       `json:"floor"`
	Owner       string       `json:"owner"`
	Phone       string       `json:"phone"`
	Advance     money.Amount `json:"advance"`
	Pending     money.Amount `json:"pending"`
	Deposit     money.Amount `json:"deposit"`
	LastPayment string       `json:"lastPayment"`
}

func NewUnitResponse(v *UnitView) UnitResponse {
	return UnitResponse{
		ID:          v.ID,
		Floor:       v.FloorLabel,
		Owner:       v.OwnerName,
		Phone:       v.OwnerPhone,
		Advance:     v.AdvanceBalance,
		Pending:     v.PendingBalance,
		Deposit:     v.DepositBalance,
		LastPayment: v.LastPaymentLabel,
	}
}

type DuesStatementResponse struct {
	FlatID        string       `json:"flatId"`
	MonthlyDue    money.Amount `json:"monthlyDue"`
	MonthsCharged int          `json:"monthsCharged"`
	TotalDue      money.Amount `json:"totalDue"`
	TotalPaid     money.Amount `json:"totalPaid"`
	PendingMonths []string     `json:"pendingMonths"`
	OldestPending string       `json:"oldestPending,omitempty"`
	Pending       money.Amount `json:"pending"`
	AdvanceMonths int          `json:"advanceMonths"`
	Advance       money.Amount `json:"advance"`
	PaidThrough   string       `json:"paidThrough,omitempty"`
	Status        string       `json:"status"`
}

func NewDuesStatementResponse(s *DuesStatement) DuesStatementResponse {
	resp := DuesStatementResponse{
		FlatID:        s.UnitRef,
		MonthlyDue:    s.MonthlyDue,
		MonthsCharged: s.MonthsCharged,
		TotalDue:      s.TotalDue,
		TotalPaid:     s.TotalPaid,
		PendingMonths: make([]string, 0, len(s.PendingMonths)),
		Pending:       s.PendingAmount,
		AdvanceMonths: s.AdvanceMonths,
		Advance:       s.AdvanceAmount,
		Status:        s.StatusLabel,
	}
	for _, k := range s.PendingMonths {
		resp.PendingMonths = append(resp.PendingMonths, k.String())
	}
	if s.OldestPending != nil {
		resp.OldestPending = s.OldestPending.String()
	}
	if s.PaidThrough != nil {
		resp.PaidThrough = s.PaidThrough.String()
	}
	return resp
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
