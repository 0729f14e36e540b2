// Package report renders ledger data as downloadable CSV files.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"iter"
	"time"

	"github.com/riteshkumar/building-ledger/internal/errors"
	"github.com/riteshkumar/building-ledger/internal/models"
	"github.com/riteshkumar/building-ledger/internal/money"
)

// WriteMonthlyCSV writes the period summary, a per-category breakdown of the
// non-voided transactions and every transaction row. Dates are shown in loc.
func WriteMonthlyCSV(writer io.Writer, period *models.MonthlyPeriod, txs iter.Seq2[models.Transaction, error], loc *time.Location) error {
	var rows []models.Transaction
	income := make(map[models.Category]money.Amount)
	expense := make(map[models.Category]money.Amount)
	for tx, err := range txs {
		if err != nil {
			return err
		}
		rows = append(rows, tx)
		if tx.Voided {
			continue
		}

		totals := income
		if tx.Direction == models.DirectionDebit {
			totals = expense
		}
		sum, ok := totals[tx.Category].Add(tx.Amount)
		if !ok {
			return fmt.Errorf("category %s: %w", tx.Category, errors.ErrAmountOverflow)
		}
		totals[tx.Category] = sum
	}

	csvWriter := csv.NewWriter(writer)

	status := "Open"
	if period.Locked {
		status = "Locked"
	}
	header := [][]string{
		{"Monthly Ledger Report"},
		{"Period", period.Key.String()},
		{"Status", status},
		{},
		{"SUMMARY"},
		{"Opening Balance", period.OpeningBalance.String()},
		{"Total Income", period.TotalIncome.String()},
		{"Total Expense", period.TotalExpense.String()},
		{"Closing Balance", period.ClosingBalance.String()},
		{},
		{"CATEGORY BREAKDOWN"},
		{"Category", "Income", "Expense"},
	}
	if err := csvWriter.WriteAll(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, c := range models.Categories {
		in, out := income[c], expense[c]
		if in == 0 && out == 0 {
			continue
		}
		if err := csvWriter.Write([]string{string(c), in.String(), out.String()}); err != nil {
			return err
		}
	}

	if err := csvWriter.Write([]string{}); err != nil {
		return err
	}
	if err := csvWriter.Write([]string{"TRANSACTIONS"}); err != nil {
		return err
	}
	if err := csvWriter.Write([]string{"Date", "Type", "Category", "Flat", "Description", "Amount", "Created By", "Status"}); err != nil {
		return err
	}
	for _, tx := range rows {
		state := ""
		if tx.Voided {
			state = "VOIDED"
		}
		row := []string{
			tx.OccurredAt.In(loc).Format(time.DateOnly),
			string(tx.Direction),
			string(tx.Category),
			tx.UnitRef,
			tx.Description,
			tx.Amount.String(),
			tx.CreatedBy,
			state,
		}
		if err := csvWriter.Write(row); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// WriteAuditCSV writes one row per audit entry in the order given.
func WriteAuditCSV(writer io.Writer, entries iter.Seq2[models.AuditEntry, error]) error {
	csvWriter := csv.NewWriter(writer)
	if err := csvWriter.Write([]string{"Timestamp", "Action", "User", "Details", "ID"}); err != nil {
		return err
	}

	for e, err := range entries {
		if err != nil {
			return err
		}
		row := []string{
			e.Timestamp.UTC().Format(time.RFC3339),
			string(e.Action),
			e.Actor,
			e.Details,
			e.ID,
		}
		if err := csvWriter.Write(row); err != nil {
			return err
		}
	}

	csvWriter.Flush()
	return csvWriter.Error()
}
