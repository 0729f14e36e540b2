package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PeriodKey identifies a calendar month, e.g. ("January", 2026).
type PeriodKey struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
}

// ParsePeriodKey accepts a month as an English name ("January", "jan") or a number
// ("1", "01").
func ParsePeriodKey(month string, year int) (PeriodKey, error) {
	if year < 1 || year > 9999 {
		return PeriodKey{}, fmt.Errorf("year %d out of range", year)
	}
	m, err := parseMonth(month)
	if err != nil {
		return PeriodKey{}, err
	}
	return PeriodKey{Year: year, Month: m}, nil
}

// ParsePeriodID reads the "2006-01" form used as a storage id and in configuration.
func ParsePeriodID(id string) (PeriodKey, error) {
	t, err := time.Parse("2006-01", id)
	if err != nil {
		return PeriodKey{}, fmt.Errorf("invalid period %q: %w", id, err)
	}
	return PeriodKeyOf(t), nil
}

func parseMonth(s string) (time.Month, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("month %d out of range", n)
		}
		return time.Month(n), nil
	}
	for m := time.January; m <= time.December; m++ {
		name := m.String()
		if strings.EqualFold(s, name) || (len(s) == 3 && strings.EqualFold(s, name[:3])) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown month %q", s)
}

// PeriodKeyOf returns the month containing t, in t's location.
func PeriodKeyOf(t time.Time) PeriodKey {
	return PeriodKey{Year: t.Year(), Month: t.Month()}
}

func (k PeriodKey) MonthName() string {
	return k.Month.String()
}

// ID is the sortable storage key, "2026-01".
func (k PeriodKey) ID() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

// String is the human form, "January 2026".
func (k PeriodKey) String() string {
	return fmt.Sprintf("%s %d", k.Month, k.Year)
}

// Short is the compact label used in dues statuses, "Jan'26".
func (k PeriodKey) Short() string {
	return fmt.Sprintf("%s'%02d", k.Month.String()[:3], k.Year%100)
}

// Label is the "Feb 2026" form used for last-payment fields.
func (k PeriodKey) Label() string {
	return fmt.Sprintf("%s %d", k.Month.String()[:3], k.Year)
}

// Start is the first instant of the month in loc.
func (k PeriodKey) Start(loc *time.Location) time.Time {
	return time.Date(k.Year, k.Month, 1, 0, 0, 0, 0, loc)
}

// End is the first instant of the following month in loc; windows are [Start, End).
func (k PeriodKey) End(loc *time.Location) time.Time {
	return k.Next().Start(loc)
}

func (k PeriodKey) Next() PeriodKey {
	if k.Month == time.December {
		return PeriodKey{Year: k.Year + 1, Month: time.January}
	}
	return PeriodKey{Year: k.Year, Month: k.Month + 1}
}

func (k PeriodKey) Prev() PeriodKey {
	if k.Month == time.January {
		return PeriodKey{Year: k.Year - 1, Month: time.December}
	}
	return PeriodKey{Year: k.Year, Month: k.Month - 1}
}

func (k PeriodKey) Before(other PeriodKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

// MonthsUntil counts the months from k to other, inclusive of k and exclusive of
// other. It is zero or negative when other is not after k.
func (k PeriodKey) MonthsUntil(other PeriodKey) int {
	return (other.Year-k.Year)*12 + int(other.Month) - int(k.Month)
}

// AddMonths returns the key n months after k (n may be negative).
func (k PeriodKey) AddMonths(n int) PeriodKey {
	total := k.Year*12 + int(k.Month) - 1 + n
	return PeriodKey{Year: total / 12, Month: time.Month(total%12 + 1)}
}
