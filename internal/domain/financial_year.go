package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the layout used for every date stored in a Document
const DateLayout = "2006-01-02"

// FinancialYear identifies a 1 July – 30 June tax year by its "YYYY-YYYY" label
type FinancialYear struct {
	StartYear int
}

// ParseFinancialYear parses a label such as "2024-2025"
func ParseFinancialYear(label string) (FinancialYear, error) {
	parts := strings.SplitN(strings.TrimSpace(label), "-", 2)
	if len(parts) != 2 {
		return FinancialYear{}, fmt.Errorf("invalid financial year %q: expected YYYY-YYYY", label)
	}
	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return FinancialYear{}, fmt.Errorf("invalid start year in financial year %q", label)
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil {
		return FinancialYear{}, fmt.Errorf("invalid end year in financial year %q", label)
	}
	if end != start+1 {
		return FinancialYear{}, fmt.Errorf("financial year %q must span two consecutive years", label)
	}
	return FinancialYear{StartYear: start}, nil
}

// MustParseFinancialYear is ParseFinancialYear for compile-time constants and tests
func MustParseFinancialYear(label string) FinancialYear {
	fy, err := ParseFinancialYear(label)
	if err != nil {
		panic(err)
	}
	return fy
}

// FinancialYearOf returns the financial year a date falls in
func FinancialYearOf(t time.Time) FinancialYear {
	if t.Month() >= time.July {
		return FinancialYear{StartYear: t.Year()}
	}
	return FinancialYear{StartYear: t.Year() - 1}
}

// Label returns the "YYYY-YYYY" form
func (fy FinancialYear) Label() string {
	return fmt.Sprintf("%d-%d", fy.StartYear, fy.StartYear+1)
}

func (fy FinancialYear) String() string { return fy.Label() }

// Start is 1 July of the first calendar year, midnight UTC
func (fy FinancialYear) Start() time.Time {
	return time.Date(fy.StartYear, time.July, 1, 0, 0, 0, 0, time.UTC)
}

// End is 30 June of the second calendar year, midnight UTC.
// Dates are day-granular, so a purchase dated 30 June is inside the year.
func (fy FinancialYear) End() time.Time {
	return time.Date(fy.StartYear+1, time.June, 30, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether t falls between Start and End inclusive
func (fy FinancialYear) Contains(t time.Time) bool {
	return !t.Before(fy.Start()) && !t.After(fy.End())
}

// Next returns the following financial year
func (fy FinancialYear) Next() FinancialYear {
	return FinancialYear{StartYear: fy.StartYear + 1}
}

// YearsSince counts the complete financial years between other and fy
func (fy FinancialYear) YearsSince(other FinancialYear) int {
	return fy.StartYear - other.StartYear
}

// ParseDate parses a document date. The boolean is false for empty or malformed input.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		// Older exports carried full ISO timestamps
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, false
		}
		t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	return t, true
}
