package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/rgehrsitz/taxhelper/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsoleVerboseFormatter renders the full breakdown with depreciation schedules.
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	o := r.Outcome

	fmt.Fprintln(&buf, strings.Repeat("=", 60))
	fmt.Fprintf(&buf, "INCOME TAX ESTIMATE - FINANCIAL YEAR %s\n", o.FinancialYear)
	fmt.Fprintln(&buf, strings.Repeat("=", 60))
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "INCOME:")
	writeAmount(&buf, "Salary and wages", o.Income.Salary)
	writeAmount(&buf, "Interest", o.Income.Interest)
	writeAmount(&buf, "Dividends", o.Income.Dividends)
	writeAmount(&buf, "Franking credits", o.Income.FrankingCredits)
	writeAmount(&buf, "Net capital gains", o.Income.CapitalGains)
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "DEDUCTIONS:")
	writeAmount(&buf, "General expenses", o.Deductions.General)
	writeAmount(&buf, "WFH running costs", o.Deductions.WfhRunningCosts)
	writeAmount(&buf, "WFH asset depreciation", o.Deductions.WfhAssets)
	writeAmount(&buf, "Personal super contributions", o.Deductions.Super)
	if o.FloorAreaPercentage.IsPositive() {
		fmt.Fprintf(&buf, "  %-32s %16s\n", "Office floor area", FormatPercentage(o.FloorAreaPercentage))
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "SUMMARY:")
	for _, l := range SummaryLines(o) {
		label := l.Label
		if l.Total {
			label = strings.ToUpper(label)
		}
		writeAmount(&buf, label, l.Amount)
	}
	fmt.Fprintln(&buf, "  "+strings.Repeat("-", 49))
	fmt.Fprintf(&buf, "  %-32s %16s\n", "ESTIMATED OUTCOME", OutcomeText(o))
	fmt.Fprintln(&buf)

	if len(r.Schedules) > 0 {
		fmt.Fprintln(&buf, "DEPRECIATION SCHEDULES:")
		for _, s := range r.Schedules {
			WriteSchedule(&buf, s)
		}
		fmt.Fprintln(&buf)
	}

	if len(r.Notes) > 0 {
		fmt.Fprintln(&buf, "NOTES:")
		for _, n := range r.Notes {
			fmt.Fprintf(&buf, "• %s\n", n)
		}
	}
	return buf.Bytes(), nil
}

func writeAmount(w io.Writer, label string, amount decimal.Decimal) {
	fmt.Fprintf(w, "  %-32s %16s\n", label, FormatCurrency(amount))
}

// WriteSchedule prints one depreciation schedule as an indented table
func WriteSchedule(w io.Writer, s domain.Schedule) {
	if s.Immediate {
		fmt.Fprintf(w, "  %s: immediate deduction %s\n", s.Description, FormatCurrency(s.ImmediateAmount))
		return
	}
	fmt.Fprintf(w, "  %s (%s)\n", s.Description, strings.ReplaceAll(string(s.Method), "_", " "))
	fmt.Fprintf(w, "    %-11s %14s %14s %14s\n", "Year", "Opening", "Deduction", "Closing")
	for _, y := range s.Years {
		fmt.Fprintf(w, "    %-11s %14s %14s %14s\n", y.FinancialYear,
			FormatCurrency(y.OpeningValue), FormatCurrency(y.Deduction), FormatCurrency(y.ClosingValue))
	}
	fmt.Fprintf(w, "    %-11s %14s %14s\n", "Total", "", FormatCurrency(s.Total()))
}
