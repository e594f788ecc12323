package output

import (
	"bytes"
	"encoding/csv"
)

// CSVSummarizer implements the summary CSV output (one row per outcome line).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(r *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"FinancialYear", "Item", "Amount"}); err != nil {
		return nil, err
	}
	fy := r.Outcome.FinancialYear
	for _, l := range SummaryLines(r.Outcome) {
		if err := w.Write([]string{fy, l.Label, l.Amount.StringFixed(2)}); err != nil {
			return nil, err
		}
	}
	if err := w.Write([]string{fy, "Final outcome", r.Outcome.FinalOutcome.StringFixed(2)}); err != nil {
		return nil, err
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// ScheduleCSVFormatter writes one row per item per year of its depreciation schedule
type ScheduleCSVFormatter struct{}

func (c ScheduleCSVFormatter) Name() string { return "schedule-csv" }

func (c ScheduleCSVFormatter) Format(r *Report) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"ItemID", "Description", "Method", "FinancialYear", "OpeningValue", "Deduction", "ClosingValue"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, s := range r.Schedules {
		if s.Immediate {
			row := []string{s.ItemID, s.Description, "immediate", r.Outcome.FinancialYear, "", s.ImmediateAmount.StringFixed(2), ""}
			if err := w.Write(row); err != nil {
				return nil, err
			}
			continue
		}
		for _, y := range s.Years {
			row := []string{
				s.ItemID,
				s.Description,
				string(s.Method),
				y.FinancialYear,
				y.OpeningValue.StringFixed(2),
				y.Deduction.StringFixed(2),
				y.ClosingValue.StringFixed(2),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
