package transfer

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/rgehrsitz/taxhelper/internal/domain"
)

const noData = "No data for this category."

// ExportFileName is the suggested name for an export taken on day
func ExportFileName(fy string, day time.Time, ext string) string {
	return fmt.Sprintf("tax_data_%s_%s.%s", fy, day.Format(domain.DateLayout), ext)
}

// ExportJSON renders the document in the same shape it is stored in
func ExportJSON(doc domain.Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportCSV renders the document as titled CSV sections separated by blank lines
func ExportCSV(doc domain.Document) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	sections := []struct {
		title   string
		headers []string
		rows    [][]string
	}{
		{"PAYG Income", []string{"Source Name", "Gross Salary", "Tax Withheld"}, incomeRows(doc)},
		{"Other Income", []string{"Bank Interest", "Unfranked Dividends", "Franked Dividends", "Franking Credits", "Net Capital Gains"}, otherIncomeRows(doc)},
		{"General Expenses", []string{"Description", "Date", "Cost", "Category", "Work %", "Depreciable", "Effective Life", "Method"}, expenseRows(doc)},
		{"WFH Hours Log", []string{"Date", "Minutes", "Hours"}, hoursRows(doc)},
		{"WFH Assets", []string{"Description", "Date", "Cost", "Work %", "Effective Life", "Method"}, assetRows(doc)},
	}

	if err := w.Write([]string{"Tax Calculator Data - Financial Year: " + doc.UserSettings.FinancialYear}); err != nil {
		return nil, err
	}
	for _, s := range sections {
		w.Write(nil)
		w.Write([]string{s.title})
		if len(s.rows) == 0 {
			w.Write([]string{noData})
			continue
		}
		w.Write(s.headers)
		for _, row := range s.rows {
			w.Write(row)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func incomeRows(doc domain.Document) [][]string {
	rows := make([][]string, 0, len(doc.Income.PAYG))
	for _, r := range doc.Income.PAYG {
		rows = append(rows, []string{r.SourceName, r.GrossSalary.StringFixed(2), r.TaxWithheld.StringFixed(2)})
	}
	return rows
}

func otherIncomeRows(doc domain.Document) [][]string {
	o := doc.Income.Other
	return [][]string{{
		o.BankInterest.StringFixed(2),
		o.DividendsUnfranked.StringFixed(2),
		o.DividendsFranked.StringFixed(2),
		o.FrankingCredits.StringFixed(2),
		o.NetCapitalGains.StringFixed(2),
	}}
}

func expenseRows(doc domain.Document) [][]string {
	rows := make([][]string, 0, len(doc.GeneralExpenses))
	for _, e := range doc.GeneralExpenses {
		rows = append(rows, []string{
			e.Description,
			e.Date,
			e.Cost.StringFixed(2),
			e.Category,
			e.WorkPercentage.String(),
			strconv.FormatBool(e.IsDepreciable),
			strconv.Itoa(e.EffectiveLife),
			string(e.DepreciationMethod),
		})
	}
	return rows
}

func hoursRows(doc domain.Document) [][]string {
	rows := make([][]string, 0, len(doc.Wfh.HoursLog))
	for _, h := range doc.Wfh.HoursLog {
		rows = append(rows, []string{h.Date, strconv.Itoa(h.Minutes), strconv.FormatFloat(float64(h.Minutes)/60, 'f', 2, 64)})
	}
	return rows
}

func assetRows(doc domain.Document) [][]string {
	assets := doc.Wfh.ActualCostDetails.Assets
	rows := make([][]string, 0, len(assets))
	for _, a := range assets {
		rows = append(rows, []string{
			a.Description,
			a.Date,
			a.Cost.StringFixed(2),
			a.WorkPercent().String(),
			strconv.Itoa(a.EffectiveLife),
			string(a.DepreciationMethod),
		})
	}
	return rows
}
