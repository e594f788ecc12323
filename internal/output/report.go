package output

import (
	"encoding/json"
	"strings"

	"github.com/rgehrsitz/taxhelper/internal/domain"
	"github.com/shopspring/decimal"
)

// Report is everything a formatter can render for one financial year
type Report struct {
	Outcome   domain.Outcome         `json:"outcome"`
	Taxpayer  domain.TaxpayerDetails `json:"taxpayer"`
	Schedules []domain.Schedule      `json:"schedules,omitempty"`
	Notes     []string               `json:"notes,omitempty"`
}

// NewReport assembles a report from a computed outcome
func NewReport(doc domain.Document, outcome *domain.Outcome, schedules []domain.Schedule) *Report {
	return &Report{
		Outcome:   *outcome,
		Taxpayer:  doc.TaxpayerDetails,
		Schedules: schedules,
		Notes:     DefaultNotes,
	}
}

// Line is one labelled amount of the summary
type Line struct {
	Label  string
	Amount decimal.Decimal
	Total  bool
}

// SummaryLines lists the outcome in the order it is computed
func SummaryLines(o domain.Outcome) []Line {
	return []Line{
		{Label: "Assessable income", Amount: o.TotalAssessableIncome, Total: true},
		{Label: "General deductions", Amount: o.Deductions.General},
		{Label: "WFH deductions", Amount: o.Deductions.WFH},
		{Label: "Personal super contributions", Amount: o.Deductions.Super},
		{Label: "Total deductions", Amount: o.TotalDeductions, Total: true},
		{Label: "Taxable income", Amount: o.TaxableIncome, Total: true},
		{Label: "Gross tax", Amount: o.GrossTax},
		{Label: "Medicare levy", Amount: o.HealthLevy},
		{Label: "Medicare levy surcharge", Amount: o.Surcharge},
		{Label: "Low income tax offset", Amount: o.LowIncomeOffset},
		{Label: "Franking credit offset", Amount: o.FrankingCreditOffset},
		{Label: "Private health insurance offset", Amount: o.InsuranceOffset},
		{Label: "Total offsets", Amount: o.TotalOffsets, Total: true},
		{Label: "Net tax payable", Amount: o.NetTaxPayable, Total: true},
		{Label: "Tax withheld", Amount: o.TotalTaxWithheld},
	}
}

// OutcomeText describes the final outcome as a refund or an amount payable
func OutcomeText(o domain.Outcome) string {
	if o.FinalOutcome.IsNegative() {
		return FormatCurrency(o.FinalOutcome.Abs()) + " Payable"
	}
	return FormatCurrency(o.FinalOutcome) + " Refund"
}

// JSONFormatter renders the report as indented JSON
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(r *Report) ([]byte, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// FormatCurrency formats a decimal as Australian dollars, e.g. -$1,234.50
func FormatCurrency(amount decimal.Decimal) string {
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Abs()
	}
	whole, frac, _ := strings.Cut(amount.StringFixed(2), ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	return sign + "$" + b.String() + "." + frac
}

// FormatPercentage formats a decimal as percentage
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}
