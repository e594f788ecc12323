package output

import (
	"bytes"
	"fmt"
)

// ConsoleFormatter prints the short dashboard summary
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	o := r.Outcome
	fmt.Fprintf(&buf, "TAX ESTIMATE %s\n", o.FinancialYear)
	fmt.Fprintf(&buf, "Taxable income:   %s\n", FormatCurrency(o.TaxableIncome))
	fmt.Fprintf(&buf, "Total deductions: %s\n", FormatCurrency(o.TotalDeductions))
	fmt.Fprintf(&buf, "Net tax payable:  %s\n", FormatCurrency(o.NetTaxPayable))
	fmt.Fprintf(&buf, "Estimated outcome: %s\n", OutcomeText(o))
	return buf.Bytes(), nil
}
