package domain

import (
	"github.com/shopspring/decimal"
)

// IncomeBreakdown splits assessable income by stream
type IncomeBreakdown struct {
	Salary          decimal.Decimal `json:"salary"`
	Interest        decimal.Decimal `json:"interest"`
	Dividends       decimal.Decimal `json:"dividends"`
	FrankingCredits decimal.Decimal `json:"frankingCredits"`
	CapitalGains    decimal.Decimal `json:"capitalGains"`
	Total           decimal.Decimal `json:"total"`
}

// DeductionBreakdown splits total deductions by category
type DeductionBreakdown struct {
	General         decimal.Decimal `json:"general"`
	WFH             decimal.Decimal `json:"wfh"`
	WfhRunningCosts decimal.Decimal `json:"wfhRunningCosts"`
	WfhAssets       decimal.Decimal `json:"wfhAssets"`
	Super           decimal.Decimal `json:"super"`
	Total           decimal.Decimal `json:"total"`
}

// Outcome is the full result of one recomputation
type Outcome struct {
	FinancialYear         string             `json:"financialYear"`
	Income                IncomeBreakdown    `json:"income"`
	TotalAssessableIncome decimal.Decimal    `json:"totalAssessableIncome"`
	Deductions            DeductionBreakdown `json:"deductions"`
	TotalDeductions       decimal.Decimal    `json:"totalDeductions"`
	TaxableIncome         decimal.Decimal    `json:"taxableIncome"`
	GrossTax              decimal.Decimal    `json:"grossTax"`
	HealthLevy            decimal.Decimal    `json:"healthLevy"`
	SurchargeIncome       decimal.Decimal    `json:"surchargeIncome"`
	Surcharge             decimal.Decimal    `json:"surcharge"`
	LowIncomeOffset       decimal.Decimal    `json:"lowIncomeOffset"`
	FrankingCreditOffset  decimal.Decimal    `json:"frankingCreditOffset"`
	InsuranceOffset       decimal.Decimal    `json:"insuranceOffset"`
	TotalOffsets          decimal.Decimal    `json:"totalOffsets"`
	NetTaxPayable         decimal.Decimal    `json:"netTaxPayable"`
	TotalTaxWithheld      decimal.Decimal    `json:"totalTaxWithheld"`
	FinalOutcome          decimal.Decimal    `json:"finalOutcome"`
	FloorAreaPercentage   decimal.Decimal    `json:"floorAreaPercentage"`
}

// IsRefund reports whether the final outcome is money back to the taxpayer
func (o Outcome) IsRefund() bool {
	return o.FinalOutcome.IsPositive()
}

// ScheduleYear is one financial year of a depreciation schedule
type ScheduleYear struct {
	FinancialYear string          `json:"financialYear"`
	OpeningValue  decimal.Decimal `json:"openingValue"`
	Deduction     decimal.Decimal `json:"deduction"`
	ClosingValue  decimal.Decimal `json:"closingValue"`
}

// Schedule is the per-year deduction plan for one item.
// Immediate items are written off in the purchase year and carry no Years.
type Schedule struct {
	ItemID          string             `json:"itemId"`
	Description     string             `json:"description"`
	Method          DepreciationMethod `json:"method,omitempty"`
	Immediate       bool               `json:"immediate"`
	ImmediateAmount decimal.Decimal    `json:"immediateAmount"`
	Years           []ScheduleYear     `json:"years"`
}

// Total sums every deduction in the schedule
func (s Schedule) Total() decimal.Decimal {
	if s.Immediate {
		return s.ImmediateAmount
	}
	total := decimal.Zero
	for _, y := range s.Years {
		total = total.Add(y.Deduction)
	}
	return total
}
