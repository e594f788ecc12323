package calculation

import (
	"github.com/rgehrsitz/taxhelper/internal/domain"
	"github.com/shopspring/decimal"
)

// IncomeBreakdownOf splits assessable income by stream. Franking credits are
// grossed up into assessable income and later returned as an offset.
func IncomeBreakdownOf(income domain.Income) domain.IncomeBreakdown {
	salary := decimal.Zero
	for _, r := range income.PAYG {
		salary = salary.Add(r.GrossSalary)
	}
	o := income.Other
	b := domain.IncomeBreakdown{
		Salary:          salary,
		Interest:        o.BankInterest,
		Dividends:       o.DividendsFranked.Add(o.DividendsUnfranked),
		FrankingCredits: o.FrankingCredits,
		CapitalGains:    o.NetCapitalGains,
	}
	b.Total = b.Salary.Add(b.Interest).Add(b.Dividends).Add(b.FrankingCredits).Add(b.CapitalGains)
	return b
}

// TotalAssessableIncome is salary plus every investment stream
func TotalAssessableIncome(income domain.Income) decimal.Decimal {
	return IncomeBreakdownOf(income).Total
}

// TotalTaxWithheld sums PAYG withholding
func TotalTaxWithheld(income domain.Income) decimal.Decimal {
	total := decimal.Zero
	for _, r := range income.PAYG {
		total = total.Add(r.TaxWithheld)
	}
	return total
}
