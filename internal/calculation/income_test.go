package calculation

import (
	"testing"

	"github.com/rgehrsitz/taxhelper/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestIncomeBreakdownOf(t *testing.T) {
	income := domain.Income{
		PAYG: []domain.IncomeRecord{
			{SourceName: "Employer A", GrossSalary: dec("60000"), TaxWithheld: dec("9000")},
			{SourceName: "Employer B", GrossSalary: dec("15000.50"), TaxWithheld: dec("2500")},
		},
		Other: domain.OtherIncome{
			BankInterest:       dec("120"),
			DividendsUnfranked: dec("300"),
			DividendsFranked:   dec("700"),
			FrankingCredits:    dec("300"),
			NetCapitalGains:    dec("1000"),
		},
	}

	b := IncomeBreakdownOf(income)

	assert.True(t, b.Salary.Equal(dec("75000.50")))
	assert.True(t, b.Dividends.Equal(dec("1000")))
	assert.True(t, b.Total.Equal(dec("77420.50")), "got %s", b.Total)
	assert.True(t, TotalAssessableIncome(income).Equal(b.Total))
	assert.True(t, TotalTaxWithheld(income).Equal(dec("11500")))
}

func TestIncomeBreakdownOf_Empty(t *testing.T) {
	b := IncomeBreakdownOf(domain.Income{})

	assert.True(t, b.Total.IsZero())
	assert.True(t, TotalTaxWithheld(domain.Income{}).IsZero())
}
