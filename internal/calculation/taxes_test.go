package calculation

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/taxhelper/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxCalculator_GrossTax(t *testing.T) {
	tc := NewTaxCalculator(testParams())

	tests := []struct {
		income   string
		expected string
	}{
		{"0", "0"},
		{"-100", "0"},
		{"18200", "0"},
		{"18201", "0.16"},
		{"20000", "288"},
		{"45000", "4288"},
		{"45001", "4288.3"},
		{"50000", "5788"},
		{"135000", "31288"},
		{"190000", "51638"},
		{"200000", "56138"},
		{"50000.75", "5788.225"},
	}

	for _, tt := range tests {
		t.Run(tt.income, func(t *testing.T) {
			got := tc.GrossTax(dec(tt.income))
			assert.True(t, got.Equal(dec(tt.expected)), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestTaxCalculator_GrossTaxFirstBracketTaxed(t *testing.T) {
	params := testParams()
	params.Brackets = []domain.TaxBracket{
		{Min: dec("0"), Max: decimalPtr(dec("10000")), Rate: dec("0.1"), Base: dec("0")},
		{Min: dec("10001"), Rate: dec("0.2"), Base: dec("1000")},
	}
	tc := NewTaxCalculator(params)

	assert.True(t, tc.GrossTax(dec("5000")).Equal(dec("500")))
	assert.True(t, tc.GrossTax(dec("12000")).Equal(dec("1400")))
}

func TestTaxCalculator_LowIncomeOffset(t *testing.T) {
	tc := NewTaxCalculator(testParams())

	tests := []struct {
		income   string
		expected string
	}{
		{"0", "700"},
		{"37500", "700"},
		{"40000", "575"},
		{"45000", "325"},
		{"50000", "250"},
		{"66667", "0"},
		{"90000", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.income, func(t *testing.T) {
			got := tc.LowIncomeOffset(dec(tt.income))
			assert.True(t, got.Equal(dec(tt.expected)), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestTaxCalculator_HealthLevy(t *testing.T) {
	tc := NewTaxCalculator(testParams())
	single := domain.TaxpayerDetails{FilingStatus: domain.FilingStatusSingle}

	assert.True(t, tc.HealthLevy(dec("20000"), single).IsZero())
	assert.True(t, tc.HealthLevy(dec("27222"), single).IsZero())
	assert.True(t, tc.HealthLevy(dec("30000"), single).Equal(dec("277.8")))
	assert.True(t, tc.HealthLevy(dec("50000"), single).Equal(dec("1000")))
}

func TestTaxCalculator_HealthLevyExemption(t *testing.T) {
	tc := NewTaxCalculator(testParams())

	partial := domain.TaxpayerDetails{MedicareExempt: true, MedicareExemptDays: 73}
	assert.True(t, tc.HealthLevy(dec("50000"), partial).Equal(dec("800")))

	full := domain.TaxpayerDetails{MedicareExempt: true}
	assert.True(t, tc.HealthLevy(dec("50000"), full).IsZero())

	fullByDays := domain.TaxpayerDetails{MedicareExempt: true, MedicareExemptDays: 365}
	assert.True(t, tc.HealthLevy(dec("50000"), fullByDays).IsZero())

	daysWithoutClaim := domain.TaxpayerDetails{MedicareExemptDays: 73}
	assert.True(t, tc.HealthLevy(dec("50000"), daysWithoutClaim).Equal(dec("1000")), "days count only with the exemption flag")
}

func TestTaxCalculator_HealthLevyFamily(t *testing.T) {
	tc := NewTaxCalculator(testParams())

	family := domain.TaxpayerDetails{FilingStatus: domain.FilingStatusFamily, DependentChildren: 2}
	// 45907 + 2 × 4216
	assert.True(t, tc.HealthLevy(dec("54339"), family).IsZero())
	assert.True(t, tc.HealthLevy(dec("55339"), family).Equal(dec("100")))
	assert.True(t, tc.HealthLevy(dec("100000"), family).Equal(dec("2000")))
}

func TestTaxCalculator_Surcharge(t *testing.T) {
	tc := NewTaxCalculator(testParams())

	tests := []struct {
		name     string
		taxable  string
		details  domain.TaxpayerDetails
		expected string
	}{
		{"single at ceiling of base tier", "97000", domain.TaxpayerDetails{}, "0"},
		{"single just over", "97001", domain.TaxpayerDetails{}, "970.01"},
		{"single cents below boundary", "97000.99", domain.TaxpayerDetails{}, "0"},
		{"single with cover", "200000", domain.TaxpayerDetails{PrivateHospitalCover: true}, "0"},
		{"fringe benefits push into tier", "90000", domain.TaxpayerDetails{ReportableFringeBenefits: dec("10000")}, "1000"},
		{"top tier", "200000", domain.TaxpayerDetails{}, "3000"},
		{"family combines spouse income", "100000", domain.TaxpayerDetails{FilingStatus: domain.FilingStatusFamily, SpouseIncome: dec("100000")}, "2000"},
		{"spouse ignored for single", "100000", domain.TaxpayerDetails{SpouseIncome: dec("100000")}, "1000"},
		{"extra children raise family tiers", "100000", domain.TaxpayerDetails{FilingStatus: domain.FilingStatusFamily, SpouseIncome: dec("96000"), DependentChildren: 3}, "0"},
		{"one child leaves family tiers alone", "100000", domain.TaxpayerDetails{FilingStatus: domain.FilingStatusFamily, SpouseIncome: dec("96000"), DependentChildren: 1}, "1960"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tc.Surcharge(dec(tt.taxable), tt.details)
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tt.expected)), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestTaxCalculator_SurchargeMissingTiers(t *testing.T) {
	params := testParams()
	params.Surcharge.Single = nil
	tc := NewTaxCalculator(params)

	_, err := tc.Surcharge(dec("50000"), domain.TaxpayerDetails{})

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "surcharge", cfgErr.Table)
}

func TestTaxCalculator_InsuranceOffset(t *testing.T) {
	tc := NewTaxCalculator(testParams())

	details := domain.TaxpayerDetails{
		InsuranceAgeBracket: "under65",
		InsurancePremiums: map[string]decimal.Decimal{
			"2024-07-01_2025-03-31": dec("1000"),
			"2025-04-01_2025-06-30": dec("500"),
		},
		InsuranceRebateReceived: dec("200"),
	}

	got, err := tc.InsuranceOffset(dec("50000"), details)
	require.NoError(t, err)
	// 1000 × 0.24608 + 500 × 0.24288 − 200
	assert.True(t, got.Equal(dec("167.52")), "got %s", got)

	got, err = tc.InsuranceOffset(dec("100000"), details)
	require.NoError(t, err)
	// tier1: 1000 × 0.16405 + 500 × 0.16192 − 200
	assert.True(t, got.Equal(dec("45.01")), "got %s", got)

	got, err = tc.InsuranceOffset(dec("200000"), details)
	require.NoError(t, err)
	assert.True(t, got.IsZero(), "tier3 earns no rebate and received rebate never goes negative")
}

func TestTaxCalculator_InsuranceOffsetNoPremiums(t *testing.T) {
	tc := NewTaxCalculator(testParams())

	got, err := tc.InsuranceOffset(dec("50000"), domain.TaxpayerDetails{
		InsuranceAgeBracket:     "not-a-bracket",
		InsurancePremiums:       map[string]decimal.Decimal{"2024-07-01_2025-03-31": decimal.Zero},
		InsuranceRebateReceived: dec("100"),
	})

	require.NoError(t, err)
	assert.True(t, got.IsZero())
}

func TestTaxCalculator_InsuranceOffsetConfigErrors(t *testing.T) {
	tc := NewTaxCalculator(testParams())

	tests := []struct {
		name    string
		details domain.TaxpayerDetails
		table   string
	}{
		{
			name: "unknown age bracket",
			details: domain.TaxpayerDetails{
				InsuranceAgeBracket: "over100",
				InsurancePremiums:   map[string]decimal.Decimal{"2024-07-01_2025-03-31": dec("1000")},
			},
			table: "insurance_rebate.rates",
		},
		{
			name: "unknown period",
			details: domain.TaxpayerDetails{
				InsuranceAgeBracket: "under65",
				InsurancePremiums:   map[string]decimal.Decimal{"2023-07-01_2024-06-30": dec("1000")},
			},
			table: "insurance_rebate.periods",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tc.InsuranceOffset(dec("50000"), tt.details)

			var cfgErr *ConfigError
			require.True(t, errors.As(err, &cfgErr), "expected ConfigError, got %v", err)
			assert.Equal(t, tt.table, cfgErr.Table)
		})
	}
}

func TestTaxCalculator_InsuranceOffsetUnknownTierName(t *testing.T) {
	params := testParams()
	params.InsuranceRebate.TierNames = []string{"base"}
	tc := NewTaxCalculator(params)

	_, err := tc.InsuranceOffset(dec("120000"), domain.TaxpayerDetails{
		InsuranceAgeBracket: "under65",
		InsurancePremiums:   map[string]decimal.Decimal{"2024-07-01_2025-03-31": dec("1000")},
	})

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "tier_names")
}

func TestNetTaxPayableAndFinalOutcome(t *testing.T) {
	assert.True(t, NetTaxPayable(dec("5000"), dec("1000"), dec("0"), dec("7000")).IsZero())
	assert.True(t, NetTaxPayable(dec("5000"), dec("1000"), dec("500"), dec("700")).Equal(dec("5800")))

	assert.True(t, FinalOutcome(dec("10000"), dec("8000")).Equal(dec("2000")))
	assert.True(t, FinalOutcome(dec("5000"), dec("7000")).Equal(dec("-2000")))
}

func TestTaxableIncome(t *testing.T) {
	assert.True(t, TaxableIncome(dec("80000"), dec("5000")).Equal(dec("75000")))
	assert.True(t, TaxableIncome(dec("1000"), dec("5000")).IsZero())
}
