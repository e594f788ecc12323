package calculation

import (
	"github.com/rgehrsitz/taxhelper/internal/domain"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decimalPtr(d decimal.Decimal) *decimal.Decimal {
	return &d
}

var fy2025 = domain.MustParseFinancialYear("2024-2025")

// testParams mirrors the shipped 2024-2025 table
func testParams() domain.TaxParameters {
	return domain.TaxParameters{
		Brackets: []domain.TaxBracket{
			{Min: dec("0"), Max: decimalPtr(dec("18200")), Rate: dec("0"), Base: dec("0")},
			{Min: dec("18201"), Max: decimalPtr(dec("45000")), Rate: dec("0.16"), Base: dec("0")},
			{Min: dec("45001"), Max: decimalPtr(dec("135000")), Rate: dec("0.30"), Base: dec("4288")},
			{Min: dec("135001"), Max: decimalPtr(dec("190000")), Rate: dec("0.37"), Base: dec("31288")},
			{Min: dec("190001"), Rate: dec("0.45"), Base: dec("51638")},
		},
		LowIncomeOffset: domain.LowIncomeOffsetRules{
			MaxOffset:      dec("700"),
			Threshold1:     dec("37500"),
			Threshold2:     dec("45000"),
			Threshold3:     dec("66667"),
			ReductionRate1: dec("0.05"),
			ReductionRate2: dec("0.015"),
		},
		HealthLevy: domain.HealthLevyRules{
			Rate:               dec("0.02"),
			PhaseInRate:        dec("0.10"),
			ThresholdSingle:    dec("27222"),
			PhaseInUpperSingle: dec("34027"),
			ThresholdFamily:    dec("45907"),
			ChildAdjustment:    dec("4216"),
		},
		Surcharge: domain.SurchargeRules{
			Single: []domain.SurchargeTier{
				{Min: dec("0"), Max: decimalPtr(dec("97000")), Rate: dec("0")},
				{Min: dec("97001"), Max: decimalPtr(dec("113000")), Rate: dec("0.01")},
				{Min: dec("113001"), Max: decimalPtr(dec("151000")), Rate: dec("0.0125")},
				{Min: dec("151001"), Rate: dec("0.015")},
			},
			Family: []domain.SurchargeTier{
				{Min: dec("0"), Max: decimalPtr(dec("194000")), Rate: dec("0")},
				{Min: dec("194001"), Max: decimalPtr(dec("226000")), Rate: dec("0.01")},
				{Min: dec("226001"), Max: decimalPtr(dec("302000")), Rate: dec("0.0125")},
				{Min: dec("302001"), Rate: dec("0.015")},
			},
			ChildAdjustment: dec("1500"),
		},
		InsuranceRebate: domain.InsuranceRebateRules{
			TierNames: []string{"base", "tier1", "tier2", "tier3"},
			Periods: []domain.RebatePeriod{
				{
					Label: "2024-07-01_2025-03-31",
					Start: "2024-07-01",
					End:   "2025-03-31",
					Rates: map[string]map[string]decimal.Decimal{
						"under65": {"base": dec("0.24608"), "tier1": dec("0.16405"), "tier2": dec("0.08202"), "tier3": dec("0")},
						"65to69":  {"base": dec("0.28710"), "tier1": dec("0.20507"), "tier2": dec("0.12303"), "tier3": dec("0")},
						"70plus":  {"base": dec("0.32812"), "tier1": dec("0.24608"), "tier2": dec("0.16405"), "tier3": dec("0")},
					},
				},
				{
					Label: "2025-04-01_2025-06-30",
					Start: "2025-04-01",
					End:   "2025-06-30",
					Rates: map[string]map[string]decimal.Decimal{
						"under65": {"base": dec("0.24288"), "tier1": dec("0.16192"), "tier2": dec("0.08095"), "tier3": dec("0")},
						"65to69":  {"base": dec("0.28337"), "tier1": dec("0.20240"), "tier2": dec("0.12143"), "tier3": dec("0")},
						"70plus":  {"base": dec("0.32385"), "tier1": dec("0.24288"), "tier2": dec("0.16192"), "tier3": dec("0")},
					},
				},
			},
		},
		WfhFixedRatePerHour: dec("0.70"),
	}
}
