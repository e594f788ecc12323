package calculation

import (
	"testing"

	"github.com/rgehrsitz/taxhelper/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestProperty_TaxableEqualsAssessableWithoutDeductions(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		salary := decimal.NewFromInt(rapid.Int64Range(0, 1_000_000).Draw(t, "salary"))
		interest := decimal.NewFromInt(rapid.Int64Range(0, 50_000).Draw(t, "interest"))

		income := domain.Income{
			PAYG:  []domain.IncomeRecord{{SourceName: "Employer", GrossSalary: salary}},
			Other: domain.OtherIncome{BankInterest: interest},
		}
		assessable := TotalAssessableIncome(income)

		if !TaxableIncome(assessable, decimal.Zero).Equal(assessable) {
			t.Fatalf("taxable %s != assessable %s", TaxableIncome(assessable, decimal.Zero), assessable)
		}
	})
}

func TestProperty_GrossTaxMonotonic(t *testing.T) {
	tc := NewTaxCalculator(testParams())

	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Int64Range(0, 500_000).Draw(t, "a")
		b := rapid.Int64Range(a, 500_001).Draw(t, "b")

		ta := tc.GrossTax(decimal.NewFromInt(a))
		tb := tc.GrossTax(decimal.NewFromInt(b))
		if tb.LessThan(ta) {
			t.Fatalf("grossTax(%d)=%s > grossTax(%d)=%s", a, ta, b, tb)
		}
	})
}

func TestProperty_GrossTaxContinuousAtBoundaries(t *testing.T) {
	params := testParams()
	tc := NewTaxCalculator(params)

	for i := 0; i < len(params.Brackets)-1; i++ {
		boundary := *params.Brackets[i].Max
		next := params.Brackets[i+1]

		step := tc.GrossTax(boundary.Add(decimal.NewFromInt(1))).Sub(tc.GrossTax(boundary))
		assert.True(t, step.Equal(next.Rate), "jump at %s: %s, want %s", boundary, step, next.Rate)
	}
}

func TestProperty_LowIncomeOffsetNonIncreasing(t *testing.T) {
	params := testParams()
	tc := NewTaxCalculator(params)
	t1 := params.LowIncomeOffset.Threshold1.IntPart()
	t3 := params.LowIncomeOffset.Threshold3.IntPart()

	rapid.Check(t, func(t *rapid.T) {
		a := rapid.Int64Range(t1, 100_000).Draw(t, "a")
		b := rapid.Int64Range(a, 100_001).Draw(t, "b")

		oa := tc.LowIncomeOffset(decimal.NewFromInt(a))
		ob := tc.LowIncomeOffset(decimal.NewFromInt(b))
		if ob.GreaterThan(oa) {
			t.Fatalf("offset(%d)=%s < offset(%d)=%s", a, oa, b, ob)
		}
		if b > t3 && !ob.IsZero() {
			t.Fatalf("offset(%d)=%s above threshold 3", b, ob)
		}
	})
}

func TestProperty_SurchargeBoundary(t *testing.T) {
	params := testParams()
	tc := NewTaxCalculator(params)
	ceiling := *params.Surcharge.Single[0].Max

	below, err := tc.Surcharge(ceiling, domain.TaxpayerDetails{})
	assert.NoError(t, err)
	above, err := tc.Surcharge(ceiling.Add(decimal.NewFromInt(1)), domain.TaxpayerDetails{})
	assert.NoError(t, err)

	assert.True(t, below.IsZero())
	assert.True(t, above.IsPositive())
}

func TestProperty_ScheduleNeverExceedsWorkShareOfCost(t *testing.T) {
	dc := NewDepreciationCalculator(fy2025, testParams())

	rapid.Check(t, func(t *rapid.T) {
		cost := decimal.NewFromInt(rapid.Int64Range(1, 100_000).Draw(t, "cost"))
		work := decimal.NewFromInt(rapid.Int64Range(0, 100).Draw(t, "work"))
		life := rapid.IntRange(1, 20).Draw(t, "life")
		method := rapid.SampledFrom([]domain.DepreciationMethod{domain.StraightLine, domain.DecliningBalance}).Draw(t, "method")
		day := rapid.IntRange(0, 364).Draw(t, "day")

		purchase := fy2025.Start().AddDate(0, 0, day).Format(domain.DateLayout)
		s := dc.Schedule(DepreciableAsset{
			Cost:           cost,
			WorkPercentage: work,
			EffectiveLife:  life,
			PurchaseDate:   purchase,
			Method:         method,
		})

		if len(s.Years) != life {
			t.Fatalf("expected %d years, got %d", life, len(s.Years))
		}
		limit := workPortion(cost, work).Add(decimal.RequireFromString("0.000001"))
		if s.Total().GreaterThan(limit) {
			t.Fatalf("schedule total %s exceeds %s", s.Total(), limit)
		}
		for _, y := range s.Years {
			if y.Deduction.IsNegative() || y.ClosingValue.IsNegative() {
				t.Fatalf("negative schedule entry %+v", y)
			}
		}
	})
}

func TestProperty_FinalOutcomeIsWithheldLessNet(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		withheld := decimal.NewFromInt(rapid.Int64Range(0, 200_000).Draw(t, "withheld"))
		net := decimal.NewFromInt(rapid.Int64Range(0, 200_000).Draw(t, "net"))

		out := FinalOutcome(withheld, net)
		if !out.Add(net).Equal(withheld) {
			t.Fatalf("outcome %s + net %s != withheld %s", out, net, withheld)
		}
	})
}
