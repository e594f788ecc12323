package calculation

import (
	"testing"

	"github.com/rgehrsitz/taxhelper/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func laptop(cost string, life int, date string, method domain.DepreciationMethod) DepreciableAsset {
	return DepreciableAsset{
		ID:             "exp_1",
		Description:    "Laptop",
		Cost:           dec(cost),
		WorkPercentage: dec("100"),
		EffectiveLife:  life,
		PurchaseDate:   date,
		Method:         method,
	}
}

func TestDepreciationCalculator_ForYear(t *testing.T) {
	dc := NewDepreciationCalculator(fy2025, testParams())

	tests := []struct {
		name     string
		asset    DepreciableAsset
		expected string
	}{
		{"straight line held from prior year", laptop("3000", 5, "2023-01-15", domain.StraightLine), "600"},
		{"straight line bought on first day", laptop("3000", 5, "2024-07-01", domain.StraightLine), "600"},
		{"straight line ignores elapsed years", laptop("3000", 5, "2021-07-01", domain.StraightLine), "600"},
		{"declining balance two years on", laptop("1000", 4, "2022-08-01", domain.DecliningBalance), "125"},
		{"declining balance purchase year", laptop("1000", 4, "2024-07-01", domain.DecliningBalance), "500"},
		{"one year life is exhausted next year", laptop("1000", 1, "2023-08-01", domain.DecliningBalance), "0"},
		{"bought after year end", laptop("3000", 5, "2025-07-01", domain.StraightLine), "0"},
		{"unreadable date", laptop("3000", 5, "not a date", domain.StraightLine), "0"},
		{"missing date", laptop("3000", 5, "", domain.StraightLine), "0"},
		{"zero cost", laptop("0", 5, "2024-07-01", domain.StraightLine), "0"},
		{"negative cost", laptop("-50", 5, "2024-07-01", domain.StraightLine), "0"},
		{"no effective life", laptop("250", 0, "2024-09-01", domain.StraightLine), "250"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := dc.ForYear(tt.asset)
			assert.True(t, got.Equal(dec(tt.expected)), "expected %s, got %s", tt.expected, got)
		})
	}
}

func TestDepreciationCalculator_ProRating(t *testing.T) {
	dc := NewDepreciationCalculator(fy2025, testParams())

	// 31 Dec to 30 Jun inclusive is 182 days
	got := dc.ForYear(laptop("3000", 5, "2024-12-31", domain.StraightLine))
	expected := 600.0 * 182 / 365
	assert.InDelta(t, expected, got.InexactFloat64(), 0.0001)

	// Bought on the last day of the year
	got = dc.ForYear(laptop("3650", 5, "2025-06-30", domain.StraightLine))
	assert.InDelta(t, 2.0, got.InexactFloat64(), 0.0001)
}

func TestDepreciationCalculator_WorkPercentage(t *testing.T) {
	dc := NewDepreciationCalculator(fy2025, testParams())

	asset := laptop("3000", 5, "2023-01-15", domain.StraightLine)
	asset.WorkPercentage = dec("40")
	assert.True(t, dc.ForYear(asset).Equal(dec("240")))

	asset.EffectiveLife = 0
	assert.True(t, dc.ForYear(asset).Equal(dec("1200")), "immediate write-off applies work share to full cost")
}

func TestDepreciationCalculator_LowValueThreshold(t *testing.T) {
	params := testParams()
	params.LowValueThreshold = dec("300")
	dc := NewDepreciationCalculator(fy2025, params)

	asset := laptop("250", 4, "2024-09-01", domain.StraightLine)
	asset.WorkPercentage = dec("80")
	assert.True(t, dc.ForYear(asset).Equal(dec("200")))

	schedule := dc.Schedule(asset)
	assert.True(t, schedule.Immediate)
	assert.Empty(t, schedule.Years)
	assert.True(t, schedule.Total().Equal(dec("200")))

	// Zero threshold disables the rule
	dc.LowValueThreshold = decimal.Zero
	assert.False(t, dc.Schedule(asset).Immediate)
}

func TestDepreciationCalculator_ScheduleStraightLine(t *testing.T) {
	dc := NewDepreciationCalculator(fy2025, testParams())

	s := dc.Schedule(laptop("3000", 5, "2024-07-01", domain.StraightLine))

	require.Len(t, s.Years, 5)
	assert.Equal(t, domain.StraightLine, s.Method)
	assert.False(t, s.Immediate)
	labels := []string{"2024-2025", "2025-2026", "2026-2027", "2027-2028", "2028-2029"}
	for i, y := range s.Years {
		assert.Equal(t, labels[i], y.FinancialYear)
		assert.True(t, y.Deduction.Equal(dec("600")), "year %d: got %s", i+1, y.Deduction)
	}
	assert.True(t, s.Years[4].ClosingValue.IsZero())
	assert.True(t, s.Total().Equal(dec("3000")))
}

func TestDepreciationCalculator_ScheduleDecliningBalance(t *testing.T) {
	dc := NewDepreciationCalculator(fy2025, testParams())

	s := dc.Schedule(laptop("1000", 4, "2024-07-01", domain.DecliningBalance))

	require.Len(t, s.Years, 4)
	expected := []string{"500", "250", "125", "62.5"}
	for i, y := range s.Years {
		assert.True(t, y.Deduction.Equal(dec(expected[i])), "year %d: got %s", i+1, y.Deduction)
	}
	assert.True(t, s.Years[1].OpeningValue.Equal(dec("500")))
	assert.True(t, s.Years[3].ClosingValue.Equal(dec("62.5")))
}

func TestDepreciationCalculator_ScheduleWorkShareDoesNotCompound(t *testing.T) {
	dc := NewDepreciationCalculator(fy2025, testParams())

	asset := laptop("1000", 4, "2024-07-01", domain.DecliningBalance)
	asset.WorkPercentage = dec("50")
	s := dc.Schedule(asset)

	require.Len(t, s.Years, 4)
	expected := []string{"250", "125", "62.5", "31.25"}
	closing := []string{"500", "250", "125", "62.5"}
	for i, y := range s.Years {
		assert.True(t, y.Deduction.Equal(dec(expected[i])), "year %d deduction: got %s", i+1, y.Deduction)
		assert.True(t, y.ClosingValue.Equal(dec(closing[i])), "year %d closing: got %s", i+1, y.ClosingValue)
	}
}

func TestDepreciationCalculator_ScheduleProRatesFirstYearOnly(t *testing.T) {
	dc := NewDepreciationCalculator(fy2025, testParams())

	s := dc.Schedule(laptop("3000", 5, "2024-12-31", domain.StraightLine))

	require.Len(t, s.Years, 5)
	assert.InDelta(t, 600.0*182/365, s.Years[0].Deduction.InexactFloat64(), 0.0001)
	for _, y := range s.Years[1:] {
		assert.True(t, y.Deduction.Equal(dec("600")))
	}
}

func TestDepreciationCalculator_ScheduleBadDate(t *testing.T) {
	logger := &TestLogger{}
	dc := NewDepreciationCalculator(fy2025, testParams())
	dc.Logger = logger

	s := dc.Schedule(laptop("3000", 5, "31/12/2024", domain.StraightLine))

	assert.Empty(t, s.Years)
	assert.True(t, s.Total().IsZero())
	assert.NotEmpty(t, logger.messages)
}

func TestAssetFromExpense(t *testing.T) {
	e := domain.ExpenseRecord{
		ID:             "exp_1",
		Description:    "Desk",
		Date:           "2024-08-01",
		Cost:           dec("900"),
		WorkPercentage: dec("100"),
		IsDepreciable:  false,
		EffectiveLife:  10,
	}

	assert.Equal(t, 0, AssetFromExpense(e).EffectiveLife, "life is ignored unless the item is depreciable")

	e.IsDepreciable = true
	assert.Equal(t, 10, AssetFromExpense(e).EffectiveLife)
}

func TestAssetFromWfhAsset_DefaultsWorkPercentage(t *testing.T) {
	a := domain.WfhAssetRecord{ID: "asset_1", Cost: dec("500"), EffectiveLife: 5}
	assert.True(t, AssetFromWfhAsset(a).WorkPercentage.Equal(domain.Hundred))

	a.WorkPercentage = decimalPtr(dec("60"))
	assert.True(t, AssetFromWfhAsset(a).WorkPercentage.Equal(dec("60")))
}
