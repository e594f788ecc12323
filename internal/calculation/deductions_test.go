package calculation

import (
	"testing"

	"github.com/rgehrsitz/taxhelper/internal/domain"
	"github.com/stretchr/testify/assert"
)

func newDeductionCalculator() *DeductionCalculator {
	params := testParams()
	return NewDeductionCalculator(fy2025, params, NewDepreciationCalculator(fy2025, params))
}

func TestDeductionCalculator_GeneralDeductions(t *testing.T) {
	dc := newDeductionCalculator()
	logger := &TestLogger{}
	dc.Logger = logger

	expenses := []domain.ExpenseRecord{
		{Description: "Union fees", Date: "2024-09-01", Cost: dec("200"), WorkPercentage: dec("50")},
		{Description: "Next year's subscription", Date: "2025-07-01", Cost: dec("999"), WorkPercentage: dec("100")},
		{Description: "Undated receipt", Date: "", Cost: dec("500"), WorkPercentage: dec("100")},
		{
			Description:        "Laptop",
			Date:               "2023-03-01",
			Cost:               dec("3000"),
			WorkPercentage:     dec("100"),
			IsDepreciable:      true,
			EffectiveLife:      5,
			DepreciationMethod: domain.StraightLine,
		},
	}

	got := dc.GeneralDeductions(expenses)

	assert.True(t, got.Equal(dec("700")), "expected 700, got %s", got)
	assert.Len(t, logger.messages, 1, "undated expense should be reported once")
}

func TestDeductionCalculator_FixedRate(t *testing.T) {
	dc := newDeductionCalculator()

	assert.True(t, dc.FixedRateDeduction(600).Equal(dec("7")))
	assert.True(t, dc.FixedRateDeduction(90).Equal(dec("1.05")))
	assert.True(t, dc.FixedRateDeduction(0).IsZero())

	running, assets := dc.WfhDeductions(domain.Wfh{
		Method:   domain.WfhMethodFixedRate,
		HoursLog: []domain.WfhHoursLogEntry{{Date: "2024-07-02", Minutes: 300}, {Date: "2024-07-03", Minutes: 300}},
	})
	assert.True(t, running.Equal(dec("7")), "minutes should fall back to the hours log")
	assert.True(t, assets.IsZero())
}

func TestDeductionCalculator_ActualCost(t *testing.T) {
	dc := newDeductionCalculator()

	wfh := domain.Wfh{
		Method:       domain.WfhMethodActualCost,
		TotalMinutes: 60000,
		ActualCostDetails: domain.WfhActualCostDetails{
			OfficeArea:          dec("10"),
			TotalHomeArea:       dec("100"),
			ElectricityCost:     dec("1000"),
			GasCost:             dec("200"),
			InternetCost:        dec("600"),
			InternetWorkPercent: dec("50"),
			PhoneCost:           dec("100"),
			StationeryCost:      dec("50"),
			Assets: []domain.WfhAssetRecord{
				{Description: "Chair", Date: "2023-01-10", Cost: dec("400"), EffectiveLife: 0},
				{Description: "Desk", Date: "2022-01-10", Cost: dec("1000"), EffectiveLife: 10, WorkPercentage: decimalPtr(dec("50"))},
			},
		},
	}

	running, assets := dc.WfhDeductions(wfh)

	assert.True(t, running.Equal(dec("570")), "expected 570, got %s", running)
	assert.True(t, assets.Equal(dec("450")), "expected 450, got %s", assets)
}

func TestFloorAreaPercentage(t *testing.T) {
	tests := []struct {
		name     string
		office   string
		home     string
		expected string
	}{
		{"tenth", "10", "100", "10"},
		{"thirds round", "1", "3", "33.33"},
		{"no office", "0", "100", "0"},
		{"no home", "10", "0", "0"},
		{"office larger than home", "120", "100", "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := domain.WfhActualCostDetails{OfficeArea: dec(tt.office), TotalHomeArea: dec(tt.home)}
			assert.True(t, FloorAreaPercentage(d).Equal(dec(tt.expected)), "got %s", FloorAreaPercentage(d))
		})
	}
}

func TestDeductionCalculator_Total(t *testing.T) {
	dc := newDeductionCalculator()

	doc := domain.DefaultDocument(fy2025)
	doc.GeneralExpenses = []domain.ExpenseRecord{
		{Description: "Union fees", Date: "2024-09-01", Cost: dec("300"), WorkPercentage: dec("100")},
	}
	doc.Wfh.TotalMinutes = 6000
	doc.TaxpayerDetails.PersonalSuperContribution = dec("2000")

	b := dc.Total(doc)

	assert.True(t, b.General.Equal(dec("300")))
	assert.True(t, b.WFH.Equal(dec("70")))
	assert.True(t, b.WfhRunningCosts.Equal(dec("70")))
	assert.True(t, b.WfhAssets.IsZero())
	assert.True(t, b.Super.Equal(dec("2000")))
	assert.True(t, b.Total.Equal(dec("2370")))
}
