package calculation

import (
	"github.com/rgehrsitz/taxhelper/internal/domain"
	"github.com/shopspring/decimal"
)

var minutesPerHour = decimal.NewFromInt(60)

// DeductionCalculator aggregates general expenses, work-from-home claims and
// personal super contributions for one financial year
type DeductionCalculator struct {
	Year                domain.FinancialYear
	WfhFixedRatePerHour decimal.Decimal
	Depreciation        *DepreciationCalculator
	Logger              Logger
}

// NewDeductionCalculator creates a deduction calculator
func NewDeductionCalculator(fy domain.FinancialYear, params domain.TaxParameters, dc *DepreciationCalculator) *DeductionCalculator {
	return &DeductionCalculator{
		Year:                fy,
		WfhFixedRatePerHour: params.WfhFixedRatePerHour,
		Depreciation:        dc,
		Logger:              NopLogger{},
	}
}

// Total computes every deduction category for a normalised document
func (c *DeductionCalculator) Total(doc domain.Document) domain.DeductionBreakdown {
	b := domain.DeductionBreakdown{
		General: c.GeneralDeductions(doc.GeneralExpenses),
		Super:   doc.TaxpayerDetails.PersonalSuperContribution,
	}
	b.WfhRunningCosts, b.WfhAssets = c.WfhDeductions(doc.Wfh)
	b.WFH = b.WfhRunningCosts.Add(b.WfhAssets)
	b.Total = b.General.Add(b.WFH).Add(b.Super)
	return b
}

// GeneralDeductions sums the claimable portion of general expenses dated on or
// before the end of the financial year. Undated expenses cannot be placed in a
// year and are skipped.
func (c *DeductionCalculator) GeneralDeductions(expenses []domain.ExpenseRecord) decimal.Decimal {
	log := loggerOrNop(c.Logger)
	total := decimal.Zero
	for _, e := range expenses {
		date, ok := domain.ParseDate(e.Date)
		if !ok {
			log.Warnf("expense %q has no valid date; excluded from %s", e.Description, c.Year)
			continue
		}
		if date.After(c.Year.End()) {
			continue
		}
		total = total.Add(c.Depreciation.ForYear(AssetFromExpense(e)))
	}
	return total
}

// WfhDeductions returns the running-cost and asset components of the
// work-from-home claim under the document's selected method
func (c *DeductionCalculator) WfhDeductions(wfh domain.Wfh) (running, assets decimal.Decimal) {
	if wfh.Method == domain.WfhMethodActualCost {
		details := wfh.ActualCostDetails
		return ActualRunningCosts(details), c.wfhAssetDeductions(details.Assets)
	}
	minutes := wfh.TotalMinutes
	if minutes == 0 {
		minutes = wfh.SumLoggedMinutes()
	}
	return c.FixedRateDeduction(minutes), decimal.Zero
}

// FixedRateDeduction is hours worked at home times the fixed hourly rate
func (c *DeductionCalculator) FixedRateDeduction(totalMinutes int) decimal.Decimal {
	if totalMinutes <= 0 {
		return decimal.Zero
	}
	hours := decimal.NewFromInt(int64(totalMinutes)).Div(minutesPerHour)
	return hours.Mul(c.WfhFixedRatePerHour)
}

// ActualRunningCosts apportions energy by floor area, internet by its work
// percentage, and claims phone and stationery in full
func ActualRunningCosts(d domain.WfhActualCostDetails) decimal.Decimal {
	energy := d.ElectricityCost.Add(d.GasCost).Mul(FloorAreaFraction(d))
	internet := workPortion(d.InternetCost, d.InternetWorkPercent)
	return energy.Add(internet).Add(d.PhoneCost).Add(d.StationeryCost)
}

func (c *DeductionCalculator) wfhAssetDeductions(assets []domain.WfhAssetRecord) decimal.Decimal {
	total := decimal.Zero
	for _, a := range assets {
		total = total.Add(c.Depreciation.ForYear(AssetFromWfhAsset(a)))
	}
	return total
}

// FloorAreaFraction is office area over total home area, or 0 when either is
// missing. The result is capped at 1.
func FloorAreaFraction(d domain.WfhActualCostDetails) decimal.Decimal {
	if !d.OfficeArea.IsPositive() || !d.TotalHomeArea.IsPositive() {
		return decimal.Zero
	}
	f := d.OfficeArea.Div(d.TotalHomeArea)
	if f.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return f
}

// FloorAreaPercentage is FloorAreaFraction as a percentage rounded to two places
func FloorAreaPercentage(d domain.WfhActualCostDetails) decimal.Decimal {
	return FloorAreaFraction(d).Mul(domain.Hundred).Round(2)
}
