package calculation

import (
	"time"

	"github.com/rgehrsitz/taxhelper/internal/domain"
	"github.com/shopspring/decimal"
)

// DEPRECIATION RULES:
//
// 1. Items without an effective life, or costing no more than the low-value
//    threshold, are written off at their work percentage in full.
// 2. Straight line claims cost/life every year.
// 3. Declining balance claims opening value × 2/life; the opening value drops
//    by that fraction once for every financial year since purchase.
// 4. In the purchase year the claim is pro-rated by days owned over 365.
// 5. Assets bought after the financial year, or with an unreadable purchase
//    date, contribute nothing.

var two = decimal.NewFromInt(2)

// DepreciableAsset is what the depreciation engine needs to know about an
// expense or work-from-home asset. EffectiveLife 0 means not depreciable.
type DepreciableAsset struct {
	ID             string
	Description    string
	Cost           decimal.Decimal
	WorkPercentage decimal.Decimal
	EffectiveLife  int
	PurchaseDate   string
	Method         domain.DepreciationMethod
}

// AssetFromExpense adapts a general expense
func AssetFromExpense(e domain.ExpenseRecord) DepreciableAsset {
	life := 0
	if e.IsDepreciable {
		life = e.EffectiveLife
	}
	return DepreciableAsset{
		ID:             e.ID,
		Description:    e.Description,
		Cost:           e.Cost,
		WorkPercentage: e.WorkPercentage,
		EffectiveLife:  life,
		PurchaseDate:   e.Date,
		Method:         e.DepreciationMethod,
	}
}

// AssetFromWfhAsset adapts a work-from-home asset. Older documents never
// set IsDepreciable on these, so any positive effective life counts.
func AssetFromWfhAsset(a domain.WfhAssetRecord) DepreciableAsset {
	return DepreciableAsset{
		ID:             a.ID,
		Description:    a.Description,
		Cost:           a.Cost,
		WorkPercentage: a.WorkPercent(),
		EffectiveLife:  a.EffectiveLife,
		PurchaseDate:   a.Date,
		Method:         a.DepreciationMethod,
	}
}

// DepreciationCalculator computes deductible decline in value for one financial year
type DepreciationCalculator struct {
	Year              domain.FinancialYear
	LowValueThreshold decimal.Decimal
	Logger            Logger
}

// NewDepreciationCalculator creates a calculator for a financial year
func NewDepreciationCalculator(fy domain.FinancialYear, params domain.TaxParameters) *DepreciationCalculator {
	return &DepreciationCalculator{
		Year:              fy,
		LowValueThreshold: params.LowValueThreshold,
		Logger:            NopLogger{},
	}
}

// ForYear returns the deductible amount for the calculator's financial year
func (dc *DepreciationCalculator) ForYear(a DepreciableAsset) decimal.Decimal {
	if !a.Cost.IsPositive() {
		return decimal.Zero
	}
	if dc.isImmediate(a) {
		return workPortion(a.Cost, a.WorkPercentage)
	}

	purchase, ok := domain.ParseDate(a.PurchaseDate)
	if !ok {
		loggerOrNop(dc.Logger).Warnf("asset %q has unreadable purchase date %q; treating as not owned", a.Description, a.PurchaseDate)
		return decimal.Zero
	}
	if purchase.After(dc.Year.End()) {
		return decimal.Zero
	}

	opening := a.Cost
	if a.Method == domain.DecliningBalance {
		rate := decliningRate(a.EffectiveLife)
		elapsed := dc.Year.YearsSince(domain.FinancialYearOf(purchase))
		for i := 0; i < elapsed; i++ {
			opening = opening.Sub(opening.Mul(rate))
		}
	}

	annual := annualDepreciation(a, opening)
	return workPortion(annual, a.WorkPercentage).Mul(proRataFactor(purchase, dc.Year))
}

// Schedule projects the deduction for every year of the asset's effective life,
// starting with the financial year of purchase. The opening value carries
// forward, reduced each year by the cost-equivalent decline so the work
// percentage is applied once per year and never compounds.
func (dc *DepreciationCalculator) Schedule(a DepreciableAsset) domain.Schedule {
	s := domain.Schedule{
		ItemID:      a.ID,
		Description: a.Description,
		Years:       []domain.ScheduleYear{},
	}
	if !a.Cost.IsPositive() {
		return s
	}
	if dc.isImmediate(a) {
		s.Immediate = true
		s.ImmediateAmount = workPortion(a.Cost, a.WorkPercentage)
		return s
	}
	s.Method = methodOrDefault(a.Method)

	purchase, ok := domain.ParseDate(a.PurchaseDate)
	if !ok {
		loggerOrNop(dc.Logger).Warnf("asset %q has unreadable purchase date %q; no schedule", a.Description, a.PurchaseDate)
		return s
	}

	fy := domain.FinancialYearOf(purchase)
	opening := a.Cost
	for i := 0; i < a.EffectiveLife; i++ {
		decline := annualDepreciation(a, opening).Mul(proRataFactor(purchase, fy))
		if decline.GreaterThan(opening) {
			decline = opening
		}
		closing := opening.Sub(decline)
		s.Years = append(s.Years, domain.ScheduleYear{
			FinancialYear: fy.Label(),
			OpeningValue:  opening,
			Deduction:     workPortion(decline, a.WorkPercentage),
			ClosingValue:  closing,
		})
		opening = closing
		fy = fy.Next()
	}
	return s
}

func (dc *DepreciationCalculator) isImmediate(a DepreciableAsset) bool {
	if a.EffectiveLife <= 0 {
		return true
	}
	return dc.LowValueThreshold.IsPositive() && a.Cost.LessThanOrEqual(dc.LowValueThreshold)
}

// annualDepreciation is the full-year, full-work-use decline in value
func annualDepreciation(a DepreciableAsset, opening decimal.Decimal) decimal.Decimal {
	if a.Method == domain.DecliningBalance {
		return opening.Mul(decliningRate(a.EffectiveLife))
	}
	return a.Cost.Div(decimal.NewFromInt(int64(a.EffectiveLife)))
}

// decliningRate is 2/life, capped at 1 so a one-year life writes off the whole value
func decliningRate(life int) decimal.Decimal {
	if life <= 1 {
		return decimal.NewFromInt(1)
	}
	return two.Div(decimal.NewFromInt(int64(life)))
}

// proRataFactor is 1 for assets held since before fy began, otherwise
// days owned (inclusive of the purchase day) over 365, capped at 1
func proRataFactor(purchase time.Time, fy domain.FinancialYear) decimal.Decimal {
	if purchase.Before(fy.Start()) {
		return decimal.NewFromInt(1)
	}
	days := int64(fy.End().Sub(purchase)/(24*time.Hour)) + 1
	factor := decimal.NewFromInt(days).Div(domain.DaysPerYear)
	if factor.IsNegative() {
		return decimal.Zero
	}
	if factor.GreaterThan(decimal.NewFromInt(1)) {
		return decimal.NewFromInt(1)
	}
	return factor
}

func workPortion(amount, workPercentage decimal.Decimal) decimal.Decimal {
	return amount.Mul(workPercentage).Div(domain.Hundred)
}

func methodOrDefault(m domain.DepreciationMethod) domain.DepreciationMethod {
	if m == "" {
		return domain.StraightLine
	}
	return m
}
