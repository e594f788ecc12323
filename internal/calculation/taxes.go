package calculation

import (
	"sort"

	"github.com/rgehrsitz/taxhelper/internal/domain"
	"github.com/shopspring/decimal"
)

// TaxCalculator applies one financial year's brackets, levy, surcharge and offsets
type TaxCalculator struct {
	Params domain.TaxParameters
	Logger Logger
}

// NewTaxCalculator creates a tax calculator over a parameter table
func NewTaxCalculator(params domain.TaxParameters) *TaxCalculator {
	return &TaxCalculator{Params: params, Logger: NopLogger{}}
}

// TaxableIncome is assessable income less deductions, never below zero
func TaxableIncome(assessable, deductions decimal.Decimal) decimal.Decimal {
	return domain.NonNegative(assessable.Sub(deductions))
}

// GrossTax applies the progressive brackets. The highest bracket whose floor
// does not exceed the whole-dollar income wins.
func (tc *TaxCalculator) GrossTax(taxable decimal.Decimal) decimal.Decimal {
	if !taxable.IsPositive() {
		return decimal.Zero
	}
	whole := taxable.Floor()
	brackets := tc.Params.Brackets
	for i := len(brackets) - 1; i >= 0; i-- {
		b := brackets[i]
		if b.Min.GreaterThan(whole) {
			continue
		}
		// Base is the tax owed at Min-1, so income is measured from there.
		// A bracket starting at zero has nothing below it.
		below := decimal.Zero
		if b.Min.IsPositive() {
			below = b.Min.Sub(decimal.NewFromInt(1))
		}
		return b.Base.Add(taxable.Sub(below).Mul(b.Rate))
	}
	return decimal.Zero
}

// LowIncomeOffset is the full offset up to threshold 1, reduced linearly at
// rate 1 up to threshold 2, then at rate 2 up to threshold 3, and zero beyond
func (tc *TaxCalculator) LowIncomeOffset(taxable decimal.Decimal) decimal.Decimal {
	r := tc.Params.LowIncomeOffset
	var offset decimal.Decimal
	switch {
	case taxable.LessThanOrEqual(r.Threshold1):
		offset = r.MaxOffset
	case taxable.LessThanOrEqual(r.Threshold2):
		offset = r.MaxOffset.Sub(taxable.Sub(r.Threshold1).Mul(r.ReductionRate1))
	case taxable.LessThanOrEqual(r.Threshold3):
		atThreshold2 := r.MaxOffset.Sub(r.Threshold2.Sub(r.Threshold1).Mul(r.ReductionRate1))
		offset = atThreshold2.Sub(taxable.Sub(r.Threshold2).Mul(r.ReductionRate2))
	default:
		offset = decimal.Zero
	}
	return domain.NonNegative(offset)
}

// HealthLevy is zero up to the threshold, a phase-in share of the excess up to
// the phase-in ceiling, and the flat rate on all income above it. With the
// exemption flag set, exempt days reduce the levy proportionally and no day
// count means the whole year. Days without the flag are ignored.
func (tc *TaxCalculator) HealthLevy(taxable decimal.Decimal, t domain.TaxpayerDetails) decimal.Decimal {
	r := tc.Params.HealthLevy
	threshold, upper := tc.levyThresholds(t)

	var levy decimal.Decimal
	switch {
	case taxable.LessThanOrEqual(threshold):
		return decimal.Zero
	case taxable.LessThanOrEqual(upper):
		levy = taxable.Sub(threshold).Mul(r.PhaseInRate)
	default:
		levy = taxable.Mul(r.Rate)
	}

	if !t.MedicareExempt {
		return levy
	}
	days := t.MedicareExemptDays
	if days == 0 {
		days = 365
	}
	if days >= 365 {
		return decimal.Zero
	}
	if days > 0 {
		levy = levy.Mul(decimal.NewFromInt(int64(365 - days))).Div(domain.DaysPerYear)
	}
	return levy
}

// levyThresholds returns the threshold and phase-in ceiling for the filing status.
// Where no ceiling is configured it is the point at which the phase-in amount
// meets the flat levy.
func (tc *TaxCalculator) levyThresholds(t domain.TaxpayerDetails) (threshold, upper decimal.Decimal) {
	r := tc.Params.HealthLevy
	if t.FilingStatus == domain.FilingStatusFamily {
		threshold = r.ThresholdFamily.Add(r.ChildAdjustment.Mul(decimal.NewFromInt(int64(t.DependentChildren))))
		return threshold, phaseInCeiling(threshold, r)
	}
	threshold = r.ThresholdSingle
	if r.PhaseInUpperSingle.IsPositive() {
		return threshold, r.PhaseInUpperSingle
	}
	return threshold, phaseInCeiling(threshold, r)
}

func phaseInCeiling(threshold decimal.Decimal, r domain.HealthLevyRules) decimal.Decimal {
	spread := r.PhaseInRate.Sub(r.Rate)
	if !spread.IsPositive() {
		return threshold
	}
	return threshold.Mul(r.PhaseInRate).Div(spread).Floor()
}

// SurchargeIncome is taxable income plus reportable fringe benefits and
// personal super, plus spouse income for family filers
func SurchargeIncome(taxable decimal.Decimal, t domain.TaxpayerDetails) decimal.Decimal {
	income := taxable.Add(t.ReportableFringeBenefits).Add(t.PersonalSuperContribution)
	if t.FilingStatus == domain.FilingStatusFamily {
		income = income.Add(t.SpouseIncome)
	}
	return income
}

// SurchargeTier returns the index and tier that income falls in for the
// taxpayer's filing status
func (tc *TaxCalculator) SurchargeTier(income decimal.Decimal, t domain.TaxpayerDetails) (int, domain.SurchargeTier, error) {
	tiers := tc.surchargeTiers(t)
	if len(tiers) == 0 {
		return 0, domain.SurchargeTier{}, configError("surcharge", string(t.FilingStatus), "no tiers configured")
	}
	whole := income.Floor()
	for i := len(tiers) - 1; i >= 0; i-- {
		if tiers[i].Min.LessThanOrEqual(whole) {
			return i, tiers[i], nil
		}
	}
	return 0, tiers[0], nil
}

func (tc *TaxCalculator) surchargeTiers(t domain.TaxpayerDetails) []domain.SurchargeTier {
	r := tc.Params.Surcharge
	if t.FilingStatus != domain.FilingStatusFamily {
		return r.Single
	}
	if t.DependentChildren <= 1 {
		return r.Family
	}
	shift := r.ChildAdjustment.Mul(decimal.NewFromInt(int64(t.DependentChildren - 1)))
	out := make([]domain.SurchargeTier, len(r.Family))
	for i, tier := range r.Family {
		out[i] = tier.Shift(shift)
	}
	return out
}

// Surcharge is income-for-surcharge times the matching tier rate. Taxpayers
// with private hospital cover pay none.
func (tc *TaxCalculator) Surcharge(taxable decimal.Decimal, t domain.TaxpayerDetails) (decimal.Decimal, error) {
	if t.PrivateHospitalCover {
		return decimal.Zero, nil
	}
	income := SurchargeIncome(taxable, t)
	_, tier, err := tc.SurchargeTier(income, t)
	if err != nil {
		return decimal.Zero, err
	}
	return income.Mul(tier.Rate), nil
}

// InsuranceOffset is the rebate entitlement on premiums paid, less any rebate
// already received as a premium reduction. Each rebate period applies its own
// rate to the premiums paid within it.
func (tc *TaxCalculator) InsuranceOffset(taxable decimal.Decimal, t domain.TaxpayerDetails) (decimal.Decimal, error) {
	if !hasPremiums(t.InsurancePremiums) {
		return decimal.Zero, nil
	}

	rules := tc.Params.InsuranceRebate
	idx, _, err := tc.SurchargeTier(SurchargeIncome(taxable, t), t)
	if err != nil {
		return decimal.Zero, err
	}
	if idx >= len(rules.TierNames) {
		return decimal.Zero, configError("insurance_rebate.tier_names", "", "no name for income tier")
	}
	tierName := rules.TierNames[idx]

	labels := make([]string, 0, len(t.InsurancePremiums))
	for label := range t.InsurancePremiums {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	entitlement := decimal.Zero
	for _, label := range labels {
		premium := t.InsurancePremiums[label]
		if !premium.IsPositive() {
			continue
		}
		period, ok := rules.Period(label)
		if !ok {
			return decimal.Zero, configError("insurance_rebate.periods", label, "unknown rebate period")
		}
		byTier, ok := period.Rates[t.InsuranceAgeBracket]
		if !ok {
			return decimal.Zero, configError("insurance_rebate.rates", t.InsuranceAgeBracket, "unknown age bracket")
		}
		rate, ok := byTier[tierName]
		if !ok {
			return decimal.Zero, configError("insurance_rebate.rates."+t.InsuranceAgeBracket, tierName, "unknown income tier")
		}
		entitlement = entitlement.Add(premium.Mul(rate))
	}

	return domain.NonNegative(entitlement.Sub(t.InsuranceRebateReceived)), nil
}

func hasPremiums(premiums map[string]decimal.Decimal) bool {
	for _, p := range premiums {
		if p.IsPositive() {
			return true
		}
	}
	return false
}

// NetTaxPayable is gross tax plus levy and surcharge less offsets, never below zero
func NetTaxPayable(grossTax, levy, surcharge, offsets decimal.Decimal) decimal.Decimal {
	return domain.NonNegative(grossTax.Add(levy).Add(surcharge).Sub(offsets))
}

// FinalOutcome is withholding less net tax. Positive is a refund, negative is payable.
func FinalOutcome(withheld, netTaxPayable decimal.Decimal) decimal.Decimal {
	return withheld.Sub(netTaxPayable)
}
