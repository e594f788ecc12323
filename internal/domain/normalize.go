package domain

import (
	"github.com/shopspring/decimal"
)

var (
	// Hundred is the percentage denominator
	Hundred = decimal.NewFromInt(100)
	// DaysPerYear is the pro-rating denominator used for depreciation and levy exemption
	DaysPerYear = decimal.NewFromInt(365)
)

// NonNegative clamps an amount at zero
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// Percent clamps a percentage to [0, 100]
func Percent(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(Hundred) {
		return Hundred
	}
	return d
}

func nonNegativeInt(i int) int {
	if i < 0 {
		return 0
	}
	return i
}

// Normalize returns a copy of the document in which every numeric field is
// well formed: amounts are non-negative, percentages are within [0, 100] and
// enumerations carry a known value. Calculations run on normalised documents
// only, so formulas downstream never re-check their inputs.
func (d Document) Normalize() Document {
	out := d.Clone()

	for i, r := range out.Income.PAYG {
		r.GrossSalary = NonNegative(r.GrossSalary)
		r.TaxWithheld = NonNegative(r.TaxWithheld)
		out.Income.PAYG[i] = r
	}
	o := &out.Income.Other
	o.BankInterest = NonNegative(o.BankInterest)
	o.DividendsUnfranked = NonNegative(o.DividendsUnfranked)
	o.DividendsFranked = NonNegative(o.DividendsFranked)
	o.FrankingCredits = NonNegative(o.FrankingCredits)
	o.NetCapitalGains = NonNegative(o.NetCapitalGains)

	for i, e := range out.GeneralExpenses {
		e.Cost = NonNegative(e.Cost)
		e.WorkPercentage = Percent(e.WorkPercentage)
		e.EffectiveLife = nonNegativeInt(e.EffectiveLife)
		e.DepreciationMethod = normalizeMethod(e.DepreciationMethod)
		out.GeneralExpenses[i] = e
	}

	switch out.Wfh.Method {
	case WfhMethodFixedRate, WfhMethodActualCost:
	default:
		out.Wfh.Method = WfhMethodFixedRate
	}
	for i, h := range out.Wfh.HoursLog {
		h.Minutes = nonNegativeInt(h.Minutes)
		out.Wfh.HoursLog[i] = h
	}
	out.Wfh.TotalMinutes = nonNegativeInt(out.Wfh.TotalMinutes)
	if out.Wfh.TotalMinutes == 0 {
		out.Wfh.TotalMinutes = out.Wfh.SumLoggedMinutes()
	}

	ac := &out.Wfh.ActualCostDetails
	ac.OfficeArea = NonNegative(ac.OfficeArea)
	ac.TotalHomeArea = NonNegative(ac.TotalHomeArea)
	ac.ElectricityCost = NonNegative(ac.ElectricityCost)
	ac.GasCost = NonNegative(ac.GasCost)
	ac.InternetCost = NonNegative(ac.InternetCost)
	ac.InternetWorkPercent = Percent(ac.InternetWorkPercent)
	ac.PhoneCost = NonNegative(ac.PhoneCost)
	ac.StationeryCost = NonNegative(ac.StationeryCost)
	for i, a := range ac.Assets {
		a.Cost = NonNegative(a.Cost)
		wp := Percent(a.WorkPercent())
		a.WorkPercentage = &wp
		a.EffectiveLife = nonNegativeInt(a.EffectiveLife)
		a.DepreciationMethod = normalizeMethod(a.DepreciationMethod)
		ac.Assets[i] = a
	}

	t := &out.TaxpayerDetails
	if t.FilingStatus != FilingStatusFamily {
		t.FilingStatus = FilingStatusSingle
	}
	t.MedicareExemptDays = nonNegativeInt(t.MedicareExemptDays)
	if t.MedicareExemptDays > 365 {
		t.MedicareExemptDays = 365
	}
	t.ReportableFringeBenefits = NonNegative(t.ReportableFringeBenefits)
	t.PersonalSuperContribution = NonNegative(t.PersonalSuperContribution)
	t.SpouseIncome = NonNegative(t.SpouseIncome)
	t.DependentChildren = nonNegativeInt(t.DependentChildren)
	t.InsuranceRebateReceived = NonNegative(t.InsuranceRebateReceived)
	for k, v := range t.InsurancePremiums {
		t.InsurancePremiums[k] = NonNegative(v)
	}

	return out
}

func normalizeMethod(m DepreciationMethod) DepreciationMethod {
	if m == DecliningBalance {
		return DecliningBalance
	}
	return StraightLine
}
