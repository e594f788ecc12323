package calculation

import (
	"fmt"

	"github.com/rgehrsitz/taxhelper/internal/domain"
)

// CalculationEngine recomputes the full tax outcome for one financial year.
// It holds only read-only parameters, so one engine can serve any number of
// documents concurrently.
type CalculationEngine struct {
	Year         domain.FinancialYear
	Params       domain.TaxParameters
	Depreciation *DepreciationCalculator
	Deductions   *DeductionCalculator
	TaxCalc      *TaxCalculator
	Logger       Logger
}

// NewCalculationEngine creates an engine for a financial year's parameters
func NewCalculationEngine(fy domain.FinancialYear, params domain.TaxParameters) *CalculationEngine {
	dc := NewDepreciationCalculator(fy, params)
	ce := &CalculationEngine{
		Year:         fy,
		Params:       params,
		Depreciation: dc,
		Deductions:   NewDeductionCalculator(fy, params, dc),
		TaxCalc:      NewTaxCalculator(params),
	}
	ce.SetLogger(nil)
	return ce
}

// NewCalculationEngineForYear picks a financial year out of a parameter set
func NewCalculationEngineForYear(set domain.ParameterSet, label string) (*CalculationEngine, error) {
	fy, err := domain.ParseFinancialYear(label)
	if err != nil {
		return nil, err
	}
	params, ok := set[fy.Label()]
	if !ok {
		return nil, &ConfigError{Table: "financial_years", Key: fy.Label(), Msg: "no tax parameters for financial year"}
	}
	return NewCalculationEngine(fy, params), nil
}

// SetLogger sets the logger on the engine and every calculator it owns
func (ce *CalculationEngine) SetLogger(logger Logger) {
	logger = loggerOrNop(logger)
	ce.Logger = logger
	ce.Depreciation.Logger = logger
	ce.Deductions.Logger = logger
	ce.TaxCalc.Logger = logger
}

// Calculate produces the outcome for a document snapshot. The document is
// normalised first and never modified.
func (ce *CalculationEngine) Calculate(doc domain.Document) (*domain.Outcome, error) {
	if doc.UserSettings.FinancialYear != "" && doc.UserSettings.FinancialYear != ce.Year.Label() {
		ce.Logger.Warnf("document is for %s but engine is configured for %s", doc.UserSettings.FinancialYear, ce.Year)
	}
	d := doc.Normalize()
	details := d.TaxpayerDetails

	income := IncomeBreakdownOf(d.Income)
	deductions := ce.Deductions.Total(d)
	taxable := TaxableIncome(income.Total, deductions.Total)

	grossTax := ce.TaxCalc.GrossTax(taxable)
	lowIncome := ce.TaxCalc.LowIncomeOffset(taxable)
	levy := ce.TaxCalc.HealthLevy(taxable, details)

	surcharge, err := ce.TaxCalc.Surcharge(taxable, details)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate surcharge: %w", err)
	}
	insurance, err := ce.TaxCalc.InsuranceOffset(taxable, details)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate insurance offset: %w", err)
	}

	franking := d.Income.Other.FrankingCredits
	offsets := lowIncome.Add(franking).Add(insurance)
	net := NetTaxPayable(grossTax, levy, surcharge, offsets)
	withheld := TotalTaxWithheld(d.Income)

	out := &domain.Outcome{
		FinancialYear:         ce.Year.Label(),
		Income:                income,
		TotalAssessableIncome: income.Total,
		Deductions:            deductions,
		TotalDeductions:       deductions.Total,
		TaxableIncome:         taxable,
		GrossTax:              grossTax,
		HealthLevy:            levy,
		SurchargeIncome:       SurchargeIncome(taxable, details),
		Surcharge:             surcharge,
		LowIncomeOffset:       lowIncome,
		FrankingCreditOffset:  franking,
		InsuranceOffset:       insurance,
		TotalOffsets:          offsets,
		NetTaxPayable:         net,
		TotalTaxWithheld:      withheld,
		FinalOutcome:          FinalOutcome(withheld, net),
		FloorAreaPercentage:   FloorAreaPercentage(d.Wfh.ActualCostDetails),
	}

	ce.Logger.Debugf("%s: assessable=%s deductions=%s taxable=%s net=%s outcome=%s",
		ce.Year, out.TotalAssessableIncome.StringFixed(2), out.TotalDeductions.StringFixed(2),
		out.TaxableIncome.StringFixed(2), out.NetTaxPayable.StringFixed(2), out.FinalOutcome.StringFixed(2))
	return out, nil
}

// Schedule returns the depreciation schedule for a general expense or
// work-from-home asset by id
func (ce *CalculationEngine) Schedule(doc domain.Document, id string) (domain.Schedule, error) {
	d := doc.Normalize()
	for _, e := range d.GeneralExpenses {
		if e.ID == id {
			return ce.Depreciation.Schedule(AssetFromExpense(e)), nil
		}
	}
	for _, a := range d.Wfh.ActualCostDetails.Assets {
		if a.ID == id {
			return ce.Depreciation.Schedule(AssetFromWfhAsset(a)), nil
		}
	}
	return domain.Schedule{}, fmt.Errorf("%w: %s", ErrItemNotFound, id)
}

// Schedules returns a schedule for every depreciable item in the document
func (ce *CalculationEngine) Schedules(doc domain.Document) []domain.Schedule {
	d := doc.Normalize()
	var out []domain.Schedule
	for _, e := range d.GeneralExpenses {
		if a := AssetFromExpense(e); a.EffectiveLife > 0 {
			out = append(out, ce.Depreciation.Schedule(a))
		}
	}
	for _, wa := range d.Wfh.ActualCostDetails.Assets {
		if a := AssetFromWfhAsset(wa); a.EffectiveLife > 0 {
			out = append(out, ce.Depreciation.Schedule(a))
		}
	}
	return out
}
