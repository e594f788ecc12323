package domain

import (
	"github.com/shopspring/decimal"
)

// ParameterSet maps financial-year labels to that year's tax parameters.
// It is loaded from tax_parameters.yaml and never modified afterwards.
type ParameterSet map[string]TaxParameters

// TaxParameters contains every jurisdictional constant for one financial year
type TaxParameters struct {
	Metadata            ParameterMetadata    `yaml:"metadata" json:"metadata"`
	Brackets            []TaxBracket         `yaml:"brackets" json:"brackets" validate:"required,min=1,dive"`
	LowIncomeOffset     LowIncomeOffsetRules `yaml:"low_income_offset" json:"low_income_offset"`
	HealthLevy          HealthLevyRules      `yaml:"health_levy" json:"health_levy"`
	Surcharge           SurchargeRules       `yaml:"surcharge" json:"surcharge"`
	InsuranceRebate     InsuranceRebateRules `yaml:"insurance_rebate" json:"insurance_rebate"`
	WfhFixedRatePerHour decimal.Decimal      `yaml:"wfh_fixed_rate_per_hour" json:"wfh_fixed_rate_per_hour" validate:"gte=0"`
	LowValueThreshold   decimal.Decimal      `yaml:"low_value_threshold" json:"low_value_threshold" validate:"gte=0"`
}

// ParameterMetadata describes where a parameter table came from
type ParameterMetadata struct {
	Description string `yaml:"description" json:"description"`
	Source      string `yaml:"source" json:"source"`
	LastUpdated string `yaml:"last_updated" json:"last_updated"`
}

// TaxBracket is one progressive income bracket. Base is the cumulative tax at Min−1.
// A nil Max marks the open-ended top bracket.
type TaxBracket struct {
	Min  decimal.Decimal  `yaml:"min" json:"min" validate:"gte=0"`
	Max  *decimal.Decimal `yaml:"max,omitempty" json:"max,omitempty"`
	Rate decimal.Decimal  `yaml:"rate" json:"rate" validate:"gte=0,lte=1"`
	Base decimal.Decimal  `yaml:"base" json:"base" validate:"gte=0"`
}

// LowIncomeOffsetRules is the three-tier low income offset phase-down
type LowIncomeOffsetRules struct {
	MaxOffset      decimal.Decimal `yaml:"max_offset" json:"max_offset"`
	Threshold1     decimal.Decimal `yaml:"threshold_1" json:"threshold_1"`
	Threshold2     decimal.Decimal `yaml:"threshold_2" json:"threshold_2"`
	Threshold3     decimal.Decimal `yaml:"threshold_3" json:"threshold_3"`
	ReductionRate1 decimal.Decimal `yaml:"reduction_rate_1" json:"reduction_rate_1"`
	ReductionRate2 decimal.Decimal `yaml:"reduction_rate_2" json:"reduction_rate_2"`
}

// HealthLevyRules holds the levy rate and low-income phase-in thresholds.
// The family phase-in upper bound is derived from the family threshold.
type HealthLevyRules struct {
	Rate               decimal.Decimal `yaml:"rate" json:"rate" validate:"gte=0,lte=1"`
	PhaseInRate        decimal.Decimal `yaml:"phase_in_rate" json:"phase_in_rate" validate:"gte=0,lte=1"`
	ThresholdSingle    decimal.Decimal `yaml:"threshold_single" json:"threshold_single"`
	PhaseInUpperSingle decimal.Decimal `yaml:"phase_in_upper_single" json:"phase_in_upper_single"`
	ThresholdFamily    decimal.Decimal `yaml:"threshold_family" json:"threshold_family"`
	ChildAdjustment    decimal.Decimal `yaml:"child_adjustment" json:"child_adjustment"`
}

// SurchargeTier is one income tier of the surcharge table
type SurchargeTier struct {
	Min  decimal.Decimal  `yaml:"min" json:"min" validate:"gte=0"`
	Max  *decimal.Decimal `yaml:"max,omitempty" json:"max,omitempty"`
	Rate decimal.Decimal  `yaml:"rate" json:"rate" validate:"gte=0,lte=1"`
}

// SurchargeRules holds the single and family tier tables.
// Family tiers move up by ChildAdjustment for each dependent child after the first.
type SurchargeRules struct {
	Single          []SurchargeTier `yaml:"single" json:"single" validate:"required,min=1,dive"`
	Family          []SurchargeTier `yaml:"family" json:"family" validate:"required,min=1,dive"`
	ChildAdjustment decimal.Decimal `yaml:"child_adjustment" json:"child_adjustment"`
}

// InsuranceRebateRules holds rebate percentages for each sub-period of the year.
// TierNames maps a surcharge tier index to the rate key used in each period.
type InsuranceRebateRules struct {
	TierNames []string       `yaml:"tier_names" json:"tier_names" validate:"required,min=1,dive,required"`
	Periods   []RebatePeriod `yaml:"periods" json:"periods" validate:"dive"`
}

// RebatePeriod is a span of the financial year with its own rate table,
// keyed by age bracket then tier name
type RebatePeriod struct {
	Label string                                `yaml:"label" json:"label" validate:"required"`
	Start string                                `yaml:"start" json:"start" validate:"required,datetime=2006-01-02"`
	End   string                                `yaml:"end" json:"end" validate:"required,datetime=2006-01-02"`
	Rates map[string]map[string]decimal.Decimal `yaml:"rates" json:"rates"`
}

// Contains reports whether income falls within the bracket
func (b TaxBracket) Contains(income decimal.Decimal) bool {
	if income.LessThan(b.Min) {
		return false
	}
	return b.Max == nil || income.LessThanOrEqual(*b.Max)
}

// Shift returns a copy of the tier with both bounds raised by amount
func (t SurchargeTier) Shift(amount decimal.Decimal) SurchargeTier {
	out := SurchargeTier{Min: t.Min, Rate: t.Rate}
	if !t.Min.IsZero() {
		out.Min = t.Min.Add(amount)
	}
	if t.Max != nil {
		m := t.Max.Add(amount)
		out.Max = &m
	}
	return out
}

// Period returns the rebate period with the given label
func (r InsuranceRebateRules) Period(label string) (RebatePeriod, bool) {
	for _, p := range r.Periods {
		if p.Label == label {
			return p, true
		}
	}
	return RebatePeriod{}, false
}
