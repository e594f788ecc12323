package config

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rgehrsitz/taxhelper/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed tax_parameters.yaml
var defaultParameters []byte

// DefaultFinancialYear is the year the embedded parameters were published for
const DefaultFinancialYear = "2024-2025"

// parameterFile is the on-disk layout of a parameters file
type parameterFile struct {
	FinancialYears domain.ParameterSet `yaml:"financial_years"`
}

// ParameterLoader parses and validates tax parameter files
type ParameterLoader struct {
	validate *validator.Validate
}

// NewParameterLoader creates a new parameter loader
func NewParameterLoader() *ParameterLoader {
	return &ParameterLoader{validate: domain.NewValidator()}
}

// Default returns the embedded parameter set
func (pl *ParameterLoader) Default() (domain.ParameterSet, error) {
	set, err := pl.Parse(defaultParameters)
	if err != nil {
		return nil, fmt.Errorf("embedded tax parameters: %w", err)
	}
	return set, nil
}

// LoadFromFile loads a parameter set from a YAML file
func (pl *ParameterLoader) LoadFromFile(filename string) (domain.ParameterSet, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	set, err := pl.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return set, nil
}

// Parse decodes and validates YAML parameter data
func (pl *ParameterLoader) Parse(data []byte) (domain.ParameterSet, error) {
	var file parameterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if len(file.FinancialYears) == 0 {
		return nil, fmt.Errorf("no financial years defined")
	}
	if err := pl.Validate(file.FinancialYears); err != nil {
		return nil, fmt.Errorf("parameter validation failed: %w", err)
	}
	return file.FinancialYears, nil
}

// Validate checks every financial year in the set
func (pl *ParameterLoader) Validate(set domain.ParameterSet) error {
	labels := make([]string, 0, len(set))
	for label := range set {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		fy, err := domain.ParseFinancialYear(label)
		if err != nil {
			return err
		}
		if err := pl.validateYear(fy, set[label]); err != nil {
			return fmt.Errorf("%s: %w", label, err)
		}
	}
	return nil
}

func (pl *ParameterLoader) validateYear(fy domain.FinancialYear, p domain.TaxParameters) error {
	if err := pl.validate.Struct(p); err != nil {
		return err
	}

	bounds := make([]span, len(p.Brackets))
	for i, b := range p.Brackets {
		bounds[i] = span{b.Min, b.Max}
	}
	if err := validatePartition("brackets", bounds); err != nil {
		return err
	}
	if err := validateBases(p.Brackets); err != nil {
		return err
	}
	if err := validatePartition("surcharge.single", tierSpans(p.Surcharge.Single)); err != nil {
		return err
	}
	if err := validatePartition("surcharge.family", tierSpans(p.Surcharge.Family)); err != nil {
		return err
	}
	if !p.Surcharge.Single[0].Rate.IsZero() || !p.Surcharge.Family[0].Rate.IsZero() {
		return fmt.Errorf("surcharge: lowest tier must have rate 0")
	}

	lio := p.LowIncomeOffset
	if lio.Threshold1.GreaterThan(lio.Threshold2) || lio.Threshold2.GreaterThan(lio.Threshold3) {
		return fmt.Errorf("low_income_offset: thresholds must be ascending")
	}

	return validateRebates(fy, p.InsuranceRebate, len(p.Surcharge.Single))
}

type span struct {
	min decimal.Decimal
	max *decimal.Decimal
}

func tierSpans(tiers []domain.SurchargeTier) []span {
	out := make([]span, len(tiers))
	for i, t := range tiers {
		out[i] = span{t.Min, t.Max}
	}
	return out
}

// validatePartition requires spans to cover [0, ∞) with no gaps or overlaps
func validatePartition(name string, spans []span) error {
	if len(spans) == 0 {
		return fmt.Errorf("%s: at least one entry is required", name)
	}
	if !spans[0].min.IsZero() {
		return fmt.Errorf("%s: first entry must start at 0, got %s", name, spans[0].min)
	}
	for i, s := range spans {
		last := i == len(spans)-1
		if s.max == nil {
			if !last {
				return fmt.Errorf("%s[%d]: only the last entry may be open-ended", name, i)
			}
			continue
		}
		if last {
			return fmt.Errorf("%s[%d]: last entry must be open-ended", name, i)
		}
		if s.max.LessThan(s.min) {
			return fmt.Errorf("%s[%d]: max %s is below min %s", name, i, s.max, s.min)
		}
		next := spans[i+1].min
		if !next.Equal(s.max.Add(decimal.NewFromInt(1))) {
			return fmt.Errorf("%s[%d]: next entry must start at %s, got %s", name, i+1, s.max.Add(decimal.NewFromInt(1)), next)
		}
	}
	return nil
}

// validateBases requires each base to equal the tax owed at the top of the
// bracket below it, to the dollar
func validateBases(brackets []domain.TaxBracket) error {
	if !brackets[0].Base.IsZero() {
		return fmt.Errorf("brackets[0]: base must be 0")
	}
	for i := 1; i < len(brackets); i++ {
		prev := brackets[i-1]
		below := decimal.Zero
		if prev.Min.IsPositive() {
			below = prev.Min.Sub(decimal.NewFromInt(1))
		}
		want := prev.Base.Add(prev.Max.Sub(below).Mul(prev.Rate))
		if want.Sub(brackets[i].Base).Abs().GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("brackets[%d]: base %s does not continue from previous bracket (expected %s)", i, brackets[i].Base, want.StringFixed(2))
		}
	}
	return nil
}

// validateRebates requires a name for every surcharge tier, a rate for every
// tier in every age bracket, and periods inside the financial year
func validateRebates(fy domain.FinancialYear, r domain.InsuranceRebateRules, tiers int) error {
	if len(r.TierNames) != tiers {
		return fmt.Errorf("insurance_rebate: %d tier names for %d surcharge tiers", len(r.TierNames), tiers)
	}
	seen := map[string]bool{}
	for _, p := range r.Periods {
		if seen[p.Label] {
			return fmt.Errorf("insurance_rebate: duplicate period %q", p.Label)
		}
		seen[p.Label] = true

		start, _ := domain.ParseDate(p.Start)
		end, _ := domain.ParseDate(p.End)
		if end.Before(start) || !fy.Contains(start) || !fy.Contains(end) {
			return fmt.Errorf("insurance_rebate: period %q must lie within %s", p.Label, fy)
		}
		if len(p.Rates) == 0 {
			return fmt.Errorf("insurance_rebate: period %q has no rates", p.Label)
		}
		for age, byTier := range p.Rates {
			var missing []string
			for _, name := range r.TierNames {
				rate, ok := byTier[name]
				if !ok {
					missing = append(missing, name)
					continue
				}
				if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
					return fmt.Errorf("insurance_rebate: %s/%s/%s rate %s out of range", p.Label, age, name, rate)
				}
			}
			if len(missing) > 0 {
				return fmt.Errorf("insurance_rebate: %s/%s missing tiers %s", p.Label, age, strings.Join(missing, ", "))
			}
		}
	}
	return nil
}

// AgeBrackets lists the age brackets with rebate rates, for prompts and help text
func AgeBrackets(p domain.TaxParameters) []string {
	seen := map[string]bool{}
	var out []string
	for _, period := range p.InsuranceRebate.Periods {
		for age := range period.Rates {
			if !seen[age] {
				seen[age] = true
				out = append(out, age)
			}
		}
	}
	sort.Strings(out)
	return out
}
