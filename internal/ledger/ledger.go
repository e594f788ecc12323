package ledger

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rgehrsitz/taxhelper/internal/domain"
	"github.com/shopspring/decimal"
)

// ID prefixes for each record kind
const (
	PrefixIncome   = "payg"
	PrefixExpense  = "exp"
	PrefixHours    = "wfh"
	PrefixWfhAsset = "wfh_asset"
)

// Sections the dashboard can open on
var Sections = []string{"dashboard", "income", "deductions", "wfh", "taxpayer", "summary"}

var (
	// ErrNotFound is returned when removing a record id that is not in the document
	ErrNotFound = errors.New("record not found")
	// ErrInvalid wraps every rejected edit
	ErrInvalid = errors.New("invalid entry")
)

// Ledger applies edits to documents. Every edit returns a new document and
// leaves its argument untouched, so callers can keep the old snapshot for
// undo or comparison.
type Ledger struct {
	validate *validator.Validate
	newID    func(prefix string) string
	params   *domain.TaxParameters
}

// New creates a ledger that assigns random ids
func New() *Ledger {
	return &Ledger{
		validate: domain.NewValidator(),
		newID: func(prefix string) string {
			return prefix + "_" + uuid.NewString()
		},
	}
}

// WithParameters makes taxpayer edits check insurance keys against the
// year's rebate table
func (l *Ledger) WithParameters(p domain.TaxParameters) *Ledger {
	l.params = &p
	return l
}

// WithIDGenerator replaces the id generator, for deterministic tests and imports
func (l *Ledger) WithIDGenerator(gen func(prefix string) string) *Ledger {
	l.newID = gen
	return l
}

func (l *Ledger) check(what string, v interface{}) error {
	if err := l.validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %s: %s", ErrInvalid, what, describe(err))
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// describe flattens validator errors into one readable line
func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// AddIncome appends a PAYG income source
func (l *Ledger) AddIncome(doc domain.Document, r domain.IncomeRecord) (domain.Document, domain.IncomeRecord, error) {
	r.SourceName = strings.TrimSpace(r.SourceName)
	if err := l.check("income", r); err != nil {
		return doc, r, err
	}
	if !r.GrossSalary.IsPositive() {
		return doc, r, invalid("gross salary must be greater than zero")
	}
	r.ID = l.newID(PrefixIncome)

	out := doc.Clone()
	out.Income.PAYG = append(out.Income.PAYG, r)
	return out, r, nil
}

// RemoveIncome removes a PAYG income source by id
func (l *Ledger) RemoveIncome(doc domain.Document, id string) (domain.Document, error) {
	out := doc.Clone()
	kept, found := removeByID(out.Income.PAYG, id, func(r domain.IncomeRecord) string { return r.ID })
	if !found {
		return doc, fmt.Errorf("%w: income %s", ErrNotFound, id)
	}
	out.Income.PAYG = kept
	return out, nil
}

// SetOtherIncome replaces investment income wholesale
func (l *Ledger) SetOtherIncome(doc domain.Document, o domain.OtherIncome) (domain.Document, error) {
	if err := l.check("other income", o); err != nil {
		return doc, err
	}
	out := doc.Clone()
	out.Income.Other = o
	return out, nil
}

// AddExpense appends a general expense. The work percentage is taken as given,
// and depreciation fields are cleared unless the item is depreciable.
func (l *Ledger) AddExpense(doc domain.Document, e domain.ExpenseRecord) (domain.Document, domain.ExpenseRecord, error) {
	e.Description = strings.TrimSpace(e.Description)
	if !e.IsDepreciable {
		e.EffectiveLife = 0
		e.DepreciationMethod = ""
	} else if e.DepreciationMethod == "" {
		e.DepreciationMethod = domain.StraightLine
	}
	if err := l.check("expense", e); err != nil {
		return doc, e, err
	}
	if !e.Cost.IsPositive() {
		return doc, e, invalid("cost must be greater than zero")
	}
	e.ID = l.newID(PrefixExpense)

	out := doc.Clone()
	out.GeneralExpenses = append(out.GeneralExpenses, e)
	return out, e, nil
}

// RemoveExpense removes a general expense by id
func (l *Ledger) RemoveExpense(doc domain.Document, id string) (domain.Document, error) {
	out := doc.Clone()
	kept, found := removeByID(out.GeneralExpenses, id, func(e domain.ExpenseRecord) string { return e.ID })
	if !found {
		return doc, fmt.Errorf("%w: expense %s", ErrNotFound, id)
	}
	out.GeneralExpenses = kept
	return out, nil
}

// LogHours records minutes worked from home on a date and refreshes the total
func (l *Ledger) LogHours(doc domain.Document, date string, minutes int) (domain.Document, domain.WfhHoursLogEntry, error) {
	entry := domain.WfhHoursLogEntry{Date: strings.TrimSpace(date), Minutes: minutes}
	if err := l.check("hours", entry); err != nil {
		return doc, entry, err
	}
	entry.ID = l.newID(PrefixHours)

	out := doc.Clone()
	out.Wfh.HoursLog = append(out.Wfh.HoursLog, entry)
	out.Wfh.TotalMinutes = out.Wfh.SumLoggedMinutes()
	return out, entry, nil
}

// RemoveHours removes an hours-log entry by id and refreshes the total
func (l *Ledger) RemoveHours(doc domain.Document, id string) (domain.Document, error) {
	out := doc.Clone()
	kept, found := removeByID(out.Wfh.HoursLog, id, func(e domain.WfhHoursLogEntry) string { return e.ID })
	if !found {
		return doc, fmt.Errorf("%w: hours %s", ErrNotFound, id)
	}
	out.Wfh.HoursLog = kept
	out.Wfh.TotalMinutes = out.Wfh.SumLoggedMinutes()
	return out, nil
}

// MergeHours adds entries for dates not already in the hours log. Entries
// that fail validation are skipped. It returns how many were added and
// how many were skipped.
func (l *Ledger) MergeHours(doc domain.Document, entries []domain.WfhHoursLogEntry) (domain.Document, int, int) {
	logged := make(map[string]bool, len(doc.Wfh.HoursLog))
	for _, e := range doc.Wfh.HoursLog {
		logged[e.Date] = true
	}

	out := doc.Clone()
	added, skipped := 0, 0
	for _, e := range entries {
		e.Date = strings.TrimSpace(e.Date)
		if logged[e.Date] || l.validate.Struct(e) != nil {
			skipped++
			continue
		}
		e.ID = l.newID(PrefixHours)
		out.Wfh.HoursLog = append(out.Wfh.HoursLog, e)
		logged[e.Date] = true
		added++
	}
	sort.SliceStable(out.Wfh.HoursLog, func(i, j int) bool {
		return out.Wfh.HoursLog[i].Date < out.Wfh.HoursLog[j].Date
	})
	out.Wfh.TotalMinutes = out.Wfh.SumLoggedMinutes()
	return out, added, skipped
}

// SetWfhMethod selects the work-from-home claim method
func (l *Ledger) SetWfhMethod(doc domain.Document, method domain.WfhMethod) (domain.Document, error) {
	switch method {
	case domain.WfhMethodFixedRate, domain.WfhMethodActualCost:
	default:
		return doc, invalid("unknown work-from-home method %q", method)
	}
	out := doc.Clone()
	out.Wfh.Method = method
	return out, nil
}

// ToggleWfhMethod switches between the fixed-rate and actual-cost methods
func (l *Ledger) ToggleWfhMethod(doc domain.Document) domain.Document {
	next := domain.WfhMethodActualCost
	if doc.Wfh.Method == domain.WfhMethodActualCost {
		next = domain.WfhMethodFixedRate
	}
	out, _ := l.SetWfhMethod(doc, next)
	return out
}

// SetActualCosts replaces the running-cost inputs of the actual-cost method.
// Assets are kept; they are managed with AddWfhAsset and RemoveWfhAsset.
func (l *Ledger) SetActualCosts(doc domain.Document, d domain.WfhActualCostDetails) (domain.Document, error) {
	d.Assets = nil
	if err := l.check("actual costs", d); err != nil {
		return doc, err
	}
	out := doc.Clone()
	d.Assets = out.Wfh.ActualCostDetails.Assets
	out.Wfh.ActualCostDetails = d
	return out, nil
}

// AddWfhAsset appends an actual-cost asset. Assets need an effective life.
func (l *Ledger) AddWfhAsset(doc domain.Document, a domain.WfhAssetRecord) (domain.Document, domain.WfhAssetRecord, error) {
	a.Description = strings.TrimSpace(a.Description)
	a.IsDepreciable = true
	if a.DepreciationMethod == "" {
		a.DepreciationMethod = domain.StraightLine
	}
	if err := l.check("asset", a); err != nil {
		return doc, a, err
	}
	if !a.Cost.IsPositive() {
		return doc, a, invalid("cost must be greater than zero")
	}
	if a.EffectiveLife <= 0 {
		return doc, a, invalid("effective life must be at least one year")
	}
	a.ID = l.newID(PrefixWfhAsset)

	out := doc.Clone()
	out.Wfh.ActualCostDetails.Assets = append(out.Wfh.ActualCostDetails.Assets, a)
	return out, a, nil
}

// RemoveWfhAsset removes an actual-cost asset by id
func (l *Ledger) RemoveWfhAsset(doc domain.Document, id string) (domain.Document, error) {
	out := doc.Clone()
	kept, found := removeByID(out.Wfh.ActualCostDetails.Assets, id, func(a domain.WfhAssetRecord) string { return a.ID })
	if !found {
		return doc, fmt.Errorf("%w: asset %s", ErrNotFound, id)
	}
	out.Wfh.ActualCostDetails.Assets = kept
	return out, nil
}

// SetTaxpayerDetails replaces the taxpayer's demographic details
func (l *Ledger) SetTaxpayerDetails(doc domain.Document, t domain.TaxpayerDetails) (domain.Document, error) {
	if t.FilingStatus == "" {
		t.FilingStatus = domain.FilingStatusSingle
	}
	if err := l.check("taxpayer details", t); err != nil {
		return doc, err
	}
	if t.MedicareExemptDays > 0 && !t.MedicareExempt {
		return doc, invalid("exempt days need the Medicare exemption flag")
	}
	if err := l.CheckInsurance(t); err != nil {
		return doc, err
	}
	if t.InsurancePremiums == nil {
		t.InsurancePremiums = map[string]decimal.Decimal{}
	}
	out := doc.Clone()
	out.TaxpayerDetails = t
	return out.Clone(), nil
}

// CheckInsurance rejects an age bracket or premium period the rebate table
// does not know. Without parameters it accepts everything.
func (l *Ledger) CheckInsurance(t domain.TaxpayerDetails) error {
	if l.params == nil {
		return nil
	}
	rules := l.params.InsuranceRebate

	labels := make([]string, 0, len(t.InsurancePremiums))
	for label := range t.InsurancePremiums {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	claimed := false
	for _, label := range labels {
		if _, ok := rules.Period(label); !ok {
			return invalid("unknown insurance rebate period %q (known: %s)", label, strings.Join(periodLabels(rules), ", "))
		}
		if t.InsurancePremiums[label].IsPositive() {
			claimed = true
		}
	}

	if t.InsuranceAgeBracket == "" {
		if claimed {
			return invalid("an insurance age bracket is required when premiums are entered")
		}
		return nil
	}
	for _, period := range rules.Periods {
		if _, ok := period.Rates[t.InsuranceAgeBracket]; !ok {
			return invalid("unknown insurance age bracket %q (known: %s)", t.InsuranceAgeBracket, strings.Join(ageBrackets(rules), ", "))
		}
	}
	return nil
}

func periodLabels(rules domain.InsuranceRebateRules) []string {
	out := make([]string, 0, len(rules.Periods))
	for _, p := range rules.Periods {
		out = append(out, p.Label)
	}
	return out
}

func ageBrackets(rules domain.InsuranceRebateRules) []string {
	seen := map[string]bool{}
	var out []string
	for _, p := range rules.Periods {
		for age := range p.Rates {
			if !seen[age] {
				seen[age] = true
				out = append(out, age)
			}
		}
	}
	sort.Strings(out)
	return out
}

// SetCurrentSection records the section the dashboard should reopen on
func (l *Ledger) SetCurrentSection(doc domain.Document, section string) (domain.Document, error) {
	for _, s := range Sections {
		if s == section {
			out := doc.Clone()
			out.UserSettings.CurrentSection = section
			return out, nil
		}
	}
	return doc, invalid("unknown section %q", section)
}

func removeByID[T any](items []T, id string, idOf func(T) string) ([]T, bool) {
	kept := make([]T, 0, len(items))
	found := false
	for _, item := range items {
		if idOf(item) == id {
			found = true
			continue
		}
		kept = append(kept, item)
	}
	return kept, found
}
