package domain

import (
	"github.com/shopspring/decimal"
)

// FilingStatus selects single or family thresholds for the levy and surcharge
type FilingStatus string

const (
	FilingStatusSingle FilingStatus = "single"
	FilingStatusFamily FilingStatus = "family"
)

// WfhMethod is the work-from-home claim method
type WfhMethod string

const (
	WfhMethodFixedRate  WfhMethod = "fixed_rate"
	WfhMethodActualCost WfhMethod = "actual_cost"
)

// DepreciationMethod is how a depreciable item's cost is spread over its effective life
type DepreciationMethod string

const (
	StraightLine     DepreciationMethod = "straight_line"
	DecliningBalance DepreciationMethod = "declining_balance"
)

// Document is the user's complete data for one financial year.
// It is the only mutable state in the system; calculations receive a snapshot.
type Document struct {
	UserSettings    UserSettings    `json:"userSettings"`
	TaxpayerDetails TaxpayerDetails `json:"taxpayerDetails"`
	Income          Income          `json:"income"`
	GeneralExpenses []ExpenseRecord `json:"generalExpenses"`
	Wfh             Wfh             `json:"wfh"`
}

// UserSettings holds presentation state that is persisted with the document
type UserSettings struct {
	CurrentSection string `json:"currentSection"`
	FinancialYear  string `json:"financialYear"`
}

// Income groups employment and investment income
type Income struct {
	PAYG  []IncomeRecord `json:"payg"`
	Other OtherIncome    `json:"other"`
}

// IncomeRecord is one employment (PAYG) income source
type IncomeRecord struct {
	ID          string          `json:"id"`
	SourceName  string          `json:"sourceName" validate:"required"`
	GrossSalary decimal.Decimal `json:"grossSalary" validate:"gte=0"`
	TaxWithheld decimal.Decimal `json:"taxWithheld" validate:"gte=0"`
}

// OtherIncome is investment income. It is replaced wholesale on update.
type OtherIncome struct {
	BankInterest       decimal.Decimal `json:"bankInterest" validate:"gte=0"`
	DividendsUnfranked decimal.Decimal `json:"dividendsUnfranked" validate:"gte=0"`
	DividendsFranked   decimal.Decimal `json:"dividendsFranked" validate:"gte=0"`
	FrankingCredits    decimal.Decimal `json:"frankingCredits" validate:"gte=0"`
	NetCapitalGains    decimal.Decimal `json:"netCapitalGains" validate:"gte=0"`
}

// ExpenseRecord is a general work-related expense.
// EffectiveLife and DepreciationMethod only matter when IsDepreciable is set.
type ExpenseRecord struct {
	ID                 string             `json:"id"`
	Description        string             `json:"description" validate:"required"`
	Date               string             `json:"date" validate:"required,datetime=2006-01-02"`
	Cost               decimal.Decimal    `json:"cost" validate:"gte=0"`
	Category           string             `json:"category"`
	WorkPercentage     decimal.Decimal    `json:"workPercentage" validate:"gte=0,lte=100"`
	IsDepreciable      bool               `json:"isDepreciable"`
	EffectiveLife      int                `json:"effectiveLife" validate:"required_if=IsDepreciable true,gte=0"`
	DepreciationMethod DepreciationMethod `json:"depreciationMethod,omitempty" validate:"omitempty,oneof=straight_line declining_balance"`
}

// WfhAssetRecord is an asset claimed under the actual-cost method.
// A nil WorkPercentage means 100.
type WfhAssetRecord struct {
	ID                 string             `json:"id"`
	Description        string             `json:"description" validate:"required"`
	Date               string             `json:"date" validate:"required,datetime=2006-01-02"`
	Cost               decimal.Decimal    `json:"cost" validate:"gte=0"`
	Category           string             `json:"category,omitempty"`
	WorkPercentage     *decimal.Decimal   `json:"workPercentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	IsDepreciable      bool               `json:"isDepreciable"`
	EffectiveLife      int                `json:"effectiveLife" validate:"gte=0"`
	DepreciationMethod DepreciationMethod `json:"depreciationMethod,omitempty" validate:"omitempty,oneof=straight_line declining_balance"`
}

// MaxMinutesPerDay bounds a single hours-log entry
const MaxMinutesPerDay = 24 * 60

// WfhHoursLogEntry records minutes worked from home on one day
type WfhHoursLogEntry struct {
	ID      string `json:"id"`
	Date    string `json:"date" validate:"required,datetime=2006-01-02"`
	Minutes int    `json:"minutes" validate:"gt=0,lte=1440"`
}

// WfhActualCostDetails holds the inputs to the actual-cost method
type WfhActualCostDetails struct {
	OfficeArea          decimal.Decimal  `json:"officeArea" validate:"gte=0"`
	TotalHomeArea       decimal.Decimal  `json:"totalHomeArea" validate:"gte=0"`
	ElectricityCost     decimal.Decimal  `json:"electricityCost" validate:"gte=0"`
	GasCost             decimal.Decimal  `json:"gasCost" validate:"gte=0"`
	InternetCost        decimal.Decimal  `json:"internetCost" validate:"gte=0"`
	InternetWorkPercent decimal.Decimal  `json:"internetWorkPercent" validate:"gte=0,lte=100"`
	PhoneCost           decimal.Decimal  `json:"phoneCost" validate:"gte=0"`
	StationeryCost      decimal.Decimal  `json:"stationeryCost" validate:"gte=0"`
	Assets              []WfhAssetRecord `json:"assets" validate:"dive"`
}

// Wfh groups the work-from-home records
type Wfh struct {
	Method            WfhMethod            `json:"method"`
	HoursLog          []WfhHoursLogEntry   `json:"hoursLog"`
	TotalMinutes      int                  `json:"totalMinutes"`
	ActualCostDetails WfhActualCostDetails `json:"actualCostDetails"`
}

// TaxpayerDetails holds the demographic inputs to levies and offsets.
// InsurancePremiums is keyed by rebate period label.
type TaxpayerDetails struct {
	FilingStatus              FilingStatus               `json:"filingStatus" validate:"omitempty,oneof=single family"`
	MedicareExempt            bool                       `json:"medicareExempt"`
	MedicareExemptDays        int                        `json:"medicareExemptDays" validate:"gte=0,lte=366"`
	PrivateHospitalCover      bool                       `json:"privateHospitalCover"`
	ReportableFringeBenefits  decimal.Decimal            `json:"reportableFringeBenefits" validate:"gte=0"`
	PersonalSuperContribution decimal.Decimal            `json:"personalSuperContribution" validate:"gte=0"`
	SpouseIncome              decimal.Decimal            `json:"spouseIncome" validate:"gte=0"`
	DependentChildren         int                        `json:"dependentChildren" validate:"gte=0"`
	InsuranceAgeBracket       string                     `json:"insuranceAgeBracket"`
	InsurancePremiums         map[string]decimal.Decimal `json:"insurancePremiums" validate:"dive,gte=0"`
	InsuranceRebateReceived   decimal.Decimal            `json:"insuranceRebateReceived" validate:"gte=0"`
}

// DefaultDocument returns an empty document for a financial year
func DefaultDocument(fy FinancialYear) Document {
	return Document{
		UserSettings: UserSettings{
			CurrentSection: "dashboard",
			FinancialYear:  fy.Label(),
		},
		TaxpayerDetails: TaxpayerDetails{
			FilingStatus:      FilingStatusSingle,
			InsurancePremiums: map[string]decimal.Decimal{},
		},
		Income: Income{
			PAYG: []IncomeRecord{},
		},
		GeneralExpenses: []ExpenseRecord{},
		Wfh: Wfh{
			Method:   WfhMethodFixedRate,
			HoursLog: []WfhHoursLogEntry{},
			ActualCostDetails: WfhActualCostDetails{
				Assets: []WfhAssetRecord{},
			},
		},
	}
}

// Clone returns a deep copy so edits never alias the receiver's slices or maps
func (d Document) Clone() Document {
	out := d
	out.Income.PAYG = append([]IncomeRecord{}, d.Income.PAYG...)
	out.GeneralExpenses = append([]ExpenseRecord{}, d.GeneralExpenses...)
	out.Wfh.HoursLog = append([]WfhHoursLogEntry{}, d.Wfh.HoursLog...)
	out.Wfh.ActualCostDetails.Assets = make([]WfhAssetRecord, len(d.Wfh.ActualCostDetails.Assets))
	for i, a := range d.Wfh.ActualCostDetails.Assets {
		if a.WorkPercentage != nil {
			wp := *a.WorkPercentage
			a.WorkPercentage = &wp
		}
		out.Wfh.ActualCostDetails.Assets[i] = a
	}
	out.TaxpayerDetails.InsurancePremiums = make(map[string]decimal.Decimal, len(d.TaxpayerDetails.InsurancePremiums))
	for k, v := range d.TaxpayerDetails.InsurancePremiums {
		out.TaxpayerDetails.InsurancePremiums[k] = v
	}
	return out
}

// SumLoggedMinutes totals the hours log
func (w Wfh) SumLoggedMinutes() int {
	total := 0
	for _, e := range w.HoursLog {
		if e.Minutes > 0 {
			total += e.Minutes
		}
	}
	return total
}

// WorkPercent returns the asset's work percentage, defaulting to 100
func (a WfhAssetRecord) WorkPercent() decimal.Decimal {
	if a.WorkPercentage == nil {
		return Hundred
	}
	return *a.WorkPercentage
}
