package main

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/rgehrsitz/taxhelper/internal/domain"
	"github.com/rgehrsitz/taxhelper/internal/transfer"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// decimalValue lets a decimal be bound directly to a flag
type decimalValue struct {
	d *decimal.Decimal
}

func newDecimalValue(d *decimal.Decimal) *decimalValue { return &decimalValue{d: d} }

func (v *decimalValue) String() string {
	if v.d == nil {
		return "0"
	}
	return v.d.String()
}

func (v *decimalValue) Set(s string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("%q is not a number", s)
	}
	*v.d = d
	return nil
}

func (v *decimalValue) Type() string { return "amount" }

var _ pflag.Value = (*decimalValue)(nil)

func sortedYears(set domain.ParameterSet) []string {
	years := make([]string, 0, len(set))
	for y := range set {
		years = append(years, y)
	}
	sort.Strings(years)
	return years
}

func incomeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "income",
		Short: "Manage PAYG and investment income",
	}

	var rec domain.IncomeRecord
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a PAYG income source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(func(doc domain.Document) (domain.Document, error) {
				doc, added, err := a.ledger.AddIncome(doc, rec)
				if err == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "Added income %s\n", added.ID)
				}
				return doc, err
			})
		},
	}
	add.Flags().StringVar(&rec.SourceName, "source", "", "employer or payer name")
	add.Flags().Var(newDecimalValue(&rec.GrossSalary), "gross", "gross salary")
	add.Flags().Var(newDecimalValue(&rec.TaxWithheld), "withheld", "tax withheld")
	_ = add.MarkFlagRequired("source")
	_ = add.MarkFlagRequired("gross")

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a PAYG income source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(func(doc domain.Document) (domain.Document, error) {
				return a.ledger.RemoveIncome(doc, args[0])
			})
		},
	}

	var other domain.OtherIncome
	setOther := &cobra.Command{
		Use:   "other",
		Short: "Set investment income (replaces all current values)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(func(doc domain.Document) (domain.Document, error) {
				return a.ledger.SetOtherIncome(doc, other)
			})
		},
	}
	setOther.Flags().Var(newDecimalValue(&other.BankInterest), "interest", "bank interest")
	setOther.Flags().Var(newDecimalValue(&other.DividendsUnfranked), "unfranked", "unfranked dividends")
	setOther.Flags().Var(newDecimalValue(&other.DividendsFranked), "franked", "franked dividends")
	setOther.Flags().Var(newDecimalValue(&other.FrankingCredits), "franking-credits", "franking credits")
	setOther.Flags().Var(newDecimalValue(&other.NetCapitalGains), "capital-gains", "net capital gains")

	cmd.AddCommand(add, remove, setOther)
	return cmd
}

func expenseCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Manage general work-related expenses",
	}

	var (
		rec    domain.ExpenseRecord
		method string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a general expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec.DepreciationMethod = domain.DepreciationMethod(method)
			return a.edit(func(doc domain.Document) (domain.Document, error) {
				doc, added, err := a.ledger.AddExpense(doc, rec)
				if err == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "Added expense %s\n", added.ID)
				}
				return doc, err
			})
		},
	}
	add.Flags().StringVar(&rec.Description, "description", "", "what was bought")
	add.Flags().StringVar(&rec.Date, "date", "", "purchase date (YYYY-MM-DD)")
	add.Flags().Var(newDecimalValue(&rec.Cost), "cost", "cost")
	add.Flags().StringVar(&rec.Category, "category", "", "category")
	rec.WorkPercentage = domain.Hundred
	add.Flags().Var(newDecimalValue(&rec.WorkPercentage), "work", "work-related percentage")
	add.Flags().BoolVar(&rec.IsDepreciable, "depreciable", false, "depreciate over the effective life")
	add.Flags().IntVar(&rec.EffectiveLife, "life", 0, "effective life in years")
	add.Flags().StringVar(&method, "method", "", "straight_line or declining_balance")
	_ = add.MarkFlagRequired("description")
	_ = add.MarkFlagRequired("date")
	_ = add.MarkFlagRequired("cost")

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a general expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(func(doc domain.Document) (domain.Document, error) {
				return a.ledger.RemoveExpense(doc, args[0])
			})
		},
	}

	cmd.AddCommand(add, remove)
	return cmd
}

func wfhCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wfh",
		Short: "Manage work-from-home records",
	}
	cmd.AddCommand(wfhLogCmd(a), wfhRemoveCmd(a), wfhMethodCmd(a), wfhCostsCmd(a), wfhAssetCmd(a), wfhTimesheetCmd(a))
	return cmd
}

func wfhLogCmd(a *app) *cobra.Command {
	var (
		day     string
		hours   float64
		minutes int
	)
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Log time worked from home on a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("minutes") {
				if math.IsNaN(hours) || hours <= 0 || hours > 24 {
					return fmt.Errorf("--hours must be more than 0 and at most 24, got %v", hours)
				}
				minutes = int(math.Round(hours * 60))
			}
			return a.edit(func(doc domain.Document) (domain.Document, error) {
				doc, entry, err := a.ledger.LogHours(doc, day, minutes)
				if err == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "Logged %d minutes on %s (%s)\n", entry.Minutes, entry.Date, entry.ID)
				}
				return doc, err
			})
		},
	}
	cmd.Flags().StringVar(&day, "date", "", "date worked (YYYY-MM-DD)")
	cmd.Flags().Float64Var(&hours, "hours", 0, "hours worked")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "minutes worked")
	cmd.MarkFlagsMutuallyExclusive("hours", "minutes")
	cmd.MarkFlagsOneRequired("hours", "minutes")
	_ = cmd.MarkFlagRequired("date")
	return cmd
}

func wfhRemoveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an hours-log entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(func(doc domain.Document) (domain.Document, error) {
				return a.ledger.RemoveHours(doc, args[0])
			})
		},
	}
}

func wfhMethodCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "method <fixed_rate|actual_cost|toggle>",
		Short:     "Select the work-from-home claim method",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{string(domain.WfhMethodFixedRate), string(domain.WfhMethodActualCost), "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(func(doc domain.Document) (domain.Document, error) {
				var err error
				if args[0] == "toggle" {
					doc = a.ledger.ToggleWfhMethod(doc)
				} else {
					doc, err = a.ledger.SetWfhMethod(doc, domain.WfhMethod(args[0]))
				}
				if err == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "WFH method: %s\n", doc.Wfh.Method)
				}
				return doc, err
			})
		},
	}
}

func wfhCostsCmd(a *app) *cobra.Command {
	var d domain.WfhActualCostDetails
	cmd := &cobra.Command{
		Use:   "costs",
		Short: "Set actual-cost running expenses (replaces all current values)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(func(doc domain.Document) (domain.Document, error) {
				return a.ledger.SetActualCosts(doc, d)
			})
		},
	}
	f := cmd.Flags()
	f.Var(newDecimalValue(&d.OfficeArea), "office-area", "dedicated office floor area")
	f.Var(newDecimalValue(&d.TotalHomeArea), "home-area", "total home floor area")
	f.Var(newDecimalValue(&d.ElectricityCost), "electricity", "electricity cost for the year")
	f.Var(newDecimalValue(&d.GasCost), "gas", "gas cost for the year")
	f.Var(newDecimalValue(&d.InternetCost), "internet", "internet cost for the year")
	f.Var(newDecimalValue(&d.InternetWorkPercent), "internet-work", "work-related internet percentage")
	f.Var(newDecimalValue(&d.PhoneCost), "phone", "work-related phone cost")
	f.Var(newDecimalValue(&d.StationeryCost), "stationery", "stationery cost")
	return cmd
}

func wfhAssetCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "asset",
		Short: "Manage actual-cost method assets",
	}

	var (
		rec    domain.WfhAssetRecord
		work   decimal.Decimal
		method string
	)
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a depreciating asset used for work from home",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("work") {
				w := work
				rec.WorkPercentage = &w
			}
			rec.DepreciationMethod = domain.DepreciationMethod(method)
			return a.edit(func(doc domain.Document) (domain.Document, error) {
				doc, added, err := a.ledger.AddWfhAsset(doc, rec)
				if err == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "Added asset %s\n", added.ID)
				}
				return doc, err
			})
		},
	}
	add.Flags().StringVar(&rec.Description, "description", "", "what was bought")
	add.Flags().StringVar(&rec.Date, "date", "", "purchase date (YYYY-MM-DD)")
	add.Flags().Var(newDecimalValue(&rec.Cost), "cost", "cost")
	add.Flags().StringVar(&rec.Category, "category", "", "category")
	add.Flags().Var(newDecimalValue(&work), "work", "work-related percentage (default 100)")
	add.Flags().IntVar(&rec.EffectiveLife, "life", 0, "effective life in years")
	add.Flags().StringVar(&method, "method", "", "straight_line or declining_balance")
	_ = add.MarkFlagRequired("description")
	_ = add.MarkFlagRequired("date")
	_ = add.MarkFlagRequired("cost")
	_ = add.MarkFlagRequired("life")

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove an actual-cost asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(func(doc domain.Document) (domain.Document, error) {
				return a.ledger.RemoveWfhAsset(doc, args[0])
			})
		},
	}

	cmd.AddCommand(add, remove)
	return cmd
}

func wfhTimesheetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import-timesheet <file.csv>",
		Short: "Merge a timesheet CSV into the hours log, skipping dates already logged",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			ts, err := transfer.ReadTimesheet(f)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, r := range ts.Rejected {
				fmt.Fprintf(w, "line %d skipped: %s\n", r.Line, r.Reason)
			}
			return a.edit(func(doc domain.Document) (domain.Document, error) {
				doc, added, skipped := a.ledger.MergeHours(doc, ts.Entries)
				fmt.Fprintf(w, "Imported %d entries, %d already logged or invalid\n", added, skipped)
				return doc, nil
			})
		},
	}
}

func taxpayerCmd(a *app) *cobra.Command {
	var (
		t        domain.TaxpayerDetails
		status   string
		premiums map[string]string
	)
	cmd := &cobra.Command{
		Use:   "taxpayer",
		Short: "Update taxpayer details used for levies and offsets; unset flags keep their saved values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.edit(func(doc domain.Document) (domain.Document, error) {
				next, err := mergeTaxpayer(cmd.Flags(), doc.TaxpayerDetails, t, status, premiums)
				if err != nil {
					return doc, err
				}
				return a.ledger.SetTaxpayerDetails(doc, next)
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&status, "status", "", "single or family")
	f.IntVar(&t.DependentChildren, "children", 0, "number of dependent children")
	f.Var(newDecimalValue(&t.SpouseIncome), "spouse-income", "spouse's income")
	f.BoolVar(&t.MedicareExempt, "medicare-exempt", false, "exempt from the Medicare levy")
	f.IntVar(&t.MedicareExemptDays, "exempt-days", 0, "days of Medicare levy exemption, with --medicare-exempt (0 means the full year)")
	f.BoolVar(&t.PrivateHospitalCover, "hospital-cover", false, "held private hospital cover for the whole year")
	f.StringVar(&t.InsuranceAgeBracket, "age-bracket", "", "age bracket for the insurance rebate, e.g. under65")
	f.StringToStringVar(&premiums, "premium", nil, "insurance premiums paid per rebate period, e.g. 2024-07-01_2025-03-31=1200")
	f.Var(newDecimalValue(&t.InsuranceRebateReceived), "rebate-received", "insurance rebate already received as a premium reduction")
	f.Var(newDecimalValue(&t.ReportableFringeBenefits), "fringe-benefits", "reportable fringe benefits")
	f.Var(newDecimalValue(&t.PersonalSuperContribution), "super", "personal deductible super contributions")
	return cmd
}

// mergeTaxpayer overlays the flags the user set onto the saved details
func mergeTaxpayer(flags *pflag.FlagSet, saved, set domain.TaxpayerDetails, status string, premiums map[string]string) (domain.TaxpayerDetails, error) {
	out := saved
	if flags.Changed("status") {
		out.FilingStatus = domain.FilingStatus(status)
	}
	if flags.Changed("children") {
		out.DependentChildren = set.DependentChildren
	}
	if flags.Changed("spouse-income") {
		out.SpouseIncome = set.SpouseIncome
	}
	if flags.Changed("medicare-exempt") {
		out.MedicareExempt = set.MedicareExempt
	}
	if flags.Changed("exempt-days") {
		out.MedicareExemptDays = set.MedicareExemptDays
	}
	if flags.Changed("hospital-cover") {
		out.PrivateHospitalCover = set.PrivateHospitalCover
	}
	if flags.Changed("age-bracket") {
		out.InsuranceAgeBracket = set.InsuranceAgeBracket
	}
	if flags.Changed("rebate-received") {
		out.InsuranceRebateReceived = set.InsuranceRebateReceived
	}
	if flags.Changed("fringe-benefits") {
		out.ReportableFringeBenefits = set.ReportableFringeBenefits
	}
	if flags.Changed("super") {
		out.PersonalSuperContribution = set.PersonalSuperContribution
	}
	if flags.Changed("premium") {
		out.InsurancePremiums = make(map[string]decimal.Decimal, len(premiums))
		for label, amount := range premiums {
			d, err := decimal.NewFromString(amount)
			if err != nil {
				return saved, fmt.Errorf("premium for %s: %q is not a number", label, amount)
			}
			out.InsurancePremiums[label] = d
		}
	}
	return out, nil
}
