package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/rgehrsitz/taxhelper/internal/calculation"
	"github.com/rgehrsitz/taxhelper/internal/config"
	"github.com/rgehrsitz/taxhelper/internal/domain"
	"github.com/rgehrsitz/taxhelper/internal/ledger"
	"github.com/rgehrsitz/taxhelper/internal/logging"
	"github.com/rgehrsitz/taxhelper/internal/output"
	"github.com/rgehrsitz/taxhelper/internal/storage"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app holds what every data command needs, opened lazily from the persistent flags
type app struct {
	dataDir    string
	fy         string
	paramsFile string
	logLevel   string

	year   domain.FinancialYear
	params domain.ParameterSet
	store  *storage.FileStore
	engine *calculation.CalculationEngine
	ledger *ledger.Ledger
}

func (a *app) open() error {
	if a.store != nil {
		return nil
	}
	year, err := domain.ParseFinancialYear(a.fy)
	if err != nil {
		return err
	}

	loader := config.NewParameterLoader()
	var params domain.ParameterSet
	if a.paramsFile != "" {
		params, err = loader.LoadFromFile(a.paramsFile)
	} else {
		params, err = loader.Default()
	}
	if err != nil {
		return err
	}

	engine, err := calculation.NewCalculationEngineForYear(params, year.Label())
	if err != nil {
		return err
	}
	engine.SetLogger(logging.NewEngineLogger("calculation"))

	dir := a.dataDir
	if dir == "" {
		dir = storage.DefaultDir()
	}
	store, err := storage.NewFileStore(dir)
	if err != nil {
		return err
	}

	a.year, a.params, a.engine, a.store = year, params, engine, store
	a.ledger = ledger.New().WithParameters(params[year.Label()])
	return nil
}

func (a *app) load() (domain.Document, error) {
	if err := a.open(); err != nil {
		return domain.Document{}, err
	}
	return a.store.Load(a.year.Label())
}

func (a *app) save(doc domain.Document) error {
	return a.store.Save(a.year.Label(), doc)
}

// edit loads the document, applies fn and saves the result
func (a *app) edit(fn func(doc domain.Document) (domain.Document, error)) error {
	doc, err := a.load()
	if err != nil {
		return err
	}
	doc, err = fn(doc)
	if err != nil {
		return err
	}
	return a.save(doc)
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "taxhelper",
		Short: "Personal income tax estimator",
		Long:  "Keeps a financial year's income, deductions and work-from-home records and estimates the tax refund or amount payable",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetLevel(a.logLevel)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "directory holding the saved documents (default: user config dir)")
	root.PersistentFlags().StringVar(&a.fy, "fy", config.DefaultFinancialYear, "financial year, e.g. 2024-2025")
	root.PersistentFlags().StringVar(&a.paramsFile, "params", "", "tax parameter YAML file (default: built-in table)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level: debug, info, warn, error, off")

	root.AddCommand(
		calculateCmd(a),
		scheduleCmd(a),
		incomeCmd(a),
		expenseCmd(a),
		wfhCmd(a),
		taxpayerCmd(a),
		importCmd(a),
		exportCmd(a),
		clearCmd(a),
		paramsCmd(a),
		versionCmd(),
	)
	return root
}

func calculateCmd(a *app) *cobra.Command {
	var format, outDir string
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Estimate the tax outcome for the financial year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := output.GetFormatterByName(format)
			if f == nil {
				return fmt.Errorf("unsupported format %q (available: %s)", format, strings.Join(output.AvailableFormatterNames(), ", "))
			}
			doc, err := a.load()
			if err != nil {
				return err
			}
			outcome, err := a.engine.Calculate(doc)
			if err != nil {
				return err
			}
			report := output.NewReport(doc, outcome, a.engine.Schedules(doc))

			if outDir != "" {
				path, err := output.WriteFormatted(outDir, f, report, extensionFor(f.Name()))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
				return nil
			}
			data, err := f.Format(report)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "console", "output format: "+strings.Join(output.AvailableFormatterNames(), ", "))
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "write the report to a file in this directory instead of stdout")
	return cmd
}

func extensionFor(format string) string {
	switch format {
	case "html", "json", "csv":
		return format
	case "schedule-csv":
		return "csv"
	default:
		return "txt"
	}
}

func scheduleCmd(a *app) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "schedule <item-id>",
		Short: "Show the depreciation schedule of an expense or WFH asset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.load()
			if err != nil {
				return err
			}
			s, err := a.engine.Schedule(doc, args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), s)
			}
			output.WriteSchedule(cmd.OutOrStdout(), s)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the schedule as JSON")
	return cmd
}

func clearCmd(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all saved data for the financial year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return fmt.Errorf("refusing to delete %s data without --yes", a.fy)
			}
			if err := a.open(); err != nil {
				return err
			}
			if err := a.store.Clear(a.year.Label()); err != nil {
				if storage.IsNotFound(err) {
					fmt.Fprintf(cmd.OutOrStdout(), "No saved data for %s\n", a.year)
					return nil
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared all data for %s\n", a.year)
			return nil
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deletion")
	return cmd
}

func paramsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "params",
		Short: "Validate and summarise the tax parameter table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			p := a.params[a.year.Label()]
			fmt.Fprintf(w, "Financial years: %s\n", strings.Join(sortedYears(a.params), ", "))
			fmt.Fprintf(w, "Selected: %s\n", a.year)
			fmt.Fprintf(w, "  Tax brackets: %d\n", len(p.Brackets))
			fmt.Fprintf(w, "  Medicare levy rate: %s\n", output.FormatPercentage(p.HealthLevy.Rate.Mul(domain.Hundred)))
			fmt.Fprintf(w, "  WFH fixed rate: %s per hour\n", output.FormatCurrency(p.WfhFixedRatePerHour))
			fmt.Fprintf(w, "  Insurance age brackets: %s\n", strings.Join(config.AgeBrackets(p), ", "))
			for _, period := range p.InsuranceRebate.Periods {
				fmt.Fprintf(w, "  Rebate period %s: %s to %s\n", period.Label, period.Start, period.End)
			}
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taxhelper %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.Main.Path + " " + bi.Main.Version
	}
	return ""
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
