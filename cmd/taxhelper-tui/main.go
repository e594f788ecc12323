package main

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"

	"github.com/rgehrsitz/taxhelper/internal/calculation"
	"github.com/rgehrsitz/taxhelper/internal/config"
	"github.com/rgehrsitz/taxhelper/internal/domain"
	"github.com/rgehrsitz/taxhelper/internal/logging"
	"github.com/rgehrsitz/taxhelper/internal/storage"
	"github.com/rgehrsitz/taxhelper/internal/tui"
)

func main() {
	dataDir := flag.String("data-dir", "", "directory holding the saved documents (default: user config dir)")
	fy := flag.String("fy", config.DefaultFinancialYear, "financial year, e.g. 2024-2025")
	paramsFile := flag.String("params", "", "tax parameter YAML file (default: built-in table)")
	logFile := flag.String("log-file", "", "write logs to this file (default: discard)")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error, off")
	flag.Parse()

	// The TUI owns the terminal, so logs go to a file or nowhere
	var logOut io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Printf("Error: cannot open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logging.SetOutput(logOut)
	logging.SetLevel(*logLevel)

	model, err := build(*dataDir, *fy, *paramsFile)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func build(dataDir, fy, paramsFile string) (tui.Model, error) {
	year, err := domain.ParseFinancialYear(fy)
	if err != nil {
		return tui.Model{}, err
	}

	loader := config.NewParameterLoader()
	var params domain.ParameterSet
	if paramsFile != "" {
		params, err = loader.LoadFromFile(paramsFile)
	} else {
		params, err = loader.Default()
	}
	if err != nil {
		return tui.Model{}, err
	}

	engine, err := calculation.NewCalculationEngineForYear(params, year.Label())
	if err != nil {
		return tui.Model{}, err
	}
	engine.SetLogger(logging.NewEngineLogger("calculation"))

	if dataDir == "" {
		dataDir = storage.DefaultDir()
	}
	store, err := storage.NewFileStore(dataDir)
	if err != nil {
		return tui.Model{}, err
	}
	return tui.NewModel(store, engine, year.Label()), nil
}
