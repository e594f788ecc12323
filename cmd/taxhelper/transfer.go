package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rgehrsitz/taxhelper/internal/transfer"
	"github.com/spf13/cobra"
)

func importCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Replace the financial year's data with an exported JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.open(); err != nil {
				return err
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			doc, err := transfer.ImportJSON(data, a.year)
			if err != nil {
				return err
			}
			if err := a.ledger.CheckInsurance(doc.TaxpayerDetails); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if err := a.save(doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %s into %s\n", args[0], a.year)
			return nil
		},
	}
}

func exportCmd(a *app) *cobra.Command {
	var format, outDir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the financial year's data as JSON or CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := a.load()
			if err != nil {
				return err
			}

			var data []byte
			switch format {
			case "json":
				data, err = transfer.ExportJSON(doc)
			case "csv":
				data, err = transfer.ExportCSV(doc)
			default:
				return fmt.Errorf("unsupported export format %q (use json or csv)", format)
			}
			if err != nil {
				return err
			}

			if outDir == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			path := filepath.Join(outDir, transfer.ExportFileName(a.year.Label(), time.Now(), format))
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "json or csv")
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "write to a dated file in this directory instead of stdout")
	return cmd
}
