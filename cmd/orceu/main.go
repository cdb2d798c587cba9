// Package main provides the orceu command line: estimate parsing, raw sheet
// export and the import HTTP service.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/orceu/orceu-api-saas/pkg/orcamento"
	"github.com/orceu/orceu-api-saas/pkg/orcamento/models"
	"github.com/orceu/orceu-api-saas/pkg/orcamento/output"
	"github.com/spf13/cobra"
)

var (
	outputPath string
	pretty     bool
	format     string
	sheetName  string
	sheetsDir  string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "orceu",
		Short: "Read construction estimates from spreadsheets",
		Long: `orceu turns freeform construction estimate spreadsheets (.xlsx, .xlsm, .csv)
into a tree of stages, compositions and resources.`,
		SilenceUsage: true,
	}

	parseCmd := &cobra.Command{
		Use:   "parse [input.xlsx]",
		Short: "Parse an estimate into JSON or Markdown",
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	parseCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	parseCmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	parseCmd.Flags().StringVar(&format, "format", "json", "Output format: json, markdown")
	parseCmd.Flags().StringVar(&sheetName, "sheet", "", "Sheet to parse (default: detected analytic sheet)")

	sheetsCmd := &cobra.Command{
		Use:   "sheets [input.xlsx]",
		Short: "Render worksheets as Markdown tables",
		Args:  cobra.ExactArgs(1),
		RunE:  runSheets,
	}
	sheetsCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	sheetsCmd.Flags().StringVar(&sheetsDir, "sheets-dir", "", "Directory for per-sheet Markdown files")

	rootCmd.AddCommand(parseCmd, sheetsCmd, newServeCmd())
	return rootCmd
}

func runParse(cmd *cobra.Command, args []string) error {
	opts := orcamento.DefaultOptions()
	opts.SheetName = sheetName

	result, err := orcamento.ParseFile(args[0], opts)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}

	var data []byte
	switch strings.ToLower(format) {
	case "json":
		data, err = output.ToJSON(result.Estimate, pretty)
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
	case "markdown", "md":
		data = []byte(output.Markdown(result.Estimate))
	default:
		return fmt.Errorf("invalid format: %s (must be json or markdown)", format)
	}

	if result.Stats.Dropped > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d row(s) not recognized\n", result.SheetName, result.Stats.Dropped)
	}
	return writeOutput(cmd, data)
}

func runSheets(cmd *cobra.Command, args []string) error {
	wb, err := orcamento.ReadWorkbook(args[0])
	if err != nil {
		return fmt.Errorf("read failed: %w", err)
	}

	if sheetsDir != "" {
		if err := writeSheetFiles(wb, sheetsDir); err != nil {
			return fmt.Errorf("failed to write sheet files: %w", err)
		}
		if outputPath == "" {
			return nil
		}
	}
	return writeOutput(cmd, []byte(output.SheetsMarkdown(wb)))
}

func writeOutput(cmd *cobra.Command, data []byte) error {
	if outputPath == "" {
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimRight(string(data), "\n"))
		return nil
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// writeSheetFiles writes every sheet to its own Markdown file in dir.
func writeSheetFiles(wb *models.WorkbookData, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for _, sheet := range wb.Sheets {
		single := &models.WorkbookData{BookName: wb.BookName, Sheets: []models.SheetData{sheet}}
		filename := filepath.Join(dir, sheetFileName(sheet.Name)+".md")
		if err := os.WriteFile(filename, []byte(output.SheetsMarkdown(single)), 0644); err != nil {
			return err
		}
	}

	return nil
}

// sheetFileName replaces path separators so a sheet name is a safe base name.
func sheetFileName(name string) string {
	return strings.NewReplacer("/", "_", `\`, "_").Replace(name)
}
