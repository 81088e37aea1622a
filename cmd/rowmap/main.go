// Package main provides the CLI entry point for rowmap.
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ukaji3/rowmap-go/pkg/rowmap"
	"github.com/ukaji3/rowmap-go/pkg/rowmap/schema"
	"github.com/ukaji3/rowmap-go/pkg/rowmap/sheet"
)

var (
	verbose    bool
	schemaPath string
	sheetName  string
	sheetIndex int
	noHeader   bool
	headerRow  int
	rowRange   string
	keepBlank  bool
	outputPath string
	pretty     bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rowmap",
		Short: "Map spreadsheet rows to records and back",
		Long: `rowmap reads sheet rows into JSON records and writes JSON records
into sheet rows, using a YAML schema describing the columns.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug events to stderr")

	rootCmd.AddCommand(newReadCmd(), newWriteCmd(), newSchemaCmd(), newInspectCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// addWindowFlags registers the flags shared by commands that touch rows.
func addWindowFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&schemaPath, "schema", "", "YAML schema describing the columns")
	cmd.Flags().StringVar(&sheetName, "sheet", "", "Sheet name (default: schema sheet, else --sheet-index)")
	cmd.Flags().IntVar(&sheetIndex, "sheet-index", 0, "0-based sheet position")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "Sheet has no header row; columns are matched by index")
	cmd.Flags().IntVar(&headerRow, "header-row", 1, "1-based header row")
	cmd.Flags().StringVar(&rowRange, "range", "", "Restrict data rows to a range, e.g. A4:F6 or 4:6")
	cmd.Flags().BoolVar(&keepBlank, "keep-blank-rows", false, "Do not skip blank rows")
}

func mapperOptions() (rowmap.Options, error) {
	opts := rowmap.DefaultOptions()
	opts.HasHeader = rowmap.Bool(!noHeader)
	opts.HeaderRow = headerRow - 1
	opts.SkipBlankRows = rowmap.Bool(!keepBlank)
	opts.Logger = slog.Default()
	if rowRange != "" {
		minRow, maxRow, err := sheet.ParseRowRange(rowRange)
		if err != nil {
			return opts, fmt.Errorf("invalid --range: %w", err)
		}
		opts.MinRow = minRow
		opts.MaxRow = rowmap.Int(maxRow)
	}
	return opts, nil
}

func sheetRef(f *schema.File) rowmap.SheetRef {
	switch {
	case sheetName != "":
		return rowmap.SheetName(sheetName)
	case f != nil && f.Sheet != "":
		return rowmap.SheetName(f.Sheet)
	}
	return rowmap.SheetIndex(sheetIndex)
}

func loadSchema() (*schema.File, error) {
	if schemaPath == "" {
		return nil, fmt.Errorf("--schema is required")
	}
	return schema.LoadFile(schemaPath)
}

func toJSON(v any) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

func writeOutput(data []byte) error {
	if outputPath == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
