package main

import (
	"encoding/json"
	"fmt"
	"iter"
	"os"
	"reflect"

	"github.com/spf13/cobra"

	"github.com/ukaji3/rowmap-go/pkg/rowmap"
	"github.com/ukaji3/rowmap-go/pkg/rowmap/sheet"
)

func newWriteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write [input.json]",
		Short: "Write JSON records into sheet rows",
		Long: `write stores a JSON array of records into a sheet. When the output
workbook exists it is updated in place; other sheets are preserved.`,
		Args: cobra.ExactArgs(1),
		RunE: runWrite,
	}
	addWindowFlags(cmd)
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output xlsx path")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}

func runWrite(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	f, err := loadSchema()
	if err != nil {
		return err
	}
	recordType, err := f.RecordType()
	if err != nil {
		return err
	}
	opts, err := mapperOptions()
	if err != nil {
		return err
	}

	records := reflect.New(reflect.SliceOf(recordType))
	if err := json.Unmarshal(data, records.Interface()); err != nil {
		return fmt.Errorf("failed to decode records: %w", err)
	}

	var doc *sheet.Workbook
	if _, err := os.Stat(outputPath); err == nil {
		doc, err = sheet.OpenFile(outputPath)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", outputPath, err)
		}
	} else {
		doc = sheet.NewWorkbook()
	}
	defer doc.Close()

	m := rowmap.New(opts)
	if err := m.SaveType(doc, sheetRef(f), recordType, elements(records.Elem())); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}
	return doc.SaveAs(outputPath)
}

func elements(slice reflect.Value) iter.Seq[reflect.Value] {
	return func(yield func(reflect.Value) bool) {
		for i := 0; i < slice.Len(); i++ {
			if !yield(slice.Index(i)) {
				return
			}
		}
	}
}
