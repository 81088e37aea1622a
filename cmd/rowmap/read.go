package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ukaji3/rowmap-go/pkg/rowmap"
	"github.com/ukaji3/rowmap-go/pkg/rowmap/sheet"
)

func newReadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read [input.xlsx]",
		Short: "Read sheet rows as JSON records",
		Args:  cobra.ExactArgs(1),
		RunE:  runRead,
	}
	addWindowFlags(cmd)
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}

func runRead(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
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
	opts.TrackObjects = rowmap.Bool(false)

	doc, err := sheet.OpenFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", inputPath, err)
	}
	defer doc.Close()

	m := rowmap.New(opts)
	records := []any{}
	for rec, err := range m.FetchType(doc, sheetRef(f), recordType) {
		if err != nil {
			return fmt.Errorf("read failed: %w", err)
		}
		records = append(records, rec)
	}

	data, err := toJSON(records)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	return writeOutput(data)
}
