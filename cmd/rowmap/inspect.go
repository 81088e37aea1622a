package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ukaji3/rowmap-go/pkg/rowmap"
	"github.com/ukaji3/rowmap-go/pkg/rowmap/binding"
)

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [input.xlsx]",
		Short: "Summarise sheets, used ranges and header bindings as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  runInspect,
	}
	addWindowFlags(cmd)
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("file not found: %s", inputPath)
	}

	opts, err := mapperOptions()
	if err != nil {
		return err
	}

	var tm *binding.TypeMapping
	if schemaPath != "" {
		f, err := loadSchema()
		if err != nil {
			return err
		}
		recordType, err := f.RecordType()
		if err != nil {
			return err
		}
		if tm, err = binding.NewCache(opts.Logger).Get(recordType); err != nil {
			return err
		}
	}

	info, err := rowmap.Inspect(inputPath, opts, tm)
	if err != nil {
		return fmt.Errorf("inspection failed: %w", err)
	}

	data, err := toJSON(info)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	return writeOutput(data)
}
