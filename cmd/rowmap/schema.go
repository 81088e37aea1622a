package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/ukaji3/rowmap-go/pkg/rowmap/binding"
	"github.com/ukaji3/rowmap-go/pkg/rowmap/schema"
)

var dump bool

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema [schema.yaml]",
		Short: "Print the column bindings a schema resolves to",
		Args:  cobra.ExactArgs(1),
		RunE:  runSchema,
	}
	cmd.Flags().BoolVar(&dump, "dump", false, "Dump the full bindings for debugging")
	return cmd
}

func runSchema(cmd *cobra.Command, args []string) error {
	f, err := schema.LoadFile(args[0])
	if err != nil {
		return err
	}
	recordType, err := f.RecordType()
	if err != nil {
		return err
	}
	tm, err := binding.NewCache(nil).Get(recordType)
	if err != nil {
		return err
	}

	if dump {
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, MaxDepth: 3}
		cfg.Fdump(os.Stdout, tm.Columns())
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tNAME\tINDEX\tTYPE\tDIRECTION\tFORMAT")
	for _, c := range tm.Columns() {
		index := "-"
		if c.Index >= 0 {
			index = fmt.Sprint(c.Index + 1)
		}
		format := c.StyleFormat().Custom
		if format == "" && c.StyleFormat().Builtin != 0 {
			format = fmt.Sprint(c.StyleFormat().Builtin)
		}
		typ := c.Type.String()
		if c.Nullable {
			typ = "*" + typ
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", c.Field.Name, c.Name, index, typ, c.Direction, format)
	}
	return w.Flush()
}
