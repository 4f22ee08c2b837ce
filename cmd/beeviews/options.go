package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/couchcryptid/bee-colony-dashboard/internal/domain"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func (a *app) optionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "options",
		Short: "List the selectable years and causes.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.load(cmd.Context())
			if err != nil {
				return err
			}

			output, _ := cmd.Flags().GetString("output")
			switch output {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(d.Options())
			case "text", "":
				return writeOptions(cmd, d.Len(), d.Options())
			default:
				return fmt.Errorf("unknown output %q: want text or json", output)
			}
		},
	}
	cmd.Flags().StringP("output", "o", "text", "Output format: text or json")
	return cmd
}

func writeOptions(cmd *cobra.Command, records int, opts domain.Options) error {
	w := cmd.OutOrStdout()

	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()
	table.Header([]string{"Option", "Values"})

	years := make([]string, 0, len(opts.Years))
	for _, y := range opts.Years {
		years = append(years, strconv.Itoa(y))
	}
	data := [][]string{
		{"Year", strings.Join(years, ", ")},
		{"Affected by", strings.Join(opts.Categories, ", ")},
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "%d records. Default selection: %d / %s\n",
		records, opts.Default.Year, strings.Join(opts.Default.Categories, ", "))
	return err
}
