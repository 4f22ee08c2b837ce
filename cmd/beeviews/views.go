package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/couchcryptid/bee-colony-dashboard/internal/domain"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

func (a *app) viewsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "views",
		Short: "Print the map, bar, line and pie views for a selection.",
		Long: `Compute the dashboard views for one year and a set of causes.

The bar table ranks states by mean impact for the selected year, with each
state's share of the pie. The trend table shows the yearly mean per state
across every year for the selected causes.

Examples:
  beeviews views --year 2015 --affected-by Pesticides
  beeviews views --year 2017 --affected-by Disease,Varroa_mites --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			sel, err := selectionFromFlags(cmd, d)
			if err != nil {
				return err
			}
			views := domain.ComputeViews(d, sel)

			output, _ := cmd.Flags().GetString("output")
			switch output {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(views)
			case "text", "":
				return writeViews(cmd.OutOrStdout(), views)
			default:
				return fmt.Errorf("unknown output %q: want text or json", output)
			}
		},
	}
	addSelectionFlags(cmd)
	cmd.Flags().StringP("output", "o", "text", "Output format: text or json")
	return cmd
}

func writeViews(w io.Writer, v domain.Views) error {
	bold := color.New(color.Bold).SprintFunc()

	if _, err := fmt.Fprintln(w, bold(v.Map.Title)); err != nil {
		return err
	}
	if v.Empty() {
		_, err := fmt.Fprintln(w, color.New(color.FgYellow).Sprint("No rows match this year and cause."))
		if err != nil {
			return err
		}
	} else if err := writeBarTable(w, v); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\n%s\n", bold(v.Line.Title+" (all years)")); err != nil {
		return err
	}
	return writeLineTable(w, v.Line)
}

func writeBarTable(w io.Writer, v domain.Views) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()
	table.Header([]string{"Rank", "State", "Code", "Mean %", "Share %"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	shares := make(map[string]float64, len(v.Pie.Slices))
	for _, s := range v.Pie.Slices {
		shares[s.StateCode] = s.Share
	}

	data := make([][]string, 0, len(v.Bar.Bars))
	for i, b := range v.Bar.Bars {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			b.State,
			b.StateCode,
			strconv.FormatFloat(b.Value, 'f', 2, 64),
			strconv.FormatFloat(shares[b.StateCode], 'f', 1, 64),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

func writeLineTable(w io.Writer, line domain.LineView) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	headers := []string{"State"}
	col := make(map[int]int, len(line.Years))
	for i, y := range line.Years {
		headers = append(headers, strconv.Itoa(y))
		col[y] = i + 1
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	data := make([][]string, 0, len(line.Series))
	for _, s := range line.Series {
		row := make([]string, len(headers))
		row[0] = s.State
		for i := 1; i < len(row); i++ {
			row[i] = "-"
		}
		for _, p := range s.Points {
			row[col[p.Year]] = strconv.FormatFloat(p.Value, 'f', 2, 64)
		}
		data = append(data, row)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}
