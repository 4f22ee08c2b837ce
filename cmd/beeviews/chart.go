package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/couchcryptid/bee-colony-dashboard/internal/adapter/render"
	"github.com/couchcryptid/bee-colony-dashboard/internal/domain"
	"github.com/spf13/cobra"
)

func (a *app) chartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "chart {bar|line|pie}",
		Short:     "Render one chart of a selection to PNG.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{render.KindBar, render.KindLine, render.KindPie},
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.load(cmd.Context())
			if err != nil {
				return err
			}
			sel, err := selectionFromFlags(cmd, d)
			if err != nil {
				return err
			}
			width, _ := cmd.Flags().GetInt("width")
			height, _ := cmd.Flags().GetInt("height")
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				out = args[0] + ".png"
			}

			r := render.NewRenderer(width, height, nil)
			var buf bytes.Buffer
			if err := r.Render(args[0], domain.ComputeViews(d, sel), &buf); err != nil {
				if errors.Is(err, render.ErrNoData) {
					return fmt.Errorf("%d / %v has no data to chart", sel.Year, []string(sel.Categories))
				}
				return err
			}
			if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", out)
			return err
		},
	}
	addSelectionFlags(cmd)
	cmd.Flags().String("out", "", "Destination file (default: <kind>.png)")
	cmd.Flags().Int("width", 800, "Chart width in pixels")
	cmd.Flags().Int("height", 500, "Chart height in pixels")
	return cmd
}
