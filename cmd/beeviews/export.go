package main

import (
	"fmt"
	"os"

	"github.com/couchcryptid/bee-colony-dashboard/internal/dataset"
	"github.com/spf13/cobra"
)

func (a *app) exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the loaded dataset as Parquet.",
		Long: `Convert the dataset to Parquet with the same column names as the CSV.
The result can be served directly with DATA_PATH or --data.

Example:
  beeviews export --data assets/intro_bees.csv --out intro_bees.parquet`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, _ := cmd.Flags().GetString("out")
			if out == "" {
				return fmt.Errorf("--out is required")
			}

			d, err := a.load(cmd.Context())
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := dataset.WriteParquet(f, d.Records()); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", out, err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d records to %s\n", d.Len(), out)
			return err
		},
	}
	cmd.Flags().String("out", "", "Destination .parquet file")
	return cmd
}
