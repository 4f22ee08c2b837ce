package main

import (
	"context"
	"log/slog"
	"strings"

	"github.com/couchcryptid/bee-colony-dashboard/internal/dataset"
	"github.com/couchcryptid/bee-colony-dashboard/internal/domain"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultDataPath = "assets/intro_bees.csv"

// app carries the resolved settings shared by every subcommand.
type app struct {
	v      *viper.Viper
	logger *slog.Logger
}

// newRootCmd builds the command tree. Persistent flags resolve through viper
// so each can also be set as BEEVIEWS_<FLAG>, e.g. BEEVIEWS_DATA.
func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:               "beeviews",
		Short:             "Explore the bee colony survey from the command line.",
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		Run: func(cmd *cobra.Command, _ []string) {
			_ = cmd.Help()
		},
	}

	flags := root.PersistentFlags()
	flags.String("data", defaultDataPath, "Dataset path: .csv or .parquet, local or s3://bucket/key")
	flags.String("s3-region", "us-east-1", "AWS region for s3:// data paths")
	flags.String("s3-endpoint", "", "Custom S3 endpoint, e.g. a MinIO URL")
	flags.Bool("s3-path-style", false, "Use path-style S3 addressing")
	flags.Bool("no-color", false, "Disable colored output")
	flags.Bool("verbose", false, "Log loader activity to stderr")
	_ = a.v.BindPFlags(flags)

	a.v.SetEnvPrefix("BEEVIEWS")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	root.AddCommand(
		a.optionsCmd(),
		a.viewsCmd(),
		a.validateCmd(),
		a.exportCmd(),
		a.chartCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if a.v.GetBool("no-color") {
		color.NoColor = true
	}
	level := slog.LevelWarn
	if a.v.GetBool("verbose") {
		level = slog.LevelInfo
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	return nil
}

func (a *app) load(ctx context.Context) (*domain.Dataset, error) {
	loader := dataset.NewLoader(dataset.S3Options{
		Region:    a.v.GetString("s3-region"),
		Endpoint:  a.v.GetString("s3-endpoint"),
		PathStyle: a.v.GetBool("s3-path-style"),
	}, a.logger)
	return loader.Load(ctx, a.v.GetString("data"))
}

// addSelectionFlags registers --year and --affected-by on cmd.
func addSelectionFlags(cmd *cobra.Command) {
	cmd.Flags().Int("year", 0, "Survey year (default: first year in the data)")
	cmd.Flags().StringSlice("affected-by", nil, "Cause(s) to include; repeat or comma-separate (default: first cause in the data)")
}

// selectionFromFlags fills unset selection flags from the dataset defaults.
func selectionFromFlags(cmd *cobra.Command, d *domain.Dataset) (domain.Selection, error) {
	sel := d.Options().Default

	year, err := cmd.Flags().GetInt("year")
	if err != nil {
		return domain.Selection{}, err
	}
	if cmd.Flags().Changed("year") {
		sel.Year = year
	}

	categories, err := cmd.Flags().GetStringSlice("affected-by")
	if err != nil {
		return domain.Selection{}, err
	}
	if len(categories) > 0 {
		sel.Categories = domain.NewCategorySet(categories...)
	}
	return sel, nil
}
