package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"filplus/app"
	"filplus/internal"
	"filplus/internal/config"
	"filplus/internal/container"
	"filplus/internal/testkit"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalOptions struct {
	dataFile string
	policy   string
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:           "filplus-cli",
		Short:         "Inspect Fil+ client metrics from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.dataFile, "data", "", "Dataset file (defaults to DATA_FILE)")
	rootCmd.PersistentFlags().StringVar(&opts.policy, "duplicates", "", "Duplicate client policy: latest, first or reject (defaults to DUPLICATE_POLICY)")

	rootCmd.AddCommand(
		newClientsCmd(opts),
		newMetricsCmd(opts),
		newClientCmd(opts),
		newDistributionCmd(opts),
		newSampleCmd(),
	)
	return rootCmd
}

// loadViews loads the dataset named by flags or the environment
func loadViews(opts *globalOptions) (*app.ViewService, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if opts.dataFile != "" {
		cfg.Data.File = opts.dataFile
	}
	if opts.policy != "" {
		cfg.Data.DuplicatePolicy = strings.ToLower(opts.policy)
	}

	c, err := container.New(cfg, internal.NewLogger(internal.LogLevelWarn))
	if err != nil {
		return nil, err
	}
	if err := c.InitDataset(); err != nil {
		return nil, err
	}
	return c.Views, nil
}

func newClientsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "clients",
		Short: "List client ids in file order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			views, err := loadViews(opts)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, id := range views.Clients() {
				fmt.Fprintln(w, id)
			}
			return nil
		},
	}
}

func newMetricsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "List selectable metrics with their display names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			views, err := loadViews(opts)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			bold := color.New(color.Bold)
			fmt.Fprintln(tw, bold.Sprint("ID")+"\t"+bold.Sprint("NAME"))
			for _, option := range views.Metrics() {
				fmt.Fprintf(tw, "%s\t%s\n", option.ID, option.Name)
			}
			return tw.Flush()
		},
	}
}

func newClientCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "client [client-id]",
		Short: "Print a client's metrics with percentile ranks",
		Long: `Print the normalized metric values of one client next to the percentile
rank of each value among all clients.

Example: filplus-cli client f01234 --data assets/filplus_data.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			views, err := loadViews(opts)
			if err != nil {
				return err
			}
			rows, err := views.ClientRows(args[0])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', tabwriter.AlignRight)
			bold := color.New(color.Bold)
			fmt.Fprintln(tw, bold.Sprint("Metric")+"\t"+bold.Sprint("Value")+"\t"+bold.Sprint("Percentile")+"\t")
			for _, row := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t\n", row.Metric, row.Value, row.Percentile)
			}
			return tw.Flush()
		},
	}
}

func newDistributionCmd(opts *globalOptions) *cobra.Command {
	var bins int
	var width int

	cmd := &cobra.Command{
		Use:   "distribution [metric-id] [client-id]",
		Short: "Draw a metric's histogram across clients and mark one client",
		Long: `Bucket a metric across every client and draw the histogram as text.
The bucket holding the selected client's value is highlighted.

Example: filplus-cli distribution c_datacap_utilization_rate f01234 --bins 20`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			views, err := loadViews(opts)
			if err != nil {
				return err
			}
			view, err := views.Histogram(args[0], args[1], bins)
			if err != nil {
				return err
			}
			return app.WriteTextHistogram(cmd.OutOrStdout(), view, width)
		},
	}

	cmd.Flags().IntVar(&bins, "bins", 0, "Number of buckets (defaults to HISTOGRAM_BINS)")
	cmd.Flags().IntVar(&width, "width", 40, "Width of the longest bar in characters")

	return cmd
}

func newSampleCmd() *cobra.Command {
	var out string
	var clients int
	var seed int64
	var statDate string

	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Write a synthetic dataset in the upstream export format",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, err := time.Parse("2006-01-02", statDate)
			if err != nil {
				return fmt.Errorf("invalid stat-date (use YYYY-MM-DD): %w", err)
			}
			genConfig := testkit.DefaultClientConfig()
			genConfig.ClientCount = clients
			genConfig.Seed = seed
			genConfig.StatDate = date

			records := testkit.NewClientDataGenerator(genConfig).Generate()
			path, err := testkit.WriteCSVFile(filepath.Dir(out), filepath.Base(out), records)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %d clients to %s\n", color.GreenString("ok"), len(records), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "assets/filplus_data.csv", "Output CSV path")
	cmd.Flags().IntVar(&clients, "clients", 1500, "Number of clients")
	cmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for deterministic output")
	cmd.Flags().StringVar(&statDate, "stat-date", "2023-08-01", "stat_date written on every row")

	return cmd
}
