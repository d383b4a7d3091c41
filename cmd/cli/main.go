package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"riskexplorer/adapters/api"
	"riskexplorer/adapters/chart"
	"riskexplorer/adapters/excel"
	"riskexplorer/app"
	"riskexplorer/domain/dataset"
	"riskexplorer/internal"
	"riskexplorer/internal/config"
	"riskexplorer/internal/filter"
	"riskexplorer/internal/testkit"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type sourceFlags struct {
	file  string
	url   string
	local bool

	ranges []string
	equals []string
	ins    []string
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "riskexplorer-cli",
		Short:         "Filter, summarize and chart a heart disease CSV without the web UI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}

	rootCmd.AddCommand(
		newExportCmd(),
		newChartCmd(),
		newDescribeCmd(),
		newGenerateCmd(),
	)
	return rootCmd
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.file, "file", "", "CSV file to read")
	cmd.Flags().StringVar(&f.url, "url", "", "Public CSV URL to fetch")
	cmd.Flags().BoolVar(&f.local, "local", false, "Read the default local file (DEFAULT_CSV_PATH)")
	cmd.Flags().StringArrayVar(&f.ranges, "range", nil, "Numeric filter col=lo:hi (repeatable)")
	cmd.Flags().StringArrayVar(&f.equals, "equal", nil, "Single choice filter col=value (repeatable)")
	cmd.Flags().StringArrayVar(&f.ins, "in", nil, "Multi choice filter col=a,b (repeatable, an empty list leaves the column unfiltered)")
}

func newExportCmd() *cobra.Command {
	var src sourceFlags
	var format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the filtered table as CSV or XLSX",
		Long: `Load a table, apply the filters and write the rows that remain.

Example: riskexplorer-cli export --local --range age=40:60 --equal sex=1 --format xlsx --out filtered_data.xlsx`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			exportFormat, err := app.ParseExportFormat(format)
			if err != nil {
				return err
			}
			view, err := run(cmd, src, dataset.ChartSpec{}, true)
			if err != nil {
				return err
			}
			return writeOutput(cmd, out, func(w io.Writer) error {
				return app.Export(w, view.Filtered, exportFormat)
			})
		},
	}

	src.register(cmd)
	cmd.Flags().StringVar(&format, "format", "csv", "Output format: csv|xlsx")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default stdout)")
	return cmd
}

func newChartCmd() *cobra.Command {
	var src sourceFlags
	var kind, x, y, out string

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render a chart of the filtered table as SVG",
		Long: `Render one of Histogram, Boxplot, Barplot or Scatterplot for the filtered rows.

Example: riskexplorer-cli chart --file heart.csv --kind Scatterplot --x age --y chol --out chart.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			chartKind := dataset.ParseChartKind(kind)
			if !strings.EqualFold(string(chartKind), strings.TrimSpace(kind)) {
				return fmt.Errorf("unknown chart kind %q", kind)
			}
			view, err := run(cmd, src, dataset.ChartSpec{X: x, Y: y, Kind: chartKind}, false)
			if err != nil {
				return err
			}
			if view.ChartError != "" {
				return fmt.Errorf("%s", view.ChartError)
			}
			if view.Rendered == nil {
				return fmt.Errorf("%s needs a Y column", view.Chart.Kind)
			}
			return writeOutput(cmd, out, func(w io.Writer) error {
				_, err := w.Write(view.Rendered.SVG)
				return err
			})
		},
	}

	src.register(cmd)
	cmd.Flags().StringVar(&kind, "kind", string(dataset.ChartHistogram), "Chart type")
	cmd.Flags().StringVar(&x, "x", "", "X column (default first column)")
	cmd.Flags().StringVar(&y, "y", "", "Y column")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default stdout)")
	return cmd
}

func newDescribeCmd() *cobra.Command {
	var src sourceFlags

	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print per column summary statistics of the filtered table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := run(cmd, src, dataset.ChartSpec{}, true)
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "rows\t%d of %d\n\n", view.Filtered.Nrow(), view.Table.Nrow())
			fmt.Fprintln(tw, "column\ttype\tcount\tmissing\tmean\tstd\tmin\tmedian\tmax\tskew\toutliers\tunique\ttop")
			for _, col := range view.Summary {
				if num := col.Numeric; num != nil {
					fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.2f\t%.2f\t%g\t%g\t%g\t%.2f\t%d\t\t\n",
						col.Name, col.Type, col.Count, col.Missing, num.Mean, num.StdDev, num.Min, num.Median, num.Max,
						num.Skewness, num.Outliers)
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t\t\t\t\t\t\t\t%d\t%s\n",
					col.Name, col.Type, col.Count, col.Missing, col.Unique, col.Top)
			}
			return tw.Flush()
		},
	}

	src.register(cmd)
	return cmd
}

func newGenerateCmd() *cobra.Command {
	genConfig := testkit.DefaultHeartConfig()
	var out string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic heart disease CSV for demos and local testing",
		Long: `Generate a deterministic 14 column table shaped like the UCI heart disease data.
Without --header the file uses the same headerless layout as the original heart.csv.

Example: riskexplorer-cli generate --rows 303 --seed 42 --out heart.csv`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if genConfig.Rows <= 0 {
				return fmt.Errorf("--rows must be positive")
			}
			if genConfig.MissingRate < 0 || genConfig.MissingRate > 1 {
				return fmt.Errorf("--missing-rate must be between 0 and 1")
			}
			return writeOutput(cmd, out, testkit.NewHeartGenerator(genConfig).WriteCSV)
		},
	}

	cmd.Flags().IntVar(&genConfig.Rows, "rows", genConfig.Rows, "Number of patients")
	cmd.Flags().Int64Var(&genConfig.Seed, "seed", genConfig.Seed, "Random seed for deterministic output")
	cmd.Flags().BoolVar(&genConfig.Header, "header", false, "Write a header row")
	cmd.Flags().Float64Var(&genConfig.MissingRate, "missing-rate", 0, "Probability of a missing ca or thal cell")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default stdout)")
	return cmd
}

// run wires the pipeline from the environment and executes it once
func run(cmd *cobra.Command, flags sourceFlags, spec dataset.ChartSpec, skipChart bool) (*app.View, error) {
	appConfig, err := config.Load()
	if err != nil {
		return nil, err
	}
	internal.DefaultLogger.SetLevel(internal.ParseLogLevel(appConfig.Log.Level))

	src, err := flags.source()
	if err != nil {
		return nil, err
	}
	selections, err := parseFilters(flags.ranges, flags.equals, flags.ins)
	if err != nil {
		return nil, err
	}

	fetcher := api.NewURLReader(api.ReaderConfig{
		Timeout:       appConfig.Fetch.Timeout,
		MaxConcurrent: appConfig.Fetch.MaxConcurrent,
		MaxBodyBytes:  appConfig.Fetch.MaxBodyBytes,
	})
	loader := app.NewLoader(excel.NewDataReader(), fetcher, nil, appConfig.Data.DefaultCSVPath, appConfig.Data.MaxUploadBytes)
	explorer := app.NewExplorerService(loader, chart.NewRenderer(appConfig.Chart.Width, appConfig.Chart.Height))

	view, err := explorer.Run(cmd.Context(), app.Request{
		Source:     src,
		Selections: selections,
		Chart:      spec,
		SkipChart:  skipChart,
	})
	if err != nil {
		return nil, err
	}
	if !view.Loaded {
		return nil, fmt.Errorf("%s", view.Notice.Message)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), view.Notice.Message)
	return view, nil
}

// source picks exactly one of --file, --url and --local
func (f sourceFlags) source() (app.Source, error) {
	set := 0
	for _, on := range []bool{f.file != "", f.url != "", f.local} {
		if on {
			set++
		}
	}
	if set != 1 {
		return app.Source{}, fmt.Errorf("exactly one of --file, --url or --local is required")
	}

	switch {
	case f.url != "":
		return app.Source{Kind: dataset.SourceURL, URL: f.url}, nil
	case f.local:
		return app.Source{Kind: dataset.SourceLocal}, nil
	default:
		data, err := os.ReadFile(f.file)
		if err != nil {
			return app.Source{}, fmt.Errorf("read %s: %w", f.file, err)
		}
		if len(data) == 0 {
			return app.Source{}, fmt.Errorf("%s is empty", f.file)
		}
		return app.Source{Kind: dataset.SourceUpload, UploadName: filepath.Base(f.file), UploadData: data}, nil
	}
}

// parseFilters turns col=lo:hi, col=value and col=a,b flags into selections
func parseFilters(ranges, equals, ins []string) (filter.Selections, error) {
	sels := filter.Selections{}
	for _, raw := range ranges {
		name, value, err := splitFilter("range", raw)
		if err != nil {
			return nil, err
		}
		loStr, hiStr, ok := strings.Cut(value, ":")
		if !ok {
			return nil, fmt.Errorf("invalid --range %q: want col=lo:hi", raw)
		}
		lo, err := strconv.ParseFloat(strings.TrimSpace(loStr), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --range %q: %w", raw, err)
		}
		hi, err := strconv.ParseFloat(strings.TrimSpace(hiStr), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --range %q: %w", raw, err)
		}
		sels[name] = filter.Range(lo, hi)
	}
	for _, raw := range equals {
		name, value, err := splitFilter("equal", raw)
		if err != nil {
			return nil, err
		}
		sels[name] = filter.Equal(value)
	}
	for _, raw := range ins {
		name, value, err := splitFilter("in", raw)
		if err != nil {
			return nil, err
		}
		values := []string{}
		if value != "" {
			for _, v := range strings.Split(value, ",") {
				values = append(values, strings.TrimSpace(v))
			}
		}
		sels[name] = filter.In(values...)
	}
	return sels, nil
}

func splitFilter(flag, raw string) (string, string, error) {
	name, value, ok := strings.Cut(raw, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", "", fmt.Errorf("invalid --%s %q: want col=value", flag, raw)
	}
	return name, value, nil
}

func writeOutput(cmd *cobra.Command, path string, write func(io.Writer) error) error {
	if path == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", path)
	return nil
}
