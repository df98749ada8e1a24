package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"devicerisk/apperrors"
	"devicerisk/exporter"
	"devicerisk/importer"
	"devicerisk/internal/config"
	"devicerisk/internal/logging"
	"devicerisk/internal/metrics"
	"devicerisk/normalization"
	"devicerisk/pipeline"
	"devicerisk/report"
)

type options struct {
	input    string
	output   string
	format   string
	rules    string
	sheet    string
	encoding string
	envFile  string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("devicerisk", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.input, "input", "Inventory.csv", "inventory export (.csv, .tsv, .txt, .xlsx)")
	fs.StringVar(&opts.output, "output", "device_analysis.xlsx", "output file, or directory for csv")
	fs.StringVar(&opts.format, "format", "", "excel, csv, json or sqlite (default: from extension, then OUTPUT_FORMAT)")
	fs.StringVar(&opts.rules, "rules", "", "YAML rules overriding the built-in tables")
	fs.StringVar(&opts.sheet, "sheet", "", "worksheet to read from an xlsx input")
	fs.StringVar(&opts.encoding, "encoding", "", "input encoding: auto, utf-8, latin-1, windows-1252")
	fs.StringVar(&opts.envFile, "env", "", "env file to load instead of .env")
	err := fs.Parse(args)
	return opts, err
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return 2
	}

	var envFiles []string
	if opts.envFile != "" {
		envFiles = append(envFiles, opts.envFile)
	}
	cfg, err := config.LoadConfig(envFiles...)
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return 1
	}
	applyFlags(cfg, opts)

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return 1
	}

	if err := analyze(ctx, cfg, opts, logger, stdout); err != nil {
		logger.Error("Run failed", "kind", apperrors.KindOf(err).String(), "error", err)
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func applyFlags(cfg *config.Config, opts options) {
	if opts.rules != "" {
		cfg.RulesFile = opts.rules
	}
	if opts.sheet != "" {
		cfg.InputSheet = opts.sheet
	}
	if opts.encoding != "" {
		cfg.InputEncoding = opts.encoding
	}
}

// outputFormat picks the explicit flag, then the output extension, then OUTPUT_FORMAT
func outputFormat(flagValue, output, configured string) (exporter.Format, error) {
	if flagValue != "" {
		return exporter.ParseFormat(flagValue)
	}
	if f, ok := exporter.FormatFromPath(output); ok {
		return f, nil
	}
	return exporter.ParseFormat(configured)
}

func analyze(ctx context.Context, cfg *config.Config, opts options, logger *slog.Logger, stdout io.Writer) error {
	format, err := outputFormat(opts.format, opts.output, cfg.OutputFormat)
	if err != nil {
		return err
	}

	rules, err := normalization.LoadRulesFile(cfg.RulesFile)
	if err != nil {
		return apperrors.NewConfigError("cannot load rules", err)
	}
	if cfg.MinPurchaseYear != 0 {
		rules.MinPurchaseYear = cfg.MinPurchaseYear
	}

	loc, err := cfg.Location()
	if err != nil {
		return apperrors.NewConfigError("invalid timezone", err)
	}

	table, err := importer.Load(opts.input, importer.LoaderConfig{
		Encoding: cfg.InputEncoding,
		Sheet:    cfg.InputSheet,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	p, err := pipeline.New(rules,
		pipeline.WithLocation(loc),
		pipeline.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	res, err := p.Run(ctx, table)
	if err != nil {
		return err
	}

	printSummary(stdout, res)

	exp := exporter.New(exporter.WithLogger(logger))
	retry := exporter.DefaultRetryConfig()
	retry.Retries = cfg.SaveRetries
	retry.Delay = cfg.SaveRetryDelay
	if err := exp.ExportWithRetry(ctx, res.Report, opts.output, format, retry); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "\nReport saved to %s (%s)\n", opts.output, format)

	if cfg.MetricsTextfile != "" {
		reg := metrics.NewRegistry()
		reg.Observe(res.Stats)
		if err := reg.WriteTextfile(cfg.MetricsTextfile); err != nil {
			logger.Warn("Failed to write metrics", "path", cfg.MetricsTextfile, "error", err)
		}
	}
	return nil
}

func printSummary(w io.Writer, res *pipeline.Result) {
	st := res.Stats
	fmt.Fprintf(w, "Processed %d devices: %d fully valid, %d invalid\n", st.Total, st.FullyValid, st.Invalid)
	fmt.Fprintf(w, "Recovery: %d attempted, %d corrected, %d merged into valid data\n",
		st.RecoveryAttempted, st.Corrected, st.Merged)
	fmt.Fprintf(w, "Analysis ready: %d devices\n", st.AnalysisReady)
	if st.Ambiguous > 0 {
		fmt.Fprintf(w, "Ambiguous status text treated as active: %d\n", st.Ambiguous)
	}

	for _, name := range []string{pipeline.PartitionQualitySummary, pipeline.PartitionRiskDashboard} {
		if p, ok := res.Report.Lookup(name); ok && p.Len() > 0 {
			fmt.Fprintln(w)
			printPartition(w, p)
		}
	}
}

func printPartition(w io.Writer, p *report.Partition) {
	fmt.Fprintln(w, strings.ToUpper(p.Name))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(p.Columns, "\t"))
	for _, row := range p.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}
