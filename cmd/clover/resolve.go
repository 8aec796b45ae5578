package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/Ramsey-B/clover/config"
	"github.com/Ramsey-B/clover/internal/logging"
	"github.com/Ramsey-B/clover/pkg/events"
	"github.com/Ramsey-B/clover/pkg/processor"
	"github.com/Ramsey-B/clover/pkg/schema"
)

type resolveOptions struct {
	input       string
	output      string
	metricsFile string
	indent      bool
}

func newResolveCmd() *cobra.Command {
	opts := &resolveOptions{}

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Score, cluster and consolidate a batch of rows",
		Long: `Reads a JSON array of row objects (spreadsheet columns as keys),
writes the duplicate report, consolidated records and merge audit as JSON.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runResolve(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.input, "input", "i", "-", "input JSON file, - for stdin")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "-", "output JSON file, - for stdout")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics in text format to this file")
	cmd.Flags().BoolVar(&opts.indent, "indent", false, "indent JSON output")

	return cmd
}

func runResolve(cmd *cobra.Command, opts *resolveOptions) error {
	ctx := cmd.Context()

	cfg, err := config.Load(config.LoadOptions{EnvFile: envFile, ConfigFile: configFile})
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel, cfg.PrettyLogs)
	if err != nil {
		return err
	}

	rows, err := readRows(opts.input)
	if err != nil {
		return err
	}

	p := processor.NewProcessor(logger, cfg.Matching(), events.NewLogReporter(logger, cfg.ProgressLogEvery))
	result, err := p.RunRows(ctx, rows)
	if err != nil {
		if schema.IsSchemaError(err) {
			logger.WithContext(ctx).WithError(err).Error("Input is missing a mandatory column")
		}
		return err
	}

	if err := writeResult(opts.output, result, opts.indent); err != nil {
		return err
	}

	if opts.metricsFile != "" {
		if err := prometheus.WriteToTextfile(opts.metricsFile, prometheus.DefaultGatherer); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}

func readRows(path string) ([]map[string]any, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()

	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode input rows: %w", err)
	}
	return rows, nil
}

func writeResult(path string, result *processor.Result, indent bool) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	return nil
}
