package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arloliu/sbfs"
	"github.com/arloliu/sbfs/compress"
	"github.com/arloliu/sbfs/config"
	"github.com/arloliu/sbfs/dataset"
	"github.com/arloliu/sbfs/selection"
)

type selectFlags struct {
	data         string
	target       string
	skip         []string
	regressor    string
	cv           string
	scoring      string
	preprocessor string
	forced       []string
	initial      []string
	cacheFile    string
	codec        string
	compare      []string
}

func newSelectCmd() *cobra.Command {
	f := &selectFlags{}
	cmd := &cobra.Command{
		Use:   "select",
		Short: "Run the floating selection on a CSV dataset",
		Long: `Reads a CSV file whose header names the target and predictor columns,
runs the selection and prints the chosen predictors with their scores.

Example:
  sbfs select --data flows.csv --target FLOW --force SNOW --scoring ADJ_R2,RMSE`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.data, "data", "d", "", "CSV dataset (overrides data.path)")
	fl.StringVarP(&f.target, "target", "t", "", "target column (overrides data.target)")
	fl.StringSliceVar(&f.skip, "skip", nil, "columns to ignore")
	fl.StringVarP(&f.regressor, "regressor", "r", "", "regression backend, see 'sbfs backends'")
	fl.StringVar(&f.cv, "cv", "", "cross-validation scheme, e.g. KFOLD_5 or LOO")
	fl.StringVarP(&f.scoring, "scoring", "s", "", "comma separated scorer names, first one dominates")
	fl.StringVar(&f.preprocessor, "preprocessor", "", "preprocessing label reported with each model")
	fl.StringSliceVarP(&f.forced, "force", "f", nil, "predictors that must stay in the model")
	fl.StringSliceVar(&f.initial, "initial", nil, "starting predictors (default: all)")
	fl.StringVar(&f.cacheFile, "cache-file", "", "load and save the evaluation cache here")
	fl.StringVar(&f.codec, "codec", "", "cache snapshot codec: none, zstd, s2, lz4")
	fl.StringSliceVar(&f.compare, "compare", nil, "additional regressors searched concurrently")

	return cmd
}

// apply layers command line flags over the loaded configuration.
func (f *selectFlags) apply(c *config.Config) {
	setIf := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setIf(&c.Data.Path, f.data)
	setIf(&c.Data.Target, f.target)
	setIf(&c.Selection.Regressor, f.regressor)
	setIf(&c.Selection.CrossValidation, f.cv)
	setIf(&c.Selection.Preprocessor, f.preprocessor)
	setIf(&c.Cache.File, f.cacheFile)
	setIf(&c.Cache.Codec, f.codec)

	if f.scoring != "" {
		c.Selection.Scoring = config.SplitList(f.scoring)
	}
	if len(f.skip) > 0 {
		c.Data.Skip = f.skip
	}
	if len(f.forced) > 0 {
		c.Selection.Forced = f.forced
	}
	if len(f.initial) > 0 {
		c.Selection.Initial = f.initial
	}
	if len(f.compare) > 0 {
		c.Selection.Compare = f.compare
	}
}

func runSelect(cmd *cobra.Command, f *selectFlags) error {
	f.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Data.Path == "" || cfg.Data.Target == "" {
		return fmt.Errorf("both a dataset (--data) and a target column (--target) are required")
	}

	frame, err := readFrame(cfg.Data)
	if err != nil {
		return err
	}
	logger.Info("dataset loaded",
		zap.String("path", cfg.Data.Path),
		zap.Int("rows", frame.Rows()),
		zap.Int("predictors", frame.Len()),
	)

	session, err := sbfs.NewSession(frame,
		sbfs.WithRegressor(cfg.Selection.Regressor),
		sbfs.WithCrossValidation(cfg.Selection.CrossValidation),
		sbfs.WithScoring(cfg.Selection.Scoring...),
		sbfs.WithPreprocessor(cfg.Selection.Preprocessor),
		sbfs.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	if cfg.Cache.File != "" {
		n, err := session.LoadCache(cfg.Cache.File)
		if err != nil {
			return err
		}
		logger.Info("cache restored", zap.String("file", cfg.Cache.File), zap.Int("entries", n))
	}

	search := sbfs.Search{Forced: cfg.Selection.Forced}
	if len(cfg.Selection.Initial) > 0 {
		search.Initial = cfg.Selection.Initial
	}

	out := cmd.OutOrStdout()
	if len(cfg.Selection.Compare) > 0 {
		if err := runCompare(cmd.Context(), out, session, search); err != nil {
			return err
		}
	} else {
		res, err := session.Select(search)
		if err != nil {
			return err
		}
		printResult(out, res)
	}

	if cfg.Cache.File != "" {
		codec, err := compress.ParseType(cfg.Cache.Codec)
		if err != nil {
			return err
		}
		if err := session.SaveCache(cfg.Cache.File, codec); err != nil {
			return err
		}
		logger.Info("cache saved", zap.String("file", cfg.Cache.File), zap.Int("entries", session.Cache().Len()))
	}

	return nil
}

func runCompare(ctx context.Context, out io.Writer, session *sbfs.Session, search sbfs.Search) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	names := []string{cfg.Selection.Regressor}
	for _, name := range cfg.Selection.Compare {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}

	results, err := session.Compare(ctx, search, names...)
	if err != nil {
		return err
	}

	for i, name := range names {
		if i > 0 {
			fmt.Fprintln(out)
		}
		printResult(out, results[name])
	}

	return nil
}

func readFrame(dc config.DataConfig) (*dataset.Frame, error) {
	file, err := os.Open(dc.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	return dataset.ReadCSV(file, dc.Target, dc.Skip...)
}

func printResult(out io.Writer, res *selection.Result) {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "method:\t%s\n", res.Method)
	fmt.Fprintf(tw, "model:\t%v\n", res.Names)
	fmt.Fprintf(tw, "score:\t%s\n", res.Score)
	fmt.Fprintf(tw, "evaluations:\t%d new, %d cached, %d failed, %d degenerate\n",
		res.Stats.Evaluations, res.Stats.CacheHits, res.Stats.Failures, res.Stats.Degenerate)
	fmt.Fprintf(tw, "iterations:\t%d\n", res.Stats.Iterations)
	_ = tw.Flush()
}
