package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"vision-match/config"
	app "vision-match/internal/application"
	"vision-match/internal/container"
	"vision-match/internal/domain/entity"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Find candidate images that show the person from the reference photo",
	Long: `Detect the person in the reference photo and report every image in the
candidate directory whose person region has a similar color histogram.

Only .png, .jpg and .jpeg files directly inside the directory are scanned,
in sorted filename order. Unreadable files and frames without a person are
skipped. If the reference itself cannot be used, a notice is printed and the
result is empty.

Examples:
  vision-match match --reference ref.png --dir ./frames
  vision-match match --reference ref.png --dir ./frames --threshold 0.9 --bins 16,4,4
  vision-match match --reference ref.png --dir ./frames --workers 4 --json`,
	Args: cobra.NoArgs,
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)
	addMatchFlags(matchCmd)
	_ = matchCmd.MarkFlagRequired("reference")
}

func addMatchFlags(cmd *cobra.Command) {
	cmd.Flags().String("reference", "", "Reference image with the person to look for (required)")
	cmd.Flags().String("dir", "", "Directory with candidate images (default: CANDIDATE_DIR)")
	cmd.Flags().Float64("threshold", app.DefaultThreshold, "Minimum similarity, a candidate must score strictly above it")
	cmd.Flags().String("bins", entity.DefaultBins.String(), "Histogram bins for hue,saturation,value")
	cmd.Flags().String("metric", string(app.MetricCorrelation), "Similarity metric: correl, intersect, chisqr, bhattacharyya (all in [0,1] except correl in [-1,1]; recalibrate --threshold when changing it)")
	cmd.Flags().String("norm", string(app.NormL2), "Histogram normalization: l2 or l1")
	cmd.Flags().Int("workers", 1, "Number of candidates processed in parallel")
	cmd.Flags().Bool("json", false, "Output as JSON")
	cmd.Flags().Bool("progress", false, "Show progress bar on stderr")
}

func runMatch(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyMatchFlags(cmd, cfg); err != nil {
		return err
	}

	reference := mustGetString(cmd, "reference")
	dir := mustGetString(cmd, "dir")
	if dir == "" {
		dir = cfg.CandidateDir
	}
	if dir == "" {
		return errors.New("candidate directory is required: use --dir or set CANDIDATE_DIR")
	}

	jsonOutput := mustGetBool(cmd, "json")
	log := newLogger(cfg.LogLevel, mustGetBool(cmd, "verbose"))

	opts := []app.Option{app.WithLogger(log)}
	if mustGetBool(cmd, "progress") && !jsonOutput {
		var bar *progressbar.ProgressBar
		opts = append(opts,
			app.WithStart(func(total int) {
				bar = newMatchProgressBar(total, cmd.ErrOrStderr())
			}),
			app.WithProgress(func(string) {
				_ = bar.Add(1)
			}),
		)
	}

	pipeline, err := container.NewPipeline(cfg, opts...)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, runErr := pipeline.Run(ctx, dir, reference)

	var setupErr *entity.SetupError
	if errors.As(runErr, &setupErr) {
		// Непригодный эталон не ошибка команды: сообщаем и выводим пустой результат.
		fmt.Fprintf(cmd.ErrOrStderr(), "Notice: %v\n", setupErr)
		runErr = nil
	}

	if err := writeResult(cmd.OutOrStdout(), result, jsonOutput); err != nil {
		return err
	}
	return runErr
}

// applyMatchFlags переносит явно заданные флаги поверх конфигурации.
func applyMatchFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("threshold") {
		cfg.Match.Threshold = mustGetFloat64(cmd, "threshold")
	}
	if flags.Changed("bins") {
		cfg.Match.Bins = mustGetString(cmd, "bins")
	}
	if flags.Changed("metric") {
		cfg.Match.Metric = mustGetString(cmd, "metric")
	}
	if flags.Changed("norm") {
		cfg.Match.Norm = mustGetString(cmd, "norm")
	}
	if flags.Changed("workers") {
		cfg.Match.Workers = mustGetInt(cmd, "workers")
	}
	return cfg.Validate()
}

func newMatchProgressBar(total int, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("Matching candidates"),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("images"),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionFullWidth(),
	)
}

// writeResult выводит результат таблицей или JSON.
func writeResult(w io.Writer, result *entity.MatchResult, jsonOutput bool) error {
	if result == nil {
		result = entity.NewMatchResult()
	}
	if jsonOutput {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return fmt.Errorf("encoding JSON output: %w", err)
		}
		return nil
	}

	if result.HasMatches() {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "PATH\tSCORE\tREGION")
		for _, m := range result.Matches {
			r := m.Region
			fmt.Fprintf(tw, "%s\t%.4f\t%dx%d+%d+%d\n", m.Path, m.Score, r.Width, r.Height, r.X, r.Y)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Matched %d of %d candidates", len(result.Matches), result.Scanned)
	if len(result.Skipped) > 0 {
		fmt.Fprintf(w, ", skipped %d", len(result.Skipped))
	}
	fmt.Fprintln(w)

	for _, s := range result.Skipped {
		fmt.Fprintf(w, "  %s\n", s.Error())
	}
	return nil
}
