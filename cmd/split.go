package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/brogergvhs/panelcut/internal/batch"
	"github.com/brogergvhs/panelcut/internal/config"
	"github.com/brogergvhs/panelcut/internal/pages"
	"github.com/brogergvhs/panelcut/internal/segment"
	"github.com/brogergvhs/panelcut/internal/ui"
	"github.com/brogergvhs/panelcut/internal/util"

	"github.com/spf13/cobra"
)

var (
	// input selection
	flagInput    string
	flagRange    string
	flagList     string
	flagAllowExt string

	// segmentation
	flagMinHeight      int
	flagGapSize        int
	flagColorThreshold int
	flagBackground     string
	flagPrefix         string

	// runtime
	flagOutput     string
	flagWorkers    int
	flagDryRun     bool
	flagSkipBroken bool
	flagQuiet      bool
	flagCBZ        bool
	flagKeepFrames bool
)

func newSplitCmd() *cobra.Command {
	splitCmd := &cobra.Command{
		Use:   "split [image or folder...]",
		Short: "Split page images into panel frames. Uses the defaults from the selected config, overwritten by CLI flags",
		RunE:  runSplit,
	}

	// input selection
	splitCmd.Flags().StringVar(&flagInput, "input", "", "page image or folder of page images")
	splitCmd.Flags().StringVar(&flagRange, "range", "", "split a range of pages by index (e.g. 5-12)")
	splitCmd.Flags().StringVar(&flagList, "list", "", "split specific page indices (e.g. 1,3,5)")
	splitCmd.Flags().StringVar(&flagAllowExt, "allow-ext", "", "image extensions read from folders (e.g. \"jpg|png\")")

	// segmentation
	splitCmd.Flags().IntVar(&flagMinHeight, "min-height", segment.DefaultMinFrameHeight, "minimum frame height in pixels")
	splitCmd.Flags().IntVar(&flagGapSize, "gap-size", segment.DefaultMinGapSize, "minimum height of a separating band in pixels")
	splitCmd.Flags().IntVar(&flagColorThreshold, "color-threshold", segment.DefaultColorThreshold, "per-channel tolerance for background colours")
	splitCmd.Flags().StringVar(&flagBackground, "background", "", "background colours (e.g. \"#000000,#ffffff\" or \"0,0,0|255,255,255\")")
	splitCmd.Flags().StringVar(&flagPrefix, "prefix", "", "frame file name prefix (default \"manga-frame\")")

	// runtime
	splitCmd.Flags().StringVar(&flagOutput, "output", "", "output folder for frames")
	splitCmd.Flags().IntVar(&flagWorkers, "workers", 1, "pages decoded and analysed in parallel")
	splitCmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "print the detected frames, write nothing")
	splitCmd.Flags().BoolVar(&flagSkipBroken, "skip-broken", false, "skip pages that fail instead of stopping")
	splitCmd.Flags().BoolVar(&flagQuiet, "quiet", false, "hide progress bars")
	splitCmd.Flags().BoolVar(&flagCBZ, "cbz", false, "also pack the frames into a CBZ file")
	splitCmd.Flags().BoolVar(&flagKeepFrames, "keep-frames", true, "keep the PNG frames after packing a CBZ")

	return splitCmd
}

func init() {
	rootCmd.AddCommand(newSplitCmd())
}

func splitOptions(cmd *cobra.Command) (config.Options, error) {
	opts := config.Options{
		IgnoreConfig:   flagIgnoreConfig,
		Debug:          flagDebug,
		Input:          flagInput,
		Output:         flagOutput,
		SkipBroken:     flagSkipBroken,
		DefaultRange:   flagRange,
		DefaultList:    flagList,
		FilenamePrefix: flagPrefix,
		CBZ:            flagCBZ,
	}

	flags := cmd.Flags()
	if flags.Changed("workers") {
		opts.Workers = flagWorkers
	}
	if flags.Changed("min-height") {
		opts.MinFrameHeight = &flagMinHeight
	}
	if flags.Changed("gap-size") {
		opts.MinGapSize = &flagGapSize
	}
	if flags.Changed("color-threshold") {
		opts.ColorThreshold = &flagColorThreshold
	}
	if flags.Changed("keep-frames") {
		opts.KeepFrames = &flagKeepFrames
	}
	if flagBackground != "" {
		colors, err := segment.ParseRGBList(flagBackground)
		if err != nil {
			return opts, err
		}
		opts.BackgroundColors = colors
	}

	return opts, nil
}

func runSplit(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	opts, err := splitOptions(cmd)
	if err != nil {
		return err
	}

	cfg, usedPath, err := config.LoadMerged(opts)
	if err != nil {
		return err
	}
	if flagAllowExt != "" {
		cfg.AllowExt = splitExt(flagAllowExt)
	}

	logSvc := ui.NewLogger(cfg.Debug)
	if usedPath != "" {
		fmt.Fprintf(out, "Config file: %s\n", usedPath)
	}

	inputs := args
	if len(inputs) == 0 && cfg.Input != "" {
		inputs = []string{cfg.Input}
	}
	if len(inputs) == 0 {
		return fmt.Errorf("missing --input and no input in config")
	}

	all, err := collectPages(inputs, cfg.AllowExt)
	if err != nil {
		return err
	}
	if len(all) == 0 {
		return fmt.Errorf("no images found in %s", strings.Join(inputs, ", "))
	}

	selected, err := pages.Select(all, cfg.DefaultRange, cfg.DefaultList)
	if err != nil {
		return err
	}

	seg, err := segment.New(cfg.Segment(), segment.NewCounter(), logSvc)
	if err != nil {
		return err
	}

	if flagDryRun {
		if cfg.CBZ {
			logSvc.Warnf("--cbz has no effect with --dry-run")
		}
		return dryRun(contextOf(cmd), out, seg, logSvc, cfg, selected)
	}

	fmt.Fprintln(out, "Full config:")
	cfg.Print(out)
	fmt.Fprintln(out)

	if err := os.MkdirAll(cfg.Output, 0755); err != nil {
		return fmt.Errorf("cannot create output folder: %w", err)
	}
	stop := util.SetupInterruptHandler(cfg.Output)
	defer stop()

	pm := ui.NewProgressManager(out, flagQuiet)
	defer pm.Close()

	runner := batch.New(seg, logSvc, batch.Options{
		OutputDir:  cfg.Output,
		Workers:    cfg.Workers,
		SkipBroken: cfg.SkipBroken,
		Track: func(name string) batch.PageTracker {
			return pm.Register(name)
		},
	})

	start := time.Now()
	results, runErr := runner.Run(contextOf(cmd), selected)
	pm.Close()

	for _, pr := range results {
		if pr.Result != nil {
			logSvc.Page(pr.Page.Path, pr.Result.FramesCount, len(pr.Result.Written), pr.Result.Bytes)
		}
	}

	if runErr == nil && cfg.CBZ {
		if err := packCBZ(out, cfg, inputs, batch.Written(results)); err != nil {
			return err
		}
	}

	printSummary(out, runner.Stats(), len(selected), time.Since(start))
	return runErr
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func collectPages(inputs []string, allowExt []string) ([]pages.Page, error) {
	var files []string

	for _, in := range inputs {
		info, err := os.Stat(in)
		if err != nil {
			return nil, fmt.Errorf("input %s: %w", in, err)
		}
		if !info.IsDir() {
			files = append(files, in)
			continue
		}

		found, err := pages.Discover(in, allowExt)
		if err != nil {
			return nil, err
		}
		for _, p := range found {
			files = append(files, p.Path)
		}
	}

	return pages.FromPaths(files), nil
}

func dryRun(ctx context.Context, out io.Writer, seg *segment.Segmenter, log batch.Logger, cfg *config.Config, selected []pages.Page) error {
	minHeight := seg.Options().MinFrameHeight

	runner := batch.New(seg, log, batch.Options{
		OutputDir:  cfg.Output,
		Workers:    cfg.Workers,
		SkipBroken: cfg.SkipBroken,
		DryRun:     true,
	})

	results, err := runner.Run(ctx, selected)

	fmt.Fprintf(out, "Dry-run: %d pages selected.\n\n", len(selected))
	for _, pr := range results {
		if pr.Err != nil {
			fmt.Fprintf(out, "%3d) %s\n    error: %v\n", pr.Page.Index, pr.Page.Name, pr.Err)
			continue
		}

		fmt.Fprintf(out, "%3d) %s  [%d frames]\n", pr.Page.Index, pr.Page.Name, pr.Result.FramesCount)
		for _, fr := range pr.Result.FrameRanges {
			mark := ""
			if fr.Height() < minHeight {
				mark = "  (too short, skipped)"
			}
			fmt.Fprintf(out, "    %s %dpx%s\n", fr, fr.Height(), mark)
		}
	}

	return err
}

func packCBZ(out io.Writer, cfg *config.Config, inputs []string, files []string) error {
	if len(files) == 0 {
		return nil
	}

	name := pages.Sanitize(filepath.Base(filepath.Clean(inputs[0])))
	if len(inputs) == 1 {
		if info, err := os.Stat(inputs[0]); err == nil && !info.IsDir() {
			name = pages.Sanitize(strings.TrimSuffix(filepath.Base(inputs[0]), filepath.Ext(inputs[0])))
		}
	}
	if name == "" {
		name = cfg.FilenamePrefix
	}

	cbzPath := filepath.Join(cfg.Output, name+".cbz")
	if err := util.CreateCBZ(files, cbzPath); err != nil {
		return err
	}
	fmt.Fprintf(out, "CBZ: %s\n", cbzPath)

	if !cfg.KeepFrames {
		if err := util.RemoveFiles(files); err != nil {
			return fmt.Errorf("cannot remove frames after packing: %w", err)
		}
	}

	return nil
}

func printSummary(out io.Writer, st *ui.Stats, selected int, elapsed time.Duration) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Split Summary:")
	fmt.Fprintf(out, "Pages:    %d/%d\n", st.Pages.Load(), selected)
	if failed := st.FailedPages.Load(); failed > 0 {
		fmt.Fprintf(out, "Failed:   %d\n", failed)
	}
	fmt.Fprintf(out, "Frames:   %d\n", st.FramesWritten.Load())
	if skipped := st.Skipped(); skipped > 0 {
		fmt.Fprintf(out, "Skipped:  %s below minimum height\n", util.Plural(skipped, "frame"))
	}
	fmt.Fprintf(out, "Data:     %s\n", util.Human(st.TotalBytes.Load()))
	fmt.Fprintf(out, "Time:     %s\n", elapsed.Round(time.Millisecond))
	fmt.Fprintf(out, "\n%s extracted from %s.\n",
		util.Plural(st.FramesWritten.Load(), "frame"), util.Plural(st.Pages.Load(), "image"))
}

func splitExt(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '|' || r == ',' || r == ' '
	})

	out := []string{}
	for _, f := range fields {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" {
			out = append(out, f)
		}
	}

	return out
}
