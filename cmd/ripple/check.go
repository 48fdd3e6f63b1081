package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"ripple/internal/diag"
	"ripple/internal/diagfmt"
	"ripple/internal/driver"
	"ripple/internal/observ"
	"ripple/internal/version"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.yaml|directory>...",
	Short: "Verify program documents",
	Long:  `Verify program documents, or every *.yaml document within a directory, and report their diagnostics`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "", "output format (pretty|short|json|sarif)")
	checkCmd.Flags().Int("jobs", -1, "max parallel documents (0=one per CPU)")
	checkCmd.Flags().Bool("no-cache", false, "ignore the result cache")
	checkCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().Bool("quiet", false, "suppress the summary line")
	checkCmd.Flags().String("ui", "off", "live progress view (auto|on|off)")
}

// errFailed makes the process exit non-zero after the report is printed.
var errFailed = fmt.Errorf("verification failed")

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	format, err := flags.GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format == "" {
		format = strings.ToLower(cfg.Output.Format)
	}
	jobs, err := flags.GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if jobs >= 0 {
		cfg.Verifier.Jobs = jobs
	}
	noCache, err := flags.GetBool("no-cache")
	if err != nil {
		return fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	wae, err := flags.GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	cfg.Verifier.WarningsAsErrors = cfg.Verifier.WarningsAsErrors || wae
	withNotes, err := flags.GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := flags.GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	tracer, cleanup, err := setupTracing(cmd, cfg)
	if err != nil {
		return err
	}
	defer cleanup()
	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	paths, err := driver.Collect(args)
	if err != nil {
		return err
	}
	opts := driver.Options{Config: cfg, Tracer: tracer}
	if showTimings {
		opts.Timer = observ.NewTimer()
	}
	if cfg.Cache.Enabled && !noCache {
		if opts.Cache, err = driver.OpenDiskCache(cfg.Cache.Dir); err != nil {
			return err
		}
	}

	uiMode, err := flags.GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	withUI, err := shouldUseUI(uiMode)
	if err != nil {
		return err
	}
	var result *driver.Result
	if withUI && !tracer.Enabled() {
		result, err = runCheckWithUI(cmd.Context(), paths, opts)
	} else {
		result, err = driver.Check(cmd.Context(), paths, opts)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	color := useColor(cfg.Output.Color)
	pathMode := diagfmt.PathModeAuto
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	if err := report(out, result, format, pathMode, color, withNotes); err != nil {
		return err
	}
	if opts.Timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), opts.Timer.Summary())
	}
	if !quiet && (format == "pretty" || format == "short") {
		fmt.Fprintln(out, summaryLine(result, color))
	}
	if result.Failed() > 0 {
		return errFailed
	}
	return nil
}

func report(out io.Writer, result *driver.Result, format string, pathMode diagfmt.PathMode, color, withNotes bool) error {
	switch format {
	case "pretty":
		for i := range result.Files {
			r := &result.Files[i]
			if r.Err != nil {
				fmt.Fprintf(out, "%s: %v\n", r.Path, r.Err)
				continue
			}
			diagfmt.Pretty(out, r.Diagnostics, r.FileSet, diagfmt.PrettyOpts{
				Color:     color,
				Context:   1,
				PathMode:  pathMode,
				ShowNotes: withNotes,
			})
			if len(r.Diagnostics) > 0 {
				fmt.Fprintln(out)
			}
			expectationLines(out, r)
		}
	case "short":
		for i := range result.Files {
			r := &result.Files[i]
			if r.Err != nil {
				fmt.Fprintf(out, "%s: %v\n", r.Path, r.Err)
				continue
			}
			if s := diag.FormatShort(r.Diagnostics, r.FileSet, withNotes); s != "" {
				fmt.Fprintln(out, s)
			}
			expectationLines(out, r)
		}
	case "json":
		for i := range result.Files {
			r := &result.Files[i]
			if r.Err != nil {
				return fmt.Errorf("%s: %w", r.Path, r.Err)
			}
			err := diagfmt.JSON(out, r.Diagnostics, r.FileSet, diagfmt.JSONOpts{
				IncludePositions: true,
				PathMode:         pathMode,
				IncludeNotes:     withNotes,
			})
			if err != nil {
				return fmt.Errorf("failed to format diagnostics: %w", err)
			}
		}
	case "sarif":
		inputs := make([]diagfmt.SarifInput, 0, len(result.Files))
		for i := range result.Files {
			r := &result.Files[i]
			if r.Err != nil {
				return fmt.Errorf("%s: %w", r.Path, r.Err)
			}
			inputs = append(inputs, diagfmt.SarifInput{Diagnostics: r.Diagnostics, FileSet: r.FileSet})
		}
		meta := diagfmt.SarifRunMeta{
			ToolName:       "ripple",
			ToolVersion:    version.Plain(),
			InvocationArgs: os.Args[1:],
		}
		if err := diagfmt.Sarif(out, inputs, meta); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}

// expectationLines explains why a document with an expect list failed.
func expectationLines(out io.Writer, r *driver.FileResult) {
	for _, c := range r.Missing {
		fmt.Fprintf(out, "%s: expected %s (%s) was not reported\n", r.Path, c.ID(), c.Title())
	}
	for _, c := range r.Unexpected {
		fmt.Fprintf(out, "%s: unexpected %s (%s)\n", r.Path, c.ID(), c.Title())
	}
}

var (
	passStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	failStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	cachedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

func summaryLine(result *driver.Result, color bool) string {
	total := len(result.Files)
	failed := result.Failed()
	cached := 0
	for i := range result.Files {
		if result.Files[i].Cached {
			cached++
		}
	}
	status := fmt.Sprintf("%d passed", total-failed)
	fails := fmt.Sprintf("%d failed", failed)
	hits := fmt.Sprintf("%d cached", cached)
	if color {
		status = passStyle.Render(status)
		if failed > 0 {
			fails = failStyle.Render(fails)
		}
		hits = cachedStyle.Render(hits)
	}
	line := fmt.Sprintf("%s, %s of %d documents", status, fails, total)
	if cached > 0 {
		line += " (" + hits + ")"
	}
	return line
}
