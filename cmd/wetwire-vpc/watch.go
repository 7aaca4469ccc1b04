package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/lex00/wetwire-vpc-go/internal/linter"
	"github.com/lex00/wetwire-vpc-go/internal/pipeline"
)

// newWatchCmd creates the "watch" subcommand for regenerating on topology
// changes.
func newWatchCmd() *cobra.Command {
	var (
		lintOnly bool
		debounce time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the template when the topology file changes",
		Long: `Watch monitors the topology file and regenerates the template on change.

The watch command:
- Lints the topology on each change
- Rebuilds if lint reports no errors (unless --lint-only)
- Debounces rapid changes to avoid excessive rebuilds

Examples:
    wetwire-vpc watch
    wetwire-vpc watch --env prod --lint-only
    wetwire-vpc watch --debounce 1s`,
		Args: cobra.NoArgs,
	}

	rf := addRunFlags(cmd)
	cmd.Flags().StringVarP(&rf.inputs.OutputDir, "output-dir", "o", rf.inputs.OutputDir, "Directory the template is written to")
	cmd.Flags().StringVar(&rf.inputs.Format, "template-format", rf.inputs.Format, "Template format: json or yaml")
	cmd.Flags().BoolVar(&lintOnly, "lint-only", false, "Only run lint, skip build")
	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "Debounce duration for rapid changes")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		gen, err := rf.generator(cmd)
		if err != nil {
			return err
		}
		return runWatch(cmd.Context(), cmd.OutOrStdout(), gen, rf.inputs, watchOptions{
			lintOnly: lintOnly,
			debounce: debounce,
		})
	}

	return cmd
}

type watchOptions struct {
	lintOnly bool
	debounce time.Duration
}

// runWatch monitors the topology file and runs lint/build on changes until
// ctx is done or the process is interrupted.
func runWatch(ctx context.Context, w io.Writer, gen *pipeline.Generator, in pipeline.Inputs, opts watchOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	target, err := filepath.Abs(in.ConfigPath)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", in.ConfigPath, err)
	}

	// Editors often replace the file, so the directory is watched.
	dir := filepath.Dir(target)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	fmt.Fprintf(w, "Watching: %s\n", target)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	fmt.Fprintln(w, "Running initial lint/build...")
	runLintAndBuild(ctx, w, gen, in, opts)

	var debounceTimer *time.Timer
	rebuildChan := make(chan struct{}, 1)

	fmt.Fprintln(w, "\nWatching for changes... (Ctrl+C to stop)")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isTopologyChange(event, target) {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(opts.debounce, func() {
				select {
				case rebuildChan <- struct{}{}:
				default:
				}
			})

		case <-rebuildChan:
			fmt.Fprintf(w, "\n[%s] Change detected, rebuilding...\n", time.Now().Format("15:04:05"))
			runLintAndBuild(ctx, w, gen, in, opts)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)

		case <-ctx.Done():
			return nil

		case <-sigChan:
			fmt.Fprintln(w, "\nStopping watch...")
			return nil
		}
	}
}

// isTopologyChange reports whether event writes or creates target.
func isTopologyChange(event fsnotify.Event, target string) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return name == target
}

// runLintAndBuild lints the topology and, unless lint fails or lintOnly is
// set, regenerates the template. It reports whether every step succeeded.
func runLintAndBuild(ctx context.Context, w io.Writer, gen *pipeline.Generator, in pipeline.Inputs, opts watchOptions) bool {
	result, err := linter.LintFile(in.ConfigPath, linter.Options{})
	if err != nil {
		fmt.Fprintf(w, "Lint error: %v\n", err)
		return false
	}
	for _, issue := range result.Issues {
		fmt.Fprintf(w, "%s: %s [%s]\n", issue.Severity, issue.Message, issue.Rule)
	}
	if !result.Success {
		fmt.Fprintln(w, "Lint failed, skipping build")
		return false
	}
	fmt.Fprintln(w, "Lint passed")

	if opts.lintOnly {
		return true
	}

	res, path, err := gen.Generate(ctx, in)
	if err != nil {
		fmt.Fprintf(w, "Build error: %v\n", err)
		return false
	}
	fmt.Fprintf(w, "Build successful, wrote %s (%d resources)\n", path, res.Network.Graph.Count())
	return true
}
