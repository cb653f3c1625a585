package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// newWatchCmd creates the "watch" subcommand for auto-rebuilding on manifest
// changes.
func newWatchCmd() *cobra.Command {
	var (
		debounce     time.Duration
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "watch <manifest>",
		Short: "Auto-rebuild on manifest changes",
		Long: `Watch monitors the manifest file and rebuilds the template on every
change. Rapid edits are debounced to avoid excessive rebuilds.

Examples:
    cdk-logs watch manifest.yaml
    cdk-logs watch manifest.yaml -o template.json
    cdk-logs watch manifest.yaml --debounce 1s`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(args[0], watchOptions{
				debounce:     debounce,
				outputFormat: outputFormat,
				outputFile:   outputFile,
			})
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "Debounce duration for rapid changes")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format for build: json or yaml")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file for build (default: stdout)")

	return cmd
}

type watchOptions struct {
	debounce     time.Duration
	outputFormat string
	outputFile   string
}

// runWatch monitors the manifest and rebuilds on changes.
func runWatch(path string, opts watchOptions) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	// Watch the directory rather than the file: editors replace files on
	// save, which would otherwise drop the watch.
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	target, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	fmt.Printf("Watching: %s\n", path)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	fmt.Println("Running initial build...")
	rebuild(path, opts)

	var debounceTimer *time.Timer
	rebuildChan := make(chan struct{}, 1)

	fmt.Println("\nWatching for changes... (Ctrl+C to stop)")

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || abs != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
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
			fmt.Printf("\nChange detected at %s, rebuilding...\n", time.Now().Format("15:04:05"))
			rebuild(path, opts)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)

		case <-sigChan:
			fmt.Println("\nStopping watch")
			return nil
		}
	}
}

// rebuild runs a single build, reporting failures without stopping the
// watch loop.
func rebuild(path string, opts watchOptions) {
	if err := runBuild(path, opts.outputFormat, opts.outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "build failed: %v\n", err)
	}
}
