package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

// RunFunc is called each time the watcher triggers a regeneration.
type RunFunc func(ctx context.Context) (*RunResult, error)

// RunResult describes a single regeneration.
type RunResult struct {
	// Outputs are the files written by the run.
	Outputs []string
	// Bytes is the total size of the generated documents.
	Bytes int
	// Unchanged reports that every output already held the generated bytes.
	Unchanged bool
}

// Options configures the watch behaviour.
type Options struct {
	// Files are the source documents to watch. Their parent directories are
	// watched so editors that replace files by renaming are followed.
	Files []string

	// Debounce is the quiet period before triggering a rebuild.
	Debounce time.Duration

	// Logger is used for structured logging.
	Logger *slog.Logger

	// Out is the writer for user-facing status messages.
	Out io.Writer
}

// DefaultOptions returns sensible default watch options.
func DefaultOptions() Options {
	return Options{
		Debounce: 500 * time.Millisecond,
		Logger:   slog.Default(),
		Out:      os.Stderr,
	}
}

// Run starts the file watcher and blocks until the context is cancelled
// or a SIGINT/SIGTERM signal is received. runFn is called once up front and
// again after every debounced change to one of opts.Files.
func Run(ctx context.Context, opts Options, runFn RunFunc) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Out == nil {
		opts.Out = io.Discard
	}

	if len(opts.Files) == 0 {
		return fmt.Errorf("no files to watch")
	}

	files, err := absFiles(opts.Files)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range parentDirs(files) {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching directory %q: %w", dir, err)
		}
	}

	// Trap SIGINT / SIGTERM for graceful shutdown.
	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(opts.Out, "watching %s (debounce=%s)\n", strings.Join(opts.Files, ", "), opts.Debounce)

	doRun(sigCtx, opts, runFn, "(initial)")

	debouncer := NewDebouncer(opts.Debounce, func(path string) {
		doRun(sigCtx, opts, runFn, path)
	})
	debouncer.logger = opts.Logger
	defer debouncer.Stop()

	for {
		select {
		case <-sigCtx.Done():
			fmt.Fprintln(opts.Out, "\nshutting down watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isRelevant(event, files) {
				continue
			}

			opts.Logger.Debug("source changed", slog.String("path", event.Name), slog.String("op", event.Op.String()))
			debouncer.Trigger(event.Name)

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			opts.Logger.Error("watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// doRun executes a single regeneration and prints the status line.
func doRun(ctx context.Context, opts Options, runFn RunFunc, trigger string) {
	now := time.Now().Format("15:04:05")

	result, err := runFn(ctx)
	if err != nil {
		fmt.Fprintf(opts.Out, "[%s] %s → ERROR: %v\n", now, trigger, err)
		return
	}

	if result == nil || result.Unchanged {
		fmt.Fprintf(opts.Out, "[%s] %s → OK (no changes)\n", now, trigger)
		return
	}

	fmt.Fprintf(opts.Out, "[%s] %s → OK (%d bytes to %s)\n",
		now, trigger, result.Bytes, strings.Join(result.Outputs, ", "))
}

func absFiles(files []string) (map[string]struct{}, error) {
	out := make(map[string]struct{}, len(files))

	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("resolving %q: %w", f, err)
		}

		out[abs] = struct{}{}
	}

	return out, nil
}

// parentDirs returns the distinct directories holding files.
func parentDirs(files map[string]struct{}) []string {
	seen := make(map[string]struct{}, len(files))
	dirs := make([]string, 0, len(files))

	for f := range files {
		dir := filepath.Dir(f)
		if _, ok := seen[dir]; ok {
			continue
		}

		seen[dir] = struct{}{}
		dirs = append(dirs, dir)
	}

	return dirs
}

// isRelevant reports whether event touches one of the watched files.
// Chmod-only events and events on sibling files are ignored.
func isRelevant(event fsnotify.Event, files map[string]struct{}) bool {
	if event.Op == 0 {
		return false
	}

	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}

	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}

	_, ok := files[abs]

	return ok
}
