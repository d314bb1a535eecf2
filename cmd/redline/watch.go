package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/aretw0/lifecycle/pkg/core/worker"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/caldew/redline"
)

var (
	watchInbox   string
	watchOutbox  string
	watchChanges string
)

// settleDelay is how long a file must be quiet before it is processed.
// Copies into the inbox arrive as a burst of write events.
const settleDelay = 500 * time.Millisecond

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch an inbox directory and redline documents as they arrive",
	Long: `Watch a directory for new documents and run the pipeline on each
one, writing the redlined copy to the outbox directory. The change set
is read once at startup. Runs until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		inbox := firstNonEmpty(watchInbox, cfg.Watch.Inbox)
		outbox := firstNonEmpty(watchOutbox, cfg.Watch.Outbox)
		changes := firstNonEmpty(watchChanges, cfg.Watch.Changes)
		if inbox == "" || changes == "" {
			fmt.Fprintln(os.Stderr, "Error: --inbox and --changes are required (or set watch.inbox and watch.changes in the config)")
			cmd.Usage()
			os.Exit(1)
		}
		if outbox == "" {
			outbox = inbox
		}

		payload, err := os.ReadFile(changes)
		if err != nil {
			fatal("Failed to read changes", err)
		}
		if err := os.MkdirAll(outbox, 0o755); err != nil {
			fatal("Failed to create outbox", err)
		}

		eng, err := buildEngine(false)
		if err != nil {
			fatal("Failed to locate redline engine", err)
		}

		w := newWatchWorker(inbox, outbox, payload, runOptions(eng, cfg.Fallback), slog.Default())

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := w.Start(ctx); err != nil {
			fatal("Failed to start watcher", err)
		}
		fmt.Printf("Watching %s, writing redlines to %s. Ctrl-C to stop.\n", inbox, outbox)

		<-ctx.Done()

		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := w.Stop(stopCtx); err != nil {
			fatal("Failed to stop watcher", err)
		}
		fmt.Println("Watcher stopped.")
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringVar(&watchInbox, "inbox", "", "Directory to watch for incoming documents")
	watchCmd.Flags().StringVar(&watchOutbox, "outbox", "", "Directory for redlined outputs (default inbox)")
	watchCmd.Flags().StringVar(&watchChanges, "changes", "", "Change set applied to every document")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

type watchWorker struct {
	*worker.BaseWorker
	inbox   string
	outbox  string
	payload []byte
	opts    []redline.Option
	logger  *slog.Logger
	watcher *fsnotify.Watcher
	cancel  context.CancelFunc

	mu      sync.Mutex
	pending map[string]*time.Timer
}

func newWatchWorker(inbox, outbox string, payload []byte, opts []redline.Option, logger *slog.Logger) *watchWorker {
	return &watchWorker{
		BaseWorker: worker.NewBaseWorker("inbox-watcher"),
		inbox:      inbox,
		outbox:     outbox,
		payload:    payload,
		opts:       opts,
		logger:     logger,
		pending:    make(map[string]*time.Timer),
	}
}

func (w *watchWorker) Start(ctx context.Context) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}

	status := w.State().Status
	if status != worker.StatusCreated && status != worker.StatusPending {
		return fmt.Errorf("watcher already started (status: %s)", status)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(w.inbox); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", w.inbox, err)
	}
	w.watcher = watcher

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.SetStatus(worker.StatusRunning)
	return w.StartFunc(runCtx, w.run)
}

func (w *watchWorker) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.StopRequested = true
		w.cancel()
	}

	return w.BaseWorker.Stop(ctx)
}

func (w *watchWorker) State() worker.State {
	return w.ExportState(func(s *worker.State) {
		s.Metadata = map[string]string{
			worker.MetadataType: string(worker.TypeGoroutine),
		}
	})
}

func (w *watchWorker) run(ctx context.Context) error {
	defer w.watcher.Close()
	defer w.stopPending()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher events channel closed")
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if w.shouldIgnore(event.Name) {
				continue
			}
			w.schedule(ctx, event.Name)

		case wErr, ok := <-w.watcher.Errors:
			if !ok {
				if w.StopRequested || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("fsnotify error", "error", wErr)
		}
	}
}

// shouldIgnore filters out non-documents and our own outputs, which would
// otherwise loop when the outbox is the inbox.
func (w *watchWorker) shouldIgnore(path string) bool {
	name := filepath.Base(path)
	if !strings.EqualFold(filepath.Ext(name), ".docx") {
		return true
	}
	if strings.HasSuffix(strings.TrimSuffix(name, filepath.Ext(name)), ".redlined") {
		return true
	}
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~$")
}

// schedule resets the settle timer for path; the document is processed
// once events stop arriving for it.
func (w *watchWorker) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(settleDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		lifecycle.Go(ctx, func(ctx context.Context) error {
			return w.process(ctx, path)
		}, lifecycle.WithErrorHandler(func(err error) {
			w.logger.Error("processing panic", "path", path, "error", err)
		}))
	})
}

func (w *watchWorker) stopPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
}

func (w *watchWorker) process(ctx context.Context, path string) error {
	w.logger.Info("document received", "path", path)

	original, err := os.ReadFile(path)
	if err != nil {
		w.logger.Error("read failed", "path", path, "error", err)
		return err
	}

	res, err := redline.RunJSON(ctx, original, w.payload, w.opts...)
	if err != nil {
		w.logger.Error("redlining failed", "path", path, "error", err)
		return err
	}

	out := filepath.Join(w.outbox, filepath.Base(outputPath(path, "")))
	if err := writeOutput(out, res.Redlined); err != nil {
		w.logger.Error("write failed", "path", out, "error", err)
		return err
	}

	w.logger.Info("document redlined",
		"path", path,
		"output", out,
		"applied", res.Applied,
		"unmatched", len(res.Unmatched),
	)
	return nil
}
