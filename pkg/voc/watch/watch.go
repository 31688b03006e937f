// Package watch re-runs an analysis when its input files change.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce absorbs bursts of writes from editors and exporters.
const DefaultDebounce = 500 * time.Millisecond

// Func is called with the paths that changed since the last call.
type Func func(ctx context.Context, changed []string) error

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.log = l }
}

// Watcher watches files and directories and calls fn once changes settle.
// Files are watched through their parent directory so atomic renames by
// editors are still seen. Directories are watched two levels deep, which
// covers transcript folders (root/<participant>_.../transcript.json).
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	dirs     map[string]struct{} // watched wholesale
	files    map[string]struct{} // watched individually
	debounce time.Duration
	fn       Func
	pending  map[string]time.Time
	log      *zap.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	triggers int
}

// New creates a watcher over paths. A debounce <= 0 uses DefaultDebounce.
func New(paths []string, debounce time.Duration, fn Func, opts ...Option) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("watch: no paths")
	}
	if fn == nil {
		return nil, fmt.Errorf("watch: nil callback")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{
		dirs:     make(map[string]struct{}),
		files:    make(map[string]struct{}),
		debounce: debounce,
		fn:       fn,
		pending:  make(map[string]time.Time),
		log:      zap.NewNop(),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, o := range opts {
		o(w)
	}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("watch %s: %w", p, err)
		}
		if info.IsDir() {
			w.dirs[abs] = struct{}{}
		} else {
			w.files[abs] = struct{}{}
		}
	}
	return w, nil
}

// Start begins watching. It does not block.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for _, dir := range w.watchDirs() {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.log.Debug("watching", zap.String("dir", dir))
	}
	w.watcher = fw
	w.running = true
	for _, sub := range w.subdirs() {
		w.addSubdir(sub)
	}

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	if err := w.watcher.Close(); err != nil {
		w.log.Warn("closing watcher", zap.Error(err))
	}
}

// Triggers returns how many times fn has been called.
func (w *Watcher) Triggers() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.triggers
}

func (w *Watcher) watchDirs() []string {
	set := make(map[string]struct{})
	for d := range w.dirs {
		set[d] = struct{}{}
	}
	for f := range w.files {
		set[filepath.Dir(f)] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for d := range set {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// subdirs lists the direct subdirectories of every watched directory.
func (w *Watcher) subdirs() []string {
	var out []string
	for d := range w.dirs {
		entries, err := os.ReadDir(d)
		if err != nil {
			w.log.Warn("listing watched dir", zap.String("dir", d), zap.Error(err))
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				out = append(out, filepath.Join(d, e.Name()))
			}
		}
	}
	sort.Strings(out)
	return out
}

// addSubdir adds one nested directory; failures only lose that folder.
func (w *Watcher) addSubdir(dir string) {
	if err := w.watcher.Add(dir); err != nil {
		w.log.Warn("watch subdir", zap.String("dir", dir), zap.Error(err))
		return
	}
	w.log.Debug("watching", zap.String("dir", dir))
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))
		case now := <-ticker.C:
			w.flush(ctx, now)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return
	}
	if !w.relevant(ev.Name) {
		return
	}
	w.log.Debug("change", zap.String("path", ev.Name), zap.String("op", ev.Op.String()))
	if ev.Has(fsnotify.Create) {
		if _, top := w.dirs[filepath.Dir(ev.Name)]; top {
			if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
				w.addSubdir(ev.Name)
			}
		}
	}
	w.mu.Lock()
	w.pending[ev.Name] = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) relevant(name string) bool {
	if _, ok := w.files[name]; ok {
		return true
	}
	parent := filepath.Dir(name)
	if _, ok := w.dirs[parent]; ok {
		return true
	}
	_, ok := w.dirs[filepath.Dir(parent)]
	return ok
}

func (w *Watcher) flush(ctx context.Context, now time.Time) {
	w.mu.Lock()
	var changed []string
	latest := time.Time{}
	for _, t := range w.pending {
		if t.After(latest) {
			latest = t
		}
	}
	if len(w.pending) > 0 && now.Sub(latest) >= w.debounce {
		for p := range w.pending {
			changed = append(changed, p)
		}
		w.pending = make(map[string]time.Time)
		w.triggers++
	}
	w.mu.Unlock()

	if len(changed) == 0 {
		return
	}
	sort.Strings(changed)
	w.log.Info("inputs changed, re-running", zap.Strings("paths", changed))
	if err := w.fn(ctx, changed); err != nil {
		w.log.Error("re-run failed", zap.Error(err))
	}
}
