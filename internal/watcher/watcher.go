// Package watcher watches inbox directories for record files. New and edited
// files are handed to a Handler after a quiet period; removed or moved-away
// files are reported straight away.
package watcher

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hyperjump/keepsake/pkg/utils"
	"go.uber.org/zap"
)

// DefaultDebounce is how long a file must stay quiet before it is ingested.
const DefaultDebounce = 400 * time.Millisecond

// Handler receives inbox changes. Calls may arrive from several goroutines.
type Handler interface {
	Ingest(path string)
	Remove(path string)
}

// HandlerFuncs adapts a pair of functions to Handler. Nil functions are skipped.
type HandlerFuncs struct {
	OnIngest func(path string)
	OnRemove func(path string)
}

// Ingest calls OnIngest.
func (h HandlerFuncs) Ingest(path string) {
	if h.OnIngest != nil {
		h.OnIngest(path)
	}
}

// Remove calls OnRemove.
func (h HandlerFuncs) Remove(path string) {
	if h.OnRemove != nil {
		h.OnRemove(path)
	}
}

// Config selects what an inbox watcher looks at.
type Config struct {
	// Directories are the initial inbox roots. Missing roots are created.
	Directories []string
	// Extensions filters record files; empty means every file.
	Extensions []string
	// Recursive also watches subdirectories.
	Recursive bool
}

// Watcher watches inbox roots and reports record file changes to a Handler.
type Watcher struct {
	cfg      Config
	handler  Handler
	debounce time.Duration
	logger   *zap.Logger

	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	pending  map[string]*time.Timer
	watched  map[string][]string // root -> directories added for it
	done     chan struct{}
	started  bool
	stopOnce sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithLogger sets a logger for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New creates an inbox watcher reporting to h.
func New(cfg Config, h Handler, opts ...Option) *Watcher {
	if h == nil {
		h = HandlerFuncs{}
	}
	w := &Watcher{
		cfg:      cfg,
		handler:  h,
		debounce: DefaultDebounce,
		pending:  make(map[string]*time.Timer),
		watched:  make(map[string][]string),
		done:     make(chan struct{}),
	}
	w.cfg.Directories = slices.Clone(cfg.Directories)
	for _, opt := range opts {
		opt(w)
	}
	w.logger = utils.OrNop(w.logger)
	return w
}

// Start begins watching. It runs until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.started {
		return nil
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.fsw = fsw
	w.logger.Debug("inbox watcher starting",
		zap.Strings("directories", w.cfg.Directories),
		zap.Strings("extensions", w.cfg.Extensions),
		zap.Bool("recursive", w.cfg.Recursive),
	)
	for _, root := range w.cfg.Directories {
		if err := w.watchRootLocked(root); err != nil {
			_ = fsw.Close()
			w.fsw = nil
			return err
		}
	}
	w.started = true
	go w.run(ctx, fsw)
	return nil
}

func (w *Watcher) run(ctx context.Context, fsw *fsnotify.Watcher) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Debug("inbox watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	path := ev.Name
	if !w.inInbox(path) {
		return
	}
	w.logger.Debug("inbox event", zap.String("op", ev.Op.String()), zap.String("path", path))
	switch {
	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			if ev.Has(fsnotify.Create) {
				w.watchNewDirectory(path)
			}
			return
		}
		if matchExtension(path, w.cfg.Extensions) {
			w.schedule(path)
		}
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		w.cancel(path)
		if matchExtension(path, w.cfg.Extensions) {
			w.handler.Remove(path)
		}
	}
}

// watchNewDirectory watches a directory created or moved into an inbox and
// ingests the record files already inside it.
func (w *Watcher) watchNewDirectory(dir string) {
	w.mu.Lock()
	fsw := w.fsw
	w.mu.Unlock()
	if fsw == nil {
		return
	}
	if !w.cfg.Recursive {
		return
	}
	_ = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := fsw.Add(path); err != nil {
			w.logger.Debug("failed to watch directory", zap.String("path", path), zap.Error(err))
		}
		return nil
	})
	w.sync(dir)
}

func (w *Watcher) inInbox(path string) bool {
	clean := filepath.Clean(path)
	for _, root := range w.Directories() {
		root = filepath.Clean(root)
		if root == clean || inDir(root, clean) {
			return true
		}
	}
	return false
}

func inDir(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func matchExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, e := range extensions {
		if strings.TrimPrefix(strings.ToLower(e), ".") == ext {
			return true
		}
	}
	return false
}

// schedule ingests path once it has been quiet for the debounce period.
func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		w.logger.Debug("ingesting settled inbox file", zap.String("path", path))
		w.handler.Ingest(path)
	})
}

func (w *Watcher) cancel(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.pending[path]; ok {
		t.Stop()
		delete(w.pending, path)
	}
}

// AddDirectory starts watching another inbox root. With syncExisting set,
// record files already in it are ingested in the background.
func (w *Watcher) AddDirectory(root string, syncExisting bool) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	abs = filepath.Clean(abs)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw == nil {
		return nil
	}
	for _, r := range w.cfg.Directories {
		if filepath.Clean(r) == abs {
			return nil
		}
	}
	if err := w.watchRootLocked(abs); err != nil {
		return err
	}
	w.cfg.Directories = append(w.cfg.Directories, abs)
	w.logger.Debug("inbox directory added", zap.String("path", abs), zap.Bool("sync_existing", syncExisting))
	if syncExisting {
		go w.sync(abs)
	}
	return nil
}

func (w *Watcher) watchRootLocked(root string) error {
	root = filepath.Clean(root)
	if err := os.MkdirAll(root, 0755); err != nil {
		return err
	}
	if !w.cfg.Recursive {
		if err := w.fsw.Add(root); err != nil {
			return err
		}
		w.watched[root] = []string{root}
		return nil
	}
	var dirs []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsw.Add(path); err != nil {
			return err
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return err
	}
	w.watched[root] = dirs
	return nil
}

func (w *Watcher) sync(root string) {
	w.logger.Debug("syncing inbox directory", zap.String("root", root))
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && !w.cfg.Recursive {
				return fs.SkipDir
			}
			return nil
		}
		if matchExtension(path, w.cfg.Extensions) {
			w.handler.Ingest(path)
		}
		return nil
	})
}

// RemoveDirectory stops watching root. Records already ingested from it stay.
func (w *Watcher) RemoveDirectory(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	abs = filepath.Clean(abs)
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw == nil {
		return nil
	}
	idx := slices.IndexFunc(w.cfg.Directories, func(r string) bool { return filepath.Clean(r) == abs })
	if idx < 0 {
		return nil
	}
	for _, dir := range w.watched[abs] {
		_ = w.fsw.Remove(dir)
	}
	delete(w.watched, abs)
	w.cfg.Directories = slices.Delete(w.cfg.Directories, idx, idx+1)
	w.logger.Debug("inbox directory removed", zap.String("path", abs))
	return nil
}

// Directories returns the current inbox roots.
func (w *Watcher) Directories() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return slices.Clone(w.cfg.Directories)
}

// SyncExisting ingests every record file already present in the inbox roots.
// Call it after Start to pick up files dropped while the service was down.
func (w *Watcher) SyncExisting() {
	for _, root := range w.Directories() {
		w.sync(root)
	}
}

// Stop stops watching and drops pending ingests.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return
	}
	for path, t := range w.pending {
		t.Stop()
		delete(w.pending, path)
	}
	_ = w.fsw.Close()
	w.fsw = nil
	w.started = false
	w.mu.Unlock()
	w.stopOnce.Do(func() { close(w.done) })
}
