// Package watcher reports changes to configuration files for live reload.
//
// Each file is watched through its parent directory so that editors which
// save by writing a temporary file and renaming it are still noticed.
// Bursts of changes to one file are coalesced into a single event.
package watcher

import (
	"errors"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// ErrWatcherClosed is returned when using a closed watcher.
var ErrWatcherClosed = errors.New("watcher is closed")

// Event represents a file change event.
type Event struct {
	// Path is the absolute path to the changed file.
	Path string

	// Op is the operation that triggered the event.
	Op Operation

	// Time is when the last change in the burst occurred.
	Time time.Time
}

// Operation represents the type of file operation.
type Operation int

const (
	// OpWrite indicates the file was modified.
	OpWrite Operation = iota

	// OpCreate indicates a new file was created.
	OpCreate

	// OpRemove indicates the file was deleted.
	OpRemove

	// OpRename indicates the file was renamed.
	OpRename
)

// String returns the operation name.
func (op Operation) String() string {
	switch op {
	case OpWrite:
		return "write"
	case OpCreate:
		return "create"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Handler is called when a file change is detected.
type Handler func(event Event)

// Watcher monitors files for changes.
type Watcher struct {
	mu sync.RWMutex

	fsw *fsnotify.Watcher

	// Watched files and the reference count of their directories
	files map[string]bool
	dirs  map[string]int

	handlers []Handler
	logger   zerolog.Logger

	debounce  time.Duration
	pendingMu sync.Mutex
	pending   map[string]Event
	timer     *time.Timer

	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long a file must stay quiet before its change is
// reported. Zero reports every change immediately.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger for watch errors.
func WithLogger(l zerolog.Logger) Option {
	return func(w *Watcher) {
		w.logger = l
	}
}

// New creates a watcher and starts its event loop.
func New(opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]bool),
		dirs:     make(map[string]int),
		logger:   zerolog.Nop(),
		debounce: 100 * time.Millisecond,
		pending:  make(map[string]Event),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.processLoop()
	return w, nil
}

// Watch adds a file to the watch list. The file need not exist yet, but its
// directory must.
func (w *Watcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}
	if w.files[absPath] {
		return nil
	}

	dir := filepath.Dir(absPath)
	if w.dirs[dir] == 0 {
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
	}
	w.dirs[dir]++
	w.files[absPath] = true
	return nil
}

// Unwatch removes a file from the watch list.
func (w *Watcher) Unwatch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.files[absPath] {
		return nil
	}
	delete(w.files, absPath)

	dir := filepath.Dir(absPath)
	w.dirs[dir]--
	if w.dirs[dir] > 0 {
		return nil
	}
	delete(w.dirs, dir)
	if w.closed {
		return nil
	}
	return w.fsw.Remove(dir)
}

// OnChange registers a handler for file change events.
func (w *Watcher) OnChange(handler Handler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers = append(w.handlers, handler)
}

// WatchedFiles returns the watched files in sorted order.
func (w *Watcher) WatchedFiles() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	files := make([]string, 0, len(w.files))
	for path := range w.files {
		files = append(files, path)
	}
	slices.Sort(files)
	return files
}

// Close stops the watcher. Pending debounced events are discarded.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.closeCh)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()

	w.pendingMu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	clear(w.pending)
	w.pendingMu.Unlock()
	return err
}

func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return

		case fsEvent, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleFSEvent(fsEvent)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("config watch error")
		}
	}
}

func (w *Watcher) handleFSEvent(fsEvent fsnotify.Event) {
	op, ok := convertOp(fsEvent.Op)
	if !ok {
		return
	}

	path := filepath.Clean(fsEvent.Name)
	w.mu.RLock()
	watched := w.files[path]
	w.mu.RUnlock()
	if !watched {
		return
	}

	event := Event{Path: path, Op: op, Time: time.Now()}
	if w.debounce == 0 {
		w.emit(event)
		return
	}
	w.queue(event)
}

// convertOp maps an fsnotify operation. Chmod alone is not a change.
func convertOp(op fsnotify.Op) (Operation, bool) {
	switch {
	case op.Has(fsnotify.Remove):
		return OpRemove, true
	case op.Has(fsnotify.Rename):
		return OpRename, true
	case op.Has(fsnotify.Create):
		return OpCreate, true
	case op.Has(fsnotify.Write):
		return OpWrite, true
	default:
		return 0, false
	}
}

// coalesce merges a new operation into a pending one: removal wins, a
// pending create absorbs later writes, anything else takes the newest.
func coalesce(pending, next Operation) Operation {
	switch {
	case next == OpRemove:
		return OpRemove
	case pending == OpCreate && next == OpWrite:
		return OpCreate
	case pending == OpRemove && next == OpWrite:
		return OpRemove
	default:
		return next
	}
}

func (w *Watcher) queue(event Event) {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	if existing, ok := w.pending[event.Path]; ok {
		event.Op = coalesce(existing.Op, event.Op)
	}
	w.pending[event.Path] = event

	if w.timer == nil {
		w.timer = time.AfterFunc(w.debounce, w.flush)
		return
	}
	w.timer.Reset(w.debounce)
}

func (w *Watcher) flush() {
	w.pendingMu.Lock()
	events := make([]Event, 0, len(w.pending))
	for _, ev := range w.pending {
		events = append(events, ev)
	}
	clear(w.pending)
	w.pendingMu.Unlock()

	select {
	case <-w.closeCh:
		return
	default:
	}
	for _, ev := range events {
		w.emit(ev)
	}
}

// emit calls all handlers with the event. A panicking handler is logged
// and does not stop the watcher.
func (w *Watcher) emit(event Event) {
	w.mu.RLock()
	handlers := slices.Clone(w.handlers)
	w.mu.RUnlock()

	for _, handler := range handlers {
		w.safeCall(handler, event)
	}
}

func (w *Watcher) safeCall(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error().Interface("panic", r).Str("path", event.Path).Msg("config watch handler panicked")
		}
	}()
	handler(event)
}
