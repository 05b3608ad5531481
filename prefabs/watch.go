package prefabs

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

const debounce = 100 * time.Millisecond

// Watcher collects the prefab files changed on disk until the game loop
// polls them. Names are base names, the same keys Load accepts.
type Watcher struct {
	fs   *fsnotify.Watcher
	stop chan struct{}
	done chan struct{}
	once sync.Once

	mu      sync.Mutex
	pending map[string]struct{}
	last    map[string]time.Time
}

func NewWatcher(dirs ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("prefab watcher: %w", err)
	}
	for _, dir := range dirs {
		if err := fw.Add(dir); err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("prefab watcher: watch %s: %w", dir, err)
		}
	}

	w := &Watcher{
		fs:      fw,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
		pending: make(map[string]struct{}),
		last:    make(map[string]time.Time),
	}
	go w.run()
	log.Debug("watching prefabs", "dirs", dirs)
	return w, nil
}

func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}
	var err error
	w.once.Do(func() {
		close(w.stop)
		err = w.fs.Close()
		<-w.done
	})
	return err
}

// Poll returns the sorted prefab names changed since the last call. It never
// blocks.
func (w *Watcher) Poll() []string {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.pending) == 0 {
		return nil
	}
	out := make([]string, 0, len(w.pending))
	for name := range w.pending {
		out = append(out, name)
	}
	clear(w.pending)
	slices.Sort(out)
	return out
}

func (w *Watcher) record(path string, now time.Time) {
	name := filepath.Base(path)
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.last[name]; ok && now.Sub(t) < debounce {
		return
	}
	w.last[name] = now
	w.pending[name] = struct{}{}
}

func (w *Watcher) run() {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 || !isSpecFile(event.Name) {
				continue
			}
			w.record(event.Name, time.Now())
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			log.Warn("prefab watcher", "err", err)
		case <-w.stop:
			return
		}
	}
}

func isSpecFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}
