package report

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"
)

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 500 * time.Millisecond

// Watcher rebuilds the gallery index of a screenshots directory whenever a
// screenshot or the findings report changes.
type Watcher struct {
	Dir      string
	Findings string
	Debounce time.Duration
	Log      logr.Logger

	// OnBuild, if set, is called after every successful rebuild.
	OnBuild func(*Gallery)
}

// NewWatcher returns a watcher for dir with the default debounce.
func NewWatcher(dir, findingsPath string, log logr.Logger) *Watcher {
	return &Watcher{
		Dir:      dir,
		Findings: findingsPath,
		Debounce: DefaultDebounce,
		Log:      log,
	}
}

// Build scans the directory once and writes the index.
func (w *Watcher) Build() (*Gallery, error) {
	g, err := Scan(w.Dir, w.Findings)
	if err != nil {
		return nil, err
	}
	if err := g.WriteIndex(); err != nil {
		return nil, err
	}
	if w.OnBuild != nil {
		w.OnBuild(g)
	}
	return g, nil
}

// Run builds the index, then rebuilds it after each burst of relevant
// changes until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.Dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.Dir, err)
	}
	if _, err := w.Build(); err != nil {
		return err
	}

	timer := time.NewTimer(w.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.Log.V(1).Info("change detected", "file", event.Name, "op", event.Op.String())
			timer.Reset(w.Debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.Log.Error(err, "watcher error")

		case <-timer.C:
			g, err := w.Build()
			if err != nil {
				w.Log.Error(err, "failed to rebuild gallery")
				continue
			}
			w.Log.Info("gallery rebuilt", "screenshots", g.Count())
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if w.Findings != "" && filepath.Clean(event.Name) == filepath.Clean(w.Findings) {
		return true
	}
	return strings.EqualFold(filepath.Ext(event.Name), ".png")
}
