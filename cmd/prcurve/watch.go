package main

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/YuminosukeSato/prcurve/catalog"
	"github.com/YuminosukeSato/prcurve/pkg/errors"
	"github.com/YuminosukeSato/prcurve/pkg/log"
)

// sourceWatcher reports changes to the files of a catalog. It watches the
// parent directories, since editors often replace a file instead of writing
// it in place.
type sourceWatcher struct {
	fsw      *fsnotify.Watcher
	sources  map[string]bool
	debounce time.Duration
	logger   log.Logger
}

func newSourceWatcher(cat *catalog.Catalog, debounce time.Duration, logger log.Logger) (*sourceWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create watcher")
	}

	w := &sourceWatcher{
		fsw:      fsw,
		sources:  make(map[string]bool, cat.Len()),
		debounce: debounce,
		logger:   logger,
	}
	dirs := make(map[string]bool)
	for _, e := range cat.Entries() {
		abs, err := filepath.Abs(e.Path)
		if err != nil {
			_ = fsw.Close()
			return nil, errors.NewIOError("resolve", e.Path, err)
		}
		w.sources[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, errors.NewIOError("watch", dir, err)
		}
		logger.Debug("Watching directory", log.SourcePathKey, dir)
	}
	return w, nil
}

// relevant reports whether ev touches a catalog source with new content.
func (w *sourceWatcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return w.sources[abs]
}

// run calls onChange once per burst of relevant events, after debounce of
// quiet. It returns when ctx is done.
func (w *sourceWatcher) run(ctx context.Context, onChange func()) error {
	defer w.fsw.Close()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("Source changed", log.SourcePathKey, ev.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", err)

		case <-fire:
			fire = nil
			onChange()
		}
	}
}

// watch re-runs onChange whenever a source of the current catalog changes.
func (a *app) watch(ctx context.Context, debounce time.Duration, onChange func()) error {
	cat, err := a.cfg.BuildCatalog()
	if err != nil {
		return err
	}
	w, err := newSourceWatcher(cat, debounce, a.logs.named("watch"))
	if err != nil {
		return err
	}
	a.logger.Info("Watching catalog sources",
		log.CatalogSizeKey, cat.Len(),
		"debounce", debounce,
	)
	return w.run(ctx, onChange)
}
