package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/crimson-sun/logrotate/internal/model"
)

// Watch runs once, then watches the parent directories of every entry and
// rotates an entry again whenever its file is written or recreated. Changes
// are debounced and handled one entry at a time on the calling goroutine.
// Below-threshold checks are not written to the output. Watch returns when
// ctx is cancelled or a fatal error occurs without continue-on-error.
func (p *Pipeline) Watch(ctx context.Context) error {
	entries, err := p.load(ctx)
	if err != nil {
		return fmt.Errorf("pipeline watch: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("pipeline watch: %w", err)
	}
	defer fsw.Close()

	byPath := make(map[string]model.LogPathEntry, len(entries))
	dirs := make(map[string]bool)
	for _, e := range entries {
		key := entryKey(e.Path)
		byPath[key] = e
		dir := filepath.Dir(key)
		if dirs[dir] {
			continue
		}
		if err := fsw.Add(dir); err != nil {
			p.logger.Warn("cannot watch directory", "dir", dir, "error", err)
			continue
		}
		dirs[dir] = true
	}
	p.logger.Info("watching log directories", "dirs", len(dirs), "entries", len(entries))

	if _, err := p.Run(ctx); err != nil && ctx.Err() == nil && !p.continueOnError {
		return fmt.Errorf("pipeline watch: %w", err)
	}

	buf := newChangeBuffer(p.debounce)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if _, watched := byPath[entryKey(ev.Name)]; watched {
				buf.add(entryKey(ev.Name))
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			p.logger.Warn("watcher error", "error", err)
		case <-buf.flushCh():
			for _, path := range buf.drain() {
				if err := p.rotateOne(ctx, byPath[path]); err != nil {
					return fmt.Errorf("pipeline watch: %w", err)
				}
			}
		}
	}
}

// rotateOne rotates a single entry in response to a change. It returns an
// error only when the watch loop must stop.
func (p *Pipeline) rotateOne(ctx context.Context, entry model.LogPathEntry) error {
	outcome, err := p.engine.Rotate(ctx, entry)
	if err == nil && outcome.Status == model.StatusSkipped && outcome.Error == "" {
		return nil
	}
	if werr := p.output.Write(ctx, outcome); werr != nil {
		return fmt.Errorf("output: %w", werr)
	}
	if err == nil || ctx.Err() != nil {
		return nil
	}
	if model.IsFatal(err) && !p.continueOnError {
		return err
	}
	p.logger.Warn("continuing after failure", "path", entry.Path, "error", err)
	return nil
}
