package reader

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// follow polls the file at the follow interval and on filesystem events
// for its directory until ctx is cancelled.
func (r *FileReader) follow(ctx context.Context, t *tail) {
	path, err := filepath.Abs(r.path)
	if err != nil {
		path = filepath.Clean(r.path)
	}

	var (
		events <-chan fsnotify.Event
		errs   <-chan error
	)
	if watcher := r.watch(path); watcher != nil {
		defer watcher.Close()
		events, errs = watcher.Events, watcher.Errors
	}

	ticker := time.NewTicker(r.options.Follow.Interval())
	defer ticker.Stop()

	r.poll(ctx, t)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			if abs, _ := filepath.Abs(event.Name); abs != path {
				continue
			}
			r.poll(ctx, t)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			r.log().LogWarn("watching source directory", map[string]string{"path": r.path, "error": err.Error()})

		case <-ticker.C:
			r.poll(ctx, t)
		}
	}
}

// watch returns a watcher on the directory holding path, or nil when
// watching is unavailable and only the ticker drives polling.
func (r *FileReader) watch(path string) *fsnotify.Watcher {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		r.log().LogDebug("file watcher unavailable, polling only", map[string]string{"path": r.path, "error": err.Error()})
		return nil
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		r.log().LogDebug("cannot watch source directory, polling only", map[string]string{"path": r.path, "error": err.Error()})
		watcher.Close()
		return nil
	}
	return watcher
}

// poll reads new data and handles the file appearing, being rotated or
// being truncated.
func (r *FileReader) poll(ctx context.Context, t *tail) {
	if ctx.Err() != nil {
		return
	}

	if t.f == nil {
		f, err := r.opener.Open(r.path)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				r.log().LogDebug("opening followed file", map[string]string{"path": r.path, "error": err.Error()})
			}
			return
		}
		if !r.swap(ctx, f) {
			return
		}
		t.attach(f)
		r.log().LogInfo("followed file appeared", map[string]string{"path": r.path})
	}

	r.read(ctx, t)

	info, err := os.Stat(r.path)
	switch {
	case err != nil:
		// Moved or removed. Keep the open file until the path comes back.
		return

	case !os.SameFile(t.info, info):
		t.flush()
		f, err := r.opener.Open(r.path)
		if err != nil {
			return
		}
		old := t.f
		if !r.swap(ctx, f) {
			return
		}
		old.Close()
		t.attach(f)
		r.log().LogInfo("followed file rotated, reopening", map[string]string{"path": r.path})
		r.notify(EventReopened, nil)
		r.read(ctx, t)

	case info.Size() < t.offset+int64(len(t.pending)):
		if _, err := t.f.Seek(0, io.SeekStart); err != nil {
			r.log().LogError("seeking after truncation", map[string]string{"path": r.path, "error": err.Error()})
			return
		}
		t.flushMessage()
		t.offset = 0
		t.pending = t.pending[:0]
		t.info = info
		r.log().LogInfo("followed file truncated, reading from the start", map[string]string{"path": r.path})
		r.notify(EventReopened, nil)
		r.read(ctx, t)
	}
}

func (r *FileReader) read(ctx context.Context, t *tail) {
	if err := t.drain(ctx); err != nil && ctx.Err() == nil {
		r.log().LogError("reading followed file", map[string]string{"path": r.path, "error": err.Error()})
		r.notify(EventReadError, err)
	}
}
