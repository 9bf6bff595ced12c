package kvstore

import (
	"context"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"
)

type fileStamp struct {
	mod  time.Time
	size int64
}

// Watcher polls a FileStore directory and reports keys whose documents
// changed, appeared or disappeared since the previous poll.
type Watcher struct {
	dir      string
	interval time.Duration
	logger   *slog.Logger
}

func NewWatcher(store *FileStore, interval time.Duration, logger *slog.Logger) *Watcher {
	return &Watcher{dir: store.Dir(), interval: interval, logger: logger}
}

// Watch emits batches of changed keys until ctx is cancelled, then closes
// the channel. The first poll only records a baseline.
func (w *Watcher) Watch(ctx context.Context) <-chan []string {
	out := make(chan []string, 1)
	prev := w.snapshot()
	go func() {
		defer close(out)
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			cur := w.snapshot()
			changed := diff(prev, cur)
			prev = cur
			if len(changed) == 0 {
				continue
			}
			select {
			case out <- changed:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}

func (w *Watcher) snapshot() map[string]fileStamp {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if !os.IsNotExist(err) && w.logger != nil {
			w.logger.Warn("storage watch failed", "dir", w.dir, "error", err)
		}
		return map[string]fileStamp{}
	}
	stamps := make(map[string]fileStamp, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !strings.HasSuffix(name, fileExt) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		stamps[strings.TrimSuffix(name, fileExt)] = fileStamp{mod: info.ModTime(), size: info.Size()}
	}
	return stamps
}

func diff(prev, cur map[string]fileStamp) []string {
	var changed []string
	for key, stamp := range cur {
		if old, ok := prev[key]; !ok || !old.mod.Equal(stamp.mod) || old.size != stamp.size {
			changed = append(changed, key)
		}
	}
	for key := range prev {
		if _, ok := cur[key]; !ok {
			changed = append(changed, key)
		}
	}
	sort.Strings(changed)
	return changed
}
