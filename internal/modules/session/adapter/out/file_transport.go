package out

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	sessionout "lockin/internal/modules/session/port/out"
	"lockin/internal/platform/logging"
	"lockin/internal/platform/safestore"
)

// FileTransport turns filesystem events on a slot file into change signals,
// so every process watching the data directory hears about every write. The
// write itself is the signal; Announce has nothing to do.
type FileTransport struct {
	dir    string
	logger *slog.Logger
}

func NewFileTransport(dir string, logger *slog.Logger) sessionout.ChangeTransport {
	return &FileTransport{dir: dir, logger: logging.OrDiscard(logger)}
}

func (t *FileTransport) Announce(context.Context, string) {}

func (t *FileTransport) Listen(key string, onChange func()) (func(), error) {
	if err := os.MkdirAll(t.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create watch dir: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(t.dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", t.dir, err)
	}

	name := safestore.FileName(key)
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Base(event.Name) != name {
					continue
				}
				if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
					onChange()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				t.logger.Warn("file transport: watch error", "dir", t.dir, "error", err)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			_ = watcher.Close()
			wg.Wait()
		})
	}, nil
}
