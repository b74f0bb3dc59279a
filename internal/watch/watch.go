// Package watch reruns recap when a repository's branch tips move.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/suykerbuyk/recap/internal/logging"
)

// DefaultDebounce is the quiet period after the last ref change.
const DefaultDebounce = 2 * time.Second

// GitDir resolves the git directory of a working-tree root. A .git file
// (linked worktree or submodule) is followed to its gitdir target.
func GitDir(root string) (string, error) {
	p := filepath.Join(root, ".git")
	info, err := os.Stat(p)
	if err != nil {
		return "", errors.Wrapf(err, "no git directory in %s", root)
	}
	if info.IsDir() {
		return p, nil
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return "", errors.Wrap(err, "read .git file")
	}
	target, ok := strings.CutPrefix(strings.TrimSpace(string(data)), "gitdir:")
	if !ok {
		return "", errors.Newf("malformed .git file in %s", root)
	}
	target = strings.TrimSpace(target)
	if !filepath.IsAbs(target) {
		target = filepath.Join(root, target)
	}
	return filepath.Clean(target), nil
}

// Run watches gitDir and gitDir/refs/heads until ctx is done. Each burst of
// events is debounced, then fn runs. Runs never overlap.
func Run(ctx context.Context, gitDir string, debounce time.Duration, fn func(context.Context), logger *zap.Logger) error {
	logger = logging.OrNop(logger)
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create watcher")
	}
	defer w.Close()

	if err := w.Add(gitDir); err != nil {
		return errors.Wrapf(err, "watch %s", gitDir)
	}
	heads := filepath.Join(gitDir, "refs", "heads")
	if err := addTree(w, heads); err != nil {
		logger.Debug("watch refs/heads", zap.Error(err))
	}

	var running sync.Mutex
	deb := NewDebouncer(debounce)
	defer deb.Cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ignored(ev) {
				continue
			}
			if ev.Op&fsnotify.Create != 0 && strings.HasPrefix(ev.Name, heads) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := addTree(w, ev.Name); err != nil {
						logger.Debug("watch new ref dir", zap.String("dir", ev.Name), zap.Error(err))
					}
				}
			}
			logger.Debug("ref event", zap.String("path", ev.Name), zap.Stringer("op", ev.Op))
			deb.Trigger(func() {
				running.Lock()
				defer running.Unlock()
				if ctx.Err() != nil {
					return
				}
				fn(ctx)
			})
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch", zap.Error(err))
		}
	}
}

// ignored drops lock-file churn and permission-only changes.
func ignored(ev fsnotify.Event) bool {
	if strings.HasSuffix(ev.Name, ".lock") {
		return true
	}
	return ev.Op == fsnotify.Chmod
}

func addTree(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
