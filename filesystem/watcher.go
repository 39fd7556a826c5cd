package filesystem

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind describes what happened to a watched file.
type ChangeKind int

const (
	// Changed indicates the file content was modified.
	Changed ChangeKind = iota
	// Created indicates the file was created.
	Created
	// Deleted indicates the file was removed.
	Deleted
	// Renamed indicates the file was renamed.
	Renamed
)

func (k ChangeKind) String() string {
	switch k {
	case Changed:
		return "changed"
	case Created:
		return "created"
	case Deleted:
		return "deleted"
	case Renamed:
		return "renamed"
	default:
		return "unknown"
	}
}

// ChangeEvent is one filesystem event for a tracked file. Ephemeral: produced
// by the watcher, consumed once by the engine's handling path.
type ChangeEvent struct {
	Name string
	Path string
	Kind ChangeKind
	Time time.Time
}

// Watcher monitors the source tree for changes to source and manifest files.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	Events    chan ChangeEvent
	done      chan struct{}
	root      string
	ignorer   *Ignorer
}

// NewWatcher creates a recursive Watcher rooted at the given directory.
// Build output and ignored directories are never added to the watch set.
func NewWatcher(root string) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		Events:    make(chan ChangeEvent, 10), // Buffered to prevent blocking
		done:      make(chan struct{}),
		root:      root,
		ignorer:   NewIgnorer(root),
	}

	// fsnotify is not recursive, so walk and add every directory up front.
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if w.ignorer.ShouldIgnore(path, root) {
				return filepath.SkipDir
			}
			return w.fsWatcher.Add(path)
		}
		return nil
	})
	if err != nil {
		fsWatcher.Close()
		return nil, err
	}

	go w.startLoop()

	return w, nil
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() {
	close(w.done)
	w.fsWatcher.Close()
}

func (w *Watcher) startLoop() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}

			// CHMOD events are noisy and carry no content change.
			if event.Op&fsnotify.Chmod == fsnotify.Chmod {
				continue
			}

			// A newly created directory must join the watch set.
			if event.Op&fsnotify.Create == fsnotify.Create {
				info, err := os.Stat(event.Name)
				if err == nil && info.IsDir() {
					if !w.ignorer.ShouldIgnore(event.Name, w.root) {
						w.fsWatcher.Add(event.Name)
					}
					continue
				}
			}

			if !IsRelevant(event.Name) {
				continue
			}

			select {
			case w.Events <- ChangeEvent{
				Name: filepath.Base(event.Name),
				Path: event.Name,
				Kind: kindOf(event.Op),
				Time: time.Now(),
			}:
			case <-w.done:
				return
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			slog.Warn("watcher error", "err", err)
		}
	}
}

func kindOf(op fsnotify.Op) ChangeKind {
	switch {
	case op&fsnotify.Create == fsnotify.Create:
		return Created
	case op&fsnotify.Remove == fsnotify.Remove:
		return Deleted
	case op&fsnotify.Rename == fsnotify.Rename:
		return Renamed
	default:
		return Changed
	}
}
