// Package localfiles discovers audio files in local directories and keeps
// the list current as files come and go.
package localfiles

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/edumarques81/stellar-radio/internal/domain/station"
)

var audioExtensions = map[string]bool{
	".mp3": true, ".flac": true, ".ogg": true, ".oga": true, ".opus": true,
	".m4a": true, ".aac": true, ".wav": true, ".aiff": true, ".aif": true,
	".wma": true, ".ape": true, ".wv": true, ".mpc": true, ".dsf": true, ".dff": true,
	".m3u": true, ".m3u8": true, ".pls": true,
}

// IsAudioFile reports whether path has a playable audio or playlist extension.
func IsAudioFile(path string) bool {
	return audioExtensions[strings.ToLower(filepath.Ext(path))]
}

// FileURI returns the URI handed to the local player for path.
func FileURI(path string) string {
	return (&url.URL{Scheme: "file", Path: path}).String()
}

// Watcher tracks the audio files under a set of directories.
type Watcher struct {
	dirs      []string
	fsWatcher *fsnotify.Watcher

	mu    sync.RWMutex
	files map[string]station.Station

	onChange func(station.List)
}

// NewWatcher creates a watcher for dirs. onChange receives the full list
// after every change and may be nil.
func NewWatcher(dirs []string, onChange func(station.List)) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fs watcher: %w", err)
	}
	return &Watcher{
		dirs:      dirs,
		fsWatcher: fsWatcher,
		files:     make(map[string]station.Station),
		onChange:  onChange,
	}, nil
}

// Scan walks every directory, registers it for watching and loads its files.
// Missing directories are logged and skipped.
func (w *Watcher) Scan() error {
	for _, dir := range w.dirs {
		if err := w.scanDir(dir); err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("Skipping local music directory")
		}
	}
	w.notify()
	return nil
}

func (w *Watcher) scanDir(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := w.fsWatcher.Add(path); err != nil {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
			return nil
		}
		w.add(path)
		return nil
	})
}

func (w *Watcher) add(path string) bool {
	if !IsAudioFile(path) {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.files[path]; ok {
		return false
	}
	w.files[path] = station.NewLocalFile(path, FileURI(path))
	return true
}

func (w *Watcher) remove(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	removed := false
	prefix := path + string(filepath.Separator)
	for p := range w.files {
		if p == path || strings.HasPrefix(p, prefix) {
			delete(w.files, p)
			removed = true
		}
	}
	return removed
}

// Stations returns the discovered files sorted by title.
func (w *Watcher) Stations() station.List {
	w.mu.RLock()
	list := make(station.List, 0, len(w.files))
	for _, s := range w.files {
		list = append(list, s)
	}
	w.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		ti, tj := strings.ToLower(list[i].Title), strings.ToLower(list[j].Title)
		if ti != tj {
			return ti < tj
		}
		return list[i].MediaContentID < list[j].MediaContentID
	})
	return list
}

func (w *Watcher) notify() {
	if w.onChange != nil {
		w.onChange(w.Stations())
	}
}

func (w *Watcher) handleFsEvent(event fsnotify.Event) error {
	if shouldRemovePath(event.Op) {
		if w.remove(event.Name) {
			log.Info().Str("path", event.Name).Msg("Local file removed")
			w.notify()
		}
		return nil
	}

	if shouldProbePath(event.Op) {
		info, err := os.Stat(event.Name)
		if err != nil {
			return err
		}
		if info.IsDir() {
			if err := w.scanDir(event.Name); err != nil {
				return err
			}
			w.notify()
			return nil
		}
		if w.add(event.Name) {
			log.Info().Str("path", event.Name).Msg("Local file added")
			w.notify()
		}
	}
	return nil
}

// Run processes filesystem events until ctx is done.
func (w *Watcher) Run(ctx context.Context) {
	defer w.fsWatcher.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if err := w.handleFsEvent(event); err != nil {
				log.Warn().Err(err).Str("event", event.String()).Msg("Could not handle fs event")
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("Fs watcher error")
		}
	}
}

func shouldProbePath(op fsnotify.Op) bool {
	return op&fsnotify.Create == fsnotify.Create
}

func shouldRemovePath(op fsnotify.Op) bool {
	return op&(fsnotify.Rename|fsnotify.Remove) != 0
}
