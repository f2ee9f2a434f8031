package main

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// BoardStore persists a board to a JSON file and watches it for changes made
// by other processes. A one-shot suppress flag keeps our own saves from
// echoing back as an external-change notification.
type BoardStore struct {
	path     string
	log      *zap.Logger
	skipNext atomic.Bool
}

func NewBoardStore(path string, log *zap.Logger) *BoardStore {
	return &BoardStore{path: path, log: log}
}

func (s *BoardStore) Path() string { return s.path }

// Load reads the persisted board. A missing or malformed file is never an
// error; it just means an empty board.
func (s *BoardStore) Load() Board {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("board read failed", zap.String("path", s.path), zap.Error(err))
		}
		return Board{Nodes: []Node{}, Edges: []Edge{}}
	}
	board, err := decodeBoard(data)
	if err != nil {
		s.log.Warn("board decode failed, starting empty", zap.String("path", s.path), zap.Error(err))
		return Board{Nodes: []Node{}, Edges: []Edge{}}
	}
	return board
}

// Save writes the board, arming the suppress flag first so the watcher skips
// the resulting filesystem event.
func (s *BoardStore) Save(board Board) error {
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	s.skipNext.Store(true)

	data, err := encodeBoard(board)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0o644)
}

// Watch reports external modifications of the board file by calling notify.
// It consumes the suppress flag for self-originated saves and debounces
// bursts of events from a single write. Blocks until done is closed.
func (s *BoardStore) Watch(done <-chan struct{}, notify func()) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		s.log.Warn("watcher unavailable", zap.Error(err))
		return
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		s.log.Warn("watch add failed", zap.String("path", s.path), zap.Error(err))
		return
	}

	base := filepath.Base(s.path)
	var lastNotify time.Time

	for {
		select {
		case <-done:
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			// Our own save: consume the flag and stay quiet.
			if s.skipNext.Swap(false) {
				continue
			}
			if now := time.Now(); now.Sub(lastNotify) >= watchDebounce {
				lastNotify = now
				notify()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.log.Warn("watch error", zap.Error(err))
		}
	}
}
