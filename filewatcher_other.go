//go:build !linux && !darwin

// filewatcher_other.go - mtime-polling FileWatcher for platforms without
// inotify or kqueue, matching the capability spec.md's --watch describes
// ("recompiles when the source file changes") without needing a native
// notification API on every target.
package main

import (
	"os"
	"path/filepath"
	"sync"
	"time"
)

type FileWatcher struct {
	mu       sync.Mutex
	paths    map[string]time.Time
	onChange func(string)
	stop     chan struct{}
}

func NewFileWatcher(onChange func(string)) (*FileWatcher, error) {
	return &FileWatcher{
		paths:    make(map[string]time.Time),
		onChange: onChange,
		stop:     make(chan struct{}),
	}, nil
}

func (fw *FileWatcher) AddFile(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return err
	}
	fw.mu.Lock()
	fw.paths[absPath] = info.ModTime()
	fw.mu.Unlock()
	return nil
}

func (fw *FileWatcher) Watch() {
	ticker := time.NewTicker(400 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-fw.stop:
			return
		case <-ticker.C:
			fw.mu.Lock()
			for path, last := range fw.paths {
				info, err := os.Stat(path)
				if err != nil {
					continue
				}
				if info.ModTime().After(last) {
					fw.paths[path] = info.ModTime()
					fw.onChange(path)
				}
			}
			fw.mu.Unlock()
		}
	}
}

func (fw *FileWatcher) Close() error {
	close(fw.stop)
	return nil
}
