package tui

import (
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"

	"github.com/Makepad-fr/phaseline/internal/model"
	"github.com/Makepad-fr/phaseline/internal/store/filestore"
)

type reloadMsg struct {
	items []model.Item
	err   error
}

type watchErrMsg struct{ err error }

// fileWatcher reports changes to one file. The parent directory is watched
// so editors that save by rename are still seen.
type fileWatcher struct {
	path    string
	watcher *fsnotify.Watcher
}

func watchFile(path string) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}
	return &fileWatcher{path: abs, watcher: w}, nil
}

// next waits for the next write to the file and reloads it.
func (fw *fileWatcher) next() tea.Cmd {
	if fw == nil {
		return nil
	}
	return func() tea.Msg {
		for {
			select {
			case event, ok := <-fw.watcher.Events:
				if !ok {
					return nil
				}
				if filepath.Clean(event.Name) != fw.path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				items, err := filestore.Load(fw.path)
				return reloadMsg{items: items, err: err}
			case err, ok := <-fw.watcher.Errors:
				if !ok {
					return nil
				}
				return watchErrMsg{err: err}
			}
		}
	}
}

func (fw *fileWatcher) Close() error {
	return fw.watcher.Close()
}
