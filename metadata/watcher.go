package metadata

import (
	"errors"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// ErrWatcherStopped is returned by Start once the watcher has been stopped.
var ErrWatcherStopped = errors.New("metadata watcher already stopped")

// 从文件加载数据源
type Loader func(path string) ([]*DataSource, error)

// Watcher reloads a MemoryMetaData whenever its source file is written.
// A failed reload leaves the previous data sources active. A stopped watcher
// can't be started again.
type Watcher struct {
	mu      sync.Mutex
	running bool
	stopped bool

	path      string
	metaData  *MemoryMetaData
	loader    Loader
	fsWatcher *fsnotify.Watcher
	stopCh    chan struct{}
	doneCh    chan struct{}

	onReload func(err error)
}

type WatcherOption func(*Watcher)

// WithOnReload sets a callback invoked after every reload attempt.
func WithOnReload(fn func(err error)) WatcherOption {
	return func(w *Watcher) {
		w.onReload = fn
	}
}

func NewWatcher(path string, metaData *MemoryMetaData, loader Loader, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:      filepath.Clean(path),
		metaData:  metaData,
		loader:    loader,
		fsWatcher: fsw,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return ErrWatcherStopped
	}
	if w.running {
		return nil
	}
	// editors replace files by rename, so watch the directory
	if err := w.fsWatcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	w.running = true
	log.Infof("metadata watcher started,path=%v", w.path)
	go w.processEvents()
	return nil
}

func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.stopped = true
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	log.Infof("metadata watcher stopped,path=%v", w.path)
	return w.fsWatcher.Close()
}

func (w *Watcher) processEvents() {
	defer close(w.doneCh)
	for {
		select {
		case <-w.stopCh:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Warnf("metadata watcher error,err=[%v]", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}
	w.reload()
}

func (w *Watcher) reload() {
	dataSources, err := w.loader(w.path)
	if err == nil {
		err = w.metaData.Reload(dataSources)
	}
	if err != nil {
		log.Warnf("reload metadata failed,keep previous data sources,err=[%v],path=[%v]", err, w.path)
	} else {
		log.Infof("metadata reloaded,path=%v,schemas=%v", w.path, w.metaData.SchemaNames())
	}
	if w.onReload != nil {
		w.onReload(err)
	}
}
