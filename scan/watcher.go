package scan

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/stemplay/stemplay/decode"
)

// settleDelay batches bursts of file events and gives a writer time to
// finish before the folder is rescanned.
const settleDelay = 500 * time.Millisecond

// Watcher watches a stem folder and triggers a reload callback when an
// audio file in it is created, rewritten, renamed or removed. Events
// are debounced so a copy-in of five stems reloads once.
type Watcher struct {
	watcher *fsnotify.Watcher
	log     *logrus.Logger
	reload  func()
	done    chan struct{}
}

func Watch(dir string, log *logrus.Logger, reload func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %v: %w", dir, err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %v: %w", dir, err)
	}
	w := &Watcher{watcher: fsw, log: log, reload: reload, done: make(chan struct{})}
	go w.run()
	log.WithField("dir", dir).Info("Watching stem folder")
	return w, nil
}

func (w *Watcher) run() {
	settle := time.NewTimer(settleDelay)
	if !settle.Stop() {
		<-settle.C
	}
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.relevant(event) {
				settle.Reset(settleDelay)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Error("Folder watcher error")
		case <-settle.C:
			w.log.Info("Stem folder changed, reloading")
			w.reload()
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, ".tmp") {
		return false
	}
	if !decode.IsAudioFile(event.Name) {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Rename) || event.Has(fsnotify.Remove)
}

func (w *Watcher) Close() error {
	close(w.done)
	return w.watcher.Close()
}
