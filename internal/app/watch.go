package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

const defaultDebounce = 200 * time.Millisecond

// Watch применяет дерево, а затем повторяет применение при каждом
// изменении входного файла. Работает до отмены ctx.
// Ошибки отдельных прогонов логируются и не прерывают наблюдение.
func Watch(ctx context.Context, o Options, debounce time.Duration) error {
	if o.InPath == "-" {
		return errors.New("watch не работает со stdin")
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	abs, err := filepath.Abs(o.InPath)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer watcher.Close()

	// Следим за каталогом: редакторы часто сохраняют через rename.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}
	logrus.Infof("Слежу за %s", abs)

	runOnce(ctx, o)

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				logrus.Debugf("Событие %s: %s", event.Op, event.Name)
				timer.Reset(debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logrus.Errorf("Ошибка наблюдения: %s", err)
		case <-timer.C:
			runOnce(ctx, o)
		}
	}
}

func runOnce(ctx context.Context, o Options) {
	if _, err := Run(ctx, o); err != nil {
		logrus.Errorf("Прогон не удался: %s", err)
	}
}
