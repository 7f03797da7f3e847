package main

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tenantsql/tenantsql/cli"
	"github.com/tenantsql/tenantsql/internal/config"
	"github.com/tenantsql/tenantsql/logging"
)

// debounce window for editors that emit bursts of write events.
const watchDebounce = 250 * time.Millisecond

// debouncer coalesces bursts of triggers into one call of fn per quiet
// window and never runs fn concurrently with itself: the timer callback
// fires on its own goroutine, so back-to-back windows would otherwise
// overlap mid-run.
type debouncer struct {
	delay time.Duration
	fn    func()

	runMu   sync.Mutex
	timerMu sync.Mutex
	timer   *time.Timer
}

func newDebouncer(delay time.Duration, fn func()) *debouncer {
	return &debouncer{delay: delay, fn: fn}
}

func (d *debouncer) trigger() {
	d.timerMu.Lock()
	defer d.timerMu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.run)
}

func (d *debouncer) run() {
	d.runMu.Lock()
	defer d.runMu.Unlock()
	d.fn()
}

// watchCmd regenerates on every model definition change. Generation errors
// are logged and the watcher keeps running, so a half-edited definition
// does not kill the session.
func watchCmd() {
	cfg, err := config.Find(".")
	if err != nil {
		cli.FatalErr("loading project config", err)
	}
	logger := logging.New(cfg.DevLogging)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		cli.FatalErr("starting watcher", err)
	}
	defer watcher.Close()

	if err := watcher.Add(cfg.ModelsPath()); err != nil {
		cli.FatalErr("watching models directory", err)
	}

	regenerate := func() {
		res, err := runGeneration(context.Background(), cfg, logger)
		if err != nil {
			logger.Error("generation failed", "err", err.Error())
			return
		}
		logger.Info("regenerated", "run_id", res.RunID, "files", len(res.Files))
	}
	deb := newDebouncer(watchDebounce, regenerate)

	cli.Infof("watching %s", cfg.ModelsPath())
	deb.run()

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
				continue
			}
			deb.trigger()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Error("watch error", "err", err.Error())
		}
	}
}
