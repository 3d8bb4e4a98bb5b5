package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/shepmaster/my-error/pkg/console"
)

const debounceDelay = 300 * time.Millisecond

// watchAndRun regenerates whenever one of the inputs is written, created,
// or removed. Directory-level watches survive editors that replace files
// on save.
func watchAndRun(inputs []string, run func() int) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, input := range inputs {
		abs, err := filepath.Abs(input)
		if err != nil {
			return err
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	fmt.Println(console.FormatInfoMessage(fmt.Sprintf("watching %d input(s), press Ctrl+C to stop", len(watched))))
	run()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	var debounce *time.Timer
	trigger := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !watched[abs] {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceDelay, func() {
					select {
					case trigger <- struct{}{}:
					default:
					}
				})
			}
		case <-trigger:
			run()
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}
			fmt.Fprintln(os.Stderr, console.FormatWarningMessage(err.Error()))
		case <-sigChan:
			fmt.Println()
			fmt.Println(console.FormatInfoMessage("stopped watching"))
			return nil
		}
	}
}
