// Package filewatch cancels contexts on file changes.
package filewatch

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"
)

// modifying operations. Chmod is not.
const modified = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// UntilModified returns a context which is canceled when one of paths is modified
// (written, created, removed or renamed). For directories, changes of their entries count.
//
// context.Cause of the returned context tells which file is modified.
//
// # Returns
//
// - context.Context: canceled on modification.
//
// - context.CancelFunc: stops watching and cancels the context.
//
// - error: failure on starting to watch. Then the context and the cancel func are nil.
func UntilModified(ctx context.Context, paths ...string) (context.Context, context.CancelFunc, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}
	for _, p := range paths {
		if err := w.Add(p); err != nil {
			w.Close()
			return nil, nil, err
		}
	}

	cctx, cancel := context.WithCancelCause(ctx)
	go func() {
		defer w.Close()
		for {
			select {
			case <-cctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&modified == 0 {
					continue
				}
				cancel(fmt.Errorf("%s is modified (%s)", ev.Name, ev.Op))
				return
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				cancel(fmt.Errorf("watching files: %w", err))
				return
			}
		}
	}()

	return cctx, func() { cancel(nil) }, nil
}
