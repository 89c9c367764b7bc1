// Package watcher reports changes to a fixed set of seed files so the
// catalog can be refreshed while the files are edited.
//
// Parent directories are watched with fsnotify rather than the files
// themselves: editors commonly save by writing a temp file and renaming it
// over the original, which drops a per-file watch. Events are filtered to
// the tracked paths and debounced so one save yields one batch.
//
// Usage:
//
//	w, err := watcher.New(files, watcher.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	defer w.Stop()
//
//	go func() { _ = w.Run(ctx) }()
//
//	for batch := range w.Events() {
//	    for _, ev := range batch {
//	        if ev.Operation == watcher.OpWrite {
//	            // reload ev.Path
//	        }
//	    }
//	}
package watcher
