// Completion: 100% - Watch loop complete
// watch.go - the --watch dev loop: recompile on save. Adapted from the
// teacher's watchAndRecompile in main.go, stripped of the SIGUSR1/
// hot-function-diffing machinery that loop used to patch a *running*
// game process in place - ARCL just reruns compileOnce and reports
// success or failure, since an ahead-of-time compiler has no running
// process to patch.
package main

import (
	"fmt"
	"os"
)

// runWatchLoop compiles once, then recompiles on every save of
// opts.SourcePath until interrupted.
func runWatchLoop(opts CompileOptions) int {
	if err := compileOnce(opts); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
	} else {
		fmt.Fprintf(os.Stderr, "watch: built %s\n", opts.OutputPath)
	}

	fw, err := NewFileWatcher(func(path string) {
		fmt.Fprintf(os.Stderr, "watch: %s changed, recompiling...\n", path)
		if err := compileOnce(opts); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return
		}
		fmt.Fprintf(os.Stderr, "watch: built %s\n", opts.OutputPath)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not start file watcher: %v\n", err)
		return 1
	}
	defer fw.Close()

	if err := fw.AddFile(opts.SourcePath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not watch %q: %v\n", opts.SourcePath, err)
		return 1
	}

	fmt.Fprintf(os.Stderr, "watch: watching %s (ctrl-c to stop)\n", opts.SourcePath)
	fw.Watch()
	return 0
}
