//go:build !windows

// toolchain_unix.go - $PATH lookup for the configured C compiler via
// golang.org/x/sys/unix, per SPEC_FULL.md's ambient-stack decision to
// exercise x/sys/unix here rather than only in the filewatcher. The
// teacher's own filewatcher_unix.go used unix.* calls directly instead
// of going through os/exec.LookPath; resolveCC follows that same house
// style for the one other place ARCL needs a low-level stat.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"
)

func resolveCC(name string) (string, error) {
	if strings.ContainsRune(name, os.PathSeparator) {
		var st unix.Stat_t
		if err := unix.Stat(name, &st); err != nil {
			return "", fmt.Errorf("compiler %q not found: %v", name, err)
		}
		return name, nil
	}

	pathEnv := os.Getenv("PATH")
	for _, dir := range strings.Split(pathEnv, string(os.PathListSeparator)) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		var st unix.Stat_t
		if err := unix.Stat(candidate, &st); err != nil {
			continue
		}
		if st.Mode&0111 != 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no C compiler %q found on $PATH (set ARCL_CC to override)", name)
}
