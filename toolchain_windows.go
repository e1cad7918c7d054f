//go:build windows

// toolchain_windows.go - golang.org/x/sys/unix doesn't build on Windows,
// so the compiler lookup falls back to exec.LookPath there.
package main

import "os/exec"

func resolveCC(name string) (string, error) {
	return exec.LookPath(name)
}
