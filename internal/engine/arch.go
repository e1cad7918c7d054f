// Completion: 100% - Platform/arch module complete
package engine

import (
	"fmt"
	"runtime"
	"strings"
)

// Arch identifies a target CPU architecture for cross-compiling the
// emitted C. Mirrors GOARCH spelling so --target accepts familiar values.
type Arch int

const (
	ArchUnknown Arch = iota
	ArchX86_64
	ArchARM64
	ArchRiscv64
)

func (a Arch) String() string {
	switch a {
	case ArchX86_64:
		return "x86_64"
	case ArchARM64:
		return "aarch64"
	case ArchRiscv64:
		return "riscv64"
	case ArchUnknown:
		return "unknown"
	default:
		return "unknown"
	}
}

// ParseArch parses an architecture string (like GOARCH values)
func ParseArch(s string) (Arch, error) {
	switch strings.ToLower(s) {
	case "x86_64", "amd64", "x86-64":
		return ArchX86_64, nil
	case "aarch64", "arm64":
		return ArchARM64, nil
	case "riscv64", "riscv", "rv64":
		return ArchRiscv64, nil
	default:
		return 0, fmt.Errorf("unsupported architecture: %s (supported: amd64, arm64, riscv64)", s)
	}
}

// OS type
type OS int

const (
	OSLinux OS = iota
	OSDarwin
	OSFreeBSD
	OSWindows
)

func (o OS) String() string {
	switch o {
	case OSLinux:
		return "linux"
	case OSDarwin:
		return "darwin"
	case OSFreeBSD:
		return "freebsd"
	case OSWindows:
		return "windows"
	default:
		return "unknown"
	}
}

// ParseOS parses an OS string (like GOOS values)
func ParseOS(s string) (OS, error) {
	switch strings.ToLower(s) {
	case "linux":
		return OSLinux, nil
	case "darwin", "macos":
		return OSDarwin, nil
	case "freebsd":
		return OSFreeBSD, nil
	case "windows", "win", "wine":
		return OSWindows, nil
	default:
		return 0, fmt.Errorf("unsupported OS: %s (supported: linux, darwin, freebsd, windows)", s)
	}
}

// Platform represents a target platform (architecture + OS)
type Platform struct {
	Arch Arch
	OS   OS
}

// String returns a human-readable platform string
func (p Platform) String() string {
	return fmt.Sprintf("%s-%s", p.Arch, p.OS)
}

// FullString returns a detailed platform string
func (p Platform) FullString() string {
	return fmt.Sprintf("%s on %s", p.Arch, p.OS)
}

// ClangTarget returns the -target triple to pass a clang-compatible
// compiler when cross-compiling the emitted C for p. gcc has no -target
// flag, so cross builds with ARCL_CC=gcc require a separately installed
// cross toolchain instead; ClangTarget is only consulted when the
// configured compiler looks like clang.
func (p Platform) ClangTarget() string {
	var osName string
	switch p.OS {
	case OSLinux:
		osName = "linux-gnu"
	case OSDarwin:
		osName = "apple-darwin"
	case OSFreeBSD:
		osName = "unknown-freebsd"
	case OSWindows:
		osName = "pc-windows-gnu"
	default:
		osName = "linux-gnu"
	}
	var archName string
	switch p.Arch {
	case ArchX86_64:
		archName = "x86_64"
	case ArchARM64:
		archName = "aarch64"
	case ArchRiscv64:
		archName = "riscv64"
	default:
		archName = "x86_64"
	}
	return fmt.Sprintf("%s-%s", archName, osName)
}

// GetDefaultPlatform returns the host platform, used when --target isn't
// given and the emitted C is simply compiled for the machine running arcl.
func GetDefaultPlatform() Platform {
	var arch Arch
	switch runtime.GOARCH {
	case "amd64":
		arch = ArchX86_64
	case "arm64":
		arch = ArchARM64
	case "riscv64":
		arch = ArchRiscv64
	default:
		arch = ArchX86_64
	}

	var os_ OS
	switch runtime.GOOS {
	case "linux":
		os_ = OSLinux
	case "darwin":
		os_ = OSDarwin
	case "freebsd":
		os_ = OSFreeBSD
	case "windows":
		os_ = OSWindows
	default:
		os_ = OSLinux
	}

	return Platform{Arch: arch, OS: os_}
}
