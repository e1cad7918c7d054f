// Completion: 100% - CLI subcommand dispatch complete
// cli.go - subcommand dispatch, adapted from the teacher's CommandContext/
// RunCLI pattern in cli.go. The teacher dispatched to cmdBuild/cmdRun/
// cmdTest against native executables; ARCL dispatches compile/run/test
// against .arc sources through the C emitter and toolchain.go.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xyproto/arcl/internal/engine"
)

// CommandContext carries the parsed argv for one CLI invocation.
type CommandContext struct {
	Args []string
}

// RunCLI dispatches to the requested subcommand and returns a process
// exit code. Errors are printed with the "Error:" prefix §7 mandates.
func RunCLI(ctx CommandContext) int {
	if len(ctx.Args) == 0 {
		cmdHelp()
		return 1
	}

	cmd := ctx.Args[0]
	rest := ctx.Args[1:]

	switch cmd {
	case "compile", "build":
		return cmdCompile(rest)
	case "run":
		return cmdRun(rest)
	case "test":
		return cmdTest(rest)
	case "help", "-h", "--help":
		cmdHelp()
		return 0
	case "version", "-V", "--version":
		fmt.Println("arcl", arclVersion)
		return 0
	default:
		if strings.HasSuffix(cmd, ".arc") {
			// `arcl foo.arc` is shorthand for `arcl run foo.arc`, mirroring
			// the teacher's shebang-friendly top-level dispatch.
			return cmdRun(ctx.Args)
		}
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", cmd)
		if s := closestCommand(cmd); s != "" {
			fmt.Fprintf(os.Stderr, "help: did you mean %q?\n", s)
		}
		return 1
	}
}

var knownCommands = []string{"compile", "build", "run", "test", "help", "version"}

func closestCommand(cmd string) string {
	best, bestDist := "", 1<<30
	for _, c := range knownCommands {
		d := engine.LevenshteinDistance(cmd, c)
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	if bestDist > 3 {
		return ""
	}
	return best
}

// parseCompileFlags fills in a CompileOptions from §6's flag surface:
// compile <source> [-o out] [--emit-c] [--check|--no-check] [-O0|-O1|-O2]
// [-v] [--debug] [--watch] [--target arch-os]
func parseCompileFlags(args []string) (CompileOptions, error) {
	opts := NewCompileOptions()
	var source string

	i := 0
	for i < len(args) {
		a := args[i]
		switch {
		case a == "-o":
			i++
			if i >= len(args) {
				return opts, fmt.Errorf("-o requires an argument")
			}
			opts.OutputPath = args[i]
		case a == "--emit-c":
			opts.EmitCOnly = true
		case a == "--check":
			opts.Check = true
		case a == "--no-check":
			opts.Check = false
		case a == "-O0":
			opts.Opt = OptNone
		case a == "-O1":
			opts.Opt = OptBasic
		case a == "-O2":
			opts.Opt = OptFull
		case a == "-v" || a == "--verbose":
			opts.Verbose = true
		case a == "--debug":
			opts.Debug = true
		case a == "--watch":
			opts.Watch = true
		case a == "--target":
			i++
			if i >= len(args) {
				return opts, fmt.Errorf("--target requires an argument like x86_64-linux")
			}
			plat, err := parseTargetString(args[i])
			if err != nil {
				return opts, err
			}
			opts.TargetPlatform = &plat
		case strings.HasPrefix(a, "-"):
			return opts, fmt.Errorf("unrecognized flag %q", a)
		default:
			if source != "" {
				return opts, fmt.Errorf("unexpected argument %q (source already set to %q)", a, source)
			}
			source = a
		}
		i++
	}

	if source == "" {
		return opts, fmt.Errorf("no source file given")
	}
	opts.SourcePath = source
	if opts.OutputPath == "" {
		base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
		opts.OutputPath = base
	}
	return opts, nil
}

func parseTargetString(s string) (engine.Platform, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return engine.Platform{}, fmt.Errorf("invalid --target %q (want arch-os, e.g. x86_64-linux)", s)
	}
	arch, err := engine.ParseArch(parts[0])
	if err != nil {
		return engine.Platform{}, err
	}
	osv, err := engine.ParseOS(parts[1])
	if err != nil {
		return engine.Platform{}, err
	}
	return engine.Platform{Arch: arch, OS: osv}, nil
}

func cmdCompile(args []string) int {
	opts, err := parseCompileFlags(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if opts.Watch {
		return runWatchLoop(opts)
	}

	if err := compileOnce(opts); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	return 0
}

// cmdRun compiles to an executable in a temporary directory (a -o flag is
// overridden) and runs it immediately, mirroring the teacher's cmdRun/cmdRunShebang convenience
// wrapper around cmdBuild.
func cmdRun(args []string) int {
	opts, err := parseCompileFlags(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if opts.EmitCOnly {
		fmt.Fprintln(os.Stderr, "Error: --emit-c and run are mutually exclusive")
		return 1
	}

	tmpOut, err := os.MkdirTemp("", "arcl-run-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer os.RemoveAll(tmpOut)
	opts.OutputPath = filepath.Join(tmpOut, "a.out")

	if err := compileOnce(opts); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	return execBinary(opts.OutputPath, nil)
}

func cmdHelp() {
	fmt.Print(`arcl - compiles ArcLang programs to native executables via C99

Usage:
  arcl compile <source.arc> [flags]
  arcl run <source.arc> [flags]
  arcl test <path>
  arcl version
  arcl help

Flags:
  -o <path>        output path (default: source basename)
  --emit-c         stop after emitting C, don't invoke a C compiler
  --check          run the static checker before codegen (default)
  --no-check       skip the static checker
  -O0, -O1, -O2    optimization level passed through to the C compiler
  -v, --verbose    print the C compiler invocation
  --debug          build with debug symbols and assertions enabled
  --watch          recompile automatically when the source file changes
  --target <arch-os>  cross-compile, e.g. --target arm64-linux

Environment:
  ARCL_CC       C compiler to invoke (default: cc)
  ARCL_CFLAGS   extra flags appended to the C compiler invocation
  ARCL_DEBUG    equivalent to --debug when set to a true-ish value
`)
}
