// Completion: 100% - Compile-session configuration complete
// config.go - compile-session configuration, adapted from the teacher's
// compiler_state.go CompileOptions. Where the teacher's CompileOptions
// only carried target arch/OS for its native backend, ARCL's carries the
// C-toolchain invocation surface §6 describes instead.
package main

import (
	"github.com/xyproto/env/v2"

	"github.com/xyproto/arcl/internal/engine"
)

// OptLevel mirrors the -O0/-O1/-O2 flag straight through to the C
// toolchain; ARCL performs its own constant folding (constfold.go)
// independently of whatever the C compiler does with -O.
type OptLevel int

const (
	OptNone OptLevel = iota
	OptBasic
	OptFull
)

func (o OptLevel) ccFlag() string {
	switch o {
	case OptBasic:
		return "-O1"
	case OptFull:
		return "-O2"
	default:
		return "-O0"
	}
}

// CompileOptions holds everything a single `compile` invocation needs,
// mirroring compiler_state.go's CompileOptions field-for-field in spirit
// (outputPath, verbose, optimize, target) but scoped to §6's contract.
type CompileOptions struct {
	SourcePath string
	OutputPath string
	EmitCOnly  bool
	Check      bool
	Opt        OptLevel
	Verbose    bool
	Debug      bool
	Watch      bool

	CC     string
	CFlags []string

	// TargetPlatform is non-nil only when --target was passed explicitly;
	// nil means "compile for the host", which is the common case and
	// needs no -target flag at all.
	TargetPlatform *engine.Platform
}

// NewCompileOptions seeds defaults from the process environment via
// xyproto/env/v2 - the teacher declared this dependency in go.mod but
// never called it; ARCL is where ARCL_CC/ARCL_CFLAGS/ARCL_DEBUG are read.
func NewCompileOptions() CompileOptions {
	opts := CompileOptions{
		Check: true,
		Opt:   OptBasic,
		CC:    env.Str("ARCL_CC", "cc"),
		Debug: env.Bool("ARCL_DEBUG", false),
	}
	if flags := env.Str("ARCL_CFLAGS", ""); flags != "" {
		opts.CFlags = splitFlags(flags)
	}
	return opts
}

func splitFlags(s string) []string {
	var out []string
	var cur []rune
	for _, r := range s {
		if r == ' ' || r == '\t' {
			if len(cur) > 0 {
				out = append(out, string(cur))
				cur = cur[:0]
			}
			continue
		}
		cur = append(cur, r)
	}
	if len(cur) > 0 {
		out = append(out, string(cur))
	}
	return out
}
