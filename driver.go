// Completion: 100% - Compile pipeline complete
// driver.go - the compile pipeline: parse, check, generate C, hand off
// to toolchain.go. Grounded on the teacher's cmdBuild, which strung its
// own lexer/parser/codegen/linker stages together the same way; ARCL's
// pipeline ends at InvokeCC instead of an ELF/Mach-O writer.
package main

import (
	"fmt"
	"os"
	"os/exec"
)

const arclVersion = "0.1.0"

// compileOnce runs the full pipeline for a single source file according
// to opts, writing either the emitted C (opts.EmitCOnly) or a linked
// executable (opts.OutputPath) to disk.
func compileOnce(opts CompileOptions) error {
	src, err := os.ReadFile(opts.SourcePath)
	if err != nil {
		return fmt.Errorf("Error: could not read %q: %v", opts.SourcePath, err)
	}

	parser := NewParser(opts.SourcePath, string(src))
	program, err := parser.ParseProgram()
	if err != nil {
		return fmt.Errorf("Error: %v", err)
	}

	errs := NewErrorCollector(20)

	if opts.Check {
		checker := NewChecker(errs)
		if !checker.Check(program) {
			fmt.Fprint(os.Stderr, errs.Report(true))
			return fmt.Errorf("Error: %s failed type checking", opts.SourcePath)
		}
		if errs.HasErrors() {
			fmt.Fprint(os.Stderr, errs.Report(true))
		}
	}

	mode := ArithChecked
	syms := NewSymbolTable()
	cg := NewCodeGen(syms, errs, mode)
	generatedC, err := cg.Generate(program)
	if err != nil {
		return fmt.Errorf("Error: codegen failed: %v", err)
	}

	if opts.EmitCOnly {
		out := opts.OutputPath
		if out == "" || out == "a.out" {
			out = opts.SourcePath + ".c"
		} else if len(out) < 2 || out[len(out)-2:] != ".c" {
			out = out + ".c"
		}
		if err := os.WriteFile(out, []byte(generatedC), 0644); err != nil {
			return fmt.Errorf("Error: could not write %q: %v", out, err)
		}
		if opts.Verbose {
			fmt.Fprintf(os.Stderr, "wrote %s\n", out)
		}
		return nil
	}

	return InvokeCC(generatedC, opts)
}

// execBinary runs path with args, replaying its exit code as our own -
// matching the teacher's cmdRun, which propagated the child's status
// instead of always returning 0/1.
func execBinary(path string, args []string) int {
	cmd := exec.Command(path, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
