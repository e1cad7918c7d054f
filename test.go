// Completion: 100% - Test runner complete
// test.go - `arcl test`, adapted from the teacher's cmdTest/
// findTestFunctions/generateTestRunner trio in cli.go. The teacher
// globbed test_*.c67/*_test.c67, parsed each for top-level test/Test-
// prefixed functions, and synthesized a runner main that called them
// all; ARCL does the same against *.arc, generating a fn main that
// calls each discovered test function in turn.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func cmdTest(args []string) int {
	searchDir := "."
	for _, a := range args {
		if !strings.HasPrefix(a, "-") {
			searchDir = a
			break
		}
	}

	testFiles, err := findTestFiles(searchDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if len(testFiles) == 0 {
		fmt.Fprintf(os.Stderr, "Error: no test files found under %s (expected test_*.arc or *_test.arc)\n", searchDir)
		return 1
	}

	failures := 0
	for _, tf := range testFiles {
		fmt.Printf("--- %s\n", tf)
		if err := runOneTestFile(tf); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			failures++
			continue
		}
		fmt.Printf("ok   %s\n", tf)
	}

	if failures > 0 {
		fmt.Fprintf(os.Stderr, "Error: %d test file(s) failed\n", failures)
		return 1
	}
	return 0
}

func findTestFiles(dir string) ([]string, error) {
	prefixMatches, err := filepath.Glob(filepath.Join(dir, "test_*.arc"))
	if err != nil {
		return nil, err
	}
	suffixMatches, err := filepath.Glob(filepath.Join(dir, "*_test.arc"))
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var out []string
	for _, m := range append(prefixMatches, suffixMatches...) {
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out, nil
}

// findTestFunctions parses path and returns the names of every
// zero-argument top-level function whose name begins with "test" or
// "Test" - these are the functions a synthesized runner will call.
func findTestFunctions(path string, src string) ([]string, error) {
	parser := NewParser(path, src)
	program, err := parser.ParseProgram()
	if err != nil {
		return nil, err
	}
	var names []string
	for _, fn := range program.Functions {
		if strings.HasPrefix(fn.Name, "test") || strings.HasPrefix(fn.Name, "Test") {
			if len(fn.Params) != 0 {
				continue
			}
			names = append(names, fn.Name)
		}
	}
	return names, nil
}

// generateTestRunner inlines testSrc (with its own fn main, if any,
// stripped) and appends a fn main that calls every discovered test
// function, then exits 0 - mirroring the teacher's generateTestRunner,
// which inlined the test file and appended a synthetic main= block.
func generateTestRunner(testSrc string, testFuncs []string) string {
	var b strings.Builder
	inMain, depth := false, 0
	for _, line := range strings.Split(testSrc, "\n") {
		trimmed := strings.TrimSpace(line)
		if !inMain && strings.HasPrefix(trimmed, "fn main(") {
			inMain = true
		}
		if inMain {
			depth += strings.Count(line, "{") - strings.Count(line, "}")
			if depth <= 0 && strings.Contains(line, "}") {
				inMain = false
			}
			continue
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\nfn main() {\n")
	for _, name := range testFuncs {
		fmt.Fprintf(&b, "    %s()\n", name)
	}
	b.WriteString("}\n")
	return b.String()
}

func runOneTestFile(path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("Error: could not read %q: %v", path, err)
	}

	testFuncs, err := findTestFunctions(path, string(src))
	if err != nil {
		return fmt.Errorf("Error: %v", err)
	}
	if len(testFuncs) == 0 {
		return fmt.Errorf("Error: %s defines no test/Test-prefixed functions", path)
	}

	runnerSrc := generateTestRunner(string(src), testFuncs)

	tmpDir, err := os.MkdirTemp("", "arcl-test-*")
	if err != nil {
		return fmt.Errorf("Error: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	runnerPath := filepath.Join(tmpDir, "runner.arc")
	if err := os.WriteFile(runnerPath, []byte(runnerSrc), 0644); err != nil {
		return fmt.Errorf("Error: %v", err)
	}

	opts := NewCompileOptions()
	opts.SourcePath = runnerPath
	opts.OutputPath = filepath.Join(tmpDir, "runner")

	if err := compileOnce(opts); err != nil {
		return err
	}

	if code := execBinary(opts.OutputPath, nil); code != 0 {
		return fmt.Errorf("Error: %s exited with status %d", path, code)
	}
	return nil
}
