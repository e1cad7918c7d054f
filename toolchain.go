// Completion: 100% - C toolchain driver complete
// toolchain.go - drives the external C toolchain. §1 scopes ARCL's own
// hard engineering to the region model, the C emitter, and the runtime
// ABI, not to object-code emission, so unlike the teacher's own
// hand-rolled ELF/Mach-O/PE writers, the last mile here is "hand the
// emitted C plus runtime/*.c to a real C compiler."
package main

import (
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/xyproto/arcl/internal/engine"
)

// extractRuntime copies the embedded runtime/*.c and runtime/*.h sources
// into dir so the configured C compiler can see them as ordinary files.
func extractRuntime(dir string) error {
	return fs.WalkDir(runtimeAssets, "runtime", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		data, err := runtimeAssets.ReadFile(path)
		if err != nil {
			return err
		}
		dest := filepath.Join(dir, filepath.Base(path))
		return os.WriteFile(dest, data, 0644)
	})
}

// runtimeSources returns the basenames of the bundled runtime/*.c files,
// in a fixed order so build output is deterministic across OSes.
func runtimeSources() []string {
	return []string{
		"arena.c",
		"heap.c",
		"rt_any.c",
		"rt_arith.c",
		"rt_array.c",
		"rt_bytes.c",
		"rt_env.c",
		"rt_file.c",
		"rt_net.c",
		"rt_random.c",
		"rt_string.c",
		"rt_time.c",
		"rt_uuid.c",
	}
}

// InvokeCC compiles generatedC (the emitted program) together with the
// bundled runtime into the executable at opts.OutputPath. Per §6, the
// toolchain is invoked with -std=c99 plus the requested -O level.
func InvokeCC(generatedC string, opts CompileOptions) error {
	workDir, err := os.MkdirTemp("", "arcl-build-*")
	if err != nil {
		return fmt.Errorf("arcl: could not create build directory: %v", err)
	}
	defer os.RemoveAll(workDir)

	if err := extractRuntime(workDir); err != nil {
		return fmt.Errorf("arcl: could not extract runtime sources: %v", err)
	}

	mainPath := filepath.Join(workDir, "program.c")
	if err := os.WriteFile(mainPath, []byte(generatedC), 0644); err != nil {
		return fmt.Errorf("arcl: could not write generated C: %v", err)
	}

	cc, err := resolveCC(opts.CC)
	if err != nil {
		return fmt.Errorf("Error: %v", err)
	}

	args := []string{"-std=c99", opts.Opt.ccFlag(), "-I", workDir}
	if opts.TargetPlatform != nil && strings.Contains(filepath.Base(cc), "clang") {
		args = append(args, "-target", opts.TargetPlatform.ClangTarget())
	}
	if opts.Debug {
		args = append(args, "-g", "-DARCL_DEBUG=1")
	}
	args = append(args, opts.CFlags...)
	args = append(args, mainPath)
	for _, src := range runtimeSources() {
		args = append(args, filepath.Join(workDir, src))
	}
	args = append(args, "-o", opts.OutputPath)
	if needsPosixLibs(cc) {
		args = append(args, "-lm", "-lpthread")
	}

	cmd := exec.Command(cc, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if opts.Verbose {
		fmt.Fprintf(os.Stderr, "+ %s %v\n", cc, args)
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("Error: C compilation failed: %v", err)
	}
	return nil
}

func needsPosixLibs(cc string) bool {
	platform := engine.GetDefaultPlatform()
	return platform.OS != engine.OSWindows
}
