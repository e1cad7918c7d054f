// main.go - entry point. Adapted from the teacher's main.go top-level
// dispatch (flag handling, GetDefaultPlatform, hand-off into RunCLI),
// trimmed of the native-codegen-specific flags (-arch, -compress, -tiny,
// -single) that don't apply to a C-emitting compiler.
package main

import (
	"os"
)

func main() {
	os.Exit(RunCLI(CommandContext{Args: os.Args[1:]}))
}
