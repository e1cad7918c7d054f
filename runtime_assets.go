// runtime_assets.go - bundles the runtime/ C sources into the compiler
// binary so `arcl compile` works from a single executable with no
// separate runtime install step.
package main

import "embed"

//go:embed runtime/*.c runtime/*.h
var runtimeAssets embed.FS
