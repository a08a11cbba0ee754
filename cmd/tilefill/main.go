// Command tilefill is the terminal image editor's entry point: invoke it
// as `tilefill [image]` to open a REPL over the stdlib image engine and
// the tile-parallel scanfill commands (scanFill, scanFillSelection,
// watershedGroup).
package main

import "github.com/nordlicht/tilefill/pkg/cli"

func main() {
	// Best-effort: a local .env can pre-set environment variables the
	// session reads later; a missing file is not fatal.
	_ = cli.LoadDotEnv(".env")
	cli.RunCLI()
}
