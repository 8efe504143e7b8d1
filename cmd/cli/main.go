// Package main is the entry point for the flowdeck CLI binary.
package main

import (
	"os"

	cli "flowdeck/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
