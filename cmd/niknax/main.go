// Package main is the entry point for the niknax binary.
package main

import (
	"os"

	"github.com/sfniknax/niknax/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
