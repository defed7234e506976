// Package main provides the scalingoctl command line tool.
package main

import (
	"os"

	"github.com/narvanalabs/scalingo-dashboard/internal/cli"
)

// version is set at build time using ldflags.
var version = "dev"

func main() {
	os.Exit(cli.Execute(version))
}
