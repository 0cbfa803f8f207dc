// Command eversession is the CLI entrypoint: a cobra root command wiring
// one verb subcommand per transcript operation (fix, validate, trim,
// compact, remove, strip, discover, supervise, export, diff, analyze).
package main

import (
	"fmt"
	"os"

	"github.com/teunlao/eversession/internal/cmd"
)

var version = "dev"

func main() {
	root := cmd.NewRootCmd(version)
	err := root.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(cmd.ExitCode(err))
}
