// Command flowgraph is the thin entrypoint invoking the cli package,
// grounded on the teacher's cli/main.go top-level Execute/os.Exit shape.
package main

import (
	"fmt"
	"os"

	"github.com/codeFather2/python-ast-visualizer/cli"
)

func main() {
	rootCmd := cli.NewRootCommand()
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(cli.ExitCode(err))
}
