// Command weekfn evaluates custom-week date functions.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/weekfn/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "weekfn: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
