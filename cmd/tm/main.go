package main

import (
	"fmt"
	"os"

	"task-manager/internal/cli"
)

func main() {
	root := cli.NewRootCommand(cli.RootOptions{})

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.NewErrorHandler().ExitCode(err))
	}
}
