package main

import (
	"fmt"
	"os"
)

func main() {
	os.Exit(mainWithArgs(os.Args[1:]))
}

// mainWithArgs runs the CLI and returns the process exit code.
func mainWithArgs(args []string) int {
	root := buildRootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "taskd:", err)
		return 1
	}
	return 0
}
