package main

import (
	"fmt"
	"os"

	"github.com/alexanderramin/weekplot/internal/cli"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	rootCmd := cli.NewRootCmd(cli.NewApp())
	return rootCmd.Execute()
}
