package main

import (
	"os"

	"github.com/storerate/storerate/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
