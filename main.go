package main

import (
	"os"

	"github.com/lumen-ui/lumen/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
