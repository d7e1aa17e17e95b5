package main

import (
	"os"

	"github.com/sabta/casedrill/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
