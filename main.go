package main

import (
	"os"

	"github.com/flatsheet/flatsheet/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
