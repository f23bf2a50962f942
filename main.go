package main

import (
	"os"

	"github.com/abhisek/mathcraft/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
