package main

import (
	"os"

	"github.com/msto63/gecli/cmd/gecli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
