package main

import (
	"os"

	"zebra/cmd/zebra/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
