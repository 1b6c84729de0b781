// Package main is the entry point for the hargabekas CLI.
package main

import (
	"os"

	"github.com/hargabekas/hargabekas/cmd/hargabekas/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
