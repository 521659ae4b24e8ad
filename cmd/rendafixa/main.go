package main

import (
	"os"

	"github.com/rustyeddy/rendafixa/cmd/rendafixa/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
