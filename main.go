package main

import (
	"os"

	"github.com/adalundhe/kindred/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
