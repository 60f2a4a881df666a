package main

import (
	"os"

	"github.com/theirongolddev/shule/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
