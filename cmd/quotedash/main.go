package main

import (
	"os"

	"github.com/mleary/quotedash/pkg/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
