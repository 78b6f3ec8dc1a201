package main

import (
	"os"

	"github.com/smallbiznis/custoscarbon/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
