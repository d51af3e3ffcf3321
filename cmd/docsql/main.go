// Package main provides the docsql command-line tool.
package main

import (
	"os"

	"github.com/leapstack-labs/docsql/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
