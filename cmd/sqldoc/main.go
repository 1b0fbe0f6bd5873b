// Command sqldoc checks SQL documentation pages for internal
// consistency.
package main

import (
	"os"

	"github.com/sqldoc-dev/sqldoc/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
