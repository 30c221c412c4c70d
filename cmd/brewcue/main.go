// brewcue is an offline terminal coffee-brewing companion.
//
// Usage:
//
//	brewcue [brew [recipe]] [--verbose] [--quiet]
//	brewcue list | show | import | export | new | edit | delete | methods | config
package main

import (
	"os"

	"github.com/hammamikhairi/brewcue/internal/cli"
)

var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
