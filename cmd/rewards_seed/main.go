// Command rewards_seed loads reference data into the rewards database and
// offers a few offline helpers.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
