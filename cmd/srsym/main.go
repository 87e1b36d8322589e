// Command srsym translates symbolic regression equations to symbolic
// expression trees.
package main

import (
	"os"

	"github.com/zephyrtronium/srsym/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
