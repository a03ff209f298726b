// evgconfig generates Evergreen CI configuration files.
package main

import (
	"os"

	"github.com/hupe1980/evgconfig/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
