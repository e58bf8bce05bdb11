// squadready - squad ready-check notifications for a game host bridge

package main

import (
	"os"

	"github.com/squadready/squadready/internal/cli"
)

func main() {
	os.Exit(cli.ExitCode(cli.Execute()))
}
