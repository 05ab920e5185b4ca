// Command esgctl runs operator tasks against the ESG Champions database.
package main

import (
	"os"

	"github.com/yigit/esgchampions/internal/cli"
)

func main() {
	os.Exit(cli.New().Execute())
}
