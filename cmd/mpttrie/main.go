// Command mpttrie is a small operator tool for inspecting and mutating
// an on-disk Merkle Patricia Trie outside of any larger process: put,
// get and delete keys (put and delete commit immediately) and print
// root hashes, directly from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

func main() {
	app := cli.NewApp()
	app.Name = "mpttrie"
	app.Usage = "inspect and mutate a Merkle Patricia Trie NodeStore"
	app.Version = "0.1.0"
	app.Commands = NewCommands()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
