/*
Command-line tool for one-way directory synchronization.

Usage:

	$ dirsync [<flags>] <source> <destination>

Use 'dirsync help' to see more details.
*/
package main

import (
	"os"

	"github.com/alecthomas/kingpin/v2"

	"github.com/AlexMincu/dirsync/cli"
)

func main() {
	app := kingpin.New("dirsync", "One-way directory synchronization.")

	cli.NewApp(app)

	kingpin.MustParse(app.Parse(os.Args[1:]))
}
