// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	cli "gopkg.in/urfave/cli.v1"
)

var (
	version   string
	gitCommit string
	gitTag    string
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "storagepatch"
	app.Version = fullVersion()
	app.Usage = "Read and patch typed contract storage from a compiler storage layout"
	app.Commands = []cli.Command{
		{
			Name:   "vars",
			Usage:  "list the state variables of the layout",
			Flags:  layoutFlags,
			Action: varsAction,
		},
		{
			Name:      "resolve",
			Usage:     "print the storage cell of each path",
			ArgsUsage: "<path>...",
			Flags:     layoutFlags,
			Action:    resolveAction,
		},
		{
			Name:      "get",
			Usage:     "read and decode the value at each path",
			ArgsUsage: "<path>...",
			Flags:     flags(layoutFlags, backendFlags),
			Action:    getAction,
		},
		{
			Name:      "set",
			Usage:     "write values, or the patches of the config file when no argument is given",
			ArgsUsage: "[<path> <value>]...",
			Flags:     flags(layoutFlags, backendFlags),
			Action:    setAction,
		},
		{
			Name:   "dump",
			Usage:  "print every non-zero storage word of the contract held by the leveldb backend",
			Flags:  flags(layoutFlags, backendFlags),
			Action: dumpAction,
		},
		{
			Name:   "serve",
			Usage:  "serve the HTTP API",
			Flags:  flags(layoutFlags, backendFlags, apiFlags),
			Action: serveAction,
		},
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "Fatal:", err)
		os.Exit(1)
	}
}
