// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "YAML configuration file, overridden by flags",
	}
	layoutFlag = cli.StringFlag{
		Name:  "layout",
		Usage: "storage layout JSON, compiler artifact or build-info file",
	}
	contractFlag = cli.StringFlag{
		Name:  "contract",
		Usage: "contract to pick from an artifact holding several, as Name or path:Name",
	}
	addressFlag = cli.StringFlag{
		Name:  "address",
		Usage: "contract address",
	}
	packArraysFlag = cli.BoolFlag{
		Name:  "pack-arrays",
		Usage: "pack array elements of 16 bytes or less several per slot, as the compiler does",
	}
	backendFlag = cli.StringFlag{
		Name:  "backend",
		Usage: "storage backend (rpc|leveldb|memory)",
	}
	rpcURLFlag = cli.StringFlag{
		Name:  "rpc-url",
		Usage: "JSON-RPC endpoint of the development node",
	}
	setMethodFlag = cli.StringFlag{
		Name:  "set-method",
		Usage: "JSON-RPC method used to write storage, e.g. anvil_setStorageAt",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Usage: "directory of the leveldb backend",
	}
	cacheSizeFlag = cli.IntFlag{
		Name:  "cache-size",
		Usage: "number of storage words to cache, 0 disables the cache",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Usage: "log verbosity (0-5)",
	}
	logJSONFlag = cli.BoolFlag{
		Name:  "log-json",
		Usage: "write logs as JSON",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "serve Prometheus metrics at /metrics",
	}
)

var (
	layoutFlags = []cli.Flag{
		configFlag,
		layoutFlag,
		contractFlag,
		packArraysFlag,
		verbosityFlag,
		logJSONFlag,
	}
	backendFlags = []cli.Flag{
		addressFlag,
		backendFlag,
		rpcURLFlag,
		setMethodFlag,
		dataDirFlag,
		cacheSizeFlag,
	}
	apiFlags = []cli.Flag{
		apiAddrFlag,
		apiCorsFlag,
		enableAPILogsFlag,
		enableMetricsFlag,
	}
)

func flags(groups ...[]cli.Flag) []cli.Flag {
	var all []cli.Flag
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}
