// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"
)

var (
	networkFlag = cli.StringFlag{
		Name:  "network",
		Value: "localnet",
		Usage: "the network to operate on (mainnet|testnet|localnet)",
	}
	networkFileFlag = cli.StringFlag{
		Name:  "network-file",
		Usage: "path to a custom network yaml file, overrides --network",
	}
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for ledger databases",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Value: 128,
		Usage: "megabytes of ram allocated to the ledger database",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-9)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	keyFlag = cli.StringFlag{
		Name:  "key",
		Usage: "path to the signer key file",
	}
	devAccountFlag = cli.IntFlag{
		Name:  "dev-account",
		Value: -1,
		Usage: "sign with the n-th built-in localnet account instead of --key",
	}
	outFlag = cli.StringFlag{
		Name:  "out",
		Usage: "output file",
	}
	userFlag = cli.StringFlag{
		Name:  "user",
		Usage: "address of the participant, defaults to the signer",
	}
	rawFlag = cli.BoolFlag{
		Name:  "raw",
		Usage: "amounts are given in base units instead of whole tokens",
	}

	// events
	eventNameFlag = cli.StringSliceFlag{
		Name:  "name",
		Usage: "event name to match, repeatable",
	}
	fromFlag = cli.Uint64Flag{
		Name:  "from",
		Usage: "first slot",
	}
	toFlag = cli.Uint64Flag{
		Name:  "to",
		Usage: "last slot, 0 for the newest",
	}
	limitFlag = cli.Uint64Flag{
		Name:  "limit",
		Value: 100,
		Usage: "maximum number of events",
	}
	descFlag = cli.BoolFlag{
		Name:  "desc",
		Usage: "newest events first",
	}

	// api
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiTimeoutFlag = cli.IntFlag{
		Name:  "api-timeout",
		Value: 10000,
		Usage: "API request timeout value in milliseconds",
	}
	apiLogsLimitFlag = cli.Uint64Flag{
		Name:  "api-logs-limit",
		Value: 1000,
		Usage: "limit the number of events returned by /staking/events",
	}
	apiReadOnlyFlag = cli.BoolFlag{
		Name:  "api-read-only",
		Usage: "disable tx submission through POST /transactions",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	apiSlowQueriesThresholdFlag = cli.IntFlag{
		Name:  "api-slow-queries-threshold",
		Value: 0,
		Usage: "requests slower than this many milliseconds are logged as warnings (0 disables)",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection, served on /metrics",
	}
)
