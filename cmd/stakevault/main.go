// Copyright (c) 2025 The VeChainThor developers
//
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
	return &cli.App{
		Version: fullVersion(),
		Name:    "stakevault",
		Usage:   "Token staking vault ledger",
		Flags: []cli.Flag{
			networkFlag,
			networkFileFlag,
			dataDirFlag,
			cacheFlag,
			verbosityFlag,
			jsonLogsFlag,
			keyFlag,
			devAccountFlag,
		},
		Before: func(ctx *cli.Context) error {
			initLogger(ctx)
			return nil
		},
		Commands: []cli.Command{
			{
				Name:   "keygen",
				Usage:  "generate a signer key",
				Flags:  []cli.Flag{outFlag},
				Action: keygenAction,
			},
			{
				Name:   "genesis",
				Usage:  "print the selected network as yaml, usable with --network-file",
				Flags:  []cli.Flag{outFlag},
				Action: genesisAction,
			},
			{
				Name:   "initialize",
				Usage:  "initialize the staking program, the signer becomes the owner",
				Action: initializeAction,
			},
			{
				Name:      "stake",
				Usage:     "move tokens of the signer into the vault",
				ArgsUsage: "<amount>",
				Flags:     []cli.Flag{rawFlag},
				Action:    stakeAction,
			},
			{
				Name:      "unstake",
				Usage:     "move staked tokens of the signer back out of the vault",
				ArgsUsage: "<amount>",
				Flags:     []cli.Flag{rawFlag},
				Action:    unstakeAction,
			},
			{
				Name:   "pause",
				Usage:  "stop accepting stakes (owner only)",
				Action: pauseAction,
			},
			{
				Name:   "unpause",
				Usage:  "accept stakes again (owner only)",
				Action: unpauseAction,
			},
			{
				Name:   "state",
				Usage:  "print the global state and verify it against the network",
				Action: stateAction,
			},
			{
				Name:   "stake-of",
				Usage:  "print the staked balance of a participant",
				Flags:  []cli.Flag{userFlag},
				Action: stakeOfAction,
			},
			{
				Name:   "events",
				Usage:  "list indexed staking events",
				Flags:  []cli.Flag{eventNameFlag, userFlag, fromFlag, toFlag, limitFlag, descFlag},
				Action: eventsAction,
			},
			{
				Name:      "inspect",
				Usage:     "dump the record stored at an address",
				ArgsUsage: "<address>",
				Action:    inspectAction,
			},
			{
				Name:  "serve",
				Usage: "serve the ledger API",
				Flags: []cli.Flag{
					apiAddrFlag,
					apiCorsFlag,
					apiTimeoutFlag,
					apiLogsLimitFlag,
					apiReadOnlyFlag,
					enableAPILogsFlag,
					apiSlowQueriesThresholdFlag,
					enableMetricsFlag,
				},
				Action: serveAction,
			},
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
