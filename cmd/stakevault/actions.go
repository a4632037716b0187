// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/stakevault/stakevault/api"
	"github.com/stakevault/stakevault/builtin/staking"
	"github.com/stakevault/stakevault/builtin/token"
	"github.com/stakevault/stakevault/genesis"
	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/log"
	"github.com/stakevault/stakevault/logdb"
	"github.com/stakevault/stakevault/metrics"
	"github.com/stakevault/stakevault/tx"
)

func keygenAction(ctx *cli.Context) error {
	path := ctx.String(outFlag.Name)
	if path == "" {
		path = ctx.GlobalString(keyFlag.Name)
	}
	if path == "" {
		return errors.New("an output file is required, use --out or --key")
	}
	if _, err := os.Stat(path); err == nil {
		return errors.Errorf("%v already exists", path)
	}
	priv, err := ledger.GenerateKey()
	if err != nil {
		return err
	}
	if err := ledger.SaveKey(path, priv); err != nil {
		return errors.Wrap(err, "save key")
	}
	fmt.Println(ledger.AddressOf(priv))
	return nil
}

func genesisAction(ctx *cli.Context) error {
	network, err := selectNetwork(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(network)
	if err != nil {
		return err
	}
	data = append([]byte(fmt.Sprintf("# id: %v\n", network.ID())), data...)
	if path := ctx.String(outFlag.Name); path != "" {
		return os.WriteFile(path, data, 0o644)
	}
	_, err = os.Stdout.Write(data)
	return err
}

// submit signs the instruction built for the signer and executes it on the local ledger.
func submit(ctx *cli.Context, build func(network *genesis.Network, signer ledger.Address) (*tx.Instruction, error)) error {
	env, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	signer, err := signerAccount(ctx, env.network)
	if err != nil {
		return err
	}
	ix, err := build(env.network, signer.Address)
	if err != nil {
		return err
	}
	trx := new(tx.Builder).
		Nonce(uint64(time.Now().UnixNano())).
		Instruction(ix).
		Build().
		Sign(signer.PrivateKey)

	out, err := env.node.Submit(context.Background(), trx)
	if err != nil {
		return errors.WithMessage(err, "tx rejected")
	}
	printReceipt(os.Stdout, out)
	if out.Err != nil {
		if code, ok := staking.CodeOf(out.Err); ok {
			return errors.Errorf("tx reverted with code %d: %v", uint32(code), out.Err.Cause)
		}
		return errors.WithMessage(out.Err, "tx reverted")
	}
	return nil
}

// parseAmount reads the amount argument, in whole tokens unless raw.
func parseAmount(arg string, raw bool, decimals uint8) (uint64, error) {
	if arg == "" {
		return 0, errors.New("amount required")
	}
	if raw {
		v, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return 0, errors.Wrap(err, "amount")
		}
		return v, nil
	}
	return token.ParseAmount(arg, decimals)
}

func initializeAction(ctx *cli.Context) error {
	return submit(ctx, func(network *genesis.Network, signer ledger.Address) (*tx.Instruction, error) {
		return staking.NewInitializeAccounts(network.ProgramID, signer, network.TokenMint).Instruction(network.ProgramID), nil
	})
}

func stakeAction(ctx *cli.Context) error {
	return submit(ctx, func(network *genesis.Network, signer ledger.Address) (*tx.Instruction, error) {
		amount, err := parseAmount(ctx.Args().First(), ctx.Bool(rawFlag.Name), network.TokenDecimals)
		if err != nil {
			return nil, err
		}
		return staking.NewStakeAccounts(network.ProgramID, signer, network.TokenMint).StakeInstruction(network.ProgramID, amount), nil
	})
}

func unstakeAction(ctx *cli.Context) error {
	return submit(ctx, func(network *genesis.Network, signer ledger.Address) (*tx.Instruction, error) {
		amount, err := parseAmount(ctx.Args().First(), ctx.Bool(rawFlag.Name), network.TokenDecimals)
		if err != nil {
			return nil, err
		}
		return staking.NewStakeAccounts(network.ProgramID, signer, network.TokenMint).UnstakeInstruction(network.ProgramID, amount), nil
	})
}

func pauseAction(ctx *cli.Context) error {
	return submit(ctx, func(network *genesis.Network, signer ledger.Address) (*tx.Instruction, error) {
		return staking.PauseInstruction(network.ProgramID, signer), nil
	})
}

func unpauseAction(ctx *cli.Context) error {
	return submit(ctx, func(network *genesis.Network, signer ledger.Address) (*tx.Instruction, error) {
		return staking.UnpauseInstruction(network.ProgramID, signer), nil
	})
}

func stateAction(ctx *cli.Context) error {
	env, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	gs, err := env.node.StakingReader().State()
	if err != nil {
		return err
	}
	if gs == nil {
		return errors.Errorf("staking program %v is not initialized", env.network.ProgramID)
	}
	vault, err := env.node.TokenReader().Account(gs.VaultAccount)
	if err != nil {
		return errors.WithMessage(err, "vault")
	}
	printState(os.Stdout, env.network, gs, vault)
	if err := verifyState(env.network, gs, vault); err != nil {
		return err
	}
	fmt.Println("State verified")
	return nil
}

func stakeOfAction(ctx *cli.Context) error {
	env, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	var user ledger.Address
	if s := ctx.String(userFlag.Name); s != "" {
		if user, err = ledger.ParseAddress(s); err != nil {
			return errors.WithMessage(err, "user")
		}
	} else {
		signer, err := signerAccount(ctx, env.network)
		if err != nil {
			return err
		}
		user = signer.Address
	}
	us, err := env.node.StakingReader().Stake(user)
	if err != nil {
		return err
	}
	printStake(os.Stdout, env.network, user, us)
	return nil
}

func eventsAction(ctx *cli.Context) error {
	env, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	filter := &logdb.EventFilter{
		Program: &env.network.ProgramID,
		Names:   ctx.StringSlice(eventNameFlag.Name),
		Range:   &logdb.Range{From: ctx.Uint64(fromFlag.Name), To: ctx.Uint64(toFlag.Name)},
		Options: &logdb.Options{Limit: ctx.Uint64(limitFlag.Name)},
		Order:   logdb.ASC,
	}
	if filter.Range.To == 0 {
		filter.Range.To = math.MaxInt64
	}
	if ctx.Bool(descFlag.Name) {
		filter.Order = logdb.DESC
	}
	if s := ctx.String(userFlag.Name); s != "" {
		user, err := ledger.ParseAddress(s)
		if err != nil {
			return errors.WithMessage(err, "user")
		}
		filter.User = &user
	}

	events, err := env.logDB.FilterEvents(context.Background(), filter)
	if err != nil {
		return err
	}
	for _, ev := range events {
		printEvent(os.Stdout, env.network, ev)
	}
	return nil
}

func inspectAction(ctx *cli.Context) error {
	addr, err := ledger.ParseAddress(ctx.Args().First())
	if err != nil {
		return errors.WithMessage(err, "address")
	}
	env, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	rec, err := env.node.State().GetAccount(addr)
	if err != nil {
		return err
	}
	if rec == nil {
		return errors.Errorf("no record at %v", addr)
	}
	dumpRecord(os.Stdout, env.network, addr, rec)
	return nil
}

func serveAction(ctx *cli.Context) error {
	defer func() { log.Info("exited") }()

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}
	env, err := openLedger(ctx)
	if err != nil {
		return err
	}
	defer func() { log.Info("closing databases..."); env.Close() }()

	handler, closeSubs := api.New(env.node, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EnableReqLogger:      ctx.Bool(enableAPILogsFlag.Name),
		SlowQueriesThreshold: time.Duration(ctx.Int(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
		LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
		ReadOnly:             ctx.Bool(apiReadOnlyFlag.Name),
	})
	apiURL, stopAPI, err := startAPIServer(
		ctx.String(apiAddrFlag.Name),
		handler,
		time.Duration(ctx.Int(apiTimeoutFlag.Name))*time.Millisecond,
	)
	if err != nil {
		closeSubs()
		return err
	}

	fmt.Printf(`Starting stakevault %v
    Network      [ %v %v ]
    Program      [ %v ]
    Slot         [ %v ]
    Instance dir [ %v ]
    API portal   [ %v ]
`,
		fullVersion(),
		env.network.Name, env.network.ID(),
		env.network.ProgramID,
		env.node.Slot(),
		env.dir,
		apiURL,
	)

	<-handleExitSignal().Done()
	log.Info("stopping API server...")
	closeSubs()
	stopAPI()
	return nil
}
