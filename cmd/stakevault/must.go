// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/elastic/gosigar"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/stakevault/stakevault/genesis"
	"github.com/stakevault/stakevault/kv"
	"github.com/stakevault/stakevault/ledger"
	"github.com/stakevault/stakevault/log"
	"github.com/stakevault/stakevault/logdb"
	"github.com/stakevault/stakevault/node"
)

func initLogger(ctx *cli.Context) {
	level := log.FromVerbosity(ctx.GlobalInt(verbosityFlag.Name))
	log.Init(log.NewHandler(os.Stderr, level, ctx.GlobalBool(jsonLogsFlag.Name)))
}

func selectNetwork(ctx *cli.Context) (*genesis.Network, error) {
	if path := ctx.GlobalString(networkFileFlag.Name); path != "" {
		return genesis.LoadNetwork(path)
	}
	return genesis.NetworkByName(ctx.GlobalString(networkFlag.Name))
}

func defaultDataDir() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return filepath.Join(home, ".stakevault")
	}
	return filepath.Join(os.TempDir(), ".stakevault")
}

// instanceDir separates the databases of different networks sharing one data dir.
func instanceDir(dataDir string, network *genesis.Network) string {
	id := network.ID()
	return filepath.Join(dataDir, fmt.Sprintf("%s-%x", network.Name, id[:4]))
}

func normalizeCacheSize(sizeMB int) int {
	if sizeMB < 128 {
		sizeMB = 128
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		log.Warn("failed to get total mem:", "err", err)
	} else {
		// limit to 1/2 os physical ram
		limitMB := int(mem.Total / 1024 / 1024 / 2)
		if sizeMB > limitMB {
			sizeMB = limitMB
			log.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

// ledgerEnv is an opened ledger: databases plus the node on top of them.
type ledgerEnv struct {
	network *genesis.Network
	dir     string
	mainDB  *kv.LevelDB
	logDB   *logdb.LogDB
	node    *node.Node
}

func openLedger(ctx *cli.Context) (*ledgerEnv, error) {
	network, err := selectNetwork(ctx)
	if err != nil {
		return nil, err
	}
	dir := instanceDir(ctx.GlobalString(dataDirFlag.Name), network)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "create instance dir %v", dir)
	}

	cacheMB := normalizeCacheSize(ctx.GlobalInt(cacheFlag.Name))
	log.Debug("cache size(MB)", "size", cacheMB)

	mainDB, err := kv.Open(filepath.Join(dir, "main.db"), kv.Options{CacheSize: cacheMB})
	if err != nil {
		return nil, errors.Wrap(err, "open main database")
	}
	logDB, err := logdb.New(filepath.Join(dir, "logs.db"))
	if err != nil {
		mainDB.Close()
		return nil, errors.Wrap(err, "open log database")
	}
	n, err := node.New(mainDB, logDB, network)
	if err != nil {
		logDB.Close()
		mainDB.Close()
		return nil, err
	}
	return &ledgerEnv{network, dir, mainDB, logDB, n}, nil
}

func (e *ledgerEnv) Close() {
	e.node.Close()
	if err := e.logDB.Close(); err != nil {
		log.Warn("failed to close log database", "err", err)
	}
	if err := e.mainDB.Close(); err != nil {
		log.Warn("failed to close main database", "err", err)
	}
}

// signerAccount resolves the signing identity from --dev-account or --key.
func signerAccount(ctx *cli.Context, network *genesis.Network) (genesis.DevAccount, error) {
	if i := ctx.GlobalInt(devAccountFlag.Name); i >= 0 {
		if network.Name != genesis.Localnet().Name {
			return genesis.DevAccount{}, errors.New("dev accounts only exist on localnet")
		}
		accounts := genesis.DevAccounts()
		if i >= len(accounts) {
			return genesis.DevAccount{}, errors.Errorf("dev account index out of range [0, %d)", len(accounts))
		}
		return accounts[i], nil
	}
	path := ctx.GlobalString(keyFlag.Name)
	if path == "" {
		return genesis.DevAccount{}, errors.New("a signer is required, use --key or --dev-account")
	}
	priv, err := ledger.LoadKey(path)
	if err != nil {
		return genesis.DevAccount{}, errors.Wrapf(err, "load key %v", path)
	}
	return genesis.DevAccount{Address: ledger.AddressOf(priv), PrivateKey: priv}, nil
}

func startAPIServer(addr string, handler http.Handler, timeout time.Duration) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen API addr [%v]", addr)
	}
	if timeout > 0 {
		handler = handleAPITimeout(handler, timeout)
	}
	handler = requestBodyLimit(handler)
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second * 5}
	done := make(chan struct{})
	go func() {
		defer close(done)
		srv.Serve(listener)
	}()
	return "http://" + listener.Addr().String() + "/", func() {
		srv.Close()
		<-done
	}, nil
}

// maxRequestBodySize is the largest accepted request body, in bytes.
const maxRequestBodySize = 200 * 1024

func requestBodyLimit(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
		h.ServeHTTP(w, r)
	})
}

// handleAPITimeout bounds plain requests; websocket upgrades run until closed.
func handleAPITimeout(h http.Handler, timeout time.Duration) http.Handler {
	timed := http.TimeoutHandler(h, timeout, "request timeout")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Upgrade") != "" {
			h.ServeHTTP(w, r)
			return
		}
		timed.ServeHTTP(w, r)
	})
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		log.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}
