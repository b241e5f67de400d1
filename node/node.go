package node

import (
	"fmt"

	cfg "github.com/ReageMeuFilho/octant-v2-core-sub005/cmd/config"
	tmlog "github.com/tendermint/tendermint/libs/log"
	tmnode "github.com/tendermint/tendermint/node"
	"github.com/tendermint/tendermint/p2p"
	"github.com/tendermint/tendermint/privval"
	"github.com/tendermint/tendermint/proxy"
)

type Provider func(*cfg.Config, tmlog.Logger) (*tmnode.Node, error)

// NewMechNode returns a Tendermint node running MechApp in-process.
func NewMechNode(config *cfg.Config, logger tmlog.Logger) (*tmnode.Node, error) {
	nodeKey, err := p2p.LoadOrGenNodeKey(config.NodeKeyFile())
	if err != nil {
		return nil, fmt.Errorf("failed to load or gen node key %s: %w", config.NodeKeyFile(), err)
	}

	app := NewMechApp(config, logger)
	if err := app.Start(); err != nil {
		return nil, err
	}

	return tmnode.NewNode(config.Config,
		privval.LoadOrGenFilePV(config.PrivValidatorKeyFile(), config.PrivValidatorStateFile()),
		nodeKey,
		proxy.NewLocalClientCreator(app),
		tmnode.DefaultGenesisDocProviderFunc(config.Config),
		tmnode.DefaultDBProvider,
		tmnode.DefaultMetricsProvider(config.Instrumentation),
		logger,
	)
}
