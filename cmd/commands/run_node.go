package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/ReageMeuFilho/octant-v2-core-sub005/node"
	"github.com/spf13/cobra"
)

func AddNodeFlags(cmd *cobra.Command) {
	cmd.Flags().String("moniker", config.Moniker, "node name")
	cmd.Flags().String("rpc.laddr", config.RPC.ListenAddress, "RPC listen address. Port required")
	cmd.Flags().String("p2p.laddr", config.P2P.ListenAddress, "node listen address. (0.0.0.0:0 means any interface, any port)")
	cmd.Flags().String("p2p.persistent_peers", config.P2P.PersistentPeers, "comma-delimited ID@host:port persistent peers")
	cmd.Flags().String("log_level", config.LogLevel, "log level")
}

// NewRunNodeCmd returns the command that allows the CLI to start a node.
func NewRunNodeCmd(nodeProvider node.Provider) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "start",
		Aliases: []string{"node", "run"},
		Short:   "Run the mechanism node",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := nodeProvider(config, logger)
			if err != nil {
				return err
			}
			if err := n.Start(); err != nil {
				return err
			}
			logger.Info("Started node", "nodeInfo", n.Switch().NodeInfo())

			sigc := make(chan os.Signal, 1)
			signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
			<-sigc

			if n.IsRunning() {
				if err := n.Stop(); err != nil {
					logger.Error("unable to stop the node", "error", err)
				}
			}
			return nil
		},
	}

	AddNodeFlags(cmd)
	return cmd
}
