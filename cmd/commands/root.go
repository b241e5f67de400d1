package commands

import (
	"os"

	cfg "github.com/ReageMeuFilho/octant-v2-core-sub005/cmd/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	tmcfg "github.com/tendermint/tendermint/config"
	"github.com/tendermint/tendermint/libs/cli"
	tmflags "github.com/tendermint/tendermint/libs/cli/flags"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

var (
	config = cfg.DefaultConfig()
	logger = tmlog.NewTMLogger(tmlog.NewSyncWriter(os.Stdout))
)

// ParseConfig retrieves the default environment configuration,
// sets up the root directory and ensures the root directory exists.
func ParseConfig(cmd *cobra.Command) (*cfg.Config, error) {
	conf := cfg.DefaultConfig()
	if err := viper.Unmarshal(conf.Config); err != nil {
		return nil, err
	}

	var home string
	if os.Getenv("MECHHOME") != "" {
		home = os.Getenv("MECHHOME")
	} else {
		home = viper.GetString(cli.HomeFlag)
	}
	conf.SetRoot(home)

	tmcfg.EnsureRoot(conf.RootDir)
	if err := conf.ValidateBasic(); err != nil {
		return nil, err
	}
	return conf, nil
}

var RootCmd = &cobra.Command{
	Use:   "mechd",
	Short: "pooled funding mechanism node",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == VersionCmd.Name() {
			return nil
		}

		conf, err := ParseConfig(cmd)
		if err != nil {
			return err
		}
		config = conf

		logger, err = tmflags.ParseLogLevel(config.LogLevel, logger, tmcfg.DefaultLogLevel)
		if err != nil {
			return err
		}
		logger = logger.With("module", "main")
		return nil
	},
}
