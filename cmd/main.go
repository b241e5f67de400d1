package main

import (
	"os"
	"path/filepath"

	"github.com/ReageMeuFilho/octant-v2-core-sub005/cmd/commands"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/node"
	"github.com/tendermint/tendermint/libs/cli"
)

func main() {
	commands.RootCmd.AddCommand(
		commands.NewInitFilesCmd(),
		commands.NewRunNodeCmd(node.NewMechNode),
		commands.VersionCmd,
	)

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	executor := cli.PrepareBaseCmd(commands.RootCmd, "MECH", filepath.Join(home, ".mech"))
	if err := executor.Execute(); err != nil {
		panic(err)
	}
}
