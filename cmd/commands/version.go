package commands

import (
	"fmt"

	"github.com/ReageMeuFilho/octant-v2-core-sub005/cmd/version"
	"github.com/spf13/cobra"
)

var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version info",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
	},
}
