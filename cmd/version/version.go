package version

import (
	"fmt"

	tmversion "github.com/tendermint/tendermint/version"
)

var (
	majorVer uint64 = 0
	minorVer uint64 = 2
	patchVer uint64 = 0

	// set with -ldflags "-X '.../cmd/version.GitCommit=...'"
	GitCommit string
)

func String() string {
	s := fmt.Sprintf("v%v.%v.%v@%s", majorVer, minorVer, patchVer, tmversion.TMCoreSemVer)
	if GitCommit != "" {
		s += "-" + GitCommit
	}
	return s
}

func Uint64() uint64 {
	return majorVer<<32 | minorVer<<16 | patchVer
}
