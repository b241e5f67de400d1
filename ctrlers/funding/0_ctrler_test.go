package funding

import (
	"os"
	"path/filepath"
	"testing"

	cfg "github.com/ReageMeuFilho/octant-v2-core-sub005/cmd/config"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/strategy"
	ctrlertypes "github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

var (
	config        = cfg.DefaultConfig()
	fundingCtrler *FundingCtrler
	admin         = types.RandAddress()
	mechParams    = ctrlertypes.Test1MechParams()
	qfStrategy    = strategy.NewQuadraticStrategy()
	registryMock  *registryHandlerMock
	shareMock     *shareHandlerMock
)

func init() {
	mechParams.SetOwner(admin)

	config.SetRoot(filepath.Join(os.TempDir(), "funding-ctrler-test"))
	os.RemoveAll(config.DBDir())
	os.MkdirAll(config.DBDir(), 0o700)

	var xerr xerrors.XError
	if fundingCtrler, xerr = NewFundingCtrler(config, tmlog.NewNopLogger()); xerr != nil {
		panic(xerr)
	}
	if xerr = fundingCtrler.InitLedger(nil); xerr != nil {
		panic(xerr)
	}

	registryMock = &registryHandlerMock{
		powers: make(map[string]*uint256.Int),
	}
	shareMock = &shareHandlerMock{
		balances: make(map[string]*uint256.Int),
		pool:     uint256.NewInt(0),
		total:    uint256.NewInt(0),
	}
}

func TestMain(m *testing.M) {
	exitCode := m.Run()

	os.RemoveAll(config.DBDir())
	os.Exit(exitCode)
}

func TestInitialTallyState(t *testing.T) {
	state := fundingCtrler.ReadTallyState()
	require.False(t, state.IsFinalized())
	require.False(t, fundingCtrler.IsFinalized(true))
}
