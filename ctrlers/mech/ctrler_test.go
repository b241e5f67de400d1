package mech

import (
	"os"
	"path/filepath"
	"testing"

	cfg "github.com/ReageMeuFilho/octant-v2-core-sub005/cmd/config"
	ctrlertypes "github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/genesis"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	"github.com/stretchr/testify/require"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

var (
	config     = cfg.DefaultConfig()
	mechCtrler *MechCtrler

	owner    = types.RandAddress()
	stranger = types.RandAddress()
)

func init() {
	config.SetRoot(filepath.Join(os.TempDir(), "mech-ctrler-test"))
	os.RemoveAll(config.DBDir())
	os.MkdirAll(config.DBDir(), 0o700)

	var xerr xerrors.XError
	if mechCtrler, xerr = NewMechCtrler(config, tmlog.NewNopLogger()); xerr != nil {
		panic(xerr)
	}

	params := ctrlertypes.Test1MechParams()
	params.SetOwner(owner)
	genAppState := genesis.NewGenesisAppState(nil, params)
	if xerr = mechCtrler.InitLedger(genAppState); xerr != nil {
		panic(xerr)
	}
	if _, _, xerr = mechCtrler.Commit(); xerr != nil {
		panic(xerr)
	}
}

func TestMain(m *testing.M) {
	exitCode := m.Run()

	os.RemoveAll(config.DBDir())
	os.Exit(exitCode)
}

func makeTrxCtx(tx *ctrlertypes.Trx, exec bool) *ctrlertypes.TrxContext {
	txbz, _ := tx.Encode()
	txctx, _ := ctrlertypes.NewTrxContext(txbz, 10, 30, exec, func(_txctx *ctrlertypes.TrxContext) xerrors.XError {
		_txctx.TrxMechHandler = mechCtrler
		_txctx.MechHandler = mechCtrler
		return nil
	})
	return txctx
}

func runTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	if xerr := mechCtrler.ValidateTrx(ctx); xerr != nil {
		return xerr
	}
	return mechCtrler.ExecuteTrx(ctx)
}

func TestSetAlpha(t *testing.T) {
	txNoRight := ctrlertypes.NewTrxSetAlpha(stranger, 1, 1, 2)
	xerr := runTrx(makeTrxCtx(txNoRight, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrNoRight.Code(), xerr.Code())

	txZeroDen := ctrlertypes.NewTrxSetAlpha(owner, 1, 1, 0)
	xerr = runTrx(makeTrxCtx(txZeroDen, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrInvalidAlpha.Code(), xerr.Code())

	txTooBig := ctrlertypes.NewTrxSetAlpha(owner, 2, 3, 2)
	xerr = runTrx(makeTrxCtx(txTooBig, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrInvalidAlpha.Code(), xerr.Code())

	tx := ctrlertypes.NewTrxSetAlpha(owner, 3, 1, 2)
	require.NoError(t, runTrx(makeTrxCtx(tx, true)))

	num, den := mechCtrler.Alpha()
	require.Equal(t, uint64(1), num)
	require.Equal(t, uint64(2), den)
}

func TestCheckTxDoesNotTouchLiveParams(t *testing.T) {
	num0, den0 := mechCtrler.Alpha()

	tx := ctrlertypes.NewTrxSetAlpha(owner, 4, 1, 4)
	require.NoError(t, runTrx(makeTrxCtx(tx, false)))

	num, den := mechCtrler.Alpha()
	require.Equal(t, num0, num)
	require.Equal(t, den0, den)
}

func TestPause(t *testing.T) {
	require.False(t, mechCtrler.IsPaused())

	txNoRight := ctrlertypes.NewTrxPause(stranger, 1)
	xerr := runTrx(makeTrxCtx(txNoRight, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrNoRight.Code(), xerr.Code())

	require.NoError(t, runTrx(makeTrxCtx(ctrlertypes.NewTrxPause(owner, 5), true)))
	require.True(t, mechCtrler.IsPaused())

	require.NoError(t, runTrx(makeTrxCtx(ctrlertypes.NewTrxUnpause(owner, 6), true)))
	require.False(t, mechCtrler.IsPaused())
}

func TestSetOwner(t *testing.T) {
	newOwner := types.RandAddress()

	txZero := ctrlertypes.NewTrxSetOwner(owner, types.ZeroAddress(), 7)
	xerr := runTrx(makeTrxCtx(txZero, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrInvalidTrx.Code(), xerr.Code())

	require.NoError(t, runTrx(makeTrxCtx(ctrlertypes.NewTrxSetOwner(owner, newOwner, 8), true)))
	require.True(t, mechCtrler.IsOwner(newOwner))
	require.False(t, mechCtrler.IsOwner(owner))

	// the old owner is locked out immediately
	xerr = runTrx(makeTrxCtx(ctrlertypes.NewTrxPause(owner, 9), true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrNoRight.Code(), xerr.Code())

	_, _, xerr = mechCtrler.Commit()
	require.NoError(t, xerr)

	// committed params survive a restart
	require.NoError(t, mechCtrler.Close())
	reopened, xerr := NewMechCtrler(config, tmlog.NewNopLogger())
	require.NoError(t, xerr)
	require.True(t, reopened.IsOwner(newOwner))
	num, den := reopened.Alpha()
	require.Equal(t, uint64(1), num)
	require.Equal(t, uint64(2), den)
	mechCtrler = reopened
}
