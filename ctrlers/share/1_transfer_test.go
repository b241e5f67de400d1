package share

import (
	"testing"

	ctrlertypes "github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

var holderC = types.RandAddress()

func TestTransfer(t *testing.T) {
	txZeroRecv := ctrlertypes.NewTrxTransfer(holderA, types.ZeroAddress(), 1, uint256.NewInt(20))
	xerr := runTrx(makeTrxCtx(txZeroRecv, 10, 300, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrInvalidTrx.Code(), xerr.Code())

	txZeroAmt := ctrlertypes.NewTrxTransfer(holderA, holderC, 2, uint256.NewInt(0))
	xerr = runTrx(makeTrxCtx(txZeroAmt, 10, 300, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrInvalidTrx.Code(), xerr.Code())

	txTooMuch := ctrlertypes.NewTrxTransfer(holderA, holderC, 3, uint256.NewInt(200))
	xerr = runTrx(makeTrxCtx(txTooMuch, 10, 300, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrInsufficientShares.Code(), xerr.Code())

	txStranger := ctrlertypes.NewTrxTransfer(types.RandAddress(), holderC, 1, uint256.NewInt(1))
	xerr = runTrx(makeTrxCtx(txStranger, 10, 300, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrInsufficientShares.Code(), xerr.Code())

	tx := ctrlertypes.NewTrxTransfer(holderA, holderC, 4, uint256.NewInt(20))
	require.NoError(t, runTrx(makeTrxCtx(tx, 10, 300, true)))

	_, _, xerr = shareCtrler.Commit()
	require.NoError(t, xerr)

	require.Equal(t, "80", shareCtrler.BalanceOf(holderA, true).Dec())
	require.Equal(t, "20", shareCtrler.BalanceOf(holderC, true).Dec())
	// transfers move shares, not pool assets
	require.Equal(t, "160", shareCtrler.TotalShares(true).Dec())
	require.Equal(t, "1000", shareCtrler.PoolBalance(true).Dec())

	// the receiver inherits the sender's redemption window
	grace := mechParams.GracePeriodSeconds()
	require.Equal(t, "125", shareCtrler.WithdrawLimit(holderC, 5010, grace).Dec())
	require.Equal(t, "0", shareCtrler.WithdrawLimit(holderC, 4999, grace).Dec())
}
