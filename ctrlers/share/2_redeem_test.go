package share

import (
	"testing"

	ctrlertypes "github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
	abcitypes "github.com/tendermint/tendermint/abci/types"
)

func TestRedeem(t *testing.T) {
	txEarly := ctrlertypes.NewTrxRedeem(holderA, nil, nil, 5, uint256.NewInt(10))
	xerr := runTrx(makeTrxCtx(txEarly, 20, 4999, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrNotRedeemable.Code(), xerr.Code())

	// 40 of 160 shares against a pool of 1000
	txA := ctrlertypes.NewTrxRedeem(holderA, nil, nil, 6, uint256.NewInt(40))
	require.NoError(t, runTrx(makeTrxCtx(txA, 21, 5010, true)))
	require.Equal(t, "750", shareCtrler.PoolBalance(true).Dec())
	require.Equal(t, "120", shareCtrler.TotalShares(true).Dec())
	require.Equal(t, "40", shareCtrler.BalanceOf(holderA, true).Dec())

	// the inherited window lets the transfer receiver redeem too
	txC := ctrlertypes.NewTrxRedeem(holderC, nil, nil, 1, uint256.NewInt(20))
	require.NoError(t, runTrx(makeTrxCtx(txC, 21, 5010, true)))
	require.Equal(t, "625", shareCtrler.PoolBalance(true).Dec())
	require.Equal(t, "100", shareCtrler.TotalShares(true).Dec())
	require.Equal(t, "0", shareCtrler.BalanceOf(holderC, true).Dec())

	txZero := ctrlertypes.NewTrxRedeem(holderA, nil, nil, 7, uint256.NewInt(0))
	xerr = runTrx(makeTrxCtx(txZero, 22, 5100, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrInvalidTrx.Code(), xerr.Code())

	txTooMuch := ctrlertypes.NewTrxRedeem(holderA, nil, nil, 8, uint256.NewInt(100))
	xerr = runTrx(makeTrxCtx(txTooMuch, 22, 5100, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrInsufficientShares.Code(), xerr.Code())

	txStranger := ctrlertypes.NewTrxRedeem(types.RandAddress(), nil, nil, 1, uint256.NewInt(5))
	xerr = runTrx(makeTrxCtx(txStranger, 22, 5100, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrNotFoundShareHolder.Code(), xerr.Code())

	_, _, xerr = shareCtrler.Commit()
	require.NoError(t, xerr)
}

func TestRedeemByAllowance(t *testing.T) {
	spender := types.RandAddress()

	// no approval yet
	txNoAllow := ctrlertypes.NewTrxRedeem(spender, spender, holderA, 1, uint256.NewInt(10))
	xerr := runTrx(makeTrxCtx(txNoAllow, 30, 5100, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrNoAllowance.Code(), xerr.Code())

	txApprove := ctrlertypes.NewTrxApprove(holderA, spender, 9, uint256.NewInt(10))
	require.NoError(t, runTrx(makeTrxCtx(txApprove, 30, 5100, true)))

	txZeroSpender := ctrlertypes.NewTrxApprove(holderA, types.ZeroAddress(), 10, uint256.NewInt(10))
	xerr = runTrx(makeTrxCtx(txZeroSpender, 30, 5100, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrInvalidTrx.Code(), xerr.Code())

	// 10 of 100 shares against a pool of 625
	txSpend := ctrlertypes.NewTrxRedeem(spender, spender, holderA, 2, uint256.NewInt(10))
	require.NoError(t, runTrx(makeTrxCtx(txSpend, 31, 5100, true)))
	require.Equal(t, "563", shareCtrler.PoolBalance(true).Dec())
	require.Equal(t, "90", shareCtrler.TotalShares(true).Dec())
	require.Equal(t, "30", shareCtrler.BalanceOf(holderA, true).Dec())

	// the allowance is spent
	txSpendAgain := ctrlertypes.NewTrxRedeem(spender, spender, holderA, 3, uint256.NewInt(1))
	xerr = runTrx(makeTrxCtx(txSpendAgain, 31, 5100, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrNoAllowance.Code(), xerr.Code())

	_, _, xerr = shareCtrler.Commit()
	require.NoError(t, xerr)
}

func TestRedeemWindow(t *testing.T) {
	// holderB's window has not opened
	txBEarly := ctrlertypes.NewTrxRedeem(holderB, nil, nil, 1, uint256.NewInt(10))
	xerr := runTrx(makeTrxCtx(txBEarly, 40, 6000, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrNotRedeemable.Code(), xerr.Code())

	// and it closes after the grace period
	expired := 7000 + mechParams.GracePeriodSeconds() + 1
	txBLate := ctrlertypes.NewTrxRedeem(holderB, nil, nil, 2, uint256.NewInt(10))
	xerr = runTrx(makeTrxCtx(txBLate, 41, expired, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrNotRedeemable.Code(), xerr.Code())

	// a rejected redemption must not burn the allowance
	spender := types.RandAddress()
	txApprove := ctrlertypes.NewTrxApprove(holderB, spender, 3, uint256.NewInt(10))
	require.NoError(t, runTrx(makeTrxCtx(txApprove, 41, 6000, true)))

	txSpendEarly := ctrlertypes.NewTrxRedeem(spender, spender, holderB, 1, uint256.NewInt(10))
	xerr = runTrx(makeTrxCtx(txSpendEarly, 41, 6000, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrNotRedeemable.Code(), xerr.Code())
	require.Equal(t, "10", shareCtrler.acctOf(holderB, true).AllowanceOf(spender).Dec())

	// 60 of 90 shares against a pool of 563
	txB := ctrlertypes.NewTrxRedeem(holderB, nil, nil, 3, uint256.NewInt(60))
	require.NoError(t, runTrx(makeTrxCtx(txB, 42, 8000, true)))

	_, _, xerr = shareCtrler.Commit()
	require.NoError(t, xerr)

	require.Equal(t, "188", shareCtrler.PoolBalance(true).Dec())
	require.Equal(t, "30", shareCtrler.TotalShares(true).Dec())
	require.Equal(t, "0", shareCtrler.BalanceOf(holderB, true).Dec())

	// cumulative assets paid out to holderA: 250 + 62
	bz, xerr := shareCtrler.Query(abcitypes.RequestQuery{Path: "share", Data: holderA})
	require.NoError(t, xerr)
	acct := &ShareAccount{}
	require.NoError(t, acct.Decode(bz))
	require.Equal(t, "312", acct.Redeemed.Dec())
	require.Equal(t, int64(5000), acct.RedeemStart)

	_, xerr = shareCtrler.Query(abcitypes.RequestQuery{Path: "share", Data: types.RandAddress()})
	require.Error(t, xerr)
}
