package funding

import (
	"testing"

	"github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/funding/proposal"
	ctrlertypes "github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	"github.com/stretchr/testify/require"
)

func TestFinalize(t *testing.T) {
	// closing the tally is an owner operation
	txNotOwner := ctrlertypes.NewTrxFinalize(voters[3], 2)
	xerr := runTrx(makeTrxCtx(txNotOwner, 111, 433, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrNoRight.Code(), xerr.Code())

	// nothing may be queued until the tally is closed
	txQueueEarly := ctrlertypes.NewTrxQueue(admin, 1, 1)
	xerr = runTrx(makeTrxCtx(txQueueEarly, 110, 430, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrTallyNotFinalized.Code(), xerr.Code())

	// the last voting block is still open
	txTooSoon := ctrlertypes.NewTrxFinalize(admin, 2)
	xerr = runTrx(makeTrxCtx(txTooSoon, 110, 430, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrVotingNotClosed.Code(), xerr.Code())

	txFinalize := ctrlertypes.NewTrxFinalize(admin, 3)
	require.NoError(t, runTrx(makeTrxCtx(txFinalize, 111, 433, true)))
	require.True(t, fundingCtrler.IsFinalized(true))

	txAgain := ctrlertypes.NewTrxFinalize(admin, 3)
	xerr = runTrx(makeTrxCtx(txAgain, 112, 436, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrTallyFinalized.Code(), xerr.Code())

	// the mechanism is read-only after finalization
	txPropose := ctrlertypes.NewTrxProposal(proposer, types.RandAddress(), 9, "too late")
	xerr = runTrx(makeTrxCtx(txPropose, 112, 436, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrTallyFinalized.Code(), xerr.Code())

	txCancel := ctrlertypes.NewTrxCancel(proposer, 10, 4)
	xerr = runTrx(makeTrxCtx(txCancel, 112, 436, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrTallyFinalized.Code(), xerr.Code())

	_, _, xerr = fundingCtrler.Commit()
	require.NoError(t, xerr)

	state := fundingCtrler.ReadTallyState()
	require.True(t, state.IsFinalized())
	require.Equal(t, int64(111), state.FinalizedHeight)
}

func TestQueue(t *testing.T) {
	txNotOwner := ctrlertypes.NewTrxQueue(voters[3], 4, 1)
	xerr := runTrx(makeTrxCtx(txNotOwner, 113, 1000, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrNoRight.Code(), xerr.Code())

	// a funding score of 9 does not meet the quorum of 200
	txBelowQuorum := ctrlertypes.NewTrxQueue(admin, 5, 2)
	xerr = runTrx(makeTrxCtx(txBelowQuorum, 113, 1000, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrQuorumNotReached.Code(), xerr.Code())

	txCanceled := ctrlertypes.NewTrxQueue(admin, 6, 3)
	xerr = runTrx(makeTrxCtx(txCanceled, 113, 1000, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrProposalCanceled.Code(), xerr.Code())

	txNoVotes := ctrlertypes.NewTrxQueue(admin, 7, 4)
	xerr = runTrx(makeTrxCtx(txNoVotes, 113, 1000, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrQuorumNotReached.Code(), xerr.Code())

	txQueue := ctrlertypes.NewTrxQueue(admin, 8, 1)
	require.NoError(t, runTrx(makeTrxCtx(txQueue, 113, 1000, true)))

	txAgain := ctrlertypes.NewTrxQueue(admin, 9, 1)
	xerr = runTrx(makeTrxCtx(txAgain, 114, 1003, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrAlreadyQueued.Code(), xerr.Code())

	_, _, xerr = fundingCtrler.Commit()
	require.NoError(t, xerr)

	prop1, xerr := fundingCtrler.ReadProposal(1)
	require.NoError(t, xerr)
	require.True(t, prop1.Queued)
	require.Equal(t, int64(1060), prop1.RedeemableAt) // block time + 60s timelock

	// sumSqrt^2 = 26^2 = 676 at alpha 1/1, minted one to one
	require.Equal(t, 1, len(shareMock.mints))
	require.Equal(t, recipient1, shareMock.mints[0].to)
	require.Equal(t, "676", shareMock.mints[0].shares.Dec())
	require.Equal(t, int64(1060), shareMock.mints[0].redeemableAt)
	require.Equal(t, "676", shareMock.BalanceOf(recipient1, true).Dec())
}

func TestProposalStatus(t *testing.T) {
	prop1, _ := fundingCtrler.ReadProposal(1)
	prop2, _ := fundingCtrler.ReadProposal(2)
	prop3, _ := fundingCtrler.ReadProposal(3)
	prop4, _ := fundingCtrler.ReadProposal(4)

	alphaNum, alphaDen := mechParams.Alpha()
	sc := &proposal.StatusCtx{
		Height:      114,
		Now:         1003,
		Finalized:   true,
		VotingStart: mechParams.VotingStartHeight(),
		GracePeriod: mechParams.GracePeriodSeconds(),
		QuorumMet:   qfStrategy.HasQuorum(prop1.Tally, mechParams.Quorum(), alphaNum, alphaDen),
	}
	require.Equal(t, proposal.PROP_QUEUED, prop1.Status(sc))

	sc.QuorumMet = qfStrategy.HasQuorum(prop2.Tally, mechParams.Quorum(), alphaNum, alphaDen)
	require.Equal(t, proposal.PROP_DEFEATED, prop2.Status(sc))
	require.Equal(t, proposal.PROP_CANCELED, prop3.Status(sc))

	sc.QuorumMet = false
	require.Equal(t, proposal.PROP_DEFEATED, prop4.Status(sc))

	// the grace period runs out 3600s after the shares unlock
	expired := &proposal.StatusCtx{
		Height:      200,
		Now:         prop1.RedeemableAt + mechParams.GracePeriodSeconds() + 1,
		Finalized:   true,
		QuorumMet:   true,
		VotingStart: mechParams.VotingStartHeight(),
		GracePeriod: mechParams.GracePeriodSeconds(),
	}
	require.Equal(t, proposal.PROP_EXPIRED, prop1.Status(expired))

	pending := &proposal.StatusCtx{Height: 5, VotingStart: mechParams.VotingStartHeight(), GracePeriod: mechParams.GracePeriodSeconds()}
	require.Equal(t, proposal.PROP_PENDING, prop2.Status(pending))

	active := &proposal.StatusCtx{Height: 50, VotingStart: mechParams.VotingStartHeight(), GracePeriod: mechParams.GracePeriodSeconds()}
	require.Equal(t, proposal.PROP_ACTIVE, prop2.Status(active))
}
