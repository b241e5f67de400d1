package funding

import (
	"testing"

	ctrlertypes "github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

var (
	voters      []types.Address
	votingCases []*Case
)

func init() {
	for i := 0; i < 4; i++ {
		voters = append(voters, registryMock.add(types.RandAddress(), 100))
	}
	outsider := types.RandAddress()

	hugeWeight := new(uint256.Int).Lsh(uint256.NewInt(1), 130)

	txEarly := ctrlertypes.NewTrxVoting(voters[0], 1, 1, ctrlertypes.CHOICE_FOR, uint256.NewInt(7))
	txNoProp := ctrlertypes.NewTrxVoting(voters[0], 2, 99, ctrlertypes.CHOICE_FOR, uint256.NewInt(7))
	txOutsider := ctrlertypes.NewTrxVoting(outsider, 1, 1, ctrlertypes.CHOICE_FOR, uint256.NewInt(1))
	txOverflow := ctrlertypes.NewTrxVoting(voters[0], 3, 1, ctrlertypes.CHOICE_FOR, hugeWeight)

	txVote0 := ctrlertypes.NewTrxVoting(voters[0], 4, 1, ctrlertypes.CHOICE_FOR, uint256.NewInt(7))
	txVote1 := ctrlertypes.NewTrxVoting(voters[1], 1, 1, ctrlertypes.CHOICE_FOR, uint256.NewInt(10))
	txVote2 := ctrlertypes.NewTrxVoting(voters[2], 1, 1, ctrlertypes.CHOICE_FOR, uint256.NewInt(7))
	txVote3 := ctrlertypes.NewTrxVoting(voters[3], 1, 1, ctrlertypes.CHOICE_FOR, uint256.NewInt(2))

	txTwice := ctrlertypes.NewTrxVoting(voters[0], 5, 1, ctrlertypes.CHOICE_FOR, uint256.NewInt(1))
	txBroke := ctrlertypes.NewTrxVoting(voters[1], 2, 2, ctrlertypes.CHOICE_FOR, uint256.NewInt(1))
	txVoteP2 := ctrlertypes.NewTrxVoting(voters[0], 6, 2, ctrlertypes.CHOICE_FOR, uint256.NewInt(3))

	votingCases = []*Case{
		{txctx: makeTrxCtx(txEarly, 9, 127, true), err: xerrors.ErrNotVotingPeriod},
		{txctx: makeTrxCtx(txNoProp, 20, 160, true), err: xerrors.ErrNotFoundProposal},
		{txctx: makeTrxCtx(txOutsider, 20, 160, true), err: xerrors.ErrNotFoundRegistrant},
		{txctx: makeTrxCtx(txOverflow, 20, 160, true), err: xerrors.ErrOverflow},
		{txctx: makeTrxCtx(txVote0, 20, 160, true), err: nil},
		{txctx: makeTrxCtx(txVote1, 21, 163, true), err: nil},
		{txctx: makeTrxCtx(txVote2, 21, 163, true), err: nil},
		{txctx: makeTrxCtx(txVote3, 22, 166, true), err: nil},
		{txctx: makeTrxCtx(txTwice, 23, 169, true), err: xerrors.ErrAlreadyVoted},
		{txctx: makeTrxCtx(txBroke, 23, 169, true), err: xerrors.ErrInsufficientPower},
		{txctx: makeTrxCtx(txVoteP2, 23, 169, true), err: nil},
	}
}

func TestVoting(t *testing.T) {
	for i, c := range votingCases {
		xerr := runTrx(c.txctx)
		if c.err == nil {
			require.NoError(t, xerr, "index", i)
		} else {
			require.Error(t, xerr, "index", i)
			require.Equal(t, c.err.Code(), xerr.Code(), "index", i)
		}
	}

	_, _, xerr := fundingCtrler.Commit()
	require.NoError(t, xerr)

	prop1, xerr := fundingCtrler.ReadProposal(1)
	require.NoError(t, xerr)
	require.Equal(t, 4, len(prop1.Votes))
	require.Equal(t, "202", prop1.Tally.SumContribs.Dec())
	require.Equal(t, "26", prop1.Tally.SumSqrt.Dec())
	require.Equal(t, "26", prop1.Tally.SumFor.Dec())

	// weight 7 costs 49; weight 3 more costs 9
	require.Equal(t, "42", registryMock.PowerOf(voters[0], true).Dec())
	require.Equal(t, "0", registryMock.PowerOf(voters[1], true).Dec())

	vote := prop1.VoteOf(voters[0])
	require.NotNil(t, vote)
	require.Equal(t, "49", vote.Cost.Dec())
	require.True(t, prop1.HasVoted(voters[3]))
	require.False(t, prop1.HasVoted(types.RandAddress()))
}

func TestCancel(t *testing.T) {
	txWrongSender := ctrlertypes.NewTrxCancel(voters[0], 7, 3)
	xerr := runTrx(makeTrxCtx(txWrongSender, 30, 190, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrNoRight.Code(), xerr.Code())

	txCancel := ctrlertypes.NewTrxCancel(proposer, 7, 3)
	require.NoError(t, runTrx(makeTrxCtx(txCancel, 30, 190, true)))

	txAgain := ctrlertypes.NewTrxCancel(proposer, 8, 3)
	xerr = runTrx(makeTrxCtx(txAgain, 31, 193, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrAlreadyCanceled.Code(), xerr.Code())

	// no votes land on a canceled proposal
	txVote := ctrlertypes.NewTrxVoting(voters[2], 2, 3, ctrlertypes.CHOICE_FOR, uint256.NewInt(1))
	xerr = runTrx(makeTrxCtx(txVote, 31, 193, true))
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrProposalCanceled.Code(), xerr.Code())

	_, _, xerr = fundingCtrler.Commit()
	require.NoError(t, xerr)

	prop3, xerr := fundingCtrler.ReadProposal(3)
	require.NoError(t, xerr)
	require.True(t, prop3.Canceled)
}
