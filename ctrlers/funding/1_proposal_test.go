package funding

import (
	"testing"

	ctrlertypes "github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	"github.com/stretchr/testify/require"
)

type Case struct {
	txctx *ctrlertypes.TrxContext
	err   xerrors.XError
}

var (
	proposer   types.Address
	stranger   = types.RandAddress()
	recipient1 = types.RandAddress()
	recipient2 = types.RandAddress()
	recipient3 = types.RandAddress()
	recipient4 = types.RandAddress()

	proposalCases []*Case
)

func init() {
	proposer = registryMock.add(types.RandAddress(), 10)

	txNoRight := ctrlertypes.NewTrxProposal(stranger, recipient1, 1, "no voting power")
	txZeroRecv := ctrlertypes.NewTrxProposal(proposer, types.ZeroAddress(), 1, "zero recipient")
	txProp1 := ctrlertypes.NewTrxProposal(proposer, recipient1, 2, "proposal #1")
	txDupRecv := ctrlertypes.NewTrxProposal(proposer, recipient1, 3, "recipient reuse")
	txProp2 := ctrlertypes.NewTrxProposal(proposer, recipient2, 4, "proposal #2")
	txProp3 := ctrlertypes.NewTrxProposal(proposer, recipient3, 5, "proposal #3")
	txProp4 := ctrlertypes.NewTrxProposal(proposer, recipient4, 6, "proposal #4")

	proposalCases = []*Case{
		{txctx: makeTrxCtx(txNoRight, 5, 100, true), err: xerrors.ErrNoRight},
		{txctx: makeTrxCtx(txZeroRecv, 5, 100, true), err: xerrors.ErrZeroRecipient},
		{txctx: makeTrxCtx(txProp1, 5, 100, true), err: nil},
		{txctx: makeTrxCtx(txDupRecv, 5, 100, true), err: xerrors.ErrRecipientUsed},
		{txctx: makeTrxCtx(txProp2, 5, 100, true), err: nil},
		{txctx: makeTrxCtx(txProp3, 6, 103, true), err: nil},
		{txctx: makeTrxCtx(txProp4, 6, 103, true), err: nil},
	}
}

func TestPropose(t *testing.T) {
	for i, c := range proposalCases {
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

	for id := uint64(1); id <= 4; id++ {
		prop, xerr := fundingCtrler.ReadProposal(id)
		require.NoError(t, xerr)
		require.Equal(t, id, prop.ID)
		require.Equal(t, proposer, prop.Proposer)
		require.False(t, prop.Canceled)
		require.False(t, prop.Queued)
	}

	prop1, _ := fundingCtrler.ReadProposal(1)
	require.Equal(t, recipient1, prop1.Recipient)

	// ids are dense: failed submissions must not consume one
	_, xerr = fundingCtrler.ReadProposal(5)
	require.Error(t, xerr)

	require.True(t, fundingCtrler.RecipientUsed(recipient1, true))
	require.False(t, fundingCtrler.RecipientUsed(types.RandAddress(), true))
}
