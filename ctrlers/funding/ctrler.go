package funding

import (
	"strconv"
	"sync"

	cfg "github.com/ReageMeuFilho/octant-v2-core-sub005/cmd/config"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/funding/proposal"
	ctrlertypes "github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/ledger"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/crypto"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	"github.com/holiman/uint256"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	tmjson "github.com/tendermint/tendermint/libs/json"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// FundingCtrler owns the proposal ledger and the tally state. It drives the
// proposal lifecycle: submission, voting, cancellation, the one-shot
// finalization, and queueing that mints claim shares for the recipient.
type FundingCtrler struct {
	proposalLedger ledger.IFinalityLedger[*proposal.FundProposal]
	stateLedger    ledger.IFinalityLedger[*TallyState]

	logger tmlog.Logger
	mtx    sync.RWMutex
}

var _ ctrlertypes.ILedgerHandler = (*FundingCtrler)(nil)
var _ ctrlertypes.ITrxHandler = (*FundingCtrler)(nil)
var _ ctrlertypes.IFundingHandler = (*FundingCtrler)(nil)

func NewFundingCtrler(config *cfg.Config, logger tmlog.Logger) (*FundingCtrler, xerrors.XError) {
	newProposal := func() *proposal.FundProposal { return &proposal.FundProposal{} }
	proposalLedger, xerr := ledger.NewFinalityLedger[*proposal.FundProposal]("proposals", config.DBDir(), 2048, newProposal)
	if xerr != nil {
		return nil, xerr
	}

	newState := func() *TallyState { return &TallyState{} }
	stateLedger, xerr := ledger.NewFinalityLedger[*TallyState]("tally", config.DBDir(), 8, newState)
	if xerr != nil {
		return nil, xerr
	}

	return &FundingCtrler{
		proposalLedger: proposalLedger,
		stateLedger:    stateLedger,
		logger:         logger.With("module", "mech_FundingCtrler"),
	}, nil
}

func (ctrler *FundingCtrler) InitLedger(req interface{}) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.stateLedger.SetFinality(NewTallyState())
}

func (ctrler *FundingCtrler) ValidateTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	switch ctx.Tx.GetType() {
	case ctrlertypes.TRX_PROPOSAL:
		return ctrler.validatePropose(ctx)
	case ctrlertypes.TRX_VOTING:
		return ctrler.validateVote(ctx)
	case ctrlertypes.TRX_CANCEL:
		return ctrler.validateCancel(ctx)
	case ctrlertypes.TRX_FINALIZE:
		return ctrler.validateFinalize(ctx)
	case ctrlertypes.TRX_QUEUE:
		return ctrler.validateQueue(ctx)
	}
	return xerrors.ErrInvalidTrxType
}

func (ctrler *FundingCtrler) validatePropose(ctx *ctrlertypes.TrxContext) xerrors.XError {
	payload, ok := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadProposal)
	if !ok {
		return xerrors.ErrInvalidTrxPayloadType
	}

	if xerr := ctx.Strategy.ValidateProposal(ctx.Tx.From, payload.Recipient); xerr != nil {
		return xerr
	}
	if xerr := ctx.Strategy.CheckProposer(ctx.RegistryHandler.PowerOf(ctx.Tx.From, ctx.Exec)); xerr != nil {
		return xerr
	}
	if ctrler.isFinalized(ctx.Exec) {
		return xerrors.ErrTallyFinalized
	}
	if ctx.Height > ctx.MechHandler.VotingEndHeight() {
		return xerrors.ErrStateConflict.Wrap(xerrors.NewOrdinary("proposal submission is closed"))
	}

	recipient := ctx.Strategy.ResolveRecipient(payload.Recipient)
	if ctrler.recipientUsed(recipient, ctx.Exec) {
		return xerrors.ErrRecipientUsed
	}
	return nil
}

func (ctrler *FundingCtrler) validateVote(ctx *ctrlertypes.TrxContext) xerrors.XError {
	payload, ok := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadVoting)
	if !ok {
		return xerrors.ErrInvalidTrxPayloadType
	}
	if payload.Weight == nil || payload.Weight.IsZero() {
		return xerrors.ErrZeroWeight
	}

	prop := ctrler.proposalOf(payload.ProposalID, ctx.Exec)
	if prop == nil {
		return xerrors.ErrNotFoundProposal
	}
	if prop.Canceled {
		return xerrors.ErrProposalCanceled
	}
	if ctrler.isFinalized(ctx.Exec) {
		return xerrors.ErrTallyFinalized
	}
	if ctx.Height < ctx.MechHandler.VotingStartHeight() || ctx.Height > ctx.MechHandler.VotingEndHeight() {
		return xerrors.ErrNotVotingPeriod
	}
	if !ctx.RegistryHandler.IsRegistered(ctx.Tx.From, ctx.Exec) {
		return xerrors.ErrNotFoundRegistrant
	}
	if prop.HasVoted(ctx.Tx.From) {
		return xerrors.ErrAlreadyVoted
	}
	return nil
}

func (ctrler *FundingCtrler) validateCancel(ctx *ctrlertypes.TrxContext) xerrors.XError {
	payload, ok := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadCancel)
	if !ok {
		return xerrors.ErrInvalidTrxPayloadType
	}

	prop := ctrler.proposalOf(payload.ProposalID, ctx.Exec)
	if prop == nil {
		return xerrors.ErrNotFoundProposal
	}
	if prop.Proposer.Compare(ctx.Tx.From) != 0 {
		return xerrors.ErrNoRight.Wrap(xerrors.NewOrdinary("only the proposer may cancel"))
	}
	if prop.Canceled {
		return xerrors.ErrAlreadyCanceled
	}
	if prop.Queued {
		return xerrors.ErrAlreadyQueued
	}
	if ctrler.isFinalized(ctx.Exec) {
		return xerrors.ErrTallyFinalized
	}
	return nil
}

func (ctrler *FundingCtrler) validateFinalize(ctx *ctrlertypes.TrxContext) xerrors.XError {
	if !ctx.MechHandler.IsOwner(ctx.Tx.From) {
		return xerrors.ErrNoRight.Wrap(xerrors.NewOrdinary("only the owner may finalize the tally"))
	}
	if ctrler.isFinalized(ctx.Exec) {
		return xerrors.ErrTallyFinalized
	}
	return ctx.Strategy.CheckFinalize(ctx.Height, ctx.MechHandler.VotingEndHeight())
}

func (ctrler *FundingCtrler) validateQueue(ctx *ctrlertypes.TrxContext) xerrors.XError {
	payload, ok := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadQueue)
	if !ok {
		return xerrors.ErrInvalidTrxPayloadType
	}

	if !ctx.MechHandler.IsOwner(ctx.Tx.From) {
		return xerrors.ErrNoRight.Wrap(xerrors.NewOrdinary("only the owner may queue a proposal"))
	}
	if !ctrler.isFinalized(ctx.Exec) {
		return xerrors.ErrTallyNotFinalized
	}

	prop := ctrler.proposalOf(payload.ProposalID, ctx.Exec)
	if prop == nil {
		return xerrors.ErrNotFoundProposal
	}
	if prop.Canceled {
		return xerrors.ErrProposalCanceled
	}
	if prop.Queued {
		return xerrors.ErrAlreadyQueued
	}

	alphaNum, alphaDen := ctx.MechHandler.Alpha()
	if !ctx.Strategy.HasQuorum(prop.Tally, ctx.MechHandler.Quorum(), alphaNum, alphaDen) {
		return xerrors.ErrQuorumNotReached
	}
	return nil
}

func (ctrler *FundingCtrler) ExecuteTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	switch ctx.Tx.GetType() {
	case ctrlertypes.TRX_PROPOSAL:
		return ctrler.execPropose(ctx)
	case ctrlertypes.TRX_VOTING:
		return ctrler.execVote(ctx)
	case ctrlertypes.TRX_CANCEL:
		return ctrler.execCancel(ctx)
	case ctrlertypes.TRX_FINALIZE:
		return ctrler.execFinalize(ctx)
	case ctrlertypes.TRX_QUEUE:
		return ctrler.execQueue(ctx)
	}
	return xerrors.ErrInvalidTrxType
}

func (ctrler *FundingCtrler) execPropose(ctx *ctrlertypes.TrxContext) xerrors.XError {
	payload := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadProposal)
	recipient := ctx.Strategy.ResolveRecipient(payload.Recipient)

	state := ctrler.tallyStateOf(ctx.Exec)
	id := state.IssueID()

	prop := proposal.NewFundProposal(id, ctx.Tx.From, recipient, payload.Description, ctx.Height)
	if xerr := ctrler.setProposal(prop, ctx.Exec); xerr != nil {
		return xerr
	}
	if xerr := ctrler.setTallyState(state, ctx.Exec); xerr != nil {
		return xerr
	}

	ctx.AppendEvent(abcitypes.Event{
		Type: "proposal",
		Attributes: []abcitypes.EventAttribute{
			{Key: []byte(ctrlertypes.EVENT_ATTR_PROPOSAL), Value: []byte(strconv.FormatUint(id, 10)), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_TXSENDER), Value: []byte(ctx.Tx.From.String()), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_TXRECVER), Value: []byte(recipient.String()), Index: true},
		},
	})

	ctrler.logger.Debug("FundingCtrler: propose", "id", id, "proposer", ctx.Tx.From, "recipient", recipient)
	return nil
}

func (ctrler *FundingCtrler) execVote(ctx *ctrlertypes.TrxContext) xerrors.XError {
	payload := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadVoting)

	prop := ctrler.proposalOf(payload.ProposalID, ctx.Exec)
	if prop == nil {
		return xerrors.ErrNotFoundProposal
	}

	power := ctx.RegistryHandler.PowerOf(ctx.Tx.From, ctx.Exec)
	if power == nil {
		return xerrors.ErrNotFoundRegistrant
	}

	remain, xerr := ctx.Strategy.ProcessVote(payload.Choice, payload.Weight, power, prop.Tally)
	if xerr != nil {
		return xerr
	}

	cost := new(uint256.Int).Sub(power, remain)
	if _, xerr := ctx.RegistryHandler.SpendPower(ctx.Tx.From, cost, ctx.Exec); xerr != nil {
		return xerr
	}

	if xerr := prop.AddVote(&proposal.VoteRecord{
		Voter:  ctx.Tx.From,
		Choice: payload.Choice,
		Weight: payload.Weight.Clone(),
		Cost:   cost,
		Height: ctx.Height,
	}); xerr != nil {
		return xerr
	}
	if xerr := ctrler.setProposal(prop, ctx.Exec); xerr != nil {
		return xerr
	}

	ctx.AppendEvent(abcitypes.Event{
		Type: "voting",
		Attributes: []abcitypes.EventAttribute{
			{Key: []byte(ctrlertypes.EVENT_ATTR_PROPOSAL), Value: []byte(strconv.FormatUint(prop.ID, 10)), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_TXSENDER), Value: []byte(ctx.Tx.From.String()), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_AMOUNT), Value: []byte(payload.Weight.Dec()), Index: false},
		},
	})
	return nil
}

func (ctrler *FundingCtrler) execCancel(ctx *ctrlertypes.TrxContext) xerrors.XError {
	payload := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadCancel)

	prop := ctrler.proposalOf(payload.ProposalID, ctx.Exec)
	if prop == nil {
		return xerrors.ErrNotFoundProposal
	}
	if xerr := prop.DoCancel(); xerr != nil {
		return xerr
	}
	return ctrler.setProposal(prop, ctx.Exec)
}

func (ctrler *FundingCtrler) execFinalize(ctx *ctrlertypes.TrxContext) xerrors.XError {
	state := ctrler.tallyStateOf(ctx.Exec)
	if xerr := state.DoFinalize(ctx.Height); xerr != nil {
		return xerr
	}
	if xerr := ctrler.setTallyState(state, ctx.Exec); xerr != nil {
		return xerr
	}

	ctx.AppendEvent(abcitypes.Event{
		Type: "finalize",
		Attributes: []abcitypes.EventAttribute{
			{Key: []byte(ctrlertypes.EVENT_ATTR_TXSENDER), Value: []byte(ctx.Tx.From.String()), Index: true},
		},
	})

	ctrler.logger.Info("FundingCtrler: finalized", "height", ctx.Height)
	return nil
}

func (ctrler *FundingCtrler) execQueue(ctx *ctrlertypes.TrxContext) xerrors.XError {
	payload := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadQueue)

	prop := ctrler.proposalOf(payload.ProposalID, ctx.Exec)
	if prop == nil {
		return xerrors.ErrNotFoundProposal
	}

	// the funding score is priced under the alpha in force right now,
	// not the one at voting time
	alphaNum, alphaDen := ctx.MechHandler.Alpha()
	score := ctx.Strategy.FundingScore(prop.Tally, alphaNum, alphaDen)
	shares := ctx.Strategy.SharesOf(score)

	redeemableAt := ctx.BlockTime + ctx.MechHandler.TimelockSeconds()
	if xerr := prop.DoQueue(redeemableAt); xerr != nil {
		return xerr
	}
	if xerr := ctx.ShareHandler.Mint(prop.Recipient, shares, redeemableAt, ctx.Exec); xerr != nil {
		return xerr
	}
	if xerr := ctrler.setProposal(prop, ctx.Exec); xerr != nil {
		return xerr
	}

	ctx.AppendEvent(abcitypes.Event{
		Type: "queue",
		Attributes: []abcitypes.EventAttribute{
			{Key: []byte(ctrlertypes.EVENT_ATTR_PROPOSAL), Value: []byte(strconv.FormatUint(prop.ID, 10)), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_TXRECVER), Value: []byte(prop.Recipient.String()), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_AMOUNT), Value: []byte(shares.Dec()), Index: false},
		},
	})

	ctrler.logger.Debug("FundingCtrler: queue",
		"id", prop.ID, "score", score.Dec(), "shares", shares.Dec(), "redeemableAt", redeemableAt)
	return nil
}

func (ctrler *FundingCtrler) proposalOf(id uint64, exec bool) *proposal.FundProposal {
	fn := ctrler.proposalLedger.Get
	if exec {
		fn = ctrler.proposalLedger.GetFinality
	}
	prop, xerr := fn(ledger.ToLedgerKey(types.ProposalIDToBytes(id)))
	if xerr != nil {
		return nil
	}
	return prop
}

func (ctrler *FundingCtrler) setProposal(prop *proposal.FundProposal, exec bool) xerrors.XError {
	fn := ctrler.proposalLedger.Set
	if exec {
		fn = ctrler.proposalLedger.SetFinality
	}
	return fn(prop)
}

func (ctrler *FundingCtrler) tallyStateOf(exec bool) *TallyState {
	fn := ctrler.stateLedger.Get
	if exec {
		fn = ctrler.stateLedger.GetFinality
	}
	state, xerr := fn(tallyStateKey)
	if xerr != nil {
		return NewTallyState()
	}
	return state
}

func (ctrler *FundingCtrler) setTallyState(state *TallyState, exec bool) xerrors.XError {
	fn := ctrler.stateLedger.Set
	if exec {
		fn = ctrler.stateLedger.SetFinality
	}
	return fn(state)
}

func (ctrler *FundingCtrler) isFinalized(exec bool) bool {
	return ctrler.tallyStateOf(exec).IsFinalized()
}

// recipientUsed reports whether any non-canceled proposal, committed or
// staged in the current block, already names this recipient.
func (ctrler *FundingCtrler) recipientUsed(recipient types.Address, exec bool) bool {
	used := false
	check := func(prop *proposal.FundProposal) xerrors.XError {
		if !prop.Canceled && prop.Recipient.Compare(recipient) == 0 {
			used = true
		}
		return nil
	}

	_ = ctrler.proposalLedger.IterateReadAllItems(check)
	if used {
		return true
	}
	iter := ctrler.proposalLedger.IterateUpdatedItems
	if exec {
		iter = ctrler.proposalLedger.IterateFinalityUpdatedItems
	}
	_ = iter(check)
	return used
}

func (ctrler *FundingCtrler) IsFinalized(exec bool) bool {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.isFinalized(exec)
}

func (ctrler *FundingCtrler) RecipientUsed(recipient types.Address, exec bool) bool {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.recipientUsed(recipient, exec)
}

// ReadProposal returns the committed proposal record.
func (ctrler *FundingCtrler) ReadProposal(id uint64) (*proposal.FundProposal, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	prop, xerr := ctrler.proposalLedger.Read(ledger.ToLedgerKey(types.ProposalIDToBytes(id)))
	if xerr != nil {
		return nil, xerrors.ErrNotFoundProposal
	}
	return prop, nil
}

func (ctrler *FundingCtrler) ReadTallyState() *TallyState {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	state, xerr := ctrler.stateLedger.Read(tallyStateKey)
	if xerr != nil {
		return NewTallyState()
	}
	return state
}

func (ctrler *FundingCtrler) Query(req abcitypes.RequestQuery) ([]byte, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	switch req.Path {
	case "proposal":
		if len(req.Data) < 8 {
			return nil, xerrors.ErrInvalidQueryParams
		}
		prop, xerr := ctrler.proposalLedger.Read(ledger.ToLedgerKey(req.Data[:8]))
		if xerr != nil {
			return nil, xerrors.ErrNotFoundProposal
		}
		bz, xerr := prop.Encode()
		if xerr != nil {
			return nil, xerrors.ErrQuery.Wrap(xerr)
		}
		return bz, nil
	case "proposals":
		var headers []proposal.FundProposalHeader
		_ = ctrler.proposalLedger.IterateReadAllItems(func(prop *proposal.FundProposal) xerrors.XError {
			headers = append(headers, prop.FundProposalHeader)
			return nil
		})
		bz, err := tmjson.Marshal(headers)
		if err != nil {
			return nil, xerrors.ErrQuery.Wrap(err)
		}
		return bz, nil
	case "tally_state":
		state, xerr := ctrler.stateLedger.Read(tallyStateKey)
		if xerr != nil {
			state = NewTallyState()
		}
		bz, xerr := state.Encode()
		if xerr != nil {
			return nil, xerrors.ErrQuery.Wrap(xerr)
		}
		return bz, nil
	}
	return nil, xerrors.ErrInvalidQueryCmd
}

func (ctrler *FundingCtrler) Commit() ([]byte, int64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	h0, v0, xerr := ctrler.proposalLedger.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}
	h1, v1, xerr := ctrler.stateLedger.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}
	if v0 != v1 {
		return nil, -1, xerrors.ErrCommit.Wrapf("version mismatch: proposals[%d] tally[%d]", v0, v1)
	}
	return crypto.DefaultHash(h0, h1), v0, nil
}

func (ctrler *FundingCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.proposalLedger != nil {
		if xerr := ctrler.proposalLedger.Close(); xerr != nil {
			ctrler.logger.Error("FundingCtrler: fail to close ledger", "error", xerr.Error())
		}
		ctrler.proposalLedger = nil
	}
	if ctrler.stateLedger != nil {
		if xerr := ctrler.stateLedger.Close(); xerr != nil {
			ctrler.logger.Error("FundingCtrler: fail to close ledger", "error", xerr.Error())
		}
		ctrler.stateLedger = nil
	}
	return nil
}
