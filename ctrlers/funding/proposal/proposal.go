package proposal

import (
	"sync"

	ctrlertypes "github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/ledger"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	"github.com/holiman/uint256"
	tmjson "github.com/tendermint/tendermint/libs/json"
)

type VoteRecord struct {
	Voter  types.Address `json:"voter"`
	Choice int32         `json:"choice"`
	Weight *uint256.Int  `json:"weight"`
	Cost   *uint256.Int  `json:"cost"`
	Height int64         `json:"height"`
}

type FundProposalHeader struct {
	ID           uint64        `json:"id"`
	Proposer     types.Address `json:"proposer"`
	Recipient    types.Address `json:"recipient"`
	Description  string        `json:"description,omitempty"`
	CreateHeight int64         `json:"createHeight"`
	Canceled     bool          `json:"canceled"`
	Queued       bool          `json:"queued"`

	// RedeemableAt is the unix time from which the recipient may
	// redeem the shares minted for this proposal. Zero until queued.
	RedeemableAt int64 `json:"redeemableAt,omitempty"`
}

type FundProposal struct {
	FundProposalHeader
	Tally *ctrlertypes.VoteTally `json:"tally"`
	Votes []*VoteRecord          `json:"votes,omitempty"`

	mtx sync.RWMutex
}

var _ ledger.ILedgerItem = (*FundProposal)(nil)

func NewFundProposal(id uint64, proposer, recipient types.Address, desc string, height int64) *FundProposal {
	return &FundProposal{
		FundProposalHeader: FundProposalHeader{
			ID:           id,
			Proposer:     proposer,
			Recipient:    recipient,
			Description:  desc,
			CreateHeight: height,
		},
		Tally: ctrlertypes.NewVoteTally(),
	}
}

func (prop *FundProposal) Key() ledger.LedgerKey {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	return ledger.ToLedgerKey(types.ProposalIDToBytes(prop.ID))
}

func (prop *FundProposal) Encode() ([]byte, xerrors.XError) {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	bz, err := tmjson.Marshal(prop)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (prop *FundProposal) Decode(bz []byte) xerrors.XError {
	prop.mtx.Lock()
	defer prop.mtx.Unlock()

	if err := tmjson.Unmarshal(bz, prop); err != nil {
		return xerrors.From(err)
	}
	return nil
}

func (prop *FundProposal) HasVoted(addr types.Address) bool {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	return prop.findVote(addr) != nil
}

func (prop *FundProposal) findVote(addr types.Address) *VoteRecord {
	for _, rec := range prop.Votes {
		if rec.Voter.Compare(addr) == 0 {
			return rec
		}
	}
	return nil
}

// AddVote appends the voter's record. The tally itself is updated by the
// funding strategy before this is called.
func (prop *FundProposal) AddVote(rec *VoteRecord) xerrors.XError {
	prop.mtx.Lock()
	defer prop.mtx.Unlock()

	if prop.findVote(rec.Voter) != nil {
		return xerrors.ErrAlreadyVoted
	}
	prop.Votes = append(prop.Votes, rec)
	return nil
}

func (prop *FundProposal) VoteOf(addr types.Address) *VoteRecord {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	return prop.findVote(addr)
}

func (prop *FundProposal) DoCancel() xerrors.XError {
	prop.mtx.Lock()
	defer prop.mtx.Unlock()

	if prop.Canceled {
		return xerrors.ErrAlreadyCanceled
	}
	prop.Canceled = true
	return nil
}

func (prop *FundProposal) DoQueue(redeemableAt int64) xerrors.XError {
	prop.mtx.Lock()
	defer prop.mtx.Unlock()

	if prop.Canceled {
		return xerrors.ErrProposalCanceled
	}
	if prop.Queued {
		return xerrors.ErrAlreadyQueued
	}
	prop.Queued = true
	prop.RedeemableAt = redeemableAt
	return nil
}

// Status derives the proposal's lifecycle state. The checks run in order
// and the first match wins; a proposal record never stores its status.
func (prop *FundProposal) Status(sc *StatusCtx) PropStatus {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	switch {
	case prop.Canceled:
		return PROP_CANCELED
	case sc.Height < sc.VotingStart:
		return PROP_PENDING
	case !sc.Finalized:
		return PROP_ACTIVE
	case prop.Queued && sc.Now > prop.RedeemableAt+sc.GracePeriod:
		return PROP_EXPIRED
	case prop.Queued:
		return PROP_QUEUED
	case sc.QuorumMet:
		return PROP_SUCCEEDED
	}
	return PROP_DEFEATED
}

func (prop *FundProposal) Clone() *FundProposal {
	prop.mtx.RLock()
	defer prop.mtx.RUnlock()

	votes := make([]*VoteRecord, len(prop.Votes))
	for i, rec := range prop.Votes {
		votes[i] = &VoteRecord{
			Voter:  rec.Voter,
			Choice: rec.Choice,
			Weight: rec.Weight.Clone(),
			Cost:   rec.Cost.Clone(),
			Height: rec.Height,
		}
	}
	return &FundProposal{
		FundProposalHeader: prop.FundProposalHeader,
		Tally:              prop.Tally.Clone(),
		Votes:              votes,
	}
}
