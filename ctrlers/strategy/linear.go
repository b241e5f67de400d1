package strategy

import (
	ctrlertypes "github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	"github.com/holiman/uint256"
)

// LinearStrategy prices a vote at its weight and scores a proposal by its
// net approval. It exists to show the hook surface carries more than one
// mechanism; the alpha parameters are ignored.
type LinearStrategy struct{}

var _ ctrlertypes.IStrategy = (*LinearStrategy)(nil)

func NewLinearStrategy() *LinearStrategy {
	return &LinearStrategy{}
}

func (s *LinearStrategy) Name() string {
	return "linear"
}

func (s *LinearStrategy) CheckRegistration(alreadyRegistered bool) xerrors.XError {
	if alreadyRegistered {
		return xerrors.ErrAlreadyRegistered
	}
	return nil
}

func (s *LinearStrategy) CheckProposer(power *uint256.Int) xerrors.XError {
	if power == nil || power.IsZero() {
		return xerrors.ErrNoRight.Wrap(xerrors.NewOrdinary("proposer has no voting power"))
	}
	return nil
}

func (s *LinearStrategy) ValidateProposal(proposer, recipient types.Address) xerrors.XError {
	if types.IsZeroAddress(recipient) {
		return xerrors.ErrZeroRecipient
	}
	return nil
}

func (s *LinearStrategy) ResolveRecipient(recipient types.Address) types.Address {
	return recipient
}

func (s *LinearStrategy) VotingPowerOf(deposit *uint256.Int, assetDecimals int16) (*uint256.Int, xerrors.XError) {
	return types.ToCanonical(deposit, assetDecimals)
}

func (s *LinearStrategy) ProcessVote(choice int32, weight, power *uint256.Int, tally *ctrlertypes.VoteTally) (*uint256.Int, xerrors.XError) {
	if weight == nil || weight.IsZero() {
		return nil, xerrors.ErrZeroWeight
	}
	if power == nil || power.Lt(weight) {
		return nil, xerrors.ErrInsufficientPower
	}

	var bucket **uint256.Int
	switch choice {
	case ctrlertypes.CHOICE_FOR:
		bucket = &tally.SumFor
	case ctrlertypes.CHOICE_AGAINST:
		bucket = &tally.SumAgainst
	case ctrlertypes.CHOICE_ABSTAIN:
		bucket = &tally.SumAbstain
	default:
		return nil, xerrors.ErrInvalidChoice
	}

	sum, over := new(uint256.Int).AddOverflow(*bucket, weight)
	if over {
		return nil, xerrors.ErrOverflow
	}
	sumContribs, over := new(uint256.Int).AddOverflow(tally.SumContribs, weight)
	if over {
		return nil, xerrors.ErrOverflow
	}

	*bucket = sum
	tally.SumContribs = sumContribs

	return new(uint256.Int).Sub(power, weight), nil
}

// HasQuorum compares the net approval against the threshold; a proposal
// voted down to zero never reaches quorum no matter how much was spent.
func (s *LinearStrategy) HasQuorum(tally *ctrlertypes.VoteTally, quorum *uint256.Int, alphaNum, alphaDen uint64) bool {
	return !s.FundingScore(tally, alphaNum, alphaDen).Lt(quorum)
}

func (s *LinearStrategy) FundingScore(tally *ctrlertypes.VoteTally, alphaNum, alphaDen uint64) *uint256.Int {
	if tally.SumFor.Lt(tally.SumAgainst) {
		return uint256.NewInt(0)
	}
	return new(uint256.Int).Sub(tally.SumFor, tally.SumAgainst)
}

func (s *LinearStrategy) SharesOf(score *uint256.Int) *uint256.Int {
	return score.Clone()
}

func (s *LinearStrategy) CheckFinalize(height, votingEndHeight int64) xerrors.XError {
	if height <= votingEndHeight {
		return xerrors.ErrVotingNotClosed
	}
	return nil
}

func (s *LinearStrategy) PoolAssets(share ctrlertypes.IShareHandler, exec bool) *uint256.Int {
	return share.PoolBalance(exec)
}
