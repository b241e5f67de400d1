package strategy

import (
	ctrlertypes "github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	"github.com/holiman/uint256"
)

// QuadraticStrategy prices a vote of weight `w` at `w*w` voting power and
// scores a proposal by blending the squared sum of weights with the raw
// contribution sum under the mechanism alpha.
type QuadraticStrategy struct{}

var _ ctrlertypes.IStrategy = (*QuadraticStrategy)(nil)

func NewQuadraticStrategy() *QuadraticStrategy {
	return &QuadraticStrategy{}
}

func (s *QuadraticStrategy) Name() string {
	return "quadratic"
}

func (s *QuadraticStrategy) CheckRegistration(alreadyRegistered bool) xerrors.XError {
	if alreadyRegistered {
		return xerrors.ErrAlreadyRegistered
	}
	return nil
}

func (s *QuadraticStrategy) CheckProposer(power *uint256.Int) xerrors.XError {
	if power == nil || power.IsZero() {
		return xerrors.ErrNoRight.Wrap(xerrors.NewOrdinary("proposer has no voting power"))
	}
	return nil
}

func (s *QuadraticStrategy) ValidateProposal(proposer, recipient types.Address) xerrors.XError {
	if types.IsZeroAddress(recipient) {
		return xerrors.ErrZeroRecipient
	}
	return nil
}

func (s *QuadraticStrategy) ResolveRecipient(recipient types.Address) types.Address {
	return recipient
}

func (s *QuadraticStrategy) VotingPowerOf(deposit *uint256.Int, assetDecimals int16) (*uint256.Int, xerrors.XError) {
	return types.ToCanonical(deposit, assetDecimals)
}

// ProcessVote debits `weight*weight` from the voter's power and folds the
// weight into the tally. Only approval votes are accepted under quadratic
// funding.
func (s *QuadraticStrategy) ProcessVote(choice int32, weight, power *uint256.Int, tally *ctrlertypes.VoteTally) (*uint256.Int, xerrors.XError) {
	if choice != ctrlertypes.CHOICE_FOR {
		return nil, xerrors.ErrInvalidChoice
	}
	if weight == nil || weight.IsZero() {
		return nil, xerrors.ErrZeroWeight
	}

	cost, over := new(uint256.Int).MulOverflow(weight, weight)
	if over {
		return nil, xerrors.ErrOverflow
	}
	if power == nil || power.Lt(cost) {
		return nil, xerrors.ErrInsufficientPower
	}

	sumFor, over := new(uint256.Int).AddOverflow(tally.SumFor, weight)
	if over {
		return nil, xerrors.ErrOverflow
	}
	sumContribs, over := new(uint256.Int).AddOverflow(tally.SumContribs, cost)
	if over {
		return nil, xerrors.ErrOverflow
	}
	sumSqrt, over := new(uint256.Int).AddOverflow(tally.SumSqrt, weight)
	if over {
		return nil, xerrors.ErrOverflow
	}

	tally.SumFor = sumFor
	tally.SumContribs = sumContribs
	tally.SumSqrt = sumSqrt

	return new(uint256.Int).Sub(power, cost), nil
}

// HasQuorum compares the blended funding score, not the raw contribution
// sum, against the threshold.
func (s *QuadraticStrategy) HasQuorum(tally *ctrlertypes.VoteTally, quorum *uint256.Int, alphaNum, alphaDen uint64) bool {
	return !s.FundingScore(tally, alphaNum, alphaDen).Lt(quorum)
}

// FundingScore computes
//
//	alpha * sumSqrt^2 + (1 - alpha) * sumContribs
//
// in floor integer arithmetic with alpha = alphaNum/alphaDen. The result
// saturates at the maximum value on overflow.
func (s *QuadraticStrategy) FundingScore(tally *ctrlertypes.VoteTally, alphaNum, alphaDen uint64) *uint256.Int {
	if alphaDen == 0 {
		return uint256.NewInt(0)
	}

	matched, over := new(uint256.Int).MulOverflow(tally.SumSqrt, tally.SumSqrt)
	if over {
		return maxUint256()
	}
	matched, over = matched.MulOverflow(matched, uint256.NewInt(alphaNum))
	if over {
		return maxUint256()
	}
	matched = matched.Div(matched, uint256.NewInt(alphaDen))

	raw, over := new(uint256.Int).MulOverflow(tally.SumContribs, uint256.NewInt(alphaDen-alphaNum))
	if over {
		return maxUint256()
	}
	raw = raw.Div(raw, uint256.NewInt(alphaDen))

	score, over := new(uint256.Int).AddOverflow(matched, raw)
	if over {
		return maxUint256()
	}
	return score
}

func (s *QuadraticStrategy) SharesOf(score *uint256.Int) *uint256.Int {
	return score.Clone()
}

func (s *QuadraticStrategy) CheckFinalize(height, votingEndHeight int64) xerrors.XError {
	if height <= votingEndHeight {
		return xerrors.ErrVotingNotClosed
	}
	return nil
}

func (s *QuadraticStrategy) PoolAssets(share ctrlertypes.IShareHandler, exec bool) *uint256.Int {
	return share.PoolBalance(exec)
}

func maxUint256() *uint256.Int {
	max := uint256.NewInt(0)
	return max.Not(max)
}
