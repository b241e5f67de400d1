package types

import (
	"encoding/json"

	"github.com/holiman/uint256"
)

const (
	CHOICE_FOR int32 = iota
	CHOICE_AGAINST
	CHOICE_ABSTAIN
)

// VoteTally is the per-proposal accumulator set. The linear strategy uses the
// for/against/abstain sums, the quadratic strategy uses the contribution and
// square-root sums. All sums are strictly additive; a vote is irrevocable.
type VoteTally struct {
	SumFor     *uint256.Int `json:"sumFor"`
	SumAgainst *uint256.Int `json:"sumAgainst"`
	SumAbstain *uint256.Int `json:"sumAbstain"`

	SumContribs *uint256.Int `json:"sumContributions"`
	SumSqrt     *uint256.Int `json:"sumSqrt"`
}

func NewVoteTally() *VoteTally {
	return &VoteTally{
		SumFor:      uint256.NewInt(0),
		SumAgainst:  uint256.NewInt(0),
		SumAbstain:  uint256.NewInt(0),
		SumContribs: uint256.NewInt(0),
		SumSqrt:     uint256.NewInt(0),
	}
}

func (t *VoteTally) Clone() *VoteTally {
	return &VoteTally{
		SumFor:      new(uint256.Int).Set(t.SumFor),
		SumAgainst:  new(uint256.Int).Set(t.SumAgainst),
		SumAbstain:  new(uint256.Int).Set(t.SumAbstain),
		SumContribs: new(uint256.Int).Set(t.SumContribs),
		SumSqrt:     new(uint256.Int).Set(t.SumSqrt),
	}
}

type voteTallyJSON struct {
	SumFor      string `json:"sumFor"`
	SumAgainst  string `json:"sumAgainst"`
	SumAbstain  string `json:"sumAbstain"`
	SumContribs string `json:"sumContributions"`
	SumSqrt     string `json:"sumSqrt"`
}

func (t *VoteTally) MarshalJSON() ([]byte, error) {
	return json.Marshal(&voteTallyJSON{
		SumFor:      t.SumFor.Dec(),
		SumAgainst:  t.SumAgainst.Dec(),
		SumAbstain:  t.SumAbstain.Dec(),
		SumContribs: t.SumContribs.Dec(),
		SumSqrt:     t.SumSqrt.Dec(),
	})
}

func (t *VoteTally) UnmarshalJSON(bz []byte) error {
	tm := &voteTallyJSON{}
	if err := json.Unmarshal(bz, tm); err != nil {
		return err
	}

	var err error
	if t.SumFor, err = uint256.FromDecimal(tm.SumFor); err != nil {
		return err
	}
	if t.SumAgainst, err = uint256.FromDecimal(tm.SumAgainst); err != nil {
		return err
	}
	if t.SumAbstain, err = uint256.FromDecimal(tm.SumAbstain); err != nil {
		return err
	}
	if t.SumContribs, err = uint256.FromDecimal(tm.SumContribs); err != nil {
		return err
	}
	if t.SumSqrt, err = uint256.FromDecimal(tm.SumSqrt); err != nil {
		return err
	}
	return nil
}
