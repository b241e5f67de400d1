package types

import (
	"sync"

	"github.com/ReageMeuFilho/octant-v2-core-sub005/ledger"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types"
	abytes "github.com/ReageMeuFilho/octant-v2-core-sub005/types/bytes"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	"github.com/holiman/uint256"
	tmjson "github.com/tendermint/tendermint/libs/json"
)

// MechParams is the global configuration of one mechanism instance.
// Everything except alpha, owner and the pause flag is fixed at construction.
type MechParams struct {
	version            int64
	assetDecimals      int16
	startBlock         int64
	votingDelayBlocks  int64
	votingPeriodBlocks int64
	quorum             *uint256.Int
	timelockSeconds    int64
	gracePeriodSeconds int64
	alphaNum           uint64
	alphaDen           uint64
	owner              types.Address
	paused             bool

	mtx sync.RWMutex
}

func DefaultMechParams() *MechParams {
	return &MechParams{
		version:            1,
		assetDecimals:      types.CanonicalDecimals,
		startBlock:         0,
		votingDelayBlocks:  28800,                                            // one day of 3s blocks
		votingPeriodBlocks: 201600,                                           // seven days
		quorum:             uint256.MustFromDecimal("200000000000000000000"), // 200 units of score
		timelockSeconds:    172800,                                           // two days
		gracePeriodSeconds: 1209600,                                          // fourteen days
		alphaNum:           1,
		alphaDen:           1,
	}
}

func Test1MechParams() *MechParams {
	return &MechParams{
		version:            1,
		assetDecimals:      types.CanonicalDecimals,
		startBlock:         0,
		votingDelayBlocks:  10,
		votingPeriodBlocks: 100,
		quorum:             uint256.NewInt(200),
		timelockSeconds:    60,
		gracePeriodSeconds: 3600,
		alphaNum:           1,
		alphaDen:           1,
	}
}

func Test2MechParams() *MechParams {
	return &MechParams{
		version:            2,
		assetDecimals:      6,
		startBlock:         5,
		votingDelayBlocks:  10,
		votingPeriodBlocks: 50,
		quorum:             uint256.NewInt(1000),
		timelockSeconds:    600,
		gracePeriodSeconds: 7200,
		alphaNum:           1,
		alphaDen:           2,
	}
}

func DecodeMechParams(bz []byte) (*MechParams, xerrors.XError) {
	ret := &MechParams{}
	if xerr := ret.Decode(bz); xerr != nil {
		return nil, xerr
	}
	return ret, nil
}

func (r *MechParams) Key() ledger.LedgerKey {
	return ledger.ToLedgerKey(abytes.ZeroBytes(32))
}

func (r *MechParams) Encode() ([]byte, xerrors.XError) {
	if bz, err := tmjson.Marshal(r); err != nil {
		return nil, xerrors.From(err)
	} else {
		return bz, nil
	}
}

func (r *MechParams) Decode(bz []byte) xerrors.XError {
	if err := tmjson.Unmarshal(bz, r); err != nil {
		return xerrors.From(err)
	}
	return nil
}

var _ ledger.ILedgerItem = (*MechParams)(nil)

type mechParamsJSON struct {
	Version            int64         `json:"version"`
	AssetDecimals      int16         `json:"assetDecimals"`
	StartBlock         int64         `json:"startBlock"`
	VotingDelayBlocks  int64         `json:"votingDelayBlocks"`
	VotingPeriodBlocks int64         `json:"votingPeriodBlocks"`
	Quorum             string        `json:"quorum"`
	TimelockSeconds    int64         `json:"timelockSeconds"`
	GracePeriodSeconds int64         `json:"gracePeriodSeconds"`
	AlphaNum           uint64        `json:"alphaNumerator"`
	AlphaDen           uint64        `json:"alphaDenominator"`
	Owner              types.Address `json:"owner,omitempty"`
	Paused             bool          `json:"paused,omitempty"`
}

func (r *MechParams) MarshalJSON() ([]byte, error) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	quorum := ""
	if r.quorum != nil {
		quorum = r.quorum.Dec()
	}
	tm := &mechParamsJSON{
		Version:            r.version,
		AssetDecimals:      r.assetDecimals,
		StartBlock:         r.startBlock,
		VotingDelayBlocks:  r.votingDelayBlocks,
		VotingPeriodBlocks: r.votingPeriodBlocks,
		Quorum:             quorum,
		TimelockSeconds:    r.timelockSeconds,
		GracePeriodSeconds: r.gracePeriodSeconds,
		AlphaNum:           r.alphaNum,
		AlphaDen:           r.alphaDen,
		Owner:              r.owner,
		Paused:             r.paused,
	}
	return tmjson.Marshal(tm)
}

func (r *MechParams) UnmarshalJSON(bz []byte) error {
	tm := &mechParamsJSON{}
	if err := tmjson.Unmarshal(bz, tm); err != nil {
		return err
	}

	var quorum *uint256.Int
	if tm.Quorum != "" {
		q, err := uint256.FromDecimal(tm.Quorum)
		if err != nil {
			return err
		}
		quorum = q
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.version = tm.Version
	r.assetDecimals = tm.AssetDecimals
	r.startBlock = tm.StartBlock
	r.votingDelayBlocks = tm.VotingDelayBlocks
	r.votingPeriodBlocks = tm.VotingPeriodBlocks
	r.quorum = quorum
	r.timelockSeconds = tm.TimelockSeconds
	r.gracePeriodSeconds = tm.GracePeriodSeconds
	r.alphaNum = tm.AlphaNum
	r.alphaDen = tm.AlphaDen
	r.owner = tm.Owner
	r.paused = tm.Paused
	return nil
}

func (r *MechParams) Version() int64 {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	return r.version
}

func (r *MechParams) AssetDecimals() int16 {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	return r.assetDecimals
}

func (r *MechParams) StartBlock() int64 {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	return r.startBlock
}

// VotingStartHeight is the first height at which votes are accepted.
func (r *MechParams) VotingStartHeight() int64 {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	return r.startBlock + r.votingDelayBlocks
}

// VotingEndHeight is the last height at which votes are accepted.
func (r *MechParams) VotingEndHeight() int64 {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	return r.startBlock + r.votingDelayBlocks + r.votingPeriodBlocks
}

func (r *MechParams) Quorum() *uint256.Int {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	return new(uint256.Int).Set(r.quorum)
}

func (r *MechParams) TimelockSeconds() int64 {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	return r.timelockSeconds
}

func (r *MechParams) GracePeriodSeconds() int64 {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	return r.gracePeriodSeconds
}

func (r *MechParams) Alpha() (uint64, uint64) {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	return r.alphaNum, r.alphaDen
}

// SetAlpha reweights future funding score computations. Proposals already
// queued keep the share amount minted at queueing.
func (r *MechParams) SetAlpha(num, den uint64) xerrors.XError {
	if den == 0 || num > den {
		return xerrors.ErrInvalidAlpha.Wrapf("num:%d, den:%d", num, den)
	}

	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.alphaNum = num
	r.alphaDen = den
	return nil
}

func (r *MechParams) Owner() types.Address {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	return r.owner
}

func (r *MechParams) IsOwner(addr types.Address) bool {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	return len(r.owner) > 0 && abytes.Compare(r.owner, addr) == 0
}

func (r *MechParams) SetOwner(addr types.Address) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.owner = addr
}

func (r *MechParams) IsPaused() bool {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	return r.paused
}

func (r *MechParams) SetPaused(v bool) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	r.paused = v
}

func (r *MechParams) String() string {
	bz, _ := tmjson.Marshal(r)
	return string(bz)
}
