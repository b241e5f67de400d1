package funding

import (
	"encoding/json"
	"sync"

	"github.com/ReageMeuFilho/octant-v2-core-sub005/ledger"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
)

var tallyStateKey = ledger.ToLedgerKey([]byte("tally_state"))

// TallyState is the single record carrying the proposal id sequence and the
// mechanism-wide finalization flag. Finalization is one-shot and covers
// every proposal at once.
type TallyState struct {
	NextID          uint64 `json:"nextId"`
	Finalized       bool   `json:"finalized"`
	FinalizedHeight int64  `json:"finalizedHeight,omitempty"`

	mtx sync.RWMutex
}

var _ ledger.ILedgerItem = (*TallyState)(nil)

func NewTallyState() *TallyState {
	return &TallyState{
		NextID: 1,
	}
}

func (ts *TallyState) Key() ledger.LedgerKey {
	return tallyStateKey
}

func (ts *TallyState) Encode() ([]byte, xerrors.XError) {
	ts.mtx.RLock()
	defer ts.mtx.RUnlock()

	bz, err := json.Marshal(ts)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (ts *TallyState) Decode(bz []byte) xerrors.XError {
	ts.mtx.Lock()
	defer ts.mtx.Unlock()

	if err := json.Unmarshal(bz, ts); err != nil {
		return xerrors.From(err)
	}
	return nil
}

// IssueID hands out the next proposal id.
func (ts *TallyState) IssueID() uint64 {
	ts.mtx.Lock()
	defer ts.mtx.Unlock()

	id := ts.NextID
	ts.NextID++
	return id
}

func (ts *TallyState) IsFinalized() bool {
	ts.mtx.RLock()
	defer ts.mtx.RUnlock()

	return ts.Finalized
}

func (ts *TallyState) DoFinalize(height int64) xerrors.XError {
	ts.mtx.Lock()
	defer ts.mtx.Unlock()

	if ts.Finalized {
		return xerrors.ErrTallyFinalized
	}
	ts.Finalized = true
	ts.FinalizedHeight = height
	return nil
}
