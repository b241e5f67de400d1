package share

import (
	"encoding/json"
	"sync"

	"github.com/ReageMeuFilho/octant-v2-core-sub005/ledger"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	"github.com/holiman/uint256"
)

var poolStateKey = ledger.ToLedgerKey([]byte("pool_state"))

// PoolState is the single record tracking the redemption pool balance and
// the outstanding share supply. Balance is in canonical asset units.
type PoolState struct {
	Balance     *uint256.Int
	TotalShares *uint256.Int

	mtx sync.RWMutex
}

var _ ledger.ILedgerItem = (*PoolState)(nil)

func NewPoolState() *PoolState {
	return &PoolState{
		Balance:     uint256.NewInt(0),
		TotalShares: uint256.NewInt(0),
	}
}

func (ps *PoolState) Key() ledger.LedgerKey {
	return poolStateKey
}

type poolStateJSON struct {
	Balance     string `json:"balance"`
	TotalShares string `json:"totalShares"`
}

func (ps *PoolState) Encode() ([]byte, xerrors.XError) {
	ps.mtx.RLock()
	defer ps.mtx.RUnlock()

	bz, err := json.Marshal(&poolStateJSON{
		Balance:     ps.Balance.Dec(),
		TotalShares: ps.TotalShares.Dec(),
	})
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (ps *PoolState) Decode(bz []byte) xerrors.XError {
	ps.mtx.Lock()
	defer ps.mtx.Unlock()

	pj := &poolStateJSON{}
	if err := json.Unmarshal(bz, pj); err != nil {
		return xerrors.From(err)
	}
	bal, err := uint256.FromDecimal(pj.Balance)
	if err != nil {
		return xerrors.From(err)
	}
	total, err := uint256.FromDecimal(pj.TotalShares)
	if err != nil {
		return xerrors.From(err)
	}

	ps.Balance = bal
	ps.TotalShares = total
	return nil
}

func (ps *PoolState) Deposit(amt *uint256.Int) xerrors.XError {
	ps.mtx.Lock()
	defer ps.mtx.Unlock()

	bal, over := new(uint256.Int).AddOverflow(ps.Balance, amt)
	if over {
		return xerrors.ErrOverflow
	}
	ps.Balance = bal
	return nil
}

func (ps *PoolState) AddShares(amt *uint256.Int) xerrors.XError {
	ps.mtx.Lock()
	defer ps.mtx.Unlock()

	total, over := new(uint256.Int).AddOverflow(ps.TotalShares, amt)
	if over {
		return xerrors.ErrOverflow
	}
	ps.TotalShares = total
	return nil
}

// Payout computes `shares * balance / totalShares` with the floor and
// debits both sides of the pool.
func (ps *PoolState) Payout(shares *uint256.Int) (*uint256.Int, xerrors.XError) {
	ps.mtx.Lock()
	defer ps.mtx.Unlock()

	if ps.TotalShares.IsZero() || ps.TotalShares.Lt(shares) {
		return nil, xerrors.ErrInsufficientShares
	}

	num, over := new(uint256.Int).MulOverflow(shares, ps.Balance)
	if over {
		return nil, xerrors.ErrOverflow
	}
	assets := num.Div(num, ps.TotalShares)

	if ps.Balance.Lt(assets) {
		return nil, xerrors.ErrInsufficientFund
	}
	ps.Balance = new(uint256.Int).Sub(ps.Balance, assets)
	ps.TotalShares = new(uint256.Int).Sub(ps.TotalShares, shares)
	return assets, nil
}

// Preview returns the assets `shares` would redeem for right now, without
// touching the pool.
func (ps *PoolState) Preview(shares *uint256.Int) *uint256.Int {
	ps.mtx.RLock()
	defer ps.mtx.RUnlock()

	if ps.TotalShares.IsZero() {
		return uint256.NewInt(0)
	}
	num, over := new(uint256.Int).MulOverflow(shares, ps.Balance)
	if over {
		return uint256.NewInt(0)
	}
	return num.Div(num, ps.TotalShares)
}

func (ps *PoolState) Clone() *PoolState {
	ps.mtx.RLock()
	defer ps.mtx.RUnlock()

	return &PoolState{
		Balance:     ps.Balance.Clone(),
		TotalShares: ps.TotalShares.Clone(),
	}
}
