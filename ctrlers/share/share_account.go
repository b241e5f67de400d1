package share

import (
	"encoding/json"
	"sync"

	"github.com/ReageMeuFilho/octant-v2-core-sub005/ledger"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	"github.com/holiman/uint256"
)

// ShareAccount is one holder of claim shares. RedeemStart is the unix time
// from which the holder may redeem; it is stamped when shares are first
// minted to the account and inherited on transfer when the receiver has
// none yet.
type ShareAccount struct {
	Addr        types.Address
	Balance     *uint256.Int
	Redeemed    *uint256.Int
	RedeemStart int64
	Allowances  map[string]*uint256.Int

	mtx sync.RWMutex
}

var _ ledger.ILedgerItem = (*ShareAccount)(nil)

func NewShareAccount(addr types.Address) *ShareAccount {
	return &ShareAccount{
		Addr:     addr,
		Balance:  uint256.NewInt(0),
		Redeemed: uint256.NewInt(0),
	}
}

func (acct *ShareAccount) Key() ledger.LedgerKey {
	acct.mtx.RLock()
	defer acct.mtx.RUnlock()

	return ledger.ToLedgerKey(acct.Addr)
}

type shareAccountJSON struct {
	Addr        types.Address     `json:"address"`
	Balance     string            `json:"balance"`
	Redeemed    string            `json:"redeemed"`
	RedeemStart int64             `json:"redeemStart,omitempty"`
	Allowances  map[string]string `json:"allowances,omitempty"`
}

func (acct *ShareAccount) Encode() ([]byte, xerrors.XError) {
	acct.mtx.RLock()
	defer acct.mtx.RUnlock()

	var allows map[string]string
	if len(acct.Allowances) > 0 {
		allows = make(map[string]string, len(acct.Allowances))
		for spender, amt := range acct.Allowances {
			allows[spender] = amt.Dec()
		}
	}

	bz, err := json.Marshal(&shareAccountJSON{
		Addr:        acct.Addr,
		Balance:     acct.Balance.Dec(),
		Redeemed:    acct.Redeemed.Dec(),
		RedeemStart: acct.RedeemStart,
		Allowances:  allows,
	})
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (acct *ShareAccount) Decode(bz []byte) xerrors.XError {
	acct.mtx.Lock()
	defer acct.mtx.Unlock()

	aj := &shareAccountJSON{}
	if err := json.Unmarshal(bz, aj); err != nil {
		return xerrors.From(err)
	}
	bal, err := uint256.FromDecimal(aj.Balance)
	if err != nil {
		return xerrors.From(err)
	}
	redeemed, err := uint256.FromDecimal(aj.Redeemed)
	if err != nil {
		return xerrors.From(err)
	}
	var allows map[string]*uint256.Int
	if len(aj.Allowances) > 0 {
		allows = make(map[string]*uint256.Int, len(aj.Allowances))
		for spender, dec := range aj.Allowances {
			amt, err := uint256.FromDecimal(dec)
			if err != nil {
				return xerrors.From(err)
			}
			allows[spender] = amt
		}
	}

	acct.Addr = aj.Addr
	acct.Balance = bal
	acct.Redeemed = redeemed
	acct.RedeemStart = aj.RedeemStart
	acct.Allowances = allows
	return nil
}

func (acct *ShareAccount) AddBalance(amt *uint256.Int) xerrors.XError {
	acct.mtx.Lock()
	defer acct.mtx.Unlock()

	bal, over := new(uint256.Int).AddOverflow(acct.Balance, amt)
	if over {
		return xerrors.ErrOverflow
	}
	acct.Balance = bal
	return nil
}

func (acct *ShareAccount) SubBalance(amt *uint256.Int) xerrors.XError {
	acct.mtx.Lock()
	defer acct.mtx.Unlock()

	if acct.Balance.Lt(amt) {
		return xerrors.ErrInsufficientShares
	}
	acct.Balance = new(uint256.Int).Sub(acct.Balance, amt)
	return nil
}

func (acct *ShareAccount) BalanceOf() *uint256.Int {
	acct.mtx.RLock()
	defer acct.mtx.RUnlock()

	return acct.Balance.Clone()
}

// StampRedeemStart records the redemption window start, keeping the
// earliest when one is already set.
func (acct *ShareAccount) StampRedeemStart(at int64) {
	acct.mtx.Lock()
	defer acct.mtx.Unlock()

	if acct.RedeemStart == 0 || at < acct.RedeemStart {
		acct.RedeemStart = at
	}
}

// Redeemable reports whether `now` falls inside the account's redemption
// window.
func (acct *ShareAccount) Redeemable(now, gracePeriod int64) bool {
	acct.mtx.RLock()
	defer acct.mtx.RUnlock()

	if acct.RedeemStart == 0 {
		return false
	}
	return now >= acct.RedeemStart && now <= acct.RedeemStart+gracePeriod
}

func (acct *ShareAccount) SetAllowance(spender types.Address, amt *uint256.Int) {
	acct.mtx.Lock()
	defer acct.mtx.Unlock()

	if acct.Allowances == nil {
		acct.Allowances = make(map[string]*uint256.Int)
	}
	acct.Allowances[spender.String()] = amt.Clone()
}

func (acct *ShareAccount) AllowanceOf(spender types.Address) *uint256.Int {
	acct.mtx.RLock()
	defer acct.mtx.RUnlock()

	if amt, ok := acct.Allowances[spender.String()]; ok {
		return amt.Clone()
	}
	return uint256.NewInt(0)
}

// SpendAllowance debits the spender's allowance.
func (acct *ShareAccount) SpendAllowance(spender types.Address, amt *uint256.Int) xerrors.XError {
	acct.mtx.Lock()
	defer acct.mtx.Unlock()

	allow, ok := acct.Allowances[spender.String()]
	if !ok || allow.Lt(amt) {
		return xerrors.ErrNoAllowance
	}
	acct.Allowances[spender.String()] = new(uint256.Int).Sub(allow, amt)
	return nil
}

func (acct *ShareAccount) String() string {
	bz, _ := acct.Encode()
	return string(bz)
}
