package registry

import (
	"encoding/json"
	"sync"

	"github.com/ReageMeuFilho/octant-v2-core-sub005/ledger"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	"github.com/holiman/uint256"
)

// Registrant is one registered identity. Deposit is kept in the asset's
// native precision, Power in the canonical precision and only ever
// decreases as votes consume it.
type Registrant struct {
	Addr      types.Address
	Deposit   *uint256.Int
	Power     *uint256.Int
	RegHeight int64

	mtx sync.RWMutex
}

var _ ledger.ILedgerItem = (*Registrant)(nil)

func NewRegistrant(addr types.Address, deposit, power *uint256.Int, height int64) *Registrant {
	return &Registrant{
		Addr:      addr,
		Deposit:   deposit,
		Power:     power,
		RegHeight: height,
	}
}

func (reg *Registrant) Key() ledger.LedgerKey {
	reg.mtx.RLock()
	defer reg.mtx.RUnlock()

	return ledger.ToLedgerKey(reg.Addr)
}

type registrantJSON struct {
	Addr      types.Address `json:"address"`
	Deposit   string        `json:"deposit"`
	Power     string        `json:"power"`
	RegHeight int64         `json:"regHeight"`
}

func (reg *Registrant) Encode() ([]byte, xerrors.XError) {
	reg.mtx.RLock()
	defer reg.mtx.RUnlock()

	bz, err := json.Marshal(&registrantJSON{
		Addr:      reg.Addr,
		Deposit:   reg.Deposit.Dec(),
		Power:     reg.Power.Dec(),
		RegHeight: reg.RegHeight,
	})
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (reg *Registrant) Decode(bz []byte) xerrors.XError {
	reg.mtx.Lock()
	defer reg.mtx.Unlock()

	rj := &registrantJSON{}
	if err := json.Unmarshal(bz, rj); err != nil {
		return xerrors.From(err)
	}
	deposit, err := uint256.FromDecimal(rj.Deposit)
	if err != nil {
		return xerrors.From(err)
	}
	power, err := uint256.FromDecimal(rj.Power)
	if err != nil {
		return xerrors.From(err)
	}

	reg.Addr = rj.Addr
	reg.Deposit = deposit
	reg.Power = power
	reg.RegHeight = rj.RegHeight
	return nil
}

func (reg *Registrant) PowerOf() *uint256.Int {
	reg.mtx.RLock()
	defer reg.mtx.RUnlock()

	return reg.Power.Clone()
}

// SpendPower debits `amt` and returns the remaining power.
func (reg *Registrant) SpendPower(amt *uint256.Int) (*uint256.Int, xerrors.XError) {
	reg.mtx.Lock()
	defer reg.mtx.Unlock()

	if reg.Power.Lt(amt) {
		return nil, xerrors.ErrInsufficientPower
	}
	reg.Power = new(uint256.Int).Sub(reg.Power, amt)
	return reg.Power.Clone(), nil
}

func (reg *Registrant) Clone() *Registrant {
	reg.mtx.RLock()
	defer reg.mtx.RUnlock()

	return &Registrant{
		Addr:      reg.Addr,
		Deposit:   reg.Deposit.Clone(),
		Power:     reg.Power.Clone(),
		RegHeight: reg.RegHeight,
	}
}

func (reg *Registrant) String() string {
	bz, _ := reg.Encode()
	return string(bz)
}
