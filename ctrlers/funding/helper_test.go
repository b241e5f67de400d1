package funding

import (
	ctrlertypes "github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	"github.com/holiman/uint256"
)

type registryHandlerMock struct {
	powers map[string]*uint256.Int
}

var _ ctrlertypes.IRegistryHandler = (*registryHandlerMock)(nil)

func (m *registryHandlerMock) add(addr types.Address, power uint64) types.Address {
	m.powers[addr.String()] = uint256.NewInt(power)
	return addr
}

func (m *registryHandlerMock) IsRegistered(addr types.Address, exec bool) bool {
	_, ok := m.powers[addr.String()]
	return ok
}

func (m *registryHandlerMock) PowerOf(addr types.Address, exec bool) *uint256.Int {
	if power, ok := m.powers[addr.String()]; ok {
		return power.Clone()
	}
	return nil
}

func (m *registryHandlerMock) SpendPower(addr types.Address, amt *uint256.Int, exec bool) (*uint256.Int, xerrors.XError) {
	power, ok := m.powers[addr.String()]
	if !ok {
		return nil, xerrors.ErrNotFoundRegistrant
	}
	if power.Lt(amt) {
		return nil, xerrors.ErrInsufficientPower
	}
	m.powers[addr.String()] = new(uint256.Int).Sub(power, amt)
	return m.powers[addr.String()].Clone(), nil
}

func (m *registryHandlerMock) TotalDeposited(exec bool) *uint256.Int {
	sum := uint256.NewInt(0)
	for _, power := range m.powers {
		_ = sum.Add(sum, power)
	}
	return sum
}

type mintRecord struct {
	to           types.Address
	shares       *uint256.Int
	redeemableAt int64
}

type shareHandlerMock struct {
	balances map[string]*uint256.Int
	pool     *uint256.Int
	total    *uint256.Int
	mints    []*mintRecord
}

var _ ctrlertypes.IShareHandler = (*shareHandlerMock)(nil)

func (m *shareHandlerMock) Mint(to types.Address, shares *uint256.Int, redeemableAt int64, exec bool) xerrors.XError {
	if exec {
		bal, ok := m.balances[to.String()]
		if !ok {
			bal = uint256.NewInt(0)
		}
		m.balances[to.String()] = new(uint256.Int).Add(bal, shares)
		m.total = new(uint256.Int).Add(m.total, shares)
		m.mints = append(m.mints, &mintRecord{to: to, shares: shares.Clone(), redeemableAt: redeemableAt})
	}
	return nil
}

func (m *shareHandlerMock) BalanceOf(addr types.Address, exec bool) *uint256.Int {
	if bal, ok := m.balances[addr.String()]; ok {
		return bal.Clone()
	}
	return uint256.NewInt(0)
}

func (m *shareHandlerMock) TotalShares(exec bool) *uint256.Int {
	return m.total.Clone()
}

func (m *shareHandlerMock) PoolBalance(exec bool) *uint256.Int {
	return m.pool.Clone()
}

func (m *shareHandlerMock) DepositPool(amt *uint256.Int, exec bool) xerrors.XError {
	m.pool = new(uint256.Int).Add(m.pool, amt)
	return nil
}

func makeTrxCtx(tx *ctrlertypes.Trx, height, btime int64, exec bool) *ctrlertypes.TrxContext {
	txbz, _ := tx.Encode()
	txctx, _ := ctrlertypes.NewTrxContext(txbz, height, btime, exec, func(_txctx *ctrlertypes.TrxContext) xerrors.XError {
		_txctx.TrxFundingHandler = fundingCtrler
		_txctx.MechHandler = mechParams
		_txctx.RegistryHandler = registryMock
		_txctx.ShareHandler = shareMock
		_txctx.FundingHandler = fundingCtrler
		_txctx.Strategy = qfStrategy
		return nil
	})
	return txctx
}

func runTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	if xerr := fundingCtrler.ValidateTrx(ctx); xerr != nil {
		return xerr
	}
	return fundingCtrler.ExecuteTrx(ctx)
}
