package registry

import (
	"sync"

	cfg "github.com/ReageMeuFilho/octant-v2-core-sub005/cmd/config"
	ctrlertypes "github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/genesis"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/ledger"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	"github.com/holiman/uint256"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// RegistryCtrler owns the registrant ledger: one record per registered
// identity with its deposit and remaining voting power.
type RegistryCtrler struct {
	registrantLedger ledger.IFinalityLedger[*Registrant]

	logger tmlog.Logger
	mtx    sync.RWMutex
}

var _ ctrlertypes.ILedgerHandler = (*RegistryCtrler)(nil)
var _ ctrlertypes.ITrxHandler = (*RegistryCtrler)(nil)
var _ ctrlertypes.IRegistryHandler = (*RegistryCtrler)(nil)

func NewRegistryCtrler(config *cfg.Config, logger tmlog.Logger) (*RegistryCtrler, xerrors.XError) {
	newRegistrant := func() *Registrant { return &Registrant{} }
	registrantLedger, xerr := ledger.NewFinalityLedger[*Registrant]("registrants", config.DBDir(), 2048, newRegistrant)
	if xerr != nil {
		return nil, xerr
	}

	return &RegistryCtrler{
		registrantLedger: registrantLedger,
		logger:           logger.With("module", "mech_RegistryCtrler"),
	}, nil
}

func (ctrler *RegistryCtrler) InitLedger(req interface{}) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	genAppState, ok := req.(*genesis.GenesisAppState)
	if !ok {
		return xerrors.ErrInitChain.Wrapf("wrong genesis app state type %T", req)
	}

	decimals := genAppState.MechParams.AssetDecimals()
	for _, holder := range genAppState.AssetHolders {
		power, xerr := types.ToCanonical(holder.Balance, decimals)
		if xerr != nil {
			return xerr
		}
		reg := NewRegistrant(holder.Address, holder.Balance.Clone(), power, 0)
		if xerr := ctrler.registrantLedger.SetFinality(reg); xerr != nil {
			return xerr
		}
	}
	return nil
}

func (ctrler *RegistryCtrler) ValidateTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	switch ctx.Tx.GetType() {
	case ctrlertypes.TRX_REGISTER:
		if ctx.Tx.Amount == nil || ctx.Tx.Amount.IsZero() {
			return xerrors.ErrZeroDeposit
		}
		if ctx.Height > ctx.MechHandler.VotingEndHeight() {
			return xerrors.ErrStateConflict.Wrap(xerrors.NewOrdinary("registration is closed"))
		}
		if xerr := ctx.Strategy.CheckRegistration(ctrler.isRegistered(ctx.Tx.From, ctx.Exec)); xerr != nil {
			return xerr
		}
	default:
		return xerrors.ErrInvalidTrxType
	}
	return nil
}

func (ctrler *RegistryCtrler) ExecuteTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	switch ctx.Tx.GetType() {
	case ctrlertypes.TRX_REGISTER:
		return ctrler.execRegister(ctx)
	}
	return xerrors.ErrInvalidTrxType
}

func (ctrler *RegistryCtrler) execRegister(ctx *ctrlertypes.TrxContext) xerrors.XError {
	power, xerr := ctx.Strategy.VotingPowerOf(ctx.Tx.Amount, ctx.MechHandler.AssetDecimals())
	if xerr != nil {
		return xerr
	}

	// the deposit is committed to the redemption pool, in canonical units
	if xerr := ctx.ShareHandler.DepositPool(power.Clone(), ctx.Exec); xerr != nil {
		return xerr
	}

	reg := NewRegistrant(ctx.Tx.From, ctx.Tx.Amount.Clone(), power, ctx.Height)
	if xerr := ctrler.setRegistrant(reg, ctx.Exec); xerr != nil {
		return xerr
	}

	ctx.AppendEvent(abcitypes.Event{
		Type: "register",
		Attributes: []abcitypes.EventAttribute{
			{Key: []byte(ctrlertypes.EVENT_ATTR_TXSENDER), Value: []byte(ctx.Tx.From.String()), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_AMOUNT), Value: []byte(ctx.Tx.Amount.Dec()), Index: false},
		},
	})

	ctrler.logger.Debug("RegistryCtrler: register", "registrant", reg.Addr, "power", power.Dec())
	return nil
}

func (ctrler *RegistryCtrler) registrantOf(addr types.Address, exec bool) *Registrant {
	fn := ctrler.registrantLedger.Get
	if exec {
		fn = ctrler.registrantLedger.GetFinality
	}
	reg, xerr := fn(ledger.ToLedgerKey(addr))
	if xerr != nil {
		return nil
	}
	return reg
}

func (ctrler *RegistryCtrler) setRegistrant(reg *Registrant, exec bool) xerrors.XError {
	fn := ctrler.registrantLedger.Set
	if exec {
		fn = ctrler.registrantLedger.SetFinality
	}
	return fn(reg)
}

func (ctrler *RegistryCtrler) isRegistered(addr types.Address, exec bool) bool {
	return ctrler.registrantOf(addr, exec) != nil
}

func (ctrler *RegistryCtrler) IsRegistered(addr types.Address, exec bool) bool {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.isRegistered(addr, exec)
}

// PowerOf returns the registrant's remaining voting power, nil when the
// address is not registered.
func (ctrler *RegistryCtrler) PowerOf(addr types.Address, exec bool) *uint256.Int {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	reg := ctrler.registrantOf(addr, exec)
	if reg == nil {
		return nil
	}
	return reg.PowerOf()
}

func (ctrler *RegistryCtrler) SpendPower(addr types.Address, amt *uint256.Int, exec bool) (*uint256.Int, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	reg := ctrler.registrantOf(addr, exec)
	if reg == nil {
		return nil, xerrors.ErrNotFoundRegistrant
	}
	remain, xerr := reg.SpendPower(amt)
	if xerr != nil {
		return nil, xerr
	}
	if xerr := ctrler.setRegistrant(reg, exec); xerr != nil {
		return nil, xerr
	}
	return remain, nil
}

func (ctrler *RegistryCtrler) TotalDeposited(exec bool) *uint256.Int {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	total := uint256.NewInt(0)
	iter := ctrler.registrantLedger.IterateReadAllItems
	if exec {
		iter = ctrler.registrantLedger.IterateReadAllFinalityItems
	}
	_ = iter(func(reg *Registrant) xerrors.XError {
		_ = total.Add(total, reg.Deposit)
		return nil
	})
	return total
}

func (ctrler *RegistryCtrler) Query(req abcitypes.RequestQuery) ([]byte, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	addr := types.Address(req.Data)
	if len(addr) != types.AddrSize {
		return nil, xerrors.ErrInvalidQueryParams
	}

	reg, xerr := ctrler.registrantLedger.Read(ledger.ToLedgerKey(addr))
	if xerr != nil {
		return nil, xerrors.ErrNotFoundRegistrant
	}
	bz, xerr := reg.Encode()
	if xerr != nil {
		return nil, xerrors.ErrQuery.Wrap(xerr)
	}
	return bz, nil
}

func (ctrler *RegistryCtrler) Commit() ([]byte, int64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.registrantLedger.Commit()
}

func (ctrler *RegistryCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.registrantLedger != nil {
		if xerr := ctrler.registrantLedger.Close(); xerr != nil {
			ctrler.logger.Error("RegistryCtrler: fail to close ledger", "error", xerr.Error())
		}
		ctrler.registrantLedger = nil
	}
	return nil
}
