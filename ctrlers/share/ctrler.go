package share

import (
	"sync"

	cfg "github.com/ReageMeuFilho/octant-v2-core-sub005/cmd/config"
	ctrlertypes "github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/genesis"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/ledger"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/crypto"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	"github.com/holiman/uint256"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// ShareCtrler owns the claim-share ledger and the redemption pool. Shares
// are minted when a proposal is queued, move by transfer or approved
// transfer, and burn on redemption against the pool at the pro rata rate.
type ShareCtrler struct {
	acctLedger ledger.IFinalityLedger[*ShareAccount]
	poolLedger ledger.IFinalityLedger[*PoolState]

	logger tmlog.Logger
	mtx    sync.RWMutex
}

var _ ctrlertypes.ILedgerHandler = (*ShareCtrler)(nil)
var _ ctrlertypes.ITrxHandler = (*ShareCtrler)(nil)
var _ ctrlertypes.IShareHandler = (*ShareCtrler)(nil)

func NewShareCtrler(config *cfg.Config, logger tmlog.Logger) (*ShareCtrler, xerrors.XError) {
	newAcct := func() *ShareAccount { return &ShareAccount{} }
	acctLedger, xerr := ledger.NewFinalityLedger[*ShareAccount]("shares", config.DBDir(), 2048, newAcct)
	if xerr != nil {
		return nil, xerr
	}

	newPool := func() *PoolState { return &PoolState{} }
	poolLedger, xerr := ledger.NewFinalityLedger[*PoolState]("pool", config.DBDir(), 8, newPool)
	if xerr != nil {
		return nil, xerr
	}

	return &ShareCtrler{
		acctLedger: acctLedger,
		poolLedger: poolLedger,
		logger:     logger.With("module", "mech_ShareCtrler"),
	}, nil
}

func (ctrler *ShareCtrler) InitLedger(req interface{}) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	genAppState, ok := req.(*genesis.GenesisAppState)
	if !ok {
		return xerrors.ErrInitChain.Wrapf("wrong genesis app state type %T", req)
	}

	pool := NewPoolState()
	decimals := genAppState.MechParams.AssetDecimals()
	for _, holder := range genAppState.AssetHolders {
		amt, xerr := types.ToCanonical(holder.Balance, decimals)
		if xerr != nil {
			return xerr
		}
		if xerr := pool.Deposit(amt); xerr != nil {
			return xerr
		}
	}
	return ctrler.poolLedger.SetFinality(pool)
}

func (ctrler *ShareCtrler) ValidateTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	switch ctx.Tx.GetType() {
	case ctrlertypes.TRX_TRANSFER:
		if types.IsZeroAddress(ctx.Tx.To) {
			return xerrors.ErrInvalidTrx.Wrap(xerrors.NewOrdinary("transfer to zero address"))
		}
		if ctx.Tx.Amount == nil || ctx.Tx.Amount.IsZero() {
			return xerrors.ErrInvalidTrx.Wrap(xerrors.NewOrdinary("zero share amount"))
		}
		acct := ctrler.acctOf(ctx.Tx.From, ctx.Exec)
		if acct == nil || acct.BalanceOf().Lt(ctx.Tx.Amount) {
			return xerrors.ErrInsufficientShares
		}
	case ctrlertypes.TRX_APPROVE:
		payload, ok := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadApprove)
		if !ok {
			return xerrors.ErrInvalidTrxPayloadType
		}
		if types.IsZeroAddress(payload.Spender) {
			return xerrors.ErrInvalidTrx.Wrap(xerrors.NewOrdinary("approve to zero address"))
		}
	case ctrlertypes.TRX_REDEEM:
		payload, ok := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadRedeem)
		if !ok {
			return xerrors.ErrInvalidTrxPayloadType
		}
		if payload.Shares == nil || payload.Shares.IsZero() {
			return xerrors.ErrInvalidTrx.Wrap(xerrors.NewOrdinary("zero share amount"))
		}
	default:
		return xerrors.ErrInvalidTrxType
	}
	return nil
}

func (ctrler *ShareCtrler) ExecuteTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	switch ctx.Tx.GetType() {
	case ctrlertypes.TRX_TRANSFER:
		return ctrler.execTransfer(ctx)
	case ctrlertypes.TRX_APPROVE:
		return ctrler.execApprove(ctx)
	case ctrlertypes.TRX_REDEEM:
		return ctrler.execRedeem(ctx)
	}
	return xerrors.ErrInvalidTrxType
}

func (ctrler *ShareCtrler) execTransfer(ctx *ctrlertypes.TrxContext) xerrors.XError {
	sender := ctrler.acctOf(ctx.Tx.From, ctx.Exec)
	if sender == nil {
		return xerrors.ErrNotFoundShareHolder
	}
	if xerr := sender.SubBalance(ctx.Tx.Amount); xerr != nil {
		return xerr
	}

	receiver := ctrler.acctOrNew(ctx.Tx.To, ctx.Exec)
	if xerr := receiver.AddBalance(ctx.Tx.Amount); xerr != nil {
		return xerr
	}
	if sender.RedeemStart != 0 {
		receiver.StampRedeemStart(sender.RedeemStart)
	}

	if xerr := ctrler.setAcct(sender, ctx.Exec); xerr != nil {
		return xerr
	}
	if xerr := ctrler.setAcct(receiver, ctx.Exec); xerr != nil {
		return xerr
	}

	ctx.AppendEvent(abcitypes.Event{
		Type: "share_transfer",
		Attributes: []abcitypes.EventAttribute{
			{Key: []byte(ctrlertypes.EVENT_ATTR_TXSENDER), Value: []byte(ctx.Tx.From.String()), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_TXRECVER), Value: []byte(ctx.Tx.To.String()), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_AMOUNT), Value: []byte(ctx.Tx.Amount.Dec()), Index: false},
		},
	})
	return nil
}

func (ctrler *ShareCtrler) execApprove(ctx *ctrlertypes.TrxContext) xerrors.XError {
	payload := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadApprove)

	acct := ctrler.acctOrNew(ctx.Tx.From, ctx.Exec)
	acct.SetAllowance(payload.Spender, payload.Shares)
	return ctrler.setAcct(acct, ctx.Exec)
}

func (ctrler *ShareCtrler) execRedeem(ctx *ctrlertypes.TrxContext) xerrors.XError {
	payload := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadRedeem)

	owner := payload.Owner
	if len(owner) == 0 {
		owner = ctx.Tx.From
	}

	acct := ctrler.acctOf(owner, ctx.Exec)
	if acct == nil {
		return xerrors.ErrNotFoundShareHolder
	}

	// acctOf returns the ledger's cached object; every guard must pass
	// before anything on it is touched, or a rejected tx leaks the
	// mutation into the block
	byAllowance := owner.Compare(ctx.Tx.From) != 0
	if byAllowance && acct.AllowanceOf(ctx.Tx.From).Lt(payload.Shares) {
		return xerrors.ErrNoAllowance
	}
	if !acct.Redeemable(ctx.BlockTime, ctx.MechHandler.GracePeriodSeconds()) {
		return xerrors.ErrNotRedeemable
	}
	if acct.BalanceOf().Lt(payload.Shares) {
		return xerrors.ErrInsufficientShares
	}

	pool := ctrler.poolOf(ctx.Exec)
	if pool == nil {
		return xerrors.ErrInsufficientFund
	}
	assets, xerr := pool.Payout(payload.Shares)
	if xerr != nil {
		return xerr
	}

	if byAllowance {
		if xerr := acct.SpendAllowance(ctx.Tx.From, payload.Shares); xerr != nil {
			return xerr
		}
	}
	if xerr := acct.SubBalance(payload.Shares); xerr != nil {
		return xerr
	}
	_ = acct.Redeemed.Add(acct.Redeemed, assets)

	if xerr := ctrler.setAcct(acct, ctx.Exec); xerr != nil {
		return xerr
	}
	if xerr := ctrler.setPool(pool, ctx.Exec); xerr != nil {
		return xerr
	}

	receiver := payload.Receiver
	if len(receiver) == 0 {
		receiver = owner
	}
	ctx.AppendEvent(abcitypes.Event{
		Type: "redeem",
		Attributes: []abcitypes.EventAttribute{
			{Key: []byte(ctrlertypes.EVENT_ATTR_TXSENDER), Value: []byte(ctx.Tx.From.String()), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_TXRECVER), Value: []byte(receiver.String()), Index: true},
			{Key: []byte(ctrlertypes.EVENT_ATTR_AMOUNT), Value: []byte(assets.Dec()), Index: false},
		},
	})

	ctrler.logger.Debug("ShareCtrler: redeem",
		"owner", owner, "shares", payload.Shares.Dec(), "assets", assets.Dec())
	return nil
}

func (ctrler *ShareCtrler) acctOf(addr types.Address, exec bool) *ShareAccount {
	fn := ctrler.acctLedger.Get
	if exec {
		fn = ctrler.acctLedger.GetFinality
	}
	acct, xerr := fn(ledger.ToLedgerKey(addr))
	if xerr != nil {
		return nil
	}
	return acct
}

func (ctrler *ShareCtrler) acctOrNew(addr types.Address, exec bool) *ShareAccount {
	if acct := ctrler.acctOf(addr, exec); acct != nil {
		return acct
	}
	return NewShareAccount(addr)
}

func (ctrler *ShareCtrler) setAcct(acct *ShareAccount, exec bool) xerrors.XError {
	fn := ctrler.acctLedger.Set
	if exec {
		fn = ctrler.acctLedger.SetFinality
	}
	return fn(acct)
}

func (ctrler *ShareCtrler) poolOf(exec bool) *PoolState {
	fn := ctrler.poolLedger.Get
	if exec {
		fn = ctrler.poolLedger.GetFinality
	}
	pool, xerr := fn(poolStateKey)
	if xerr != nil {
		return nil
	}
	return pool
}

func (ctrler *ShareCtrler) setPool(pool *PoolState, exec bool) xerrors.XError {
	fn := ctrler.poolLedger.Set
	if exec {
		fn = ctrler.poolLedger.SetFinality
	}
	return fn(pool)
}

func (ctrler *ShareCtrler) Mint(to types.Address, shares *uint256.Int, redeemableAt int64, exec bool) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if shares.IsZero() {
		return nil
	}

	acct := ctrler.acctOrNew(to, exec)
	if xerr := acct.AddBalance(shares); xerr != nil {
		return xerr
	}
	acct.StampRedeemStart(redeemableAt)

	pool := ctrler.poolOf(exec)
	if pool == nil {
		pool = NewPoolState()
	}
	if xerr := pool.AddShares(shares); xerr != nil {
		return xerr
	}

	if xerr := ctrler.setAcct(acct, exec); xerr != nil {
		return xerr
	}
	return ctrler.setPool(pool, exec)
}

func (ctrler *ShareCtrler) BalanceOf(addr types.Address, exec bool) *uint256.Int {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	acct := ctrler.acctOf(addr, exec)
	if acct == nil {
		return uint256.NewInt(0)
	}
	return acct.BalanceOf()
}

func (ctrler *ShareCtrler) TotalShares(exec bool) *uint256.Int {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	pool := ctrler.poolOf(exec)
	if pool == nil {
		return uint256.NewInt(0)
	}
	return pool.TotalShares.Clone()
}

func (ctrler *ShareCtrler) PoolBalance(exec bool) *uint256.Int {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	pool := ctrler.poolOf(exec)
	if pool == nil {
		return uint256.NewInt(0)
	}
	return pool.Balance.Clone()
}

func (ctrler *ShareCtrler) DepositPool(amt *uint256.Int, exec bool) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	pool := ctrler.poolOf(exec)
	if pool == nil {
		pool = NewPoolState()
	}
	if xerr := pool.Deposit(amt); xerr != nil {
		return xerr
	}
	return ctrler.setPool(pool, exec)
}

// WithdrawLimit is the assets the holder could redeem at `now` for its whole
// balance; zero outside the redemption window.
func (ctrler *ShareCtrler) WithdrawLimit(addr types.Address, now, gracePeriod int64) *uint256.Int {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	acct := ctrler.acctOf(addr, false)
	if acct == nil || !acct.Redeemable(now, gracePeriod) {
		return uint256.NewInt(0)
	}
	pool := ctrler.poolOf(false)
	if pool == nil {
		return uint256.NewInt(0)
	}
	return pool.Preview(acct.BalanceOf())
}

func (ctrler *ShareCtrler) Query(req abcitypes.RequestQuery) ([]byte, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	switch req.Path {
	case "pool":
		pool, xerr := ctrler.poolLedger.Read(poolStateKey)
		if xerr != nil {
			return nil, xerrors.ErrNotFoundResult
		}
		bz, xerr := pool.Encode()
		if xerr != nil {
			return nil, xerrors.ErrQuery.Wrap(xerr)
		}
		return bz, nil
	case "share":
		addr := types.Address(req.Data)
		if len(addr) != types.AddrSize {
			return nil, xerrors.ErrInvalidQueryParams
		}
		acct, xerr := ctrler.acctLedger.Read(ledger.ToLedgerKey(addr))
		if xerr != nil {
			return nil, xerrors.ErrNotFoundShareHolder
		}
		bz, xerr := acct.Encode()
		if xerr != nil {
			return nil, xerrors.ErrQuery.Wrap(xerr)
		}
		return bz, nil
	}
	return nil, xerrors.ErrInvalidQueryCmd
}

func (ctrler *ShareCtrler) Commit() ([]byte, int64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	h0, v0, xerr := ctrler.acctLedger.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}
	h1, v1, xerr := ctrler.poolLedger.Commit()
	if xerr != nil {
		return nil, -1, xerr
	}
	if v0 != v1 {
		return nil, -1, xerrors.ErrCommit.Wrapf("version mismatch: shares[%d] pool[%d]", v0, v1)
	}
	return crypto.DefaultHash(h0, h1), v0, nil
}

func (ctrler *ShareCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.acctLedger != nil {
		if xerr := ctrler.acctLedger.Close(); xerr != nil {
			ctrler.logger.Error("ShareCtrler: fail to close ledger", "error", xerr.Error())
		}
		ctrler.acctLedger = nil
	}
	if ctrler.poolLedger != nil {
		if xerr := ctrler.poolLedger.Close(); xerr != nil {
			ctrler.logger.Error("ShareCtrler: fail to close ledger", "error", xerr.Error())
		}
		ctrler.poolLedger = nil
	}
	return nil
}
