package mech

import (
	"sync"

	cfg "github.com/ReageMeuFilho/octant-v2-core-sub005/cmd/config"
	ctrlertypes "github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/genesis"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/ledger"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// MechCtrler owns the mechanism parameters and the admin operations on
// them: retuning alpha, pausing, and handing over ownership. The live
// MechParams is embedded so the ctrler serves IMechHandler directly.
type MechCtrler struct {
	*ctrlertypes.MechParams

	paramsLedger ledger.IFinalityLedger[*ctrlertypes.MechParams]

	logger tmlog.Logger
	mtx    sync.RWMutex
}

var _ ctrlertypes.ILedgerHandler = (*MechCtrler)(nil)
var _ ctrlertypes.ITrxHandler = (*MechCtrler)(nil)
var _ ctrlertypes.IMechHandler = (*MechCtrler)(nil)

func NewMechCtrler(config *cfg.Config, logger tmlog.Logger) (*MechCtrler, xerrors.XError) {
	newParams := func() *ctrlertypes.MechParams { return &ctrlertypes.MechParams{} }
	paramsLedger, xerr := ledger.NewFinalityLedger[*ctrlertypes.MechParams]("params", config.DBDir(), 8, newParams)
	if xerr != nil {
		return nil, xerr
	}

	ctrler := &MechCtrler{
		MechParams:   ctrlertypes.DefaultMechParams(),
		paramsLedger: paramsLedger,
		logger:       logger.With("module", "mech_MechCtrler"),
	}

	// recover the live params from the last committed version
	if params, xerr := paramsLedger.Read((&ctrlertypes.MechParams{}).Key()); xerr == nil {
		ctrler.MechParams = params
	}
	return ctrler, nil
}

func (ctrler *MechCtrler) InitLedger(req interface{}) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	genAppState, ok := req.(*genesis.GenesisAppState)
	if !ok {
		return xerrors.ErrInitChain.Wrapf("wrong genesis app state type %T", req)
	}

	ctrler.MechParams = genAppState.MechParams
	return ctrler.paramsLedger.SetFinality(ctrler.MechParams)
}

func (ctrler *MechCtrler) ValidateTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	switch ctx.Tx.GetType() {
	case ctrlertypes.TRX_SETALPHA:
		payload, ok := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadSetAlpha)
		if !ok {
			return xerrors.ErrInvalidTrxPayloadType
		}
		if payload.Den == 0 || payload.Num > payload.Den {
			return xerrors.ErrInvalidAlpha
		}
	case ctrlertypes.TRX_PAUSE, ctrlertypes.TRX_UNPAUSE:
		// owner check below
	case ctrlertypes.TRX_SETOWNER:
		if types.IsZeroAddress(ctx.Tx.To) {
			return xerrors.ErrInvalidTrx.Wrap(xerrors.NewOrdinary("new owner is zero address"))
		}
	default:
		return xerrors.ErrInvalidTrxType
	}

	if !ctrler.IsOwner(ctx.Tx.From) {
		return xerrors.ErrNoRight.Wrap(xerrors.NewOrdinary("only the owner may administer the mechanism"))
	}
	return nil
}

func (ctrler *MechCtrler) ExecuteTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	// CheckTx must not touch the live params; it stages a modified copy
	// into the speculative ledger instead.
	params := ctrler.MechParams
	if !ctx.Exec {
		cloned, xerr := cloneParams(params)
		if xerr != nil {
			return xerr
		}
		params = cloned
	}

	switch ctx.Tx.GetType() {
	case ctrlertypes.TRX_SETALPHA:
		payload := ctx.Tx.Payload.(*ctrlertypes.TrxPayloadSetAlpha)
		if xerr := params.SetAlpha(payload.Num, payload.Den); xerr != nil {
			return xerr
		}
		ctrler.logger.Info("MechCtrler: alpha changed", "num", payload.Num, "den", payload.Den)
	case ctrlertypes.TRX_PAUSE:
		params.SetPaused(true)
		ctrler.logger.Info("MechCtrler: paused", "by", ctx.Tx.From)
	case ctrlertypes.TRX_UNPAUSE:
		params.SetPaused(false)
		ctrler.logger.Info("MechCtrler: unpaused", "by", ctx.Tx.From)
	case ctrlertypes.TRX_SETOWNER:
		params.SetOwner(ctx.Tx.To)
		ctrler.logger.Info("MechCtrler: owner changed", "owner", ctx.Tx.To)
	default:
		return xerrors.ErrInvalidTrxType
	}

	if ctx.Exec {
		return ctrler.paramsLedger.SetFinality(params)
	}
	return ctrler.paramsLedger.Set(params)
}

func cloneParams(params *ctrlertypes.MechParams) (*ctrlertypes.MechParams, xerrors.XError) {
	bz, xerr := params.Encode()
	if xerr != nil {
		return nil, xerr
	}
	return ctrlertypes.DecodeMechParams(bz)
}

func (ctrler *MechCtrler) Query(req abcitypes.RequestQuery) ([]byte, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	bz, xerr := ctrler.MechParams.Encode()
	if xerr != nil {
		return nil, xerrors.ErrQuery.Wrap(xerr)
	}
	return bz, nil
}

func (ctrler *MechCtrler) Commit() ([]byte, int64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	return ctrler.paramsLedger.Commit()
}

func (ctrler *MechCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.paramsLedger != nil {
		if xerr := ctrler.paramsLedger.Close(); xerr != nil {
			ctrler.logger.Error("MechCtrler: fail to close ledger", "error", xerr.Error())
		}
		ctrler.paramsLedger = nil
	}
	return nil
}
