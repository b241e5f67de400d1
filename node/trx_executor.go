package node

import (
	ctrlertypes "github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/crypto"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	"github.com/tendermint/tendermint/libs/log"
)

type TrxExecutor struct {
	logger log.Logger
}

func NewTrxExecutor(logger log.Logger) *TrxExecutor {
	return &TrxExecutor{
		logger: logger,
	}
}

func (txe *TrxExecutor) ExecuteSync(ctx *ctrlertypes.TrxContext) xerrors.XError {
	if xerr := validateTrx(ctx); xerr != nil {
		return xerr
	}
	return runTrx(ctx)
}

// trxHandlerFor routes a transaction to the one controller that owns its
// type.
func trxHandlerFor(ctx *ctrlertypes.TrxContext) ctrlertypes.ITrxHandler {
	switch ctx.Tx.GetType() {
	case ctrlertypes.TRX_REGISTER:
		return ctx.TrxRegistryHandler
	case ctrlertypes.TRX_PROPOSAL,
		ctrlertypes.TRX_VOTING,
		ctrlertypes.TRX_CANCEL,
		ctrlertypes.TRX_FINALIZE,
		ctrlertypes.TRX_QUEUE:
		return ctx.TrxFundingHandler
	case ctrlertypes.TRX_REDEEM,
		ctrlertypes.TRX_TRANSFER,
		ctrlertypes.TRX_APPROVE:
		return ctx.TrxShareHandler
	case ctrlertypes.TRX_SETALPHA,
		ctrlertypes.TRX_PAUSE,
		ctrlertypes.TRX_UNPAUSE,
		ctrlertypes.TRX_SETOWNER:
		return ctx.TrxMechHandler
	}
	return nil
}

func validateTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	if xerr := commonValidation(ctx); xerr != nil {
		return xerr
	}

	handler := trxHandlerFor(ctx)
	if handler == nil {
		return xerrors.ErrInvalidTrxType
	}
	return handler.ValidateTrx(ctx)
}

func commonValidation(ctx *ctrlertypes.TrxContext) xerrors.XError {
	tx := ctx.Tx
	if len(tx.From) != types.AddrSize {
		return xerrors.ErrInvalidTrx.Wrap(xerrors.NewOrdinary("wrong sender address size"))
	}
	if tx.Amount == nil {
		return xerrors.ErrNegAmount
	}

	// the pause switch stops everything except unpausing
	if ctx.MechHandler.IsPaused() && tx.GetType() != ctrlertypes.TRX_UNPAUSE {
		return xerrors.ErrPaused
	}

	return verifySig(ctx)
}

func verifySig(ctx *ctrlertypes.TrxContext) xerrors.XError {
	tx := ctx.Tx
	if len(tx.Sig) == 0 {
		return xerrors.ErrInvalidTrxSig
	}

	unsigned := *tx
	unsigned.Sig = nil
	msg, xerr := unsigned.Encode()
	if xerr != nil {
		return xerr
	}

	addr, pubKey, xerr := crypto.Sig2Addr(msg, tx.Sig)
	if xerr != nil {
		return xerrors.ErrInvalidTrxSig.Wrap(xerr)
	}
	if addr.Compare(tx.From) != 0 {
		return xerrors.ErrInvalidTrxSig.Wrap(xerrors.NewOrdinary("sender address is not the signer"))
	}

	ctx.SenderPubKey = pubKey
	return nil
}

func runTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	handler := trxHandlerFor(ctx)
	if handler == nil {
		return xerrors.ErrInvalidTrxType
	}
	return handler.ExecuteTrx(ctx)
}
