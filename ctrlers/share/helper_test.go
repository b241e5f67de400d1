package share

import (
	ctrlertypes "github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
)

func makeTrxCtx(tx *ctrlertypes.Trx, height, btime int64, exec bool) *ctrlertypes.TrxContext {
	txbz, _ := tx.Encode()
	txctx, _ := ctrlertypes.NewTrxContext(txbz, height, btime, exec, func(_txctx *ctrlertypes.TrxContext) xerrors.XError {
		_txctx.TrxShareHandler = shareCtrler
		_txctx.MechHandler = mechParams
		_txctx.ShareHandler = shareCtrler
		return nil
	})
	return txctx
}

func runTrx(ctx *ctrlertypes.TrxContext) xerrors.XError {
	if xerr := shareCtrler.ValidateTrx(ctx); xerr != nil {
		return xerr
	}
	return shareCtrler.ExecuteTrx(ctx)
}
