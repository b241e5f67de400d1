package types

import (
	abytes "github.com/ReageMeuFilho/octant-v2-core-sub005/types/bytes"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	abcitypes "github.com/tendermint/tendermint/abci/types"
	tmtypes "github.com/tendermint/tendermint/types"
)

// TrxContext carries one transaction through validation and execution.
// Exec selects the finality staging area of each ledger.
type TrxContext struct {
	Height    int64
	BlockTime int64
	TxHash    abytes.HexBytes
	Tx        *Trx
	Exec      bool

	SenderPubKey abytes.HexBytes
	Events       []abcitypes.Event

	TrxRegistryHandler ITrxHandler
	TrxFundingHandler  ITrxHandler
	TrxShareHandler    ITrxHandler
	TrxMechHandler     ITrxHandler

	MechHandler     IMechHandler
	RegistryHandler IRegistryHandler
	ShareHandler    IShareHandler
	FundingHandler  IFundingHandler
	Strategy        IStrategy
}

type ITrxHandler interface {
	ValidateTrx(*TrxContext) xerrors.XError
	ExecuteTrx(*TrxContext) xerrors.XError
}

type NewTrxContextCb func(*TrxContext) xerrors.XError

func NewTrxContext(txbz []byte, height, btime int64, exec bool, cbfns ...NewTrxContextCb) (*TrxContext, xerrors.XError) {
	tx := &Trx{}
	if xerr := tx.Decode(txbz); xerr != nil {
		return nil, xerr
	}

	txctx := &TrxContext{
		Tx:        tx,
		TxHash:    abytes.HexBytes(tmtypes.Tx(txbz).Hash()),
		Height:    height,
		BlockTime: btime,
		Exec:      exec,
	}

	for _, fn := range cbfns {
		if err := fn(txctx); err != nil {
			return nil, err
		}
	}

	return txctx, nil
}

func (ctx *TrxContext) AppendEvent(evt abcitypes.Event) {
	ctx.Events = append(ctx.Events, evt)
}
