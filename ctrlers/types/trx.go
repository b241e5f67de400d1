package types

import (
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types"
	abytes "github.com/ReageMeuFilho/octant-v2-core-sub005/types/bytes"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/holiman/uint256"
)

const (
	TRX_REGISTER int32 = 1 + iota
	TRX_PROPOSAL
	TRX_VOTING
	TRX_CANCEL
	TRX_FINALIZE
	TRX_QUEUE
	TRX_REDEEM
	TRX_TRANSFER
	TRX_APPROVE
	TRX_SETALPHA
	TRX_PAUSE
	TRX_UNPAUSE
	TRX_SETOWNER
)

const (
	EVENT_ATTR_TXSTATUS = "status"
	EVENT_ATTR_TXTYPE   = "type"
	EVENT_ATTR_TXSENDER = "sender"
	EVENT_ATTR_TXRECVER = "receiver"
	EVENT_ATTR_AMOUNT   = "amount"
	EVENT_ATTR_PROPOSAL = "proposal"
)

type ITrxPayload interface {
	Type() int32
	Equal(ITrxPayload) bool
	Encode() ([]byte, xerrors.XError)
	Decode([]byte) xerrors.XError
}

type Trx struct {
	Version uint32          `json:"version,omitempty"`
	Time    int64           `json:"time"`
	Nonce   uint64          `json:"nonce"`
	From    types.Address   `json:"from"`
	To      types.Address   `json:"to"`
	Amount  *uint256.Int    `json:"amount"`
	Type    int32           `json:"type"`
	Payload ITrxPayload     `json:"payload,omitempty"`
	Sig     abytes.HexBytes `json:"sig"`
}

func (tx *Trx) GetType() int32 {
	return tx.Type
}

func (tx *Trx) TypeString() string {
	switch tx.Type {
	case TRX_REGISTER:
		return "register"
	case TRX_PROPOSAL:
		return "proposal"
	case TRX_VOTING:
		return "voting"
	case TRX_CANCEL:
		return "cancel"
	case TRX_FINALIZE:
		return "finalize"
	case TRX_QUEUE:
		return "queue"
	case TRX_REDEEM:
		return "redeem"
	case TRX_TRANSFER:
		return "transfer"
	case TRX_APPROVE:
		return "approve"
	case TRX_SETALPHA:
		return "setalpha"
	case TRX_PAUSE:
		return "pause"
	case TRX_UNPAUSE:
		return "unpause"
	case TRX_SETOWNER:
		return "setowner"
	}
	return "unknown"
}

func (tx *Trx) Equal(_tx *Trx) bool {
	if _tx == nil ||
		tx.Version != _tx.Version ||
		tx.Time != _tx.Time ||
		tx.Nonce != _tx.Nonce ||
		tx.From.Compare(_tx.From) != 0 ||
		tx.To.Compare(_tx.To) != 0 ||
		tx.Amount.Cmp(_tx.Amount) != 0 ||
		tx.Type != _tx.Type ||
		abytes.Compare(tx.Sig, _tx.Sig) != 0 {
		return false
	}
	if tx.Payload != nil {
		return tx.Payload.Equal(_tx.Payload)
	}
	return _tx.Payload == nil
}

// trxRPL is the canonical wire form; it is also what gets signed
// (with the Sig field empty).
type trxRPL struct {
	Version uint64
	Time    uint64
	Nonce   uint64
	From    types.Address
	To      types.Address
	Amount  abytes.HexBytes
	Type    uint64
	Payload abytes.HexBytes
	Sig     abytes.HexBytes
}

func (tx *Trx) Encode() ([]byte, xerrors.XError) {
	var payload abytes.HexBytes
	if tx.Payload != nil {
		bz, xerr := tx.Payload.Encode()
		if xerr != nil {
			return nil, xerr
		}
		payload = bz
	}

	amt := tx.Amount
	if amt == nil {
		amt = uint256.NewInt(0)
	}

	rtx := &trxRPL{
		Version: uint64(tx.Version),
		Time:    uint64(tx.Time),
		Nonce:   tx.Nonce,
		From:    tx.From,
		To:      tx.To,
		Amount:  amt.Bytes(),
		Type:    uint64(tx.Type),
		Payload: payload,
		Sig:     tx.Sig,
	}

	bz, err := rlp.EncodeToBytes(rtx)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (tx *Trx) Decode(bz []byte) xerrors.XError {
	rtx := &trxRPL{}
	if err := rlp.DecodeBytes(bz, rtx); err != nil {
		return xerrors.From(err)
	}

	payload, xerr := NewTrxPayload(int32(rtx.Type))
	if xerr != nil {
		return xerr
	}
	if payload != nil {
		if xerr := payload.Decode(rtx.Payload); xerr != nil {
			return xerr
		}
	}

	tx.Version = uint32(rtx.Version)
	tx.Time = int64(rtx.Time)
	tx.Nonce = rtx.Nonce
	tx.From = rtx.From
	tx.To = rtx.To
	tx.Amount = new(uint256.Int).SetBytes(rtx.Amount)
	tx.Type = int32(rtx.Type)
	tx.Payload = payload
	tx.Sig = rtx.Sig
	return nil
}

// NewTrxPayload returns the empty payload object for a transaction type;
// nil for the types that carry no payload.
func NewTrxPayload(txType int32) (ITrxPayload, xerrors.XError) {
	switch txType {
	case TRX_REGISTER, TRX_FINALIZE, TRX_TRANSFER, TRX_PAUSE, TRX_UNPAUSE, TRX_SETOWNER:
		return nil, nil
	case TRX_PROPOSAL:
		return &TrxPayloadProposal{}, nil
	case TRX_VOTING:
		return &TrxPayloadVoting{}, nil
	case TRX_CANCEL:
		return &TrxPayloadCancel{}, nil
	case TRX_QUEUE:
		return &TrxPayloadQueue{}, nil
	case TRX_REDEEM:
		return &TrxPayloadRedeem{}, nil
	case TRX_APPROVE:
		return &TrxPayloadApprove{}, nil
	case TRX_SETALPHA:
		return &TrxPayloadSetAlpha{}, nil
	}
	return nil, xerrors.ErrInvalidTrxType
}

func NewTrx(from, to types.Address, nonce uint64, amt *uint256.Int, txType int32, payload ITrxPayload) *Trx {
	return &Trx{
		Version: 1,
		Time:    0,
		Nonce:   nonce,
		From:    from,
		To:      to,
		Amount:  amt,
		Type:    txType,
		Payload: payload,
	}
}

func NewTrxRegister(from types.Address, nonce uint64, deposit *uint256.Int) *Trx {
	return NewTrx(from, types.ZeroAddress(), nonce, deposit, TRX_REGISTER, nil)
}

func NewTrxProposal(from, recipient types.Address, nonce uint64, description string) *Trx {
	return NewTrx(from, types.ZeroAddress(), nonce, uint256.NewInt(0), TRX_PROPOSAL, &TrxPayloadProposal{
		Recipient:   recipient,
		Description: description,
	})
}

func NewTrxVoting(from types.Address, nonce, propID uint64, choice int32, weight *uint256.Int) *Trx {
	return NewTrx(from, types.ZeroAddress(), nonce, uint256.NewInt(0), TRX_VOTING, &TrxPayloadVoting{
		ProposalID: propID,
		Choice:     choice,
		Weight:     weight,
	})
}

func NewTrxCancel(from types.Address, nonce, propID uint64) *Trx {
	return NewTrx(from, types.ZeroAddress(), nonce, uint256.NewInt(0), TRX_CANCEL, &TrxPayloadCancel{
		ProposalID: propID,
	})
}

func NewTrxFinalize(from types.Address, nonce uint64) *Trx {
	return NewTrx(from, types.ZeroAddress(), nonce, uint256.NewInt(0), TRX_FINALIZE, nil)
}

func NewTrxQueue(from types.Address, nonce, propID uint64) *Trx {
	return NewTrx(from, types.ZeroAddress(), nonce, uint256.NewInt(0), TRX_QUEUE, &TrxPayloadQueue{
		ProposalID: propID,
	})
}

func NewTrxRedeem(from, receiver, owner types.Address, nonce uint64, shares *uint256.Int) *Trx {
	return NewTrx(from, types.ZeroAddress(), nonce, uint256.NewInt(0), TRX_REDEEM, &TrxPayloadRedeem{
		Shares:   shares,
		Receiver: receiver,
		Owner:    owner,
	})
}

func NewTrxTransfer(from, to types.Address, nonce uint64, shares *uint256.Int) *Trx {
	return NewTrx(from, to, nonce, shares, TRX_TRANSFER, nil)
}

func NewTrxApprove(from, spender types.Address, nonce uint64, shares *uint256.Int) *Trx {
	return NewTrx(from, types.ZeroAddress(), nonce, uint256.NewInt(0), TRX_APPROVE, &TrxPayloadApprove{
		Spender: spender,
		Shares:  shares,
	})
}

func NewTrxSetAlpha(from types.Address, nonce, num, den uint64) *Trx {
	return NewTrx(from, types.ZeroAddress(), nonce, uint256.NewInt(0), TRX_SETALPHA, &TrxPayloadSetAlpha{
		Num: num,
		Den: den,
	})
}

func NewTrxPause(from types.Address, nonce uint64) *Trx {
	return NewTrx(from, types.ZeroAddress(), nonce, uint256.NewInt(0), TRX_PAUSE, nil)
}

func NewTrxUnpause(from types.Address, nonce uint64) *Trx {
	return NewTrx(from, types.ZeroAddress(), nonce, uint256.NewInt(0), TRX_UNPAUSE, nil)
}

func NewTrxSetOwner(from, newOwner types.Address, nonce uint64) *Trx {
	return NewTrx(from, newOwner, nonce, uint256.NewInt(0), TRX_SETOWNER, nil)
}
