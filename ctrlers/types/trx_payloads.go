package types

import (
	"encoding/json"

	"github.com/ReageMeuFilho/octant-v2-core-sub005/types"
	abytes "github.com/ReageMeuFilho/octant-v2-core-sub005/types/bytes"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	"github.com/holiman/uint256"
)

//
// TRX_PROPOSAL

type TrxPayloadProposal struct {
	Recipient   types.Address `json:"recipient"`
	Description string        `json:"description"`
}

var _ ITrxPayload = (*TrxPayloadProposal)(nil)

func (tx *TrxPayloadProposal) Type() int32 {
	return TRX_PROPOSAL
}

func (tx *TrxPayloadProposal) Equal(_tx ITrxPayload) bool {
	_tx0, ok := _tx.(*TrxPayloadProposal)
	if !ok {
		return false
	}
	return abytes.Compare(tx.Recipient, _tx0.Recipient) == 0 &&
		tx.Description == _tx0.Description
}

func (tx *TrxPayloadProposal) Encode() ([]byte, xerrors.XError) {
	bz, err := json.Marshal(tx)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (tx *TrxPayloadProposal) Decode(bz []byte) xerrors.XError {
	if err := json.Unmarshal(bz, tx); err != nil {
		return xerrors.From(err)
	}
	return nil
}

//
// TRX_VOTING

type TrxPayloadVoting struct {
	ProposalID uint64       `json:"proposalId"`
	Choice     int32        `json:"choice"`
	Weight     *uint256.Int `json:"weight"`
}

var _ ITrxPayload = (*TrxPayloadVoting)(nil)

func (tx *TrxPayloadVoting) Type() int32 {
	return TRX_VOTING
}

func (tx *TrxPayloadVoting) Equal(_tx ITrxPayload) bool {
	_tx0, ok := _tx.(*TrxPayloadVoting)
	if !ok {
		return false
	}
	return tx.ProposalID == _tx0.ProposalID &&
		tx.Choice == _tx0.Choice &&
		tx.Weight.Cmp(_tx0.Weight) == 0
}

func (tx *TrxPayloadVoting) Encode() ([]byte, xerrors.XError) {
	bz, err := json.Marshal(tx)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (tx *TrxPayloadVoting) Decode(bz []byte) xerrors.XError {
	if err := json.Unmarshal(bz, tx); err != nil {
		return xerrors.From(err)
	}
	return nil
}

//
// TRX_CANCEL

type TrxPayloadCancel struct {
	ProposalID uint64 `json:"proposalId"`
}

var _ ITrxPayload = (*TrxPayloadCancel)(nil)

func (tx *TrxPayloadCancel) Type() int32 {
	return TRX_CANCEL
}

func (tx *TrxPayloadCancel) Equal(_tx ITrxPayload) bool {
	_tx0, ok := _tx.(*TrxPayloadCancel)
	return ok && tx.ProposalID == _tx0.ProposalID
}

func (tx *TrxPayloadCancel) Encode() ([]byte, xerrors.XError) {
	bz, err := json.Marshal(tx)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (tx *TrxPayloadCancel) Decode(bz []byte) xerrors.XError {
	if err := json.Unmarshal(bz, tx); err != nil {
		return xerrors.From(err)
	}
	return nil
}

//
// TRX_QUEUE

type TrxPayloadQueue struct {
	ProposalID uint64 `json:"proposalId"`
}

var _ ITrxPayload = (*TrxPayloadQueue)(nil)

func (tx *TrxPayloadQueue) Type() int32 {
	return TRX_QUEUE
}

func (tx *TrxPayloadQueue) Equal(_tx ITrxPayload) bool {
	_tx0, ok := _tx.(*TrxPayloadQueue)
	return ok && tx.ProposalID == _tx0.ProposalID
}

func (tx *TrxPayloadQueue) Encode() ([]byte, xerrors.XError) {
	bz, err := json.Marshal(tx)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (tx *TrxPayloadQueue) Decode(bz []byte) xerrors.XError {
	if err := json.Unmarshal(bz, tx); err != nil {
		return xerrors.From(err)
	}
	return nil
}

//
// TRX_REDEEM

type TrxPayloadRedeem struct {
	Shares   *uint256.Int  `json:"shares"`
	Receiver types.Address `json:"receiver"`
	Owner    types.Address `json:"owner"`
}

var _ ITrxPayload = (*TrxPayloadRedeem)(nil)

func (tx *TrxPayloadRedeem) Type() int32 {
	return TRX_REDEEM
}

func (tx *TrxPayloadRedeem) Equal(_tx ITrxPayload) bool {
	_tx0, ok := _tx.(*TrxPayloadRedeem)
	if !ok {
		return false
	}
	return tx.Shares.Cmp(_tx0.Shares) == 0 &&
		abytes.Compare(tx.Receiver, _tx0.Receiver) == 0 &&
		abytes.Compare(tx.Owner, _tx0.Owner) == 0
}

func (tx *TrxPayloadRedeem) Encode() ([]byte, xerrors.XError) {
	bz, err := json.Marshal(tx)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (tx *TrxPayloadRedeem) Decode(bz []byte) xerrors.XError {
	if err := json.Unmarshal(bz, tx); err != nil {
		return xerrors.From(err)
	}
	return nil
}

//
// TRX_APPROVE

type TrxPayloadApprove struct {
	Spender types.Address `json:"spender"`
	Shares  *uint256.Int  `json:"shares"`
}

var _ ITrxPayload = (*TrxPayloadApprove)(nil)

func (tx *TrxPayloadApprove) Type() int32 {
	return TRX_APPROVE
}

func (tx *TrxPayloadApprove) Equal(_tx ITrxPayload) bool {
	_tx0, ok := _tx.(*TrxPayloadApprove)
	if !ok {
		return false
	}
	return abytes.Compare(tx.Spender, _tx0.Spender) == 0 &&
		tx.Shares.Cmp(_tx0.Shares) == 0
}

func (tx *TrxPayloadApprove) Encode() ([]byte, xerrors.XError) {
	bz, err := json.Marshal(tx)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (tx *TrxPayloadApprove) Decode(bz []byte) xerrors.XError {
	if err := json.Unmarshal(bz, tx); err != nil {
		return xerrors.From(err)
	}
	return nil
}

//
// TRX_SETALPHA

type TrxPayloadSetAlpha struct {
	Num uint64 `json:"numerator"`
	Den uint64 `json:"denominator"`
}

var _ ITrxPayload = (*TrxPayloadSetAlpha)(nil)

func (tx *TrxPayloadSetAlpha) Type() int32 {
	return TRX_SETALPHA
}

func (tx *TrxPayloadSetAlpha) Equal(_tx ITrxPayload) bool {
	_tx0, ok := _tx.(*TrxPayloadSetAlpha)
	return ok && tx.Num == _tx0.Num && tx.Den == _tx0.Den
}

func (tx *TrxPayloadSetAlpha) Encode() ([]byte, xerrors.XError) {
	bz, err := json.Marshal(tx)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (tx *TrxPayloadSetAlpha) Decode(bz []byte) xerrors.XError {
	if err := json.Unmarshal(bz, tx); err != nil {
		return xerrors.From(err)
	}
	return nil
}
