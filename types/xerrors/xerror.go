package xerrors

import (
	"errors"
	"fmt"

	abcitypes "github.com/tendermint/tendermint/abci/types"
)

const (
	ErrCodeSuccess uint32 = abcitypes.CodeTypeOK + iota
	ErrCodeGeneric
	ErrCodeCheckTx
	ErrCodeDeliverTx
	ErrCodeCommit
	ErrCodeInitChain
	ErrCodeQuery
	ErrCodeNotFoundResult
	ErrCodeInvalidTrx
	ErrCodeNoRight
	ErrCodeNotFoundProposal
	ErrCodeNotFoundRegistrant
	ErrCodeNotFoundShareHolder
	ErrCodeStateConflict
	ErrCodeOverflow
	ErrCodePaused
)

var (
	ErrCheckTx   = NewWith(ErrCodeCheckTx, "CheckTx failed")
	ErrDeliverTx = NewWith(ErrCodeDeliverTx, "DeliverTx failed")
	ErrCommit    = NewWith(ErrCodeCommit, "Commit failed")
	ErrInitChain = NewWith(ErrCodeInitChain, "InitChain failed")
	ErrQuery     = NewWith(ErrCodeQuery, "query failed")

	ErrNotFoundResult = NewWith(ErrCodeNotFoundResult, "not found")

	// validation
	ErrInvalidTrx            = NewWith(ErrCodeInvalidTrx, "invalid transaction")
	ErrInvalidTrxType        = ErrInvalidTrx.Wrap(errors.New("wrong transaction type"))
	ErrInvalidTrxPayloadType = ErrInvalidTrx.Wrap(errors.New("wrong transaction payload type"))
	ErrInvalidTrxSig         = ErrInvalidTrx.Wrap(errors.New("invalid signature"))
	ErrNegAmount             = ErrInvalidTrx.Wrap(errors.New("negative amount"))
	ErrZeroDeposit           = ErrInvalidTrx.Wrap(errors.New("zero deposit"))
	ErrZeroRecipient         = ErrInvalidTrx.Wrap(errors.New("recipient is zero address"))
	ErrRecipientUsed         = ErrInvalidTrx.Wrap(errors.New("recipient already funded by another proposal"))
	ErrAlreadyRegistered     = ErrInvalidTrx.Wrap(errors.New("identity already registered"))
	ErrInvalidAlpha          = ErrInvalidTrx.Wrap(errors.New("alpha numerator exceeds denominator or denominator is zero"))
	ErrZeroWeight            = ErrInvalidTrx.Wrap(errors.New("zero vote weight"))
	ErrInvalidChoice         = ErrInvalidTrx.Wrap(errors.New("unknown vote choice"))

	// authorization
	ErrNoRight = NewWith(ErrCodeNoRight, "no right")

	// state-conflict
	ErrStateConflict      = NewWith(ErrCodeStateConflict, "disallowed state transition")
	ErrNotVotingPeriod    = ErrStateConflict.Wrap(errors.New("proposal is not active"))
	ErrVotingNotClosed    = ErrStateConflict.Wrap(errors.New("voting window has not elapsed"))
	ErrAlreadyVoted       = ErrStateConflict.Wrap(errors.New("identity has already voted on this proposal"))
	ErrTallyFinalized     = ErrStateConflict.Wrap(errors.New("vote tally is already finalized"))
	ErrTallyNotFinalized  = ErrStateConflict.Wrap(errors.New("vote tally is not finalized"))
	ErrProposalCanceled   = ErrStateConflict.Wrap(errors.New("proposal is canceled"))
	ErrAlreadyCanceled    = ErrStateConflict.Wrap(errors.New("proposal is already canceled"))
	ErrAlreadyQueued      = ErrStateConflict.Wrap(errors.New("proposal is already queued"))
	ErrQuorumNotReached   = ErrStateConflict.Wrap(errors.New("funding score is below quorum"))
	ErrNotRedeemable      = ErrStateConflict.Wrap(errors.New("outside redemption window"))
	ErrInsufficientPower  = ErrStateConflict.Wrap(errors.New("vote cost exceeds voting power"))
	ErrInsufficientShares = ErrStateConflict.Wrap(errors.New("insufficient share balance"))
	ErrInsufficientFund   = ErrStateConflict.Wrap(errors.New("insufficient pool balance"))
	ErrNoAllowance        = ErrStateConflict.Wrap(errors.New("insufficient allowance"))

	// arithmetic-safety
	ErrOverflow = NewWith(ErrCodeOverflow, "arithmetic overflow")

	ErrPaused = NewWith(ErrCodePaused, "mechanism is paused")

	ErrNotFoundProposal    = NewWith(ErrCodeNotFoundProposal, "not found proposal")
	ErrNotFoundRegistrant  = NewWith(ErrCodeNotFoundRegistrant, "not found registrant")
	ErrNotFoundShareHolder = NewWith(ErrCodeNotFoundShareHolder, "not found share holder")
)

const (
	ErrCodeInvalidQueryCmd uint32 = 1000 + iota
	ErrCodeInvalidQueryParams
	ErrLast
)

var (
	ErrInvalidQueryCmd    = NewWith(ErrCodeInvalidQueryCmd, "invalid query command")
	ErrInvalidQueryParams = NewWith(ErrCodeInvalidQueryParams, "invalid query parameters")
)

type XError interface {
	Code() uint32
	Error() string
	Cause() error
	With(error) XError
	Wrap(error) XError
	Wrapf(format string, args ...interface{}) XError
	Unwrap() error
}

type xerr struct {
	code  uint32
	msg   string
	cause error
}

func New(m string) XError {
	return &xerr{
		code: ErrCodeGeneric,
		msg:  m,
	}
}

func NewOrdinary(m string) XError {
	return &xerr{
		code: ErrCodeGeneric,
		msg:  m,
	}
}

func NewWith(code uint32, msg string) XError {
	return &xerr{
		code: code,
		msg:  msg,
	}
}

func From(err error) XError {
	if err == nil {
		return nil
	}
	if xe, ok := err.(XError); ok {
		return xe
	}
	return &xerr{
		code: ErrCodeGeneric,
		msg:  err.Error(),
	}
}

func (e *xerr) Code() uint32 {
	return e.code
}

func (e *xerr) Error() string {
	if e.cause != nil {
		return e.msg + "<<" + e.cause.Error()
	}
	return e.msg
}

func (e *xerr) Cause() error {
	return e.cause
}

func (e *xerr) Unwrap() error {
	return e.Cause()
}

func (e *xerr) With(err error) XError {
	return &xerr{
		code:  e.code,
		msg:   e.msg,
		cause: err,
	}
}

func (e *xerr) Wrap(err error) XError {
	return &xerr{
		code:  e.code,
		msg:   e.msg,
		cause: err,
	}
}

func (e *xerr) Wrapf(format string, args ...interface{}) XError {
	return &xerr{
		code:  e.code,
		msg:   e.msg,
		cause: fmt.Errorf(format, args...),
	}
}
