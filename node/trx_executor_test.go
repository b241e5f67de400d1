package node

import (
	"crypto/ecdsa"
	"fmt"
	"testing"
	"time"

	ctrlertypes "github.com/ReageMeuFilho/octant-v2-core-sub005/ctrlers/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/crypto"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"
)

type caseObj struct {
	txctx *ctrlertypes.TrxContext
	err   xerrors.XError
}

var (
	cases        []*caseObj
	mechParams   = ctrlertypes.Test1MechParams()
	pausedParams = ctrlertypes.Test1MechParams()
)

func init() {
	pausedParams.SetPaused(true)

	prv0, _ := crypto.NewPrvKey()
	prv1, _ := crypto.NewPrvKey()
	addr0 := crypto.Pub2Addr(&prv0.PublicKey)
	addr1 := crypto.Pub2Addr(&prv1.PublicKey)

	// no signature
	tx := ctrlertypes.NewTrxTransfer(addr0, addr1, 1, uint256.NewInt(10))
	cases = append(cases, &caseObj{makeTrxCtx(tx, 1, mechParams), xerrors.ErrInvalidTrxSig})

	// other's signature
	tx = ctrlertypes.NewTrxTransfer(addr0, addr1, 1, uint256.NewInt(10))
	signTrx(tx, prv1)
	cases = append(cases, &caseObj{makeTrxCtx(tx, 1, mechParams), xerrors.ErrInvalidTrxSig})

	// tampered after signing
	tx = ctrlertypes.NewTrxTransfer(addr0, addr1, 1, uint256.NewInt(10))
	signTrx(tx, prv0)
	tx.Amount = uint256.NewInt(999)
	cases = append(cases, &caseObj{makeTrxCtx(tx, 1, mechParams), xerrors.ErrInvalidTrxSig})

	// nil amount
	tx = ctrlertypes.NewTrxTransfer(addr0, addr1, 1, uint256.NewInt(10))
	tx.Amount = nil
	signTrx(tx, prv0)
	cases = append(cases, &caseObj{makeTrxCtx(tx, 1, mechParams), xerrors.ErrNegAmount})

	// everything halts while paused
	tx = ctrlertypes.NewTrxTransfer(addr0, addr1, 1, uint256.NewInt(10))
	signTrx(tx, prv0)
	cases = append(cases, &caseObj{makeTrxCtx(tx, 1, pausedParams), xerrors.ErrPaused})

	// except unpausing
	tx = ctrlertypes.NewTrxUnpause(addr0, 1)
	signTrx(tx, prv0)
	cases = append(cases, &caseObj{makeTrxCtx(tx, 1, pausedParams), nil})

	// success
	tx = ctrlertypes.NewTrxTransfer(addr0, addr1, 1, uint256.NewInt(10))
	signTrx(tx, prv0)
	cases = append(cases, &caseObj{makeTrxCtx(tx, 1, mechParams), nil})
}

func signTrx(tx *ctrlertypes.Trx, prv *ecdsa.PrivateKey) {
	unsigned := *tx
	unsigned.Sig = nil
	msg, _ := unsigned.Encode()
	sig, _ := crypto.Sign(msg, prv)
	tx.Sig = sig
}

func makeTrxCtx(tx *ctrlertypes.Trx, height int64, params *ctrlertypes.MechParams) *ctrlertypes.TrxContext {
	bz, _ := tx.Encode()
	txctx, _ := ctrlertypes.NewTrxContext(bz, height, time.Now().Unix(), true, func(_txctx *ctrlertypes.TrxContext) xerrors.XError {
		_txctx.MechHandler = params
		return nil
	})
	return txctx
}

func TestCommonValidation(t *testing.T) {
	for i, c := range cases {
		xerr := commonValidation(c.txctx)
		if c.err != nil {
			require.Error(t, xerr, fmt.Sprintf("case #%d", i))
			require.Equal(t, c.err.Code(), xerr.Code(), fmt.Sprintf("case #%d", i))
		} else {
			require.NoError(t, xerr, fmt.Sprintf("case #%d", i))
		}
	}
}

func TestUnknownTrxType(t *testing.T) {
	prv, _ := crypto.NewPrvKey()
	addr := crypto.Pub2Addr(&prv.PublicKey)

	tx := &ctrlertypes.Trx{
		Version: 1,
		From:    addr,
		To:      types.ZeroAddress(),
		Amount:  uint256.NewInt(0),
		Type:    99,
	}
	bz, err := tx.Encode()
	require.NoError(t, err)

	_, xerr := ctrlertypes.NewTrxContext(bz, 1, time.Now().Unix(), true)
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrInvalidTrxType.Code(), xerr.Code())
}
