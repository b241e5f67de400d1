package types

import (
	"encoding/binary"

	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	"github.com/holiman/uint256"
)

// The mechanism accounts voting power in a canonical 18 decimal fixed point
// representation, whatever the native precision of the funding asset is.
const CanonicalDecimals int16 = 18

func Pow10(n int16) *uint256.Int {
	ret := uint256.NewInt(1)
	ten := uint256.NewInt(10)
	for i := int16(0); i < n; i++ {
		_ = ret.Mul(ret, ten)
	}
	return ret
}

// ToCanonical scales an amount denominated in the asset's native precision
// to the canonical precision. Scaling down floors the quotient.
func ToCanonical(amount *uint256.Int, assetDecimals int16) (*uint256.Int, xerrors.XError) {
	switch {
	case assetDecimals == CanonicalDecimals:
		return new(uint256.Int).Set(amount), nil
	case assetDecimals < CanonicalDecimals:
		gap := Pow10(CanonicalDecimals - assetDecimals)
		ret, over := new(uint256.Int).MulOverflow(amount, gap)
		if over {
			return nil, xerrors.ErrOverflow.Wrapf("scaling %v by 10^%d", amount.Dec(), CanonicalDecimals-assetDecimals)
		}
		return ret, nil
	default:
		gap := Pow10(assetDecimals - CanonicalDecimals)
		return new(uint256.Int).Div(amount, gap), nil
	}
}

// ProposalIDToBytes returns the 8 byte big-endian form used as ledger key material.
func ProposalIDToBytes(id uint64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, id)
	return bz
}

func ProposalIDFromBytes(bz []byte) uint64 {
	if len(bz) < 8 {
		return 0
	}
	return binary.BigEndian.Uint64(bz[:8])
}
