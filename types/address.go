package types

import (
	"encoding/hex"
	"strings"

	abytes "github.com/ReageMeuFilho/octant-v2-core-sub005/types/bytes"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
)

const AddrSize = 20

type Address = abytes.HexBytes

func RandAddress() Address {
	return abytes.RandBytes(AddrSize)
}

func ZeroAddress() Address {
	return abytes.ZeroBytes(AddrSize)
}

func IsZeroAddress(addr Address) bool {
	return len(addr) == 0 || abytes.HexBytes(addr).IsZero()
}

func HexToAddress(_hex string) (Address, xerrors.XError) {
	if strings.HasPrefix(_hex, "0x") {
		_hex = _hex[2:]
	}
	bzAddr, err := hex.DecodeString(_hex)
	if err != nil {
		return nil, xerrors.From(err)
	}
	if len(bzAddr) != AddrSize {
		return nil, xerrors.NewOrdinary("error of address length: address length should be 20 bytes")
	}
	return bzAddr, nil
}
