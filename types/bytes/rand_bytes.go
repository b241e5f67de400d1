package bytes

import (
	"crypto/rand"
	"encoding/binary"
	mrand "math/rand"
)

func RandBytes(n int) []byte {
	bz := make([]byte, n)
	_, _ = rand.Read(bz)
	return bz
}

func ZeroBytes(n int) []byte {
	return make([]byte, n)
}

func RandHexBytes(n int) HexBytes {
	return HexBytes(RandBytes(n))
}

func RandInt63() int64 {
	return mrand.Int63()
}

func RandInt63n(n int64) int64 {
	return mrand.Int63n(n)
}

func RandU64() uint64 {
	return binary.BigEndian.Uint64(RandBytes(8))
}

func ClearBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		b[i] = 0x00
	}
}
