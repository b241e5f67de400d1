package crypto

import (
	"bytes"
	"crypto/ecdsa"
	"hash"

	"github.com/ReageMeuFilho/octant-v2-core-sub005/types"
	abytes "github.com/ReageMeuFilho/octant-v2-core-sub005/types/bytes"
	"github.com/ReageMeuFilho/octant-v2-core-sub005/types/xerrors"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	tmsecp256k1 "github.com/tendermint/tendermint/crypto/secp256k1"
)

func NewPrvKey() (*ecdsa.PrivateKey, error) {
	return ethcrypto.GenerateKey()
}

func ImportPrvKey(d []byte) (*ecdsa.PrivateKey, error) {
	return ethcrypto.ToECDSA(d)
}

func ImportPrvKeyHex(d string) (*ecdsa.PrivateKey, error) {
	return ethcrypto.HexToECDSA(d)
}

func Sign(msg []byte, prv *ecdsa.PrivateKey) ([]byte, error) {
	hmsg := DefaultHash(msg)
	return ethcrypto.Sign(hmsg, prv)
}

func VerifySig(pubkey, msg, sig []byte) bool {
	hmsg := DefaultHash(msg)
	if len(sig) == ethcrypto.SignatureLength {
		sig = sig[:64]
	}
	return ethcrypto.VerifySignature(pubkey, hmsg, sig)
}

func Pub2Addr(pub *ecdsa.PublicKey) types.Address {
	pubKeyBytes := CompressPubkey(pub)
	ret, _ := PubBytes2Addr(pubKeyBytes)
	return ret
}

// pubBytes is 33 bytes compressed format
func PubBytes2Addr(pubBytes []byte) (types.Address, xerrors.XError) {
	return abytes.HexBytes(tmsecp256k1.PubKey(pubBytes).Address()), nil
}

func CompressPubkey(pub *ecdsa.PublicKey) abytes.HexBytes {
	return ethcrypto.CompressPubkey(pub)
}

func DecompressPubkey(bz []byte) (*ecdsa.PublicKey, xerrors.XError) {
	if pubKey, err := ethcrypto.DecompressPubkey(bz); err != nil {
		return nil, xerrors.From(err)
	} else {
		return pubKey, nil
	}
}

func Sig2Addr(msg, sig []byte) (types.Address, abytes.HexBytes, xerrors.XError) {
	hmsg := DefaultHash(msg)
	pubKey, err := ethcrypto.SigToPub(hmsg, sig)
	if err != nil {
		return nil, nil, xerrors.From(err)
	}

	return Pub2Addr(pubKey), CompressPubkey(pubKey), nil
}

func DefaultHash(datas ...[]byte) []byte {
	hasher := DefaultHasher()
	for _, bz := range datas {
		hasher.Write(bz)
	}
	return hasher.Sum(nil)
}

func DefaultHasher() hash.Hash {
	return ethcrypto.NewKeccakState()
}

func DefaultHasherName() string {
	return "keccak256"
}

//
// for padding
//

var (
	// ErrInvalidBlockSize indicates hash blocksize <= 0.
	ErrInvalidBlockSize = xerrors.New("invalid blocksize")

	// ErrInvalidPKCS7Data indicates bad input to PKCS7 pad or unpad.
	ErrInvalidPKCS7Data = xerrors.New("invalid PKCS7 data (empty or not padded)")
	// ErrInvalidPKCS7Padding indicates PKCS7 unpad fails to bad input.
	ErrInvalidPKCS7Padding = xerrors.New("invalid PKCS7 padding on input")
)

func PKCS7Padding(b []byte, blocksize int) ([]byte, error) {
	if blocksize <= 0 {
		return nil, ErrInvalidBlockSize
	}
	if len(b) == 0 {
		return nil, ErrInvalidPKCS7Data
	}

	pad := blocksize - len(b)%blocksize
	padbuf := bytes.Repeat([]byte{byte(pad)}, pad)
	return append(b, padbuf...), nil
}

func PKCS7UnPadding(b []byte, blocksize int) ([]byte, error) {
	if blocksize <= 0 {
		return nil, ErrInvalidBlockSize
	}
	if len(b) == 0 || len(b)%blocksize != 0 {
		return nil, ErrInvalidPKCS7Data
	}

	pad := b[len(b)-1]
	n := int(pad)
	if n == 0 || n > len(b) {
		return nil, ErrInvalidPKCS7Padding
	}
	for i := 0; i < n; i++ {
		if b[len(b)-n+i] != pad {
			return nil, ErrInvalidPKCS7Padding
		}
	}
	return b[:len(b)-n], nil
}
