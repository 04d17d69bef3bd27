package neoscript

import (
	"github.com/minio/sha256-simd"
	"golang.org/x/crypto/ripemd160"
)

func Sha256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// Hash256 is double sha256
func Hash256(data []byte) Uint256 {
	h := sha256.Sum256(data)
	return sha256.Sum256(h[:])
}

// Hash160 is ripemd160 over sha256. The script hash of a script is its Hash160
func Hash160(data []byte) Uint160 {
	h := sha256.Sum256(data)
	r := ripemd160.New()
	r.Write(h[:])
	var ret Uint160
	copy(ret[:], r.Sum(nil))
	return ret
}
