package builder

import (
	"sync"

	"github.com/lunfardo314/neoscript"
)

// well-known interop services
const (
	SysContractCall           = "System.Contract.Call"
	SysRuntimeCheckWitness    = "System.Runtime.CheckWitness"
	SysRuntimeNotify          = "System.Runtime.Notify"
	SysRuntimeLog             = "System.Runtime.Log"
	SysStorageGet             = "System.Storage.Get"
	SysStoragePut             = "System.Storage.Put"
	SysStorageGetContext      = "System.Storage.GetContext"
	CryptoCheckSig            = "System.Crypto.CheckSig"
	CryptoCheckMultisig       = "System.Crypto.CheckMultisig"
	LegacyCryptoCheckMultisig = "Neo.Crypto.CheckMultisig"
)

var interopHashes sync.Map

// InteropHash is the first 4 bytes of sha256 of the name, read as little-endian.
// Results are memoized per name
func InteropHash(name string) uint32 {
	if h, ok := interopHashes.Load(name); ok {
		return h.(uint32)
	}
	sum := neoscript.Sha256([]byte(name))
	h := neoscript.DecodeInteger[uint32](sum[:4])
	interopHashes.Store(name, h)
	return h
}

// InteropHashBytes is the SYSCALL operand of the name
func InteropHashBytes(name string) []byte {
	return neoscript.EncodeInteger(InteropHash(name))
}
