package builder

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/lunfardo314/neoscript"
)

var (
	ErrInvalidJumpOpcode = errors.New("invalid jump opcode")
	ErrIntegerTooLarge   = errors.New("integer too large")
	ErrInvalidDataLength = errors.New("invalid data length")
	ErrUnsupportedType   = errors.New("unsupported type")
	ErrInvalidECPoint    = errors.New("invalid EC point")
)

const defaultScriptAlloc = 512

// Builder assembles NeoVM scripts. It is an append-only buffer for a single writer.
// The first error stops emitting and is returned by Bytes
type Builder struct {
	buf bytes.Buffer
	err error
	// long branch offsets are written minimally encoded, not padded to 4 bytes
	unpaddedBranchOffsets bool
}

type Option func(b *Builder)

// WithUnpaddedBranchOffsets makes long-form jumps and calls carry the minimal
// two's-complement encoding of the offset instead of the 4 bytes the decoder expects.
// Some existing signed scripts were produced that way. Output may not decode
func WithUnpaddedBranchOffsets() Option {
	return func(b *Builder) {
		b.unpaddedBranchOffsets = true
	}
}

func New(opts ...Option) *Builder {
	ret := &Builder{}
	ret.buf.Grow(defaultScriptAlloc)
	for _, opt := range opts {
		opt(ret)
	}
	return ret
}

// GenScript runs fun over a new builder. Panics inside fun are returned as errors
func GenScript(fun func(b *Builder), opts ...Option) ([]byte, error) {
	var ret []byte
	err := neoscript.CatchPanicOrError(func() error {
		b := New(opts...)
		fun(b)
		var err error
		ret, err = b.Bytes()
		return err
	})
	if err != nil {
		return nil, err
	}
	return ret, nil
}

func MustGenScript(fun func(b *Builder), opts ...Option) []byte {
	ret, err := GenScript(fun, opts...)
	if err != nil {
		panic(err)
	}
	return ret
}

// Bytes returns the script built so far or the first error
func (b *Builder) Bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	return append([]byte{}, b.buf.Bytes()...), nil
}

func (b *Builder) MustBytes() []byte {
	ret, err := b.Bytes()
	if err != nil {
		panic(err)
	}
	return ret
}

func (b *Builder) Err() error {
	return b.err
}

// Len is the number of bytes emitted
func (b *Builder) Len() int {
	return b.buf.Len()
}

func (b *Builder) Reset() *Builder {
	b.buf.Reset()
	b.err = nil
	return b
}

func (b *Builder) setErr(err error) *Builder {
	if b.err == nil {
		b.err = fmt.Errorf("%w @ script offset %d", err, b.buf.Len())
	}
	return b
}
