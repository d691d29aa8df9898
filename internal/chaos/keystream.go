package chaos

import (
	"crypto/sha256"
	"hash"
)

// hashChain is the running SHA-256 state of a keystream. Each step absorbs
// the current digest and yields the first byte of the next one.
type hashChain struct {
	h       hash.Hash
	scratch []byte
}

func newHashChain(seed string) hashChain {
	h := sha256.New()
	h.Write([]byte(seed))
	return hashChain{h: h, scratch: make([]byte, 0, sha256.Size)}
}

func (c hashChain) next() (hashChain, byte) {
	c.scratch = c.h.Sum(c.scratch[:0])
	c.h.Write(c.scratch)
	c.scratch = c.h.Sum(c.scratch[:0])
	return c, c.scratch[0]
}

// Keystream runs exactly length iterations of the hash chain seeded with
// seed and returns one byte per iteration.
func Keystream(seed string, length int) []byte {
	if length <= 0 {
		return []byte{}
	}
	out := make([]byte, length)
	chain := newHashChain(seed)
	for i := range out {
		chain, out[i] = chain.next()
	}
	return out
}
