package substitute

import (
	"crypto/cipher"
	"crypto/des"
	"fmt"
)

const KeySize = 8

// Block encrypts every channel independently with DES-ECB.
type Block struct {
	cipher cipher.Block
}

// NewBlock rejects keys that are not exactly KeySize bytes. With truncate
// set, longer keys are cut to their first KeySize bytes instead; the same
// setting must be used to decrypt.
func NewBlock(key []byte, truncate bool) (*Block, error) {
	key, err := normalizeKey(key, truncate)
	if err != nil {
		return nil, err
	}
	c, err := des.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("substitute: des: %w", err)
	}
	return &Block{cipher: c}, nil
}

func normalizeKey(key []byte, truncate bool) ([]byte, error) {
	if truncate && len(key) > KeySize {
		key = key[:KeySize]
	}
	if len(key) != KeySize {
		return nil, fmt.Errorf("%w: got %d bytes, need %d", ErrInvalidKeyLength, len(key), KeySize)
	}
	return key, nil
}

func (b *Block) Kind() Kind { return KindBlock }

func (b *Block) Seal(parts [][]byte, shape Shape) ([][]byte, error) {
	if err := checkParts(parts, shape, true); err != nil {
		return nil, err
	}
	out := make([][]byte, len(parts))
	for c, p := range parts {
		out[c] = b.encrypt(p)
	}
	return out, nil
}

func (b *Block) Open(parts [][]byte, shape Shape) ([][]byte, error) {
	if err := checkParts(parts, shape, false); err != nil {
		return nil, err
	}
	out := make([][]byte, len(parts))
	for c, p := range parts {
		plain, err := b.decrypt(p)
		if err != nil {
			return nil, fmt.Errorf("channel %d: %w", c, err)
		}
		out[c] = plain
	}
	return out, nil
}

func (b *Block) encrypt(data []byte) []byte {
	bs := b.cipher.BlockSize()
	padded := pkcs7Pad(data, bs)
	out := make([]byte, len(padded))
	for i := 0; i < len(padded); i += bs {
		b.cipher.Encrypt(out[i:i+bs], padded[i:i+bs])
	}
	return out
}

func (b *Block) decrypt(data []byte) ([]byte, error) {
	bs := b.cipher.BlockSize()
	if len(data) == 0 || len(data)%bs != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrCiphertextLength, len(data))
	}
	out := make([]byte, len(data))
	for i := 0; i < len(data); i += bs {
		b.cipher.Decrypt(out[i:i+bs], data[i:i+bs])
	}
	return pkcs7Unpad(out, bs)
}

// EncryptECB pads data and encrypts it under an exact 8-byte DES key.
func EncryptECB(data, key []byte) ([]byte, error) {
	b, err := NewBlock(key, false)
	if err != nil {
		return nil, err
	}
	return b.encrypt(data), nil
}

// DecryptECB decrypts and unpads data under an exact 8-byte DES key.
func DecryptECB(data, key []byte) ([]byte, error) {
	b, err := NewBlock(key, false)
	if err != nil {
		return nil, err
	}
	return b.decrypt(data)
}
