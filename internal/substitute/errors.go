package substitute

import "errors"

var (
	// ErrInvalidKeyLength indicates a block key that is not exactly the DES key size.
	ErrInvalidKeyLength = errors.New("substitute: invalid key length")

	// ErrPadding indicates a final block without valid PKCS#7 padding,
	// usually a wrong key or a tampered payload.
	ErrPadding = errors.New("substitute: invalid padding")

	// ErrCiphertextLength indicates ciphertext that is empty or not a whole number of blocks.
	ErrCiphertextLength = errors.New("substitute: ciphertext is not a whole number of blocks")

	// ErrPartLength indicates a channel part whose length does not match the image shape.
	ErrPartLength = errors.New("substitute: channel length does not match shape")
)
