package substitute

import (
	"crypto/sha256"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/pbkdf2"
)

const DefaultIterations = 100000

// Argon2id cost parameters.
const (
	ArgonTime    = 1
	ArgonMemory  = 64 * 1024
	ArgonThreads = 4
)

// DeriveKey stretches a passphrase into a DES key with PBKDF2-HMAC-SHA256.
// The salt and iteration count must be reused to decrypt.
func DeriveKey(passphrase, salt []byte, iterations int) []byte {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return pbkdf2.Key(passphrase, salt, iterations, KeySize, sha256.New)
}

// DeriveKeyArgon2 is DeriveKey with Argon2id at the fixed cost above.
func DeriveKeyArgon2(passphrase, salt []byte) []byte {
	return argon2.IDKey(passphrase, salt, ArgonTime, ArgonMemory, ArgonThreads, KeySize)
}
