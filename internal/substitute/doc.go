// Package substitute implements the value-altering layer of the image
// cipher.
//
// Two interchangeable modes satisfy [Mode]:
//
//   - [Block]: DES in ECB mode with PKCS#7 padding, one ciphertext per channel
//   - [Stream]: XOR with a Hénon-seeded hash-chain keystream, no padding
//
// A pipeline picks one mode up front and calls Seal on encryption and Open
// on decryption. Both modes are deterministic; ECB leaks repeated blocks and
// is kept because the container format depends on it.
package substitute
