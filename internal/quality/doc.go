// Package quality computes the statistics used to judge an image cipher.
//
// Differential metrics compare a plaintext and a ciphertext sample by sample:
//
//   - NPCR: percentage of positions that differ
//   - UACI: mean absolute difference as a percentage of 255
//
// Distribution metrics look at one buffer: Shannon entropy of the 256-bin
// histogram (8 bits is ideal), chi-square uniformity and the correlation of
// adjacent pixels, which a good cipher drives towards zero.
package quality
