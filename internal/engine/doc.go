// Package engine runs the image cipher pipeline.
//
// Encryption, per channel c of the input buffer:
//
//  1. logistic sequence of h*w values from x0 + c*ChannelStep
//  2. scramble the plane by the sequence's argsort (if Permute is set)
//  3. substitute the values with the configured [substitute.Mode]
//  4. frame all channel parts in one container
//
// Decryption runs the same steps backwards. The engine holds no mutable
// state after construction and may be shared between goroutines.
package engine
