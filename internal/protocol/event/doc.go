// Package event turns packet bodies into typed window-manager events.
//
// Every message type decodes into exactly one variant of Event. Variants
// are fixed: the layout of each one is written down once, in this
// package, next to the code that reads it. Legacy and current layouts of
// the same event are separate decoders, and the decoder alone decides
// which words are read.
package event
