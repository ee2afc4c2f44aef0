// Package protocol owns the fvwm module wire contract shared by the
// framing, schema and event packages.
//
// Ownership boundary:
// - host word layout (width, byte order) and word accessors
// - message type catalog
// - protocol-level sentinel and typed errors
package protocol
