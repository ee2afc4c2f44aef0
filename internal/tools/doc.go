// Package tools provides process helpers used around the core pipeline.
//
// Ownership boundary:
// - the optional companion filter process the trace can be piped through
package tools
