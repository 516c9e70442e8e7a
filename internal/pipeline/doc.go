// Package pipeline builds a paired complex MSA from two single-chain
// alignments and the alignment of the complex.
//
// Run is the single entry point: parse -> order -> sample -> pair ->
// assemble -> optional realignment -> write. Everything it needs arrives in
// Config; the package holds no state between calls.
package pipeline
