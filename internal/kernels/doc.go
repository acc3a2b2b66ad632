// Package kernels holds the batched inner loops of the math layer.
//
// Every kernel processes its input in lane-width groups, sized so one group
// fills a 64-byte cache line, with independent per-lane accumulators for
// reductions and a scalar tail for the remainder. The grouping changes the
// association order of floating-point reductions, so their results may
// differ from a strict left-to-right loop in the last bits.
package kernels
