// Package cubemath provides elementwise arithmetic, comparisons and
// reductions over hypercubes.
//
// Every operation materializes its result into a fresh dense cube (or
// returns a scalar, for reductions) and leaves its operands untouched.
// Operands stream through fixed-size buffers, so views and file-backed
// cubes work the same as dense ones.
//
// Two execution paths exist: the default scalar path walks elements one by
// one, the Batched path runs the lane-grouped kernels. Batched float
// reductions may differ from scalar ones in the last bits because the
// accumulation order changes. The Where option restricts an operation to
// the elements selected by a bool cube and is only available on the scalar
// path.
package cubemath
