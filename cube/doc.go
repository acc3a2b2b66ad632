// Package cube implements shape-aware multidimensional arrays over
// interchangeable storage backends.
//
// A hypercube pairs an ordered list of named dimensions with row-major
// element storage. Three backends are provided: Dense (an in-memory slice),
// Mapped (a memory-mapped file) and Sparse (a map of populated elements).
// On top of any backend, zero-copy views restrict (Slice), circularly shift
// (Roll, RollFlat), reorder (Transpose), filter (Mask) or retype (Cast) the
// elements without touching storage.
//
// All backends and views speak the same bulk protocol, Flatten and
// Unflatten, which moves runs of logically contiguous elements using the
// largest physically contiguous copies each representation allows.
package cube
