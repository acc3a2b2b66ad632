// Package testutil provides testing utilities for cubego.
//
// This package is intended for use in tests and benchmarks only. It
// provides a seeded, thread-safe random number generator and helpers for
// filling hypercubes with reproducible data.
//
// # Random Cube Generation
//
//	rng := testutil.NewRNG(seed)
//	c := testutil.UniformDense(rng, testutil.Dims("x", 8, "y", 8))
//	testutil.FillGaussian(rng, c)
//
// # Cube Comparison
//
//	testutil.RequireEqual(t, want, got)
package testutil
