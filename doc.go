// Package cubego provides a generic multidimensional array engine for Go.
//
// A hypercube is a shaped, typed view over flat storage: named dimensions,
// row-major indexing, and a bulk transfer contract that every backend and
// view speaks. The engine is split into focused packages:
//
//   - cube: the core. Dense, memory-mapped, and sparse backends plus
//     zero-copy views (slice, roll, transpose, mask, cast).
//   - cubemath: elementwise and reduction math over any cube, with a
//     scalar reference path and a batched kernel path.
//   - cubeio: the raw wire format for snapshots.
//   - blobstore: named snapshot storage over memory, local disk, S3, and
//     MinIO, with caching and throttling decorators.
//   - resource: process-wide memory, concurrency, and IO budgets.
//
// # Quick Start
//
//	c, _ := cube.NewDense[float64](cube.Shape(100, 200))
//	c.Set(3.14, 10, 20)
//
//	view, _ := c.Slice(c.Dim(0).Slice(0, 50))
//	total, _ := cubemath.Sum[float64](view)
//
// Persist a cube to any blob store:
//
//	store, _ := blobstore.NewLocalStore("./snapshots")
//	_ = blobstore.SaveCube(ctx, store, "c.cube", c)
package cubego
