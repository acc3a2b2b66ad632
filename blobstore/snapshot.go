package blobstore

import (
	"context"

	"github.com/hupe1980/cubego/cube"
	"github.com/hupe1980/cubego/cubeio"
)

// SaveCube streams a hypercube into the store under the given name, in the
// cubeio wire format. Views serialize their logical contents.
func SaveCube[T cube.Element](ctx context.Context, store Store, name string, c cube.Hypercube[T]) error {
	if c == nil {
		return cube.ErrNilCube
	}

	w, err := store.Create(ctx, name)
	if err != nil {
		return err
	}

	if err := cubeio.Write(w, c); err != nil {
		_ = w.Close()
		return err
	}

	return w.Close()
}

// LoadCube reads a hypercube previously written with SaveCube into a fresh
// dense cube.
func LoadCube[T cube.Element](ctx context.Context, store Store, name string) (*cube.Dense[T], error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	rc, err := blob.ReadRange(ctx, 0, blob.Size())
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return cubeio.Read[T](rc)
}
