package cube

import (
	"errors"
	"fmt"
)

var (
	// ErrNilCube is returned when a nil hypercube is passed where one is required.
	ErrNilCube = errors.New("cube: nil hypercube")

	// ErrDimensionality is returned when the rank or per-axis dimensions of an
	// operation's arguments do not match a cube's shape.
	ErrDimensionality = errors.New("cube: dimensionality mismatch")

	// ErrIndexOutOfBounds is returned when an offset or multi-index falls
	// outside [0,size) or an axis length.
	ErrIndexOutOfBounds = errors.New("cube: index out of bounds")

	// ErrInvalidArgument is returned for malformed parameters, e.g. a NaN
	// loading factor or a negative roll shift.
	ErrInvalidArgument = errors.New("cube: invalid argument")

	// ErrUnsupported is returned when a feature is not available on a given
	// view or execution path.
	ErrUnsupported = errors.New("cube: unsupported operation")
)

func errSizeMismatch(got, want int64) error {
	return fmt.Errorf("%w: got %d elements, want %d", ErrDimensionality, got, want)
}
