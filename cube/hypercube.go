package cube

import (
	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// maxTransfer bounds a single bulk transfer. Keeping lengths inside 32 bits
// is what guarantees a run through the mapped backend straddles at most two
// storage segments; see the mapped backend for the companion assertion.
const maxTransfer = 1<<31 - 1

// Flags describes memory-layout properties of a hypercube, computed once at
// construction from the backend or view kind. Consumers use them to decide
// whether zero-copy tricks are safe.
type Flags struct {
	// Aligned is true when element storage is naturally aligned.
	Aligned bool
	// Behaved is true when the cube is aligned and writeable by its owner.
	Behaved bool
	// CContiguous is true when elements are laid out in one contiguous
	// row-major run.
	CContiguous bool
	// OwnData is true when the cube owns its physical storage (views never do).
	OwnData bool
	// Writeable is true when Set/Unflatten are expected to stick.
	Writeable bool
}

// Hypercube is a shape-aware multidimensional array of primitive elements.
//
// The logical model is fixed: an ordered list of named dimensions, row-major
// linear offsets (last axis varies fastest), and a bulk Flatten/Unflatten
// contract that every backend and view must implement efficiently. Identity
// and shape are immutable after construction; only element values mutate.
//
// Views (Slice, Roll, RollFlat, Transpose, Mask, and the Cast function) own
// no storage: they wrap another hypercube, which may itself be a view, and
// re-express coordinates per access. A view's lifetime is bounded by the
// wrapped cube's.
type Hypercube[T Element] interface {
	// Dimensions returns a copy of the cube's ordered axis list.
	Dimensions() []Dimension
	// Dim returns the axis at the given position.
	Dim(axis int) Dimension
	// NDim returns the rank.
	NDim() int
	// Length returns the length of the given axis.
	Length(axis int) int64
	// Shape returns the axis lengths.
	Shape() []int64
	// Size returns the total element count, the product of the axis lengths.
	Size() int64
	// Flags returns the memory-layout flags.
	Flags() Flags

	// ToOffset converts a multi-index to a linear offset, validating rank
	// and per-axis bounds.
	ToOffset(indices ...int64) (int64, error)
	// FromOffset is the inverse of ToOffset, filling indices (whose length
	// must equal the rank).
	FromOffset(offset int64, indices []int64) error

	// Get returns the element at the given multi-index.
	Get(indices ...int64) (T, error)
	// Set stores the element at the given multi-index.
	Set(value T, indices ...int64) error
	// GetAt returns the element at the given linear offset.
	GetAt(offset int64) (T, error)
	// SetAt stores the element at the given linear offset.
	SetAt(offset int64, value T) error

	// Flatten copies length logically-contiguous elements starting at
	// srcPos into dst[dstPos:]. This is the hot bulk path: backends do it
	// with raw copies and views walk the largest safe contiguous chunks.
	Flatten(srcPos int64, dst []T, dstPos, length int) error
	// Unflatten copies length elements from src[srcPos:] into the cube
	// starting at linear position dstPos.
	Unflatten(src []T, srcPos int, dstPos int64, length int) error

	// Slice returns a zero-copy view restricted per axis by the accessors.
	// At most one accessor applies per axis; missing accessors leave the
	// axis unconstrained. Fixed-coordinate accessors drop their axis.
	Slice(accessors ...Accessor) (Hypercube[T], error)
	// Roll returns a zero-copy view with per-axis circular shifts. One roll
	// (or a zero Roll) per axis. A net-zero roll returns the cube itself.
	Roll(rolls ...Roll) (Hypercube[T], error)
	// RollFlat returns a zero-copy view circularly shifting the whole
	// flattened sequence. A net-zero shift returns the cube itself.
	RollFlat(shift int64) Hypercube[T]
	// Transpose returns the axis-reversed view. The view is cached, so a
	// double transpose returns the original cube.
	Transpose() Hypercube[T]
	// Mask returns a view selecting the set bits of mask along the first
	// axis. The view's first-axis length is the mask's cardinality within
	// the axis.
	Mask(mask *roaring64.Bitmap) (Hypercube[T], error)

	// Fill sets every element to value.
	Fill(value T)
	// CopyFrom assigns every element from a same-shaped cube.
	CopyFrom(src Hypercube[T]) error
}
