package cube

import "fmt"

// Dimension is an immutable named axis with a non-negative length.
type Dimension struct {
	name   string
	length int64
}

// NewDimension creates a named dimension. A negative length is clamped to
// zero; shape validation happens when a cube is constructed.
func NewDimension(name string, length int64) Dimension {
	if length < 0 {
		length = 0
	}
	return Dimension{name: name, length: length}
}

// Shape builds a dimension list from axis lengths, naming the axes
// dim0, dim1, ...
func Shape(lengths ...int64) []Dimension {
	dims := make([]Dimension, len(lengths))
	for i, l := range lengths {
		dims[i] = NewDimension(fmt.Sprintf("dim%d", i), l)
	}
	return dims
}

// Name returns the axis name.
func (d Dimension) Name() string { return d.name }

// Length returns the axis length.
func (d Dimension) Length() int64 { return d.length }

// Equal reports whether two dimensions denote the same axis. Views check
// this when an accessor or roll is applied, so a slice built against one
// cube cannot silently be applied to an incompatible one.
func (d Dimension) Equal(o Dimension) bool {
	return d.name == o.name && d.length == o.length
}

// String returns the axis in name[length] notation.
func (d Dimension) String() string {
	return fmt.Sprintf("%s[%d]", d.name, d.length)
}

type accessorKind uint8

const (
	accessorAll accessorKind = iota
	accessorSlice
	accessorCoordinate
)

// Accessor describes how one axis of a cube is transformed by a slicing
// view: unconstrained (the zero value), a [start,end) range, or fixed to a
// single coordinate (which drops the axis from the view's rank).
type Accessor struct {
	dim   Dimension
	kind  accessorKind
	start int64
	end   int64
	coord int64
}

// Slice returns an accessor selecting [start,end) along d.
func (d Dimension) Slice(start, end int64) Accessor {
	return Accessor{dim: d, kind: accessorSlice, start: start, end: end}
}

// At returns an accessor fixing d to a single coordinate. The axis does not
// appear in the resulting view's shape.
func (d Dimension) At(coordinate int64) Accessor {
	return Accessor{dim: d, kind: accessorCoordinate, coord: coordinate}
}

// IsZero reports whether a is the unconstrained accessor.
func (a Accessor) IsZero() bool { return a.kind == accessorAll }

// Dimension returns the axis this accessor was built against.
func (a Accessor) Dimension() Dimension { return a.dim }

// IsCoordinate reports whether a fixes its axis to a single coordinate.
func (a Accessor) IsCoordinate() bool { return a.kind == accessorCoordinate }

// Coordinate returns the fixed coordinate of a coordinate accessor.
func (a Accessor) Coordinate() int64 { return a.coord }

// Start returns the inclusive start of a slice accessor.
func (a Accessor) Start() int64 { return a.start }

// End returns the exclusive end of a slice accessor.
func (a Accessor) End() int64 { return a.end }

// String returns the accessor in Pythonic notation.
func (a Accessor) String() string {
	switch a.kind {
	case accessorSlice:
		return fmt.Sprintf("%d:%d", a.start, a.end)
	case accessorCoordinate:
		return fmt.Sprintf("%d", a.coord)
	default:
		return ":"
	}
}

// Roll is a non-negative circular shift along one axis.
type Roll struct {
	dim   Dimension
	shift int64
}

// Roll returns a roll of d by shift places to the right. The shift is taken
// modulo the axis length when applied; negative shifts are rejected at
// application time.
func (d Dimension) Roll(shift int64) Roll {
	return Roll{dim: d, shift: shift}
}

// Dimension returns the axis this roll was built against.
func (r Roll) Dimension() Dimension { return r.dim }

// Shift returns the raw shift value.
func (r Roll) Shift() int64 { return r.shift }

// IsZero reports whether r is the zero (absent) roll.
func (r Roll) IsZero() bool { return r.dim == Dimension{} && r.shift == 0 }

// String returns the roll as dimension>>shift.
func (r Roll) String() string {
	return fmt.Sprintf("%s>>%d", r.dim, r.shift)
}
