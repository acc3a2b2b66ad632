package cube

import (
	"fmt"
	"math"
	"sync"
)

const (
	// defaultLoading is the expected populated fraction used to size the
	// backing maps when no loading factor is given.
	defaultLoading = 0.1

	// minSparseCapacity is the smallest capacity hint handed to the maps.
	minSparseCapacity = 13

	sparseShards = 16
)

type sparseConfig struct {
	loading  float64
	nullBits uint64
	nullSet  bool
}

// SparseOption configures a sparse hypercube.
type SparseOption func(*sparseConfig)

// WithLoading sets the expected populated fraction of the cube, used to
// pre-size the backing maps. Values outside [0, 1] are clamped.
func WithLoading(loading float64) SparseOption {
	return func(c *sparseConfig) {
		c.loading = loading
	}
}

// WithNull overrides the null value of the cube. Absent elements read as v,
// and storing v removes an element. With an override in place the standard
// null sentinel of the element type becomes an ordinary storable value.
func WithNull[T Element](v T) SparseOption {
	return func(c *sparseConfig) {
		c.nullBits = ToBits(v)
		c.nullSet = true
	}
}

type sparseShard struct {
	mu sync.RWMutex
	m  map[int64]uint64
}

// Sparse is the map-backed backend for cubes that are mostly null. Only
// non-null elements occupy memory: each populated element is one entry
// mapping its linear offset to the element's 64-bit pattern. Storing the
// null value removes the entry again.
//
// A sparse cube is safe for concurrent use; the offset space is sharded
// across independently locked maps.
type Sparse[T Element] struct {
	base[T]

	shards   [sparseShards]sparseShard
	null     T
	nullBits uint64
}

var _ Hypercube[float32] = (*Sparse[float32])(nil)

// NewSparse creates a sparse hypercube with the given dimensions. Every
// element starts out null.
func NewSparse[T Element](dims []Dimension, opts ...SparseOption) (*Sparse[T], error) {
	cfg := sparseConfig{loading: defaultLoading}
	for _, opt := range opts {
		opt(&cfg)
	}

	if math.IsNaN(cfg.loading) {
		return nil, fmt.Errorf("%w: NaN loading factor", ErrInvalidArgument)
	}

	s := &Sparse[T]{null: Null[T]()}
	if cfg.nullSet {
		s.null = FromBits[T](cfg.nullBits)
	}
	s.nullBits = ToBits(s.null)

	flags := Flags{
		Aligned:   true,
		OwnData:   true,
		Writeable: true,
	}
	if err := s.init(s, flags, dims); err != nil {
		return nil, err
	}

	loading := cfg.loading
	if loading < 0 {
		loading = 0
	} else if loading > 1 {
		loading = 1
	}

	capacity := int64(float64(s.size) * loading)
	if capacity < minSparseCapacity {
		capacity = minSparseCapacity
	}
	if capacity > math.MaxInt32 {
		capacity = math.MaxInt32
	}

	perShard := int(capacity) / sparseShards
	for i := range s.shards {
		s.shards[i].m = make(map[int64]uint64, perShard)
	}

	return s, nil
}

// isNull reports whether v is the cube's null value. Comparison is on the
// bit pattern, and a NaN null additionally matches every NaN payload.
func (s *Sparse[T]) isNull(v T) bool {
	if ToBits(v) == s.nullBits {
		return true
	}

	return v != v && s.null != s.null
}

func (s *Sparse[T]) shard(offset int64) *sparseShard {
	return &s.shards[(uint64(offset)*0x9e3779b97f4a7c15)>>(64-4)]
}

// PopulatedCount returns the number of non-null elements.
func (s *Sparse[T]) PopulatedCount() int64 {
	var n int64
	for i := range s.shards {
		sh := &s.shards[i]

		sh.mu.RLock()
		n += int64(len(sh.m))
		sh.mu.RUnlock()
	}

	return n
}

func (s *Sparse[T]) GetAt(offset int64) (T, error) {
	if offset < 0 || offset >= s.size {
		var zero T
		return zero, fmt.Errorf("%w: offset %d outside [0, %d)", ErrIndexOutOfBounds, offset, s.size)
	}

	sh := s.shard(offset)

	sh.mu.RLock()
	bits, ok := sh.m[offset]
	sh.mu.RUnlock()

	if !ok {
		return s.null, nil
	}

	return FromBits[T](bits), nil
}

func (s *Sparse[T]) SetAt(offset int64, value T) error {
	if offset < 0 || offset >= s.size {
		return fmt.Errorf("%w: offset %d outside [0, %d)", ErrIndexOutOfBounds, offset, s.size)
	}

	sh := s.shard(offset)

	sh.mu.Lock()
	if s.isNull(value) {
		delete(sh.m, offset)
	} else {
		sh.m[offset] = ToBits(value)
	}
	sh.mu.Unlock()

	return nil
}

func (s *Sparse[T]) Flatten(srcPos int64, dst []T, dstPos, length int) error {
	if err := s.checkFlatten(srcPos, len(dst), dstPos, length); err != nil {
		return err
	}

	for i := 0; i < length; i++ {
		offset := srcPos + int64(i)
		sh := s.shard(offset)

		sh.mu.RLock()
		bits, ok := sh.m[offset]
		sh.mu.RUnlock()

		if ok {
			dst[dstPos+i] = FromBits[T](bits)
		} else {
			dst[dstPos+i] = s.null
		}
	}

	return nil
}

func (s *Sparse[T]) Unflatten(src []T, srcPos int, dstPos int64, length int) error {
	if err := s.checkUnflatten(len(src), srcPos, dstPos, length); err != nil {
		return err
	}

	for i := 0; i < length; i++ {
		offset := dstPos + int64(i)
		v := src[srcPos+i]
		sh := s.shard(offset)

		sh.mu.Lock()
		if s.isNull(v) {
			delete(sh.m, offset)
		} else {
			sh.m[offset] = ToBits(v)
		}
		sh.mu.Unlock()
	}

	return nil
}

// Fill with the null value simply drops every entry.
func (s *Sparse[T]) Fill(value T) {
	if !s.isNull(value) {
		s.base.Fill(value)
		return
	}

	for i := range s.shards {
		sh := &s.shards[i]

		sh.mu.Lock()
		clear(sh.m)
		sh.mu.Unlock()
	}
}
