// Package buffer provides Buffer, a growable array whose backing store is
// allocated and grown explicitly rather than through append.
//
// Capacity starts at zero, becomes 8 on the first push and doubles every time
// a push would exceed it. Reads are bounds checked against the occupied
// prefix, never against the allocation.
package buffer

import (
	"errors"
	"fmt"
	"math"
	"unsafe"
)

// MinCapacity is the capacity allocated by the first growth of an empty
// buffer.
const MinCapacity = 8

// GrowthFactor is the multiplier applied to a full buffer's capacity.
const GrowthFactor = 2

var (
	// ErrOutOfRange is wrapped by IndexError.
	ErrOutOfRange = errors.New("index out of range")

	// ErrAllocation is the panic value used when a capacity cannot be
	// represented or allocated.
	ErrAllocation = errors.New("buffer allocation failed")

	// ErrZeroSized is the panic value used when a buffer is created for a
	// zero-sized element type.
	ErrZeroSized = errors.New("zero-sized element types are not supported")
)

// IndexError reports a read or write outside the occupied prefix.
type IndexError struct {
	Index int
	Count int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range [0:%d]", e.Index, e.Count)
}

func (e *IndexError) Unwrap() error {
	return ErrOutOfRange
}

// Releaser is implemented by elements that hold resources of their own.
// Free calls Release on every occupied element before dropping the
// allocation.
type Releaser interface {
	Release()
}

// Buffer is an owning, contiguous, growable array of T. The zero value is not
// usable; create buffers with New or WithCapacity. A Buffer must not be
// copied after first use.
type Buffer[T any] struct {
	data  []T // len(data) is the capacity
	count int
}

// New returns an empty buffer. No allocation is made until the first push.
func New[T any]() *Buffer[T] {
	var zero T
	if unsafe.Sizeof(zero) == 0 {
		panic(ErrZeroSized)
	}
	return &Buffer[T]{}
}

// WithCapacity returns an empty buffer with room for n elements.
func WithCapacity[T any](n int) *Buffer[T] {
	if n < 0 {
		panic(fmt.Errorf("%w: negative capacity %d", ErrAllocation, n))
	}
	b := New[T]()
	if n > 0 {
		b.data = allocate[T](n)
	}
	return b
}

// Count returns the number of occupied slots.
func (b *Buffer[T]) Count() int {
	return b.count
}

// Cap returns the number of allocated slots.
func (b *Buffer[T]) Cap() int {
	return len(b.data)
}

// Push appends item, growing the allocation if it is full.
func (b *Buffer[T]) Push(item T) {
	if b.count+1 > len(b.data) {
		b.grow()
	}
	b.data[b.count] = item
	b.count++
}

// Pop removes and returns the last element. The second result is false when
// the buffer is empty.
func (b *Buffer[T]) Pop() (T, bool) {
	var zero T
	if b.count == 0 {
		return zero, false
	}
	b.count--
	item := b.data[b.count]
	b.data[b.count] = zero
	return item, true
}

// At returns the element at index i.
func (b *Buffer[T]) At(i int) (T, error) {
	if i < 0 || i >= b.count {
		var zero T
		return zero, &IndexError{Index: i, Count: b.count}
	}
	return b.data[i], nil
}

// Set overwrites the occupied slot at index i.
func (b *Buffer[T]) Set(i int, item T) error {
	if i < 0 || i >= b.count {
		return &IndexError{Index: i, Count: b.count}
	}
	b.data[i] = item
	return nil
}

// Slice returns a copy of the occupied elements.
func (b *Buffer[T]) Slice() []T {
	out := make([]T, b.count)
	copy(out, b.data[:b.count])
	return out
}

// Free releases every occupied element, last to first, then drops the
// allocation. The buffer may be reused afterwards.
func (b *Buffer[T]) Free() {
	for {
		item, ok := b.Pop()
		if !ok {
			break
		}
		if r, ok := any(item).(Releaser); ok {
			r.Release()
		}
	}
	b.data = nil
}

func (b *Buffer[T]) grow() {
	capacity := nextCapacity(len(b.data))
	data := allocate[T](capacity)
	copy(data, b.data[:b.count])
	b.data = data
}

func nextCapacity(current int) int {
	if current == 0 {
		return MinCapacity
	}
	if current > math.MaxInt/GrowthFactor {
		panic(fmt.Errorf("%w: capacity %d cannot grow", ErrAllocation, current))
	}
	return current * GrowthFactor
}

func allocate[T any](n int) []T {
	var zero T
	if uintptr(n) > math.MaxInt/unsafe.Sizeof(zero) {
		panic(fmt.Errorf("%w: %d elements of %d bytes", ErrAllocation, n, unsafe.Sizeof(zero)))
	}
	return make([]T, n)
}
