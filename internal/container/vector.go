// Package container provides kernel-heap-backed data structures: growable
// sequences built on yaro/internal/heap instead of the Go runtime's own
// allocator, so code running before (or without) the Go heap is configured
// can still use them.
//
// go/mazarin/memory.go's castToPointer and friends work directly in
// terms of raw pointers with no generic wrapper; Vector generalizes that
// pattern into a single reusable type using Go generics.
package container

import "unsafe"

// Allocator is the subset of *heap.Arena a Vector needs. Any type
// satisfying it (a real arena, or a test double) can back a Vector.
type Allocator interface {
	Alloc(size uint32) (uintptr, bool)
	Free(p uintptr)
}

// initialCapacity is how many elements a Vector allocates room for on its
// first Push.
const initialCapacity = 4

// Vector is a growable sequence of T, backed by memory obtained from an
// Allocator. The zero value is not usable; construct with NewVector.
type Vector[T any] struct {
	alloc    Allocator
	data     uintptr
	len, cap uint32
}

// NewVector returns an empty vector that allocates through alloc.
func NewVector[T any](alloc Allocator) *Vector[T] {
	return &Vector[T]{alloc: alloc}
}

// Len returns the number of elements currently stored.
func (v *Vector[T]) Len() uint32 { return v.len }

// elemSize is the stride between consecutive elements' storage.
func (v *Vector[T]) elemSize() uint32 {
	var zero T
	return uint32(unsafe.Sizeof(zero))
}

// slot returns a pointer to the i'th element's storage. i must be valid.
func (v *Vector[T]) slot(i uint32) *T {
	return (*T)(unsafe.Pointer(v.data + uintptr(i)*uintptr(v.elemSize())))
}

// Get returns the element at index i.
//
// Precondition: i < v.Len().
func (v *Vector[T]) Get(i uint32) T {
	if i >= v.len {
		panic("container: index out of range")
	}
	return *v.slot(i)
}

// Set overwrites the element at index i.
//
// Precondition: i < v.Len().
func (v *Vector[T]) Set(i uint32, val T) {
	if i >= v.len {
		panic("container: index out of range")
	}
	*v.slot(i) = val
}

// Push appends val, growing the backing storage (doubling capacity, or
// starting at initialCapacity) when no room remains. Panics if the
// allocator cannot satisfy the growth request.
func (v *Vector[T]) Push(val T) {
	if v.len == v.cap {
		v.grow()
	}
	*v.slot(v.len) = val
	v.len++
}

// Pop removes and returns the last element.
//
// Precondition: v.Len() > 0.
func (v *Vector[T]) Pop() T {
	if v.len == 0 {
		panic("container: pop from empty vector")
	}
	v.len--
	return *v.slot(v.len)
}

// grow doubles capacity (or sets it to initialCapacity from empty),
// copies existing elements into the new storage, and frees the old
// storage if there was any.
func (v *Vector[T]) grow() {
	newCap := v.cap * 2
	if newCap == 0 {
		newCap = initialCapacity
	}

	size := v.elemSize()
	newData, ok := v.alloc.Alloc(newCap * size)
	if !ok {
		panic("container: allocator exhausted while growing vector")
	}

	if v.data != 0 {
		for i := uint32(0); i < v.len; i++ {
			src := (*T)(unsafe.Pointer(v.data + uintptr(i)*uintptr(size)))
			dst := (*T)(unsafe.Pointer(newData + uintptr(i)*uintptr(size)))
			*dst = *src
		}
		v.alloc.Free(v.data)
	}

	v.data = newData
	v.cap = newCap
}
