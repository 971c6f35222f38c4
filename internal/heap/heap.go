// Package heap implements the kernel's byte-granularity dynamic
// allocator: a best-fit, splitting, coalescing arena seeded from a single
// span of memory.
//
// Modeled on the heapSegment design in go/mazarin/heap.go: an
// intrusive doubly-linked list of segment headers living in the arena
// itself, each header immediately followed by its data area.
// go/mazarin/heap.go wraps a single compile-time region; this arena
// starts empty and is seeded via Claim with whatever span the buddy
// allocator hands it (possibly more than once, from non-contiguous
// spans — Free only coalesces list neighbors that are also physical
// neighbors), and it tracks size as data bytes rather than header+data
// so Stats can report usable free space directly.
//
// Arena's core is expressed over uintptr rather than yaro/internal/addr's
// VirtAddr: its splitting and coalescing logic has no dependency on Sv39
// canonicalization, and keeping it in raw pointer arithmetic lets the
// same code run against both a real high-half kernel span and an
// ordinary Go-allocated byte slice in host tests. ClaimVirt adapts the
// kernel's VirtAddr span at the one call site that needs it.
package heap

import (
	"fmt"
	"unsafe"

	"yaro/internal/addr"
)

// alignment is the byte boundary every returned pointer and every
// segment's data area is aligned to.
const alignment = 16

// headerSize is the in-memory size of segment rounded up to alignment,
// used for pointer arithmetic between a header and its data area, so a
// header at an aligned address is followed by an aligned data area.
const headerSize = (unsafe.Sizeof(segment{}) + alignment - 1) &^ (alignment - 1)

// minSplitRemainder is the smallest leftover, after carving out a
// request, worth turning into its own free segment. Below this the
// arena keeps the extra bytes as internal fragmentation rather than
// paying for another header.
const minSplitRemainder = uintptr(headerSize)

// segment is the header placed at the start of every arena block, free
// or allocated. It lives in-place in the memory it describes.
type segment struct {
	next      *segment
	prev      *segment
	allocated bool
	size      uint32 // data bytes following this header, not counting headerSize
}

// Arena is a byte-granularity allocator over one or more claimed spans.
// The zero value has nothing claimed and every Alloc fails; call Claim
// at least once before use.
type Arena struct {
	head *segment
}

// New returns an empty arena.
func New() *Arena { return &Arena{} }

// Claim donates the span [start, end) to the arena as one large free
// segment, linked in ahead of whatever the arena already holds.
//
// Precondition: end-start exceeds headerSize; start is non-zero and a
// multiple of alignment (Alloc's results are aligned relative to start).
func (a *Arena) Claim(start, end uintptr) {
	if start == 0 {
		panic("heap: claimed span start cannot be null")
	}
	if end <= start {
		panic("heap: claimed span end must exceed start")
	}
	span := end - start
	if span <= uintptr(headerSize) {
		panic(fmt.Sprintf("heap: claimed span of %d bytes too small for a header", span))
	}

	seg := (*segment)(unsafe.Pointer(start))
	*seg = segment{size: uint32(span - uintptr(headerSize))}

	if a.head == nil {
		a.head = seg
		return
	}
	seg.next = a.head
	a.head.prev = seg
	a.head = seg
}

// ClaimVirt is Claim for a kernel virtual-address span.
func (a *Arena) ClaimVirt(start, end addr.VirtAddr) {
	a.Claim(start.AsPointer(), end.AsPointer())
}

// Stats returns the total free bytes and total allocated bytes currently
// tracked by the arena, counting only segment data areas.
func (a *Arena) Stats() (freeBytes, allocatedBytes uint64) {
	for cur := a.head; cur != nil; cur = cur.next {
		if cur.allocated {
			allocatedBytes += uint64(cur.size)
		} else {
			freeBytes += uint64(cur.size)
		}
	}
	return freeBytes, allocatedBytes
}

// Alloc returns size bytes, 16-byte aligned, or false if no free segment
// is large enough. Best-fit: the smallest free segment that still fits
// the (aligned) request wins, splitting off any remainder large enough
// to host its own header.
func (a *Arena) Alloc(size uint32) (uintptr, bool) {
	want := alignUp(size)

	var best *segment
	var bestSlack uint32
	for cur := a.head; cur != nil; cur = cur.next {
		if cur.allocated || cur.size < want {
			continue
		}
		slack := cur.size - want
		if best == nil || slack < bestSlack {
			best = cur
			bestSlack = slack
		}
	}
	if best == nil {
		return 0, false
	}

	if uintptr(bestSlack) >= minSplitRemainder+uintptr(headerSize) {
		a.split(best, want)
	}

	best.allocated = true
	return uintptr(unsafe.Pointer(best)) + uintptr(headerSize), true
}

// split carves a new free segment out of the tail of best, leaving best
// sized to exactly used bytes.
func (a *Arena) split(best *segment, used uint32) {
	newSegAddr := uintptr(unsafe.Pointer(best)) + uintptr(headerSize) + uintptr(used)
	newSeg := (*segment)(unsafe.Pointer(newSegAddr))
	*newSeg = segment{
		next: best.next,
		prev: best,
		size: best.size - used - uint32(headerSize),
	}
	if newSeg.next != nil {
		newSeg.next.prev = newSeg
	}
	best.next = newSeg
	best.size = used
}

// segAddr returns s's own address: the start of its header.
func segAddr(s *segment) uintptr { return uintptr(unsafe.Pointer(s)) }

// segEnd returns the address immediately past s's data area.
func segEnd(s *segment) uintptr { return segAddr(s) + uintptr(headerSize) + uintptr(s.size) }

// physicallyAdjacent reports whether b starts exactly where a ends. Two
// claimed spans can land next to each other in the list (Claim always
// prepends) without being adjacent in memory, so list order alone never
// justifies merging two segments' sizes.
func physicallyAdjacent(a, b *segment) bool { return segEnd(a) == segAddr(b) }

// Free releases memory previously returned by Alloc, coalescing with an
// adjacent free segment on either side. A list neighbor only coalesces
// when it is also the segment's physical neighbor: Claim can donate
// multiple, non-contiguous spans, and a list-adjacent-but-not-memory-
// adjacent neighbor must never have its size folded in.
func (a *Arena) Free(p uintptr) {
	seg := (*segment)(unsafe.Pointer(p - uintptr(headerSize)))
	seg.allocated = false

	for seg.prev != nil && !seg.prev.allocated && physicallyAdjacent(seg.prev, seg) {
		prev := seg.prev
		prev.next = seg.next
		prev.size += seg.size + uint32(headerSize)
		if seg.next != nil {
			seg.next.prev = prev
		}
		if a.head == seg {
			a.head = prev
		}
		seg = prev
	}

	for seg.next != nil && !seg.next.allocated && physicallyAdjacent(seg, seg.next) {
		next := seg.next
		seg.size += next.size + uint32(headerSize)
		seg.next = next.next
		if next.next != nil {
			next.next.prev = seg
		}
	}
}

func alignUp(size uint32) uint32 {
	rem := size % alignment
	if rem == 0 {
		return size
	}
	return size + (alignment - rem)
}
