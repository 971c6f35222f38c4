// Package buddy implements a page-granularity buddy allocator: a
// power-of-two block allocator over physical page frames whose free-list
// nodes live in-place inside the very pages being managed, addressed
// through the kernel's high-half mapping (yaro/internal/memlayout).
//
// Modeled on original_source/src/mem/alloc.rs's BiBuddy: same order
// arithmetic, the same linear buddy search on free, the same merge
// behavior expressed here as a loop instead of recursion.
package buddy

import (
	"fmt"
	"math/bits"

	"yaro/internal/addr"
	"yaro/internal/memlayout"
)

const (
	// PageSize is the smallest block: 4 KiB.
	PageSize = 0x1000
	// HighestOrder is the largest order the allocator tracks: order 12
	// is a 16 MiB block.
	HighestOrder = 12
	orderCount   = HighestOrder + 1
)

// OrderSize returns the byte size of a block of the given order.
func OrderSize(order int) uint64 { return PageSize << uint(order) }

// Allocation is a block handed out by Alloc. It can only be constructed
// by the allocator, so holding one is proof it came from here.
type Allocation struct {
	start addr.PhysAddr
	order int
}

// Start returns the allocation's physical start address.
func (a Allocation) Start() addr.PhysAddr { return a.start }

// Order returns the allocation's order.
func (a Allocation) Order() int { return a.order }

// Size returns the allocation's byte size.
func (a Allocation) Size() uint64 { return OrderSize(a.order) }

// VirtStart returns the allocation's high-half virtual alias.
func (a Allocation) VirtStart() addr.VirtAddr { return memlayout.FromPhys(a.start) }

// VirtEnd returns the byte past the allocation's virtual alias.
func (a Allocation) VirtEnd() addr.VirtAddr {
	return memlayout.FromPhys(a.start.Add(a.Size()))
}

// Buddy is the page allocator: one free list per order, 0 through
// HighestOrder inclusive. The zero value is not usable; construct with
// New.
type Buddy struct {
	mem   Memory
	heads [orderCount]uint64 // raw virtual-address bits of each list's head; 0 = empty
}

// New returns an empty allocator backed by mem.
func New(mem Memory) *Buddy {
	return &Buddy{mem: mem}
}

// Stats returns, per order, the number of blocks currently free at that
// order. It does not mutate allocator state.
func (b *Buddy) Stats() [orderCount]int {
	var counts [orderCount]int
	for order := 0; order <= HighestOrder; order++ {
		cur := b.heads[order]
		for cur != 0 {
			counts[order]++
			cur = b.mem.LoadNext(addr.VirtAddr(cur))
		}
	}
	return counts
}

func (b *Buddy) push(order int, start addr.PhysAddr) {
	v := memlayout.FromPhys(start)
	b.mem.StoreNext(v, b.heads[order])
	b.heads[order] = v.AsUint64()
}

func (b *Buddy) pop(order int) (addr.PhysAddr, bool) {
	if b.heads[order] == 0 {
		return 0, false
	}
	v := addr.VirtAddr(b.heads[order])
	next := b.mem.LoadNext(v)
	b.heads[order] = next
	b.mem.StoreNext(v, 0) // don't leave a dangling pointer behind
	return memlayout.ToPhys(v), true
}

// removeIfPresent scans list order for a block starting at target,
// unlinking and returning it if found. Linear in the list length: the
// tradeoff for keeping free-list nodes in-place rather than in a side
// index.
func (b *Buddy) removeIfPresent(order int, target addr.PhysAddr) bool {
	targetV := memlayout.FromPhys(target).AsUint64()

	if b.heads[order] == targetV {
		b.heads[order] = b.mem.LoadNext(addr.VirtAddr(targetV))
		return true
	}

	prev := b.heads[order]
	for prev != 0 {
		cur := b.mem.LoadNext(addr.VirtAddr(prev))
		if cur == 0 {
			return false
		}
		if cur == targetV {
			afterTarget := b.mem.LoadNext(addr.VirtAddr(cur))
			b.mem.StoreNext(addr.VirtAddr(prev), afterTarget)
			return true
		}
		prev = cur
	}
	return false
}

// Claim donates a free block to the allocator. If order exceeds
// HighestOrder, the block is split recursively and each half claimed in
// turn; otherwise it is pushed directly onto the matching free list.
//
// Precondition: start is page-aligned, non-null, and a multiple of
// OrderSize(order); violating it is a fatal boot-time configuration error.
func (b *Buddy) Claim(start addr.PhysAddr, order int) {
	if start == 0 {
		panic("buddy: block start cannot be null")
	}
	size := OrderSize(order)
	if uint64(start)%size != 0 {
		panic(fmt.Sprintf("buddy: block at %#x is not aligned to its order-%d size %#x", uint64(start), order, size))
	}

	if order > HighestOrder {
		half := OrderSize(order - 1)
		b.Claim(start, order-1)
		b.Claim(start.Add(half), order-1)
		return
	}
	b.push(order, start)
}

// Alloc returns a block of exactly order, or false if no block of
// sufficient size is available. Scans free lists from order upward; the
// first non-empty list's head is popped and split down to order,
// pushing each right half onto the next-lower list.
//
// order must not exceed HighestOrder: that is a programmer error and
// panics rather than returning false.
func (b *Buddy) Alloc(order int) (Allocation, bool) {
	if order > HighestOrder {
		panic(fmt.Sprintf("buddy: requested order %d exceeds HighestOrder %d", order, HighestOrder))
	}

	nextOrder := order
	for b.heads[nextOrder] == 0 {
		nextOrder++
		if nextOrder > HighestOrder {
			return Allocation{}, false
		}
	}

	start, _ := b.pop(nextOrder)
	for nextOrder > order {
		nextOrder--
		right := start.Add(OrderSize(nextOrder))
		b.push(nextOrder, right)
	}

	return Allocation{start: start, order: order}, true
}

// Free releases allocation back to the allocator, coalescing with its
// buddy at each level until no buddy is free or the merged order would
// exceed HighestOrder.
func (b *Buddy) Free(allocation Allocation) {
	b.freeBlock(allocation.start, allocation.order)
}

func (b *Buddy) freeBlock(start addr.PhysAddr, order int) {
	// order == HighestOrder is never searched for a buddy: there is no
	// order-(HighestOrder+1) list to grow into, so the top list simply
	// never merges further.
	for order < HighestOrder {
		buddyAddr := addr.PhysAddr(uint64(start) ^ OrderSize(order))
		if !b.removeIfPresent(order, buddyAddr) {
			break
		}
		if buddyAddr < start {
			start = buddyAddr
		}
		order++
	}
	b.push(order, start)
}

// FromRange returns the largest power-of-two block that fits at the start
// of [start, end) after rounding start up to a page boundary. The order
// comes from the page count alone: the returned start is page-aligned, and
// is a multiple of the block size only if the rounded start already is.
// Any remainder beyond that leading power-of-two block is discarded
// rather than tiled into additional, smaller blocks.
func FromRange(start, end addr.PhysAddr) (addr.PhysAddr, int, bool) {
	if start == 0 {
		panic("buddy: range start cannot be null")
	}
	rounded := start.NextMultipleOf(PageSize)
	if rounded >= end {
		return 0, 0, false
	}
	pages := end.Diff(rounded) / PageSize
	if pages == 0 {
		return 0, 0, false
	}
	order := bits.Len64(pages) - 1
	return rounded, order, true
}
