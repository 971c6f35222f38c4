package buddy

import (
	"unsafe"

	"yaro/internal/addr"
)

// BareMemory is the production Memory: it dereferences the free-list
// link field directly at its virtual address, the way go/mazarin's
// heapSegment/Page free lists do (heap.go, page.go) rather than through
// a side table.
type BareMemory struct{}

func (BareMemory) LoadNext(v addr.VirtAddr) uint64 {
	return *(*uint64)(unsafe.Pointer(v.AsPointer())) //nolint:govet
}

func (BareMemory) StoreNext(v addr.VirtAddr, next uint64) {
	*(*uint64)(unsafe.Pointer(v.AsPointer())) = next //nolint:govet
}
