package buddy

import "yaro/internal/addr"

// Memory is the seam between the buddy allocator's free-list bookkeeping
// and the raw bytes it threads the list through. The allocator never
// touches memory except through this interface, so its free-list
// invariants can run as ordinary host-side unit tests against a map-backed
// fake instead of real physical pages.
//
// A next value of 0 means "no next node"; this is safe because virtual
// address 0 is never produced by memlayout.FromPhys for any address this
// kernel manages.
type Memory interface {
	LoadNext(v addr.VirtAddr) uint64
	StoreNext(v addr.VirtAddr, next uint64)
}
