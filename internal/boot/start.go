package boot

import (
	"unsafe"

	"yaro/internal/addr"
	"yaro/internal/csr"
	"yaro/internal/pte"
)

// satpModeSv39 is the MODE field value that selects Sv39 paging.
const satpModeSv39 = uint64(8) << 60

// physAddrOf returns t's address as a physical address. This is only
// valid because the whole kernel image is linked to load inside the
// identity-mapped RAM gigapage (see link.ld): for any symbol in that
// image, virtual address and physical address are numerically equal
// before high-half paging is what changes that relationship for
// everything loaded afterward.
func physAddrOf(t *pte.RawTable) addr.PhysAddr {
	return addr.PhysAddr(uintptr(unsafe.Pointer(t)))
}

// satpFor builds the satp CSR value that activates root as the Sv39 root
// table: MODE=Sv39 in the top 4 bits, PPN of root in the bottom 44.
func satpFor(root *pte.RawTable) uint64 {
	return satpModeSv39 | physAddrOf(root).Page()
}

// Start finishes the one-time paging bootstrap the kernel performs
// before anything else runs: patch the runtime-only stack-table pointer
// into KernelRootTable, install it as the active Sv39 root table, flush
// stale TLB entries, then hand off to onReady.
//
// Grounded on original_source/src/boot.rs's _boot: that version also
// switches to a freshly computed stack pointer and jumps to kmain with
// no return address, because it runs with no software stack and no
// language runtime underneath it at all. This kernel's entry point
// instead runs on the stack the Go program's own startup sequence
// already established (see DESIGN.md's note on this divergence), so the
// handoff to onReady is an ordinary call rather than a manual stack
// switch; onReady is never expected to return.
func Start(onReady func()) {
	PatchStackSlot(&KernelRootTable, physAddrOf(&StackLeafTable))
	csr.WriteSatp(satpFor(&KernelRootTable))
	csr.SfenceVMA()
	onReady()
}
