// Package boot builds the two static page tables the kernel is already
// running under by the time any other Go code executes, and the one
// runtime patch _boot applies to the root table before it loads satp.
//
// Modeled directly on original_source/src/boot.rs's STACK_PT/KERNEL_PT
// statics and the register sequence inside _boot's naked_asm block:
// identity-map the RAM gigapage (so the instruction stream stays valid
// across the satp write), alias the same gigapage at the top virtual
// gigabyte, and patch a non-leaf pointer to a one-entry leaf table
// covering the boot stack. Go has no const-evaluation path rich enough
// to build these tables as true compile-time constants the way Rust's
// const fn does, so they are built once in init instead. They are
// ordinary package-level variables: nothing in this package places them
// in link.ld's .boot.data section or forces their 4 KiB alignment.
package boot

import (
	"yaro/internal/addr"
	"yaro/internal/memlayout"
	"yaro/internal/page"
	"yaro/internal/pte"
)

const (
	// highIndex is the root-table slot both static tables use to map the
	// top virtual gigabyte (VPN2 of memlayout.HighRAMStart).
	highIndex = 511
	// stackPatchIndex is the one slot PatchStackSlot ever writes: it
	// starts invalid and is filled in at boot with a pointer to
	// StackLeafTable before satp is loaded.
	stackPatchIndex = 510
)

// kernelLeafFlags is used for both the identity map and the high map: a
// globally valid, fully permissioned gigapage.
const kernelLeafFlags = pte.Valid | pte.Read | pte.Write | pte.Execute | pte.Global

// stackLeafFlags is used for the stack's single leaf entry: no EXECUTE,
// no USER.
const stackLeafFlags = pte.Valid | pte.Read | pte.Write | pte.Global

// nonLeafFlags is the only flag combination a non-leaf (table-pointer)
// entry may carry: VALID and GLOBAL, never ACCESSED/DIRTY/R/W/X.
const nonLeafFlags = pte.Valid | pte.Global

// KernelRootTable is the level-2 (root) page table. Index
// stackPatchIndex starts zero and is filled in by PatchStackSlot before
// paging is enabled; every other slot is fixed at init and read-only
// after that.
var KernelRootTable pte.RawTable

// StackLeafTable is the level-0 table covering the boot stack: its only
// populated entry maps the stack's single physical page.
var StackLeafTable pte.RawTable

func init() {
	kernelPTE := pte.New().WithPPN(memlayout.RAMStart.Page()).WithFlags(kernelLeafFlags)
	KernelRootTable.Set(identityIndex(), kernelPTE)
	KernelRootTable.Set(highIndex, kernelPTE)

	stackPTE := pte.New().WithPPN(memlayout.StackStart.Page()).WithFlags(stackLeafFlags)
	StackLeafTable.Set(highIndex, stackPTE)
}

// identityIndex is the root-table slot the identity mapping of RAM
// occupies: the index of the 1 GiB page containing RAMStart, which for
// an address this far below the canonical-form boundary is the same
// value as VPN2 of its identity virtual alias.
func identityIndex() uint64 {
	return page.ContainingPhys(memlayout.RAMStart, page.Giga).Index()
}

// NonLeafPTE builds the patch entry PatchStackSlot installs: a pointer
// to tablePhys carrying only VALID|GLOBAL, satisfying the non-leaf
// invariant pte.Entry.CheckNonLeafInvariant enforces.
func NonLeafPTE(tablePhys addr.PhysAddr) pte.Entry {
	e := pte.New().WithPPN(tablePhys.Page()).WithFlags(nonLeafFlags)
	e.CheckNonLeafInvariant()
	return e
}

// PatchStackSlot writes the runtime-computed pointer to stackLeafTablePhys
// into root's stackPatchIndex slot. This is the one mutation _boot
// performs on an otherwise-static root table, expressed as a pure
// function over an explicit *pte.RawTable so it can be exercised by
// host-side tests instead of only against the real KernelRootTable.
func PatchStackSlot(root *pte.RawTable, stackLeafTablePhys addr.PhysAddr) {
	root.Set(stackPatchIndex, NonLeafPTE(stackLeafTablePhys))
}
