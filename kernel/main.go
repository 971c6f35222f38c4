// Command kernel is the riscv64/qemu-virt kernel image entry point.
//
// Modeled on go/mazarin/kernel.go's KernelMain: a linear boot sequence
// (console first, then memory management, then a smoke test of whatever
// the kernel is meant to prove out) ending in an infinite loop rather
// than a return, since there is nothing to return to.
package main

import (
	"fmt"
	"unsafe"

	"yaro/internal/boot"
	"yaro/internal/buddy"
	"yaro/internal/container"
	"yaro/internal/heap"
	"yaro/internal/kfatal"
	"yaro/internal/memlayout"
	"yaro/internal/sbi"
	"yaro/internal/spinlock"
	"yaro/internal/trap"
)

// _sbss and _ebss bracket the zero-initialized data section, placed by
// internal/boot/link.ld. QEMU does not guarantee RAM is already zero, so
// this range is cleared before any Go package-level variable living in
// it can be trusted.
//
//go:linkname _sbss _sbss
var _sbss uintptr

//go:linkname _ebss _ebss
var _ebss uintptr

// vectorSmokeTestSize is how many ints kmain's container.Vector smoke
// test pushes, to exercise at least one grow() doubling from the
// allocator.
const vectorSmokeTestSize = 100

// heapOrder is the buddy order donated to the kernel heap arena at boot:
// order 3 is a 32 KiB span, comfortably larger than the smoke test needs
// while leaving the rest of the physical heap region free for later
// callers.
const heapOrder = 3

var (
	console  = sbi.Console{}
	pageLock spinlock.Lock
	heapLock spinlock.Lock

	pages *buddy.Buddy
	arena *heap.Arena
)

func zeroBSS() {
	start := uintptr(unsafe.Pointer(&_sbss))
	end := uintptr(unsafe.Pointer(&_ebss))
	for p := start; p < end; p++ {
		*(*byte)(unsafe.Pointer(p)) = 0
	}
}

// initMemory brings up the physical page allocator over the donated
// physical-heap region, then seeds the byte-granularity kernel heap from
// one buddy allocation out of it.
func initMemory() {
	pages = buddy.New(buddy.BareMemory{})

	heapEnd := memlayout.PHeapStart.Add(memlayout.PHeapLen)
	start, order, ok := buddy.FromRange(memlayout.PHeapStart, heapEnd)
	if !ok {
		kfatal.Handle("no usable physical heap region in [%#x, %#x)", uint64(memlayout.PHeapStart), uint64(heapEnd))
	}

	pageLock.Acquire()
	pages.Claim(start, order)
	allocation, ok := pages.Alloc(heapOrder)
	pageLock.Release()
	if !ok {
		kfatal.Handle("buddy allocator could not satisfy the initial order-%d heap claim", heapOrder)
	}

	arena = heap.New()
	heapLock.Acquire()
	arena.ClaimVirt(allocation.VirtStart(), allocation.VirtEnd())
	heapLock.Release()
}

// vectorSmokeTest exercises container.Vector against the live kernel
// heap: push a run of ints (forcing at least one grow), then print them
// to prove both the vector and the heap it allocates through are sound.
func vectorSmokeTest() {
	v := container.NewVector[int](arena)
	for i := 0; i < vectorSmokeTestSize; i++ {
		v.Push(i)
	}

	fmt.Fprint(console, "[")
	for i := uint32(0); i < v.Len(); i++ {
		if i > 0 {
			fmt.Fprint(console, ", ")
		}
		fmt.Fprint(console, v.Get(i))
	}
	fmt.Fprint(console, "]\n")
}

func kmain() {
	defer kfatal.Recover()

	fmt.Fprint(console, "Hello World!\n")

	zeroBSS()
	trap.Install()

	initMemory()
	freeBytes, allocatedBytes := arena.Stats()
	fmt.Fprintf(console, "heap: %d bytes free, %d bytes allocated\n", freeBytes, allocatedBytes)

	pageLock.Acquire()
	pageCounts := pages.Stats()
	pageLock.Release()
	fmt.Fprint(console, "pages free by order:")
	for order, count := range pageCounts {
		if count == 0 {
			continue
		}
		fmt.Fprintf(console, " %d:%d", order, count)
	}
	fmt.Fprint(console, "\n")

	vectorSmokeTest()

	fmt.Fprint(console, "yaro: shutting down\n")
	sbi.Shutdown()
	for {
	}
}

func main() {
	boot.Start(kmain)
	for {
	}
}
