package buddy

import (
	"testing"

	"yaro/internal/addr"
	"yaro/internal/memlayout"
)

func newTestBuddy() *Buddy { return New(newFakeMemory()) }

func TestClaimAllocRoundTrip(t *testing.T) {
	b := newTestBuddy()
	start := memlayout.PHeapStart
	b.Claim(start, 5)

	got, ok := b.Alloc(5)
	if !ok {
		t.Fatal("expected allocation to succeed")
	}
	if got.Start() != start || got.Order() != 5 {
		t.Fatalf("got start=%#x order=%d, want start=%#x order=5", uint64(got.Start()), got.Order(), uint64(start))
	}
}

func TestAllocFailsWhenExhausted(t *testing.T) {
	b := newTestBuddy()
	b.Claim(memlayout.PHeapStart, 3)

	if _, ok := b.Alloc(3); !ok {
		t.Fatal("first alloc should succeed")
	}
	if _, ok := b.Alloc(3); ok {
		t.Fatal("second alloc should fail: pool exhausted")
	}
}

func TestCoalescingOnFree(t *testing.T) {
	b := newTestBuddy()
	const order = 4
	b.Claim(memlayout.PHeapStart, order+1)

	a, ok := b.Alloc(order)
	if !ok {
		t.Fatal("alloc 1 failed")
	}
	c, ok := b.Alloc(order)
	if !ok {
		t.Fatal("alloc 2 failed")
	}

	b.Free(a)
	b.Free(c)

	stats := b.Stats()
	if stats[order] != 0 {
		t.Fatalf("order %d free count = %d, want 0 (should have coalesced)", order, stats[order])
	}
	if stats[order+1] != 1 {
		t.Fatalf("order %d free count = %d, want 1", order+1, stats[order+1])
	}
}

func TestNoAliasingAcrossAllocations(t *testing.T) {
	b := newTestBuddy()
	b.Claim(memlayout.PHeapStart, 6)

	seen := map[addr.PhysAddr]bool{}
	var allocs []Allocation
	for range 4 {
		a, ok := b.Alloc(4)
		if !ok {
			t.Fatal("alloc failed")
		}
		for p := a.Start(); p < a.Start().Add(a.Size()); p = p.Add(PageSize) {
			if seen[p] {
				t.Fatalf("page %#x aliased across allocations", uint64(p))
			}
			seen[p] = true
		}
		allocs = append(allocs, a)
	}

	for _, a := range allocs {
		b.Free(a)
	}
}

func TestBuddyAlignmentInvariant(t *testing.T) {
	b := newTestBuddy()
	b.Claim(memlayout.PHeapStart, 7)

	for order := 0; order <= HighestOrder; order++ {
		for {
			a, ok := b.Alloc(order)
			if !ok {
				break
			}
			if uint64(a.Start())%OrderSize(order) != 0 {
				t.Fatalf("order-%d block at %#x is misaligned", order, uint64(a.Start()))
			}
			b.Free(a)
			break // one check per order suffices given round-trip tests elsewhere
		}
	}
}

func TestClaimAboveHighestOrderPartitionsExactly(t *testing.T) {
	b := newTestBuddy()
	start := memlayout.RAMStart // a multiple of the 64 MiB claim size
	const claimOrder = HighestOrder + 2 // 4x the max tracked block size
	b.Claim(start, claimOrder)

	stats := b.Stats()
	if stats[HighestOrder] != 4 {
		t.Fatalf("top-order free count = %d, want 4", stats[HighestOrder])
	}
	for order := 0; order < HighestOrder; order++ {
		if stats[order] != 0 {
			t.Fatalf("order %d free count = %d, want 0", order, stats[order])
		}
	}

	// The four top-order blocks must exactly partition the claimed range.
	seen := map[addr.PhysAddr]bool{}
	for range 4 {
		a, ok := b.Alloc(HighestOrder)
		if !ok {
			t.Fatal("expected a top-order block")
		}
		if seen[a.Start()] {
			t.Fatalf("duplicate block start %#x", uint64(a.Start()))
		}
		seen[a.Start()] = true
		offset := a.Start().Diff(start)
		if offset >= OrderSize(claimOrder) {
			t.Fatalf("block at %#x falls outside claimed range", uint64(a.Start()))
		}
	}
}

func TestFromRangeRoundsAndTruncates(t *testing.T) {
	start := memlayout.PHeapStart.Add(1) // force rounding up
	end := start.Add(memlayout.PHeapLen)

	got, order, ok := FromRange(start, end)
	if !ok {
		t.Fatal("expected FromRange to succeed")
	}
	if !got.AlignedTo(PageSize) {
		t.Fatalf("FromRange start %#x is not page-aligned", uint64(got))
	}
	if OrderSize(order) > uint64(end.Diff(got)) {
		t.Fatalf("order %d block of size %#x does not fit in range", order, OrderSize(order))
	}
}

func TestAllocAboveHighestOrderPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for order above HighestOrder")
		}
	}()
	b := newTestBuddy()
	b.Alloc(HighestOrder + 1)
}

func TestClaimMisalignedPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for misaligned block")
		}
	}()
	b := newTestBuddy()
	b.Claim(memlayout.PHeapStart.Add(1), 3)
}

func TestBuddyExhaustionAfterSingleRegionClaim(t *testing.T) {
	b := newTestBuddy()
	b.Claim(memlayout.PHeapStart, 9)

	if _, ok := b.Alloc(10); ok {
		t.Fatal("expected order-10 allocation to fail: only one order-9 region was claimed")
	}
}
