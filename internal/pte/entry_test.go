package pte

import "testing"

func TestEntryEncodeRoundTrip(t *testing.T) {
	cases := []struct {
		ppn   uint64
		flags Flags
	}{
		{0, Valid},
		{0x80000, Valid | Read | Write | Execute | Global},
		{(1 << 44) - 1, Valid | Read},
		{0x12345, Valid | Accessed | Dirty | Software0 | Software1},
	}
	for _, c := range cases {
		e := New().WithPPN(c.ppn).WithFlags(c.flags)
		if got := e.PPN(); got != c.ppn {
			t.Fatalf("PPN round-trip: got %#x want %#x", got, c.ppn)
		}
		if got := e.Flags(); got != c.flags {
			t.Fatalf("Flags round-trip: got %#b want %#b", got, c.flags)
		}
	}
}

func TestEntryIsLeaf(t *testing.T) {
	nonLeaf := New().WithFlags(Valid | Global)
	if nonLeaf.IsLeaf() {
		t.Fatal("entry with no R/W/X must not be a leaf")
	}
	leaf := New().WithFlags(Valid | Read)
	if !leaf.IsLeaf() {
		t.Fatal("entry with READ set must be a leaf")
	}
}

func TestCheckNonLeafInvariantPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for non-leaf entry with ACCESSED set")
		}
	}()
	bad := New().WithFlags(Valid | Accessed)
	bad.CheckNonLeafInvariant()
}

func TestCheckNonLeafInvariantAllowsLeaf(t *testing.T) {
	leaf := New().WithFlags(Valid | Read | Accessed | Dirty)
	leaf.CheckNonLeafInvariant() // must not panic
}

func TestRawTableSetAt(t *testing.T) {
	var tbl RawTable
	e := New().WithPPN(1).WithFlags(Valid)
	tbl.Set(511, e)
	if got := tbl.At(511); got != e {
		t.Fatalf("At(511) = %#x, want %#x", got, e)
	}
	if got := tbl.At(0); got != 0 {
		t.Fatalf("At(0) = %#x, want zero entry", got)
	}
}
