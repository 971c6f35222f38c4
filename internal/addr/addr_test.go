package addr

import "testing"

func TestVirtAddrCanonicalRoundTrip(t *testing.T) {
	cases := []uint64{
		0,
		0x1000,
		0xffff_ffff_c000_0000,
		0xffff_ffff_ffff_f000,
		0x0000_003f_ffff_f000, // largest page-aligned canonical low-half value
	}
	for _, v := range cases {
		got, ok := TryNewVirt(v)
		if !ok {
			t.Fatalf("TryNewVirt(%#x): expected canonical, rejected", v)
		}
		if got.AsUint64() != v {
			t.Fatalf("round-trip mismatch: got %#x want %#x", got.AsUint64(), v)
		}
	}
}

func TestVirtAddrRejectsNonCanonical(t *testing.T) {
	cases := []uint64{
		0x0000_8000_0000_0000,
		0x0000_4000_0000_0000,
		0xffff_7fff_ffff_ffff,
	}
	for _, v := range cases {
		if _, ok := TryNewVirt(v); ok {
			t.Fatalf("TryNewVirt(%#x): expected rejection, accepted", v)
		}
	}
}

func TestNewVirtPanicsOnNonCanonical(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for non-canonical address")
		}
	}()
	NewVirt(0x0000_8000_0000_0000)
}

func TestVirtAddrVPNDecomposition(t *testing.T) {
	// 0xffff_ffff_c321_4000 carved so each VPN field is distinguishable.
	v := NewVirt(0xffff_ffff_c321_4000)
	if got := v.VPN2(); got != 0x1ff {
		t.Fatalf("VPN2 = %#x, want 0x1ff", got)
	}
	if got := v.VPN0(); got != 0x14 {
		t.Fatalf("VPN0 = %#x, want 0x14", got)
	}
}

func TestPhysAddrPPNDecomposition(t *testing.T) {
	p := PhysAddr(0x80000000)
	if got := p.PPN2(); got != 0x80000000>>30 {
		t.Fatalf("PPN2 = %#x", got)
	}
	if got := p.Page(); got != 0x80000000>>12 {
		t.Fatalf("Page = %#x", got)
	}
}

func TestPhysAddrAlignment(t *testing.T) {
	p := PhysAddr(0x8300_0000)
	if !p.AlignedTo(0x200000) {
		t.Fatalf("%#x expected aligned to 2MiB", uint64(p))
	}
	unaligned := PhysAddr(0x8300_0001)
	if unaligned.AlignedTo(0x1000) {
		t.Fatalf("%#x should not be page-aligned", uint64(unaligned))
	}
	rounded := unaligned.NextMultipleOf(0x1000)
	if uint64(rounded) != 0x8300_1000 {
		t.Fatalf("NextMultipleOf = %#x, want 0x83001000", uint64(rounded))
	}
}
