package csr

// ReadSCause returns the trap-cause register: the high bit set marks an
// interrupt; clear marks a synchronous exception (code 2 is illegal
// instruction).
func ReadSCause() uint64

// ReadSTval returns trap-specific auxiliary information (e.g. the
// faulting address for a page fault, the faulting instruction bits for
// an illegal-instruction trap).
func ReadSTval() uint64

// ReadSEPC returns the supervisor exception program counter: the
// address execution was at when the trap fired.
func ReadSEPC() uint64

// WriteSTvec points the supervisor trap vector at addr. Bits [1:0]
// select vector mode; callers pass a 4-byte-aligned address for direct
// mode (mode bits left as 0).
func WriteSTvec(addr uintptr)

// WriteSatp writes the supervisor address-translation-and-protection
// register, enabling or reconfiguring paging.
func WriteSatp(value uint64)

// SfenceVMA issues a full TLB flush: sfence.vma with no operands, all
// ASIDs, all addresses.
func SfenceVMA()
