//go:build !riscv64

package csr

// These stand in for the riscv64 assembly on every other GOARCH so the
// module (and the packages layered on it) build and test on the
// development machine. None of them observe real hardware state.

var (
	fakeSCause uint64
	fakeSTval  uint64
	fakeSEPC   uint64
	fakeSatp   uint64
	fakeSTvec  uintptr
)

func ReadSCause() uint64    { return fakeSCause }
func ReadSTval() uint64     { return fakeSTval }
func ReadSEPC() uint64      { return fakeSEPC }
func WriteSTvec(addr uintptr) { fakeSTvec = addr }
func WriteSatp(value uint64) { fakeSatp = value }
func SfenceVMA()             {}
