// Package trap implements the kernel's single trap vector: the
// register-save/restore stub (in assembly) and the Go-side handler it
// calls with a pointer to the saved frame.
//
// Modeled on original_source/src/int/mod.rs's kernel_entry naked routine
// and trap_handler, restructured the way go/mazarin/exceptions.go dispatches exception
// classes in go/mazarin/exceptions.go (ExceptionHandler called from
// assembly with a fixed-shape argument list, then a Go dispatch function)
// — except there is exactly one trap class here, not a table of them, so
// the dispatch collapses to a single Handle.
package trap

import "yaro/internal/csr"

// frameSlots is the number of 8-byte register slots the assembly stub
// saves: ra, gp, tp, t0-t6, a0-a7, s0-s11, then the interrupted sp.
const frameSlots = 31

// Frame is the register file saved by the trap entry stub, in exactly
// the slot order the assembly writes them in. It is only ever
// constructed by the stub; Go code only reads one handed to it.
type Frame struct {
	RA                         uint64
	GP                         uint64
	TP                         uint64
	T0, T1, T2, T3, T4, T5, T6 uint64
	A0, A1, A2, A3, A4, A5, A6, A7 uint64
	S0, S1, S2, S3, S4, S5, S6, S7, S8, S9, S10, S11 uint64
	SP                         uint64
}

// Cause is the decoded supervisor trap-cause register. Bit 63 set means
// an interrupt; clear means a synchronous exception. Exception code 2 is
// illegal instruction.
type Cause uint64

// IsInterrupt reports whether the trap was an interrupt rather than a
// synchronous exception.
func (c Cause) IsInterrupt() bool { return c&(1<<63) != 0 }

// Code returns the trap's exception/interrupt code with the interrupt
// bit masked off.
func (c Cause) Code() uint64 { return uint64(c) &^ (1 << 63) }

// count is incremented on every entry to the default handler. Exposed
// via Count so a smoke test can confirm the vector was never entered.
var count uint64

// Count returns how many times the trap handler has run since boot.
func Count() uint64 { return count }

// Install points the supervisor trap vector at the entry stub. It must
// run before any code that could fault: from that point on, any trap at
// all reaches Handle.
func Install() {
	csr.WriteSTvec(entryAddr())
}

// Handle is called by the assembly entry stub with a pointer to the
// saved frame. Every trap is fatal at this stage: there is no recovery
// path, no re-enabling of interrupts, and no return to the faulting
// context that makes sense to support yet.
//
//go:nosplit
func Handle(frame *Frame) {
	count++
	cause := Cause(csr.ReadSCause())
	stval := csr.ReadSTval()
	sepc := csr.ReadSEPC()
	panic(describe(cause, stval, sepc))
}

func describe(cause Cause, stval, sepc uint64) string {
	kind := "exception"
	if cause.IsInterrupt() {
		kind = "interrupt"
	}
	return "unexpected trap (" + kind + "): scause=" + hex(uint64(cause)) +
		" stval=" + hex(stval) + " sepc=" + hex(sepc)
}

// hex renders v as a fixed-width hexadecimal string without pulling in
// fmt, which may not be safe to call from a nosplit handler this early.
func hex(v uint64) string {
	const digits = "0123456789abcdef"
	buf := [18]byte{'0', 'x'}
	for i := 0; i < 16; i++ {
		shift := uint(60 - 4*i)
		buf[2+i] = digits[(v>>shift)&0xF]
	}
	return string(buf[:])
}
