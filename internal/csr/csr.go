// Package csr wraps the handful of supervisor-mode control and status
// registers the kernel touches directly: the trap vector (stvec), the
// trap-cause triple (scause/stval/sepc), and the address-translation
// register (satp) plus its TLB flush.
//
// Mirrors original_source/src/asm.rs's read_csr!/write_csr! macros, one
// Go function per register instead of one macro parameterized by CSR
// name, since Go's assembler takes the CSR address as a literal operand
// rather than a string it can paste into an instruction mnemonic.
package csr

// CSR addresses, named the way the RISC-V privileged spec does. Kept
// here for documentation even though only the riscv64 assembly
// references them directly as immediates.
const (
	AddrSstatus  = 0x100
	AddrStvec    = 0x105
	AddrSscratch = 0x140
	AddrSepc     = 0x141
	AddrScause   = 0x142
	AddrStval    = 0x143
	AddrSatp     = 0x180
)
