package trap

// entryAddr returns the address of the assembly trap entry stub
// (entry_riscv64.s), for installation into stvec.
func entryAddr() uintptr
