package sbi

// ecall is implemented in ecall_riscv64.s: it traps to the firmware with
// the given arguments in a0..a5, fid in a6, eid in a7, and returns the
// a0/a1 pair the call left behind.
//
//go:noescape
func ecall(arg0, arg1, arg2, arg3, arg4, arg5, fid, eid uint64) (errorCode int64, value uint64)
