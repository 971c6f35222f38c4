// Package sbi implements the SBI firmware-call builder: a single ecall
// trap carrying up to six arguments, a function id, and an extension id,
// returning an (error, value) pair.
//
// The actual trap instruction lives in assembly (ecall_riscv64.s); the Go
// side only declares its signature, the same split kernel.go uses for its
// assembly-side primitives such as mmio_write/mmio_read (there reached via
// go:linkname into a separate lib.s; here the assembly lives directly
// alongside its Go declaration, the more common shape for a
// stdlib-style //go:noescape stub).
package sbi

// ShutdownEID is the System Reset Extension's legacy shutdown id, used
// directly (no SBI System Reset Extension probing) since this kernel
// never needs a reset reason.
const ShutdownEID = 0x5352_5354

// ConsolePutcEID is the legacy console-putchar extension id.
const ConsolePutcEID = 1

// Error is the set of negative SBI error codes the calling convention
// reserves.
type Error int64

const (
	ErrFailed           Error = -1
	ErrNotSupported      Error = -2
	ErrInvalidParam      Error = -3
	ErrDenied            Error = -4
	ErrInvalidAddress    Error = -5
	ErrAlreadyAvailable  Error = -6
	ErrAlreadyStarted    Error = -7
	ErrAlreadyStopped    Error = -8
)

func (e Error) String() string {
	switch e {
	case ErrFailed:
		return "failed"
	case ErrNotSupported:
		return "not supported"
	case ErrInvalidParam:
		return "invalid parameter"
	case ErrDenied:
		return "denied"
	case ErrInvalidAddress:
		return "invalid address"
	case ErrAlreadyAvailable:
		return "already available"
	case ErrAlreadyStarted:
		return "already started"
	case ErrAlreadyStopped:
		return "already stopped"
	default:
		return "unknown SBI error"
	}
}

// Call is a builder for a single ecall. The zero value is a call with
// every argument, fid, and eid set to zero.
type Call struct {
	arg0, arg1, arg2, arg3, arg4, arg5 uint64
	fid, eid                          uint64
}

// New returns an empty Call builder.
func New() *Call { return &Call{} }

func (c *Call) WithArg0(v uint64) *Call { c.arg0 = v; return c }
func (c *Call) WithArg1(v uint64) *Call { c.arg1 = v; return c }
func (c *Call) WithArg2(v uint64) *Call { c.arg2 = v; return c }
func (c *Call) WithArg3(v uint64) *Call { c.arg3 = v; return c }
func (c *Call) WithArg4(v uint64) *Call { c.arg4 = v; return c }
func (c *Call) WithArg5(v uint64) *Call { c.arg5 = v; return c }
func (c *Call) WithFID(v uint64) *Call  { c.fid = v; return c }
func (c *Call) WithEID(v uint64) *Call  { c.eid = v; return c }

// Ret is the (error, value) pair an ecall returns in a0/a1.
type Ret struct {
	errorCode int64
	value     uint64
}

// IsSuccess reports whether the call succeeded (error code 0).
func (r Ret) IsSuccess() bool { return r.errorCode == 0 }

// Error returns the call's error, or (0, false) on success.
func (r Ret) Error() (Error, bool) {
	if r.IsSuccess() {
		return 0, false
	}
	return Error(r.errorCode), true
}

// Value returns the call's return value. Only valid when IsSuccess.
func (r Ret) Value() uint64 { return r.value }

// Call issues the ecall with the builder's arguments in a0..a5, fid in
// a6, eid in a7, and returns the (error, value) pair from a0/a1.
func (c *Call) Call() Ret {
	errorCode, value := ecall(c.arg0, c.arg1, c.arg2, c.arg3, c.arg4, c.arg5, c.fid, c.eid)
	return Ret{errorCode: errorCode, value: value}
}

// Shutdown asks the firmware to power off the machine. It only returns
// if the firmware call itself failed (e.g. no System Reset Extension).
func Shutdown() Ret {
	return New().WithEID(ShutdownEID).Call()
}

// PutChar writes a single byte to the firmware console via the legacy
// console-putchar extension.
func PutChar(c byte) Ret {
	return New().WithArg0(uint64(c)).WithEID(ConsolePutcEID).Call()
}
