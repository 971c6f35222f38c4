// Package kfatal implements the kernel's single fatal-error path: format
// a message to the firmware console, then ask the firmware to power off.
// If shutdown itself fails, spin forever rather than return into
// undefined state.
//
// Grounded on the SError/IRQ handlers in go/mazarin/exceptions.go,
// which print then spin forever on an unrecoverable condition; this
// generalizes "print then spin" into "print then ask firmware to power
// off, falling back to spin only if that request fails".
package kfatal

import (
	"fmt"

	"yaro/internal/sbi"
)

// Sink is satisfied by sbi.Console and by any test double.
type Sink interface {
	Write(p []byte) (int, error)
}

var out Sink = sbi.Console{}

// SetSink overrides the console fatal messages are written to. Production
// code never needs to call this; sbi.Console is wired by default.
func SetSink(s Sink) { out = s }

// shutdown is invoked after the fatal message is written. It never
// returns in production (see realShutdown); tests replace it so Handle
// itself stays testable.
var shutdown = realShutdown

// Handle formats format/args to the console, then shuts the machine
// down. It never returns in production.
func Handle(format string, args ...any) {
	fmt.Fprintf(sinkWriter{}, "kernel panic: "+format+"\n", args...)
	shutdown()
}

// Recover is deferred at the top of kmain to catch any panic (including
// ones raised by trap.Handle) and route it through Handle instead of
// letting the Go runtime's own unwinder take over.
func Recover() {
	if r := recover(); r != nil {
		Handle("%v", r)
	}
}

// realShutdown asks the firmware to power off. If the firmware call
// fails (no System Reset Extension), it spins forever rather than
// return into a kernel that just declared itself unrecoverable.
func realShutdown() {
	sbi.Shutdown()
	for {
	}
}

// sinkWriter adapts the package-level out Sink to io.Writer so
// fmt.Fprintf can target it.
type sinkWriter struct{}

func (sinkWriter) Write(p []byte) (int, error) { return out.Write(p) }
