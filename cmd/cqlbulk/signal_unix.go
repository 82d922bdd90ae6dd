//go:build unix

package main

import (
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// notifyShutdown registers the process-termination signals the workflow
// driver's cooperative-cancellation hook reacts to (spec §5's "a separate
// cleanup task is registered to handle process-termination signals", the
// idiomatic replacement for a JVM shutdown-hook thread). Signal numbers
// come from golang.org/x/sys/unix rather than the stdlib syscall package's
// own constants, since those are only defined on Unix-family builds.
func notifyShutdown() (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.Signal(unix.SIGINT), syscall.Signal(unix.SIGTERM))
	return ch, func() { signal.Stop(ch) }
}
