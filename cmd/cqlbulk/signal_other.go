//go:build !unix

package main

import (
	"os"
	"os/signal"
)

// notifyShutdown is the non-Unix fallback: golang.org/x/sys/unix's signal
// constants only exist on Unix builds, so this path uses the portable
// os.Interrupt instead.
func notifyShutdown() (<-chan os.Signal, func()) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	return ch, func() { signal.Stop(ch) }
}
