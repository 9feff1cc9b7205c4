package cmdutil

import (
	"os"
	"os/signal"
	"syscall"
)

// InterruptChan returns a channel that is closed on the first SIGINT or SIGTERM.
// Every receiver observes the close, so several services can wait on it.
func InterruptChan() <-chan struct{} {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		<-sigChan
		signal.Stop(sigChan)
		close(done)
	}()

	return done
}
