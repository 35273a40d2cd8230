// Package signal turns SIGINT/SIGTERM into a stop channel.
package signal

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var (
	once   sync.Once
	stopCh chan struct{}
)

// SetupSignalHandler returns a channel that is closed on the first SIGINT or
// SIGTERM. A second signal exits the process with status 1. Every call
// returns the same channel.
func SetupSignalHandler() <-chan struct{} {
	once.Do(func() {
		stopCh = make(chan struct{})
		c := make(chan os.Signal, 2)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-c
			close(stopCh)
			<-c
			os.Exit(1) // second signal. Exit directly.
		}()
	})
	return stopCh
}
