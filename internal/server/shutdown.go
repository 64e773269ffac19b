package server

import (
	"os"
	"os/signal"
	"syscall"
)

// shutdownSignal fires on the first interrupt or terminate signal.
func shutdownSignal() <-chan os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	return quit
}
