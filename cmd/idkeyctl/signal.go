package main

import (
	"os"
	"os/signal"
)

var (
	// interruptChannel receives the signals listed in signals.
	interruptChannel chan os.Signal

	// addHandlerChannel queues a shutdown hook with mainInterruptHandler.
	addHandlerChannel = make(chan func())

	// interruptHandlersDone is closed once every shutdown hook has run.
	interruptHandlersDone = make(chan struct{})
)

var signals = []os.Signal{os.Interrupt}

// mainInterruptHandler collects shutdown hooks until the first signal
// arrives, then runs them newest first. It must be run as a goroutine.
func mainInterruptHandler() {
	var hooks []func()

	for {
		select {
		case sig := <-interruptChannel:
			log.Infof("Received signal (%s).  Shutting down...", sig)
			for i := len(hooks) - 1; i >= 0; i-- {
				hooks[i]()
			}
			close(interruptHandlersDone)
			return

		case hook := <-addHandlerChannel:
			hooks = append(hooks, hook)
		}
	}
}

// addInterruptHandler registers hook to run on shutdown, starting the
// signal listener on first use.
func addInterruptHandler(hook func()) {
	if interruptChannel == nil {
		interruptChannel = make(chan os.Signal, 1)
		signal.Notify(interruptChannel, signals...)
		go mainInterruptHandler()
	}

	addHandlerChannel <- hook
}
