package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"podpilot/internal/config"
	"podpilot/internal/ui/tui"

	flags "github.com/jessevdk/go-flags"
)

var BuildVersion = "dev"

func main() {
	rootCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	opts, err := config.ParseOptions(config.DefaultStateFile)
	if err != nil {
		var flagErr *flags.Error
		if errors.As(err, &flagErr) && flagErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := config.ValidateRequired(opts); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Two controllers driving the same pod state file would fight over it.
	lock, lockedByOther, lockErr := acquireInstanceLock()
	if lockErr != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize single-instance lock:", lockErr)
		os.Exit(2)
	}
	if lockedByOther {
		if dialogAvailable() {
			hideAndDetachConsoleForGUI()
			showAlreadyRunningDialog()
		} else {
			fmt.Fprintln(os.Stderr, "PodPilot is already running.")
		}
		os.Exit(1)
	}
	defer func() {
		_ = lock.Release()
	}()

	tui.Run(rootCtx, BuildVersion, opts)
}
