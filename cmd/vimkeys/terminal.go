package main

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/vimkeys/internal/app"
)

func runTerminal(cmd *cobra.Command, g *globalFlags) error {
	// The screen owns stderr while it runs.
	opts, closer, err := g.options(io.Discard)
	if err != nil {
		return err
	}
	defer closer.Close()
	opts.Watch = true

	application, err := app.New(opts)
	if err != nil {
		return err
	}
	defer application.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	go func() {
		if _, ok := <-signals; ok {
			_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
		}
	}()

	return application.Run(screen)
}
