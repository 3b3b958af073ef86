package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/simonhull/heron/internal/commands"
	"github.com/simonhull/heron/internal/output"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := commands.NewApp().ExecuteContext(ctx)
	stop()
	if err != nil {
		output.Error(err.Error())
		os.Exit(1)
	}
}
