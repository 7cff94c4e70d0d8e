package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/Rana718/docprobe/cmd"
	"github.com/fatih/color"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		color.Red("❌ %v", err)
		stop()
		os.Exit(1)
	}
}
