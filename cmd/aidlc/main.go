package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/charmbracelet/fang"

	"github.com/ZebulonRouseFrantzich/aidlc/internal/cli"
)

// Version will be set at build time via -ldflags
var Version = "v0.0.1-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)

	err := fang.Execute(ctx, cli.NewRootCmd(),
		fang.WithVersion(Version),
		fang.WithErrorHandler(cli.ErrorHandler),
	)
	stop()

	if err != nil {
		os.Exit(1)
	}
}
