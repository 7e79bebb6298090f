package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/repomap/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := cli.New(os.Stderr, cli.LogInfo)
	err := c.RootCommand().ExecuteContext(ctx)
	cli.PrintError(os.Stderr, err)
	return cli.ExitCode(err)
}
