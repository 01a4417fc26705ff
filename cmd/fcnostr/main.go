package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	fcnostrcmd "github.com/louisbranch/freeciv-nostr/internal/cmd/fcnostr"
	"github.com/louisbranch/freeciv-nostr/internal/platform/config"
)

func main() {
	cfg, err := fcnostrcmd.ParseConfig()
	if err != nil {
		config.Exitf("parse config: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = fcnostrcmd.Run(ctx, cfg, os.Args[1:], fcnostrcmd.IO{In: os.Stdin, Out: os.Stdout, Err: os.Stderr})
	if err != nil && !errors.Is(err, flag.ErrHelp) {
		stop()
		config.Exitf("%v", err)
	}
}
