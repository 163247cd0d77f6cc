package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/solcraft/internal/client/cli"
	"github.com/dmitrijs2005/solcraft/internal/client/config"
	"github.com/dmitrijs2005/solcraft/internal/flagx"
)

func main() {

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	args := flagx.StripArgs(os.Args[1:], config.GlobalFlags)

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx, args); err != nil {
		if errors.Is(err, cli.ErrUsage) {
			log.Print(err)
			cli.Usage(os.Stderr)
			stop()
			os.Exit(2)
		}
		log.Fatalf("%v", err)
	}
}
