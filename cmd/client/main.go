package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/fitclub/internal/buildinfo"
	"github.com/dmitrijs2005/fitclub/internal/client/cli"
	"github.com/dmitrijs2005/fitclub/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.LoadConfig()
	app, cleanup, err := cli.Setup(ctx, cfg, os.Stdin, os.Stdout, os.Stderr)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.Printf("%v", err)
		}
	}()

	app.Run(ctx)

}
