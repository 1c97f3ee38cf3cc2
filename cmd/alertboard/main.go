package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/evilsocket/islazy/log"

	"github.com/evilsocket/alertboard/core"
)

var (
	conf       = (*core.Config)(nil)
	aggregator = (*core.Aggregator)(nil)
)

func main() {
	var err error

	flag.Parse()

	setup()
	defer cleanup()

	conf, err = core.Load(confFile)
	if err != nil {
		log.Fatal("error loading configuration from %s: %v", confFile, err)
	}

	if source != "" {
		conf.Source = source
	}

	aggregator = core.NewAggregator(conf)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("alertboard starting for %s ...", conf.Source)

	if err := aggregator.Start(ctx); err != nil {
		log.Fatal("%v", err)
	}
}
