// Command voxdubd runs the dubbing daemon: it serves the HTTP API and
// processes queued dubbing jobs in the background.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"voxdub/internal/config"
	"voxdub/internal/daemon"
	"voxdub/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "path to the configuration file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	d, err := daemon.Build(cfg, logger)
	if err != nil {
		logger.Error("build daemon", logging.Error(err))
		return err
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("start daemon", logging.Error(err))
		return err
	}

	<-ctx.Done()
	logger.Info("voxdubd shutting down")
	d.Stop()
	return nil
}
