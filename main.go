package main

import (
	"fmt"
	"os"

	"austimes-tools/internal/cli"
	"austimes-tools/internal/config"
	"austimes-tools/internal/observability/metrics"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "austimes:", err)
		os.Exit(1)
	}
}

func run() error {
	settings, err := config.Load()
	if err != nil {
		return err
	}
	log, err := cli.NewLogger(settings)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	metrics.Init()
	return cli.NewRootCommand(settings, log).Execute()
}
