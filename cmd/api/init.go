package main

import (
	"context"

	"go-chi-calculator/internal/calculator"
	"go-chi-calculator/internal/config"
	"go-chi-calculator/internal/observability"
)

// initMetrics initialises the OTLP meter provider and then the calculator's
// instruments, which must be created against that provider.
func initMetrics(ctx context.Context, cfg config.Config) (func(context.Context) error, error) {
	shutdown, err := observability.InitMetrics(ctx, cfg.ServiceName)
	if err != nil {
		return nil, err
	}

	if err := calculator.InitMetrics(); err != nil {
		return nil, err
	}

	return shutdown, nil
}
