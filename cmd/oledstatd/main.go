// Command oledstatd runs the oledstat polling loop as a service. It is the
// same loop as `oledstat run`, with the configuration taken from the default
// location or OLEDSTAT_CONFIG.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"oledstat/internal/config"
	"oledstat/internal/daemonrun"
)

func main() {
	if err := run(context.Background(), os.Getenv("OLEDSTAT_CONFIG")); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string) error {
	cfg, _, _, err := config.Load(strings.TrimSpace(configPath))
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	return daemonrun.Run(ctx, cfg, daemonrun.Options{})
}
