package preflight

import (
	"context"

	"oledstat/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config. Service checks
// are skipped when their settings are missing; the settings check already
// reports that.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckServiceSettings(cfg),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}

	if cfg.SABnzbd.URL != "" && cfg.SABnzbd.APIKey != "" {
		results = append(results, CheckSABnzbd(ctx, cfg))
	}
	if cfg.Tautulli.URL != "" && cfg.Tautulli.APIKey != "" {
		results = append(results, CheckTautulli(ctx, cfg))
	}

	results = append(results, CheckI2CDevice(cfg.Display), CheckFont(cfg.Display))
	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
