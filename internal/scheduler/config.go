package scheduler

import (
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/config"
)

// Config fixes each job's cron expression for the lifetime of the process.
// Changing an expression requires a scheduler restart; the job bodies read
// their operational policy live from the registry config holder instead.
type Config struct {
	BillStatusSpec   string
	AccrualCycleSpec string
	LeaseExpirySpec  string
	RunOnStart       bool
}

func DefaultConfig() Config {
	defaults := config.DefaultRegistryConfig()
	return Config{
		BillStatusSpec:   defaults.BillStatusCron,
		AccrualCycleSpec: defaults.AccrualCycleCron,
		LeaseExpirySpec:  defaults.LeaseExpiryCron,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.BillStatusSpec == "" {
		c.BillStatusSpec = defaults.BillStatusSpec
	}
	if c.AccrualCycleSpec == "" {
		c.AccrualCycleSpec = defaults.AccrualCycleSpec
	}
	if c.LeaseExpirySpec == "" {
		c.LeaseExpirySpec = defaults.LeaseExpirySpec
	}
	return c
}

// ProvideConfig snapshots the cron expressions and the run-on-start flag
// from the registry config at process start.
func ProvideConfig(holder *config.RegistryConfigHolder) Config {
	cfg := holder.Current()
	return Config{
		BillStatusSpec:   cfg.BillStatusCron,
		AccrualCycleSpec: cfg.AccrualCycleCron,
		LeaseExpirySpec:  cfg.LeaseExpiryCron,
		RunOnStart:       cfg.SchedulerRunOnStart,
	}
}
