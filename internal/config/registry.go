package config

import (
	"fmt"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Follow-up actions applied to a lease's billing records after expiry.
// The billing policy for expired leases is operational, not legal, so it
// lives in config rather than code.
const (
	LeaseExpiryFollowUpNone      = "none"
	LeaseExpiryFollowUpFlagBills = "flag_unpaid_bills"
)

// RegistryConfig carries operational policy that ops may change without a
// redeploy: the grace-day fallback used when no LATE_PAYMENT_GRACE_DAYS rate
// row is configured, the lease-expiry follow-up action, the fiscal-year
// start marker, and the cron expressions for the scheduled jobs.
type RegistryConfig struct {
	GraceDaysFallback   int    `mapstructure:"graceDaysFallback"`
	LeaseExpiryFollowUp string `mapstructure:"leaseExpiryFollowUp"`

	// Gregorian marker for the first day of the fiscal year (Hamle 1).
	FiscalYearStartMonth int `mapstructure:"fiscalYearStartMonth"`
	FiscalYearStartDay   int `mapstructure:"fiscalYearStartDay"`

	BillStatusCron   string `mapstructure:"billStatusCron"`
	AccrualCycleCron string `mapstructure:"accrualCycleCron"`
	LeaseExpiryCron  string `mapstructure:"leaseExpiryCron"`

	// SchedulerRunOnStart fires every job once when the scheduler starts,
	// on top of its cron schedule.
	SchedulerRunOnStart bool `mapstructure:"schedulerRunOnStart"`
}

func DefaultRegistryConfig() RegistryConfig {
	return RegistryConfig{
		GraceDaysFallback:    30,
		LeaseExpiryFollowUp:  LeaseExpiryFollowUpNone,
		FiscalYearStartMonth: 7,
		FiscalYearStartDay:   8,
		BillStatusCron:       "0 1 * * *",
		AccrualCycleCron:     "0 2 * * *",
		LeaseExpiryCron:      "30 1 * * *",
		SchedulerRunOnStart:  false,
	}
}

// RegistryConfigHolder holds the current RegistryConfig and hot-reloads it
// when the config file changes.
type RegistryConfigHolder struct {
	current atomic.Value // holds RegistryConfig
}

func NewRegistryConfigHolder() (*RegistryConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("registry")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/landreg/config")
	v.AddConfigPath("/etc/landreg")
	v.AddConfigPath(".")

	v.SetEnvPrefix("LANDREG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultRegistryConfig()
	v.SetDefault("registry.graceDaysFallback", defaults.GraceDaysFallback)
	v.SetDefault("registry.leaseExpiryFollowUp", defaults.LeaseExpiryFollowUp)
	v.SetDefault("registry.fiscalYearStartMonth", defaults.FiscalYearStartMonth)
	v.SetDefault("registry.fiscalYearStartDay", defaults.FiscalYearStartDay)
	v.SetDefault("registry.billStatusCron", defaults.BillStatusCron)
	v.SetDefault("registry.accrualCycleCron", defaults.AccrualCycleCron)
	v.SetDefault("registry.leaseExpiryCron", defaults.LeaseExpiryCron)
	v.SetDefault("registry.schedulerRunOnStart", defaults.SchedulerRunOnStart)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg RegistryConfig
	if err := v.UnmarshalKey("registry", &cfg); err != nil {
		return nil, err
	}
	if err := validateRegistryConfig(cfg); err != nil {
		return nil, err
	}

	holder := &RegistryConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated RegistryConfig
		if err := v.UnmarshalKey("registry", &updated); err != nil {
			log.Printf("[registry-config] reload failed: %v", err)
			return
		}
		if err := validateRegistryConfig(updated); err != nil {
			log.Printf("[registry-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[registry-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticRegistryConfigHolder returns a holder frozen at cfg. Used by tests
// and by callers that manage config themselves.
func NewStaticRegistryConfigHolder(cfg RegistryConfig) *RegistryConfigHolder {
	holder := &RegistryConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *RegistryConfigHolder) Current() RegistryConfig {
	return h.current.Load().(RegistryConfig)
}

func validateRegistryConfig(cfg RegistryConfig) error {
	if cfg.GraceDaysFallback < 0 {
		return fmt.Errorf("graceDaysFallback must be >= 0, got %d", cfg.GraceDaysFallback)
	}
	switch cfg.LeaseExpiryFollowUp {
	case LeaseExpiryFollowUpNone, LeaseExpiryFollowUpFlagBills:
	default:
		return fmt.Errorf("unknown leaseExpiryFollowUp %q", cfg.LeaseExpiryFollowUp)
	}
	if cfg.FiscalYearStartMonth < 1 || cfg.FiscalYearStartMonth > 12 {
		return fmt.Errorf("fiscalYearStartMonth must be 1-12, got %d", cfg.FiscalYearStartMonth)
	}
	if cfg.FiscalYearStartDay < 1 || cfg.FiscalYearStartDay > 28 {
		return fmt.Errorf("fiscalYearStartDay must be 1-28, got %d", cfg.FiscalYearStartDay)
	}
	return nil
}
