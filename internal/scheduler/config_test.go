package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/clock"
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/config"
	obsmetrics "github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/observability/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProvideConfig(t *testing.T) {
	regCfg := config.DefaultRegistryConfig()
	regCfg.BillStatusCron = "15 3 * * *"
	regCfg.SchedulerRunOnStart = true

	cfg := ProvideConfig(config.NewStaticRegistryConfigHolder(regCfg))

	assert.Equal(t, "15 3 * * *", cfg.BillStatusSpec)
	assert.Equal(t, regCfg.AccrualCycleCron, cfg.AccrualCycleSpec)
	assert.Equal(t, regCfg.LeaseExpiryCron, cfg.LeaseExpirySpec)
	assert.True(t, cfg.RunOnStart)
}

func TestConfigWithDefaults(t *testing.T) {
	cfg := Config{RunOnStart: true}.withDefaults()
	defaults := DefaultConfig()

	assert.Equal(t, defaults.BillStatusSpec, cfg.BillStatusSpec)
	assert.Equal(t, defaults.AccrualCycleSpec, cfg.AccrualCycleSpec)
	assert.Equal(t, defaults.LeaseExpirySpec, cfg.LeaseExpirySpec)
	assert.True(t, cfg.RunOnStart)
}

func TestStartAllRunOnStart(t *testing.T) {
	svc := &fakeBillingSvc{ran: make(chan string, 3)}
	sched, err := New(Params{
		Log:        zap.NewNop(),
		Clock:      clock.SystemClock{},
		BillingSvc: svc,
		Metrics:    obsmetrics.NewSchedulerMetrics(prometheus.NewRegistry()),
		Config:     Config{RunOnStart: true},
	})
	require.NoError(t, err)

	require.NoError(t, sched.StartAll(context.Background()))
	defer sched.StopAll()

	seen := map[string]bool{}
	for range 3 {
		select {
		case name := <-svc.ran:
			seen[name] = true
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for startup runs, got %v", seen)
		}
	}
	assert.True(t, seen[JobBillStatus])
	assert.True(t, seen[JobAccrualCycle])
	assert.True(t, seen[JobLeaseExpiry])
}
