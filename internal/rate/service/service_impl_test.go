package service

import (
	"context"
	"testing"
	"time"

	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/clock"
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/config"
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/rate/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T, clk clock.Clock) (domain.Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	db.Exec(`CREATE TABLE IF NOT EXISTS rate_configurations (
		id BIGINT PRIMARY KEY,
		rate_type TEXT NOT NULL,
		value TEXT NOT NULL,
		effective_from TIMESTAMP NOT NULL,
		effective_until TIMESTAMP,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	svc := NewService(Params{
		DB:          db,
		Log:         zap.NewNop(),
		Clock:       clk,
		GenID:       node,
		RegistryCfg: config.NewStaticRegistryConfigHolder(config.DefaultRegistryConfig()),
	})
	return svc, db
}

func TestCurrentRate(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	clk := clock.NewFakeClock(now)
	svc, _ := newTestService(t, clk)
	ctx := context.Background()

	t.Run("no active rate", func(t *testing.T) {
		_, err := svc.CurrentRate(ctx, domain.RateTypePenalty)
		assert.ErrorIs(t, err, domain.ErrNoActiveRate)
	})

	t.Run("invalid rate type", func(t *testing.T) {
		_, err := svc.CurrentRate(ctx, domain.RateType("DISCOUNT_RATE"))
		assert.ErrorIs(t, err, domain.ErrInvalidRateType)
	})

	t.Run("single valid row", func(t *testing.T) {
		_, err := svc.Create(ctx, domain.CreateRateRequest{
			RateType:      domain.RateTypePenalty,
			Value:         decimal.NewFromFloat(0.02),
			EffectiveFrom: now.AddDate(-1, 0, 0),
		})
		require.NoError(t, err)

		value, err := svc.CurrentRate(ctx, domain.RateTypePenalty)
		require.NoError(t, err)
		assert.True(t, value.Equal(decimal.NewFromFloat(0.02)), value.String())
	})

	t.Run("overlapping rows pick latest effective_from", func(t *testing.T) {
		_, err := svc.Create(ctx, domain.CreateRateRequest{
			RateType:      domain.RateTypePenalty,
			Value:         decimal.NewFromFloat(0.03),
			EffectiveFrom: now.AddDate(0, -1, 0),
		})
		require.NoError(t, err)

		value, err := svc.CurrentRate(ctx, domain.RateTypePenalty)
		require.NoError(t, err)
		assert.True(t, value.Equal(decimal.NewFromFloat(0.03)), value.String())
	})

	t.Run("expired window is ignored", func(t *testing.T) {
		until := now.AddDate(0, 0, -1)
		_, err := svc.Create(ctx, domain.CreateRateRequest{
			RateType:       domain.RateTypeLeaseInterest,
			Value:          decimal.NewFromFloat(0.05),
			EffectiveFrom:  now.AddDate(-1, 0, 0),
			EffectiveUntil: &until,
		})
		require.NoError(t, err)

		_, err = svc.CurrentRate(ctx, domain.RateTypeLeaseInterest)
		assert.ErrorIs(t, err, domain.ErrNoActiveRate)
	})

	t.Run("future effective_from is ignored", func(t *testing.T) {
		_, err := svc.Create(ctx, domain.CreateRateRequest{
			RateType:      domain.RateTypeLeaseInterest,
			Value:         decimal.NewFromFloat(0.07),
			EffectiveFrom: now.AddDate(0, 1, 0),
		})
		require.NoError(t, err)

		_, err = svc.CurrentRate(ctx, domain.RateTypeLeaseInterest)
		assert.ErrorIs(t, err, domain.ErrNoActiveRate)
	})
}

func TestGraceDays(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	clk := clock.NewFakeClock(now)
	svc, _ := newTestService(t, clk)
	ctx := context.Background()

	t.Run("falls back when unconfigured", func(t *testing.T) {
		days, err := svc.GraceDays(ctx)
		require.NoError(t, err)
		assert.Equal(t, 30, days)
	})

	t.Run("uses configured rate when present", func(t *testing.T) {
		_, err := svc.Create(ctx, domain.CreateRateRequest{
			RateType:      domain.RateTypeGraceDays,
			Value:         decimal.NewFromInt(45),
			EffectiveFrom: now.AddDate(0, -1, 0),
		})
		require.NoError(t, err)

		days, err := svc.GraceDays(ctx)
		require.NoError(t, err)
		assert.Equal(t, 45, days)
	})
}
