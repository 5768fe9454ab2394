package service

import (
	"context"
	"testing"
	"time"

	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/actorcontext"
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/audit/domain"
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/audit/repository"
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/clock"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	db.Exec(`CREATE TABLE IF NOT EXISTS audit_logs (
		id BIGINT PRIMARY KEY,
		user_id TEXT NOT NULL DEFAULT '',
		action TEXT NOT NULL,
		entity_type TEXT NOT NULL DEFAULT '',
		entity_id TEXT,
		changes TEXT,
		ip_address TEXT,
		created_at TIMESTAMP NOT NULL
	)`)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	svc := NewService(Params{
		DB:    db,
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)),
		GenID: node,
		Repo:  repository.Provide(),
	})
	return svc, db
}

func TestRecord(t *testing.T) {
	svc, db := newTestService(t)

	t.Run("defaults identity from actor context", func(t *testing.T) {
		ctx := actorcontext.WithActor(context.Background(), actorcontext.Actor{
			UserID:    "user-9",
			Role:      "SUB_CITY_OFFICER",
			IPAddress: "10.0.0.9",
		})
		err := svc.Record(ctx, domain.Entry{
			Action:     "approval_request.created",
			EntityType: "LAND_PARCELS",
			EntityID:   "MK-01-0001",
			Changes:    map[string]any{"request_id": "42"},
		})
		require.NoError(t, err)

		var row domain.AuditLog
		require.NoError(t, db.Raw(
			`SELECT user_id, action, entity_id, ip_address FROM audit_logs WHERE action = ?`,
			"approval_request.created",
		).Scan(&row).Error)
		assert.Equal(t, "user-9", row.UserID)
		require.NotNil(t, row.EntityID)
		assert.Equal(t, "MK-01-0001", *row.EntityID)
		require.NotNil(t, row.IPAddress)
		assert.Equal(t, "10.0.0.9", *row.IPAddress)
	})

	t.Run("falls back to system user", func(t *testing.T) {
		err := svc.Record(context.Background(), domain.Entry{Action: "scheduler.job_completed"})
		require.NoError(t, err)

		var row domain.AuditLog
		require.NoError(t, db.Raw(
			`SELECT user_id FROM audit_logs WHERE action = ?`,
			"scheduler.job_completed",
		).Scan(&row).Error)
		assert.Equal(t, "system", row.UserID)
	})

	t.Run("rejects empty action", func(t *testing.T) {
		err := svc.Record(context.Background(), domain.Entry{})
		assert.ErrorIs(t, err, domain.ErrInvalidAction)
	})
}

func TestList(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, action := range []string{"a.created", "a.approved", "b.created"} {
		require.NoError(t, svc.Record(ctx, domain.Entry{Action: action, EntityType: "LAND_PARCELS"}))
	}

	t.Run("filters by action", func(t *testing.T) {
		logs, err := svc.List(ctx, domain.ListRequest{Action: "a.created"})
		require.NoError(t, err)
		require.Len(t, logs, 1)
		assert.Equal(t, "a.created", logs[0].Action)
	})

	t.Run("rejects inverted time range", func(t *testing.T) {
		start := time.Now()
		end := start.Add(-time.Hour)
		_, err := svc.List(ctx, domain.ListRequest{StartAt: &start, EndAt: &end})
		assert.ErrorIs(t, err, domain.ErrInvalidTimeRange)
	})
}
