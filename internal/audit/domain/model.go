package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog is an append-only record of a state-changing event. The core
// never reads these back for business decisions; they are a pure sink.
type AuditLog struct {
	ID         snowflake.ID      `gorm:"primaryKey;column:id" json:"id"`
	UserID     string            `gorm:"column:user_id" json:"user_id"`
	Action     string            `gorm:"column:action" json:"action"`
	EntityType string            `gorm:"column:entity_type" json:"entity_type"`
	EntityID   *string           `gorm:"column:entity_id" json:"entity_id,omitempty"`
	Changes    datatypes.JSONMap `gorm:"column:changes" json:"changes"`
	IPAddress  *string           `gorm:"column:ip_address" json:"ip_address,omitempty"`
	CreatedAt  time.Time         `gorm:"column:created_at" json:"created_at"`
}

func (AuditLog) TableName() string { return "audit_logs" }

// Entry is the input for a new audit record. UserID and IPAddress default
// from the actor context when empty.
type Entry struct {
	UserID     string
	Action     string
	EntityType string
	EntityID   string
	Changes    map[string]any
}

type ListRequest struct {
	Action     string
	EntityType string
	EntityID   string
	UserID     string
	StartAt    *time.Time
	EndAt      *time.Time
	Limit      int
}

type Service interface {
	// Record appends an audit entry. Failures are logged by the service;
	// callers that must not fail on audit errors ignore the return value.
	Record(ctx context.Context, entry Entry) error
	List(ctx context.Context, req ListRequest) ([]AuditLog, error)
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *AuditLog) error
	List(ctx context.Context, db *gorm.DB, req ListRequest) ([]AuditLog, error)
}

var (
	ErrInvalidAction    = errors.New("invalid_action")
	ErrInvalidTimeRange = errors.New("invalid_time_range")
)
