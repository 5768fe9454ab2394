package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type RateType string

const (
	RateTypePenalty       RateType = "PENALTY_RATE"
	RateTypeLeaseInterest RateType = "LEASE_INTEREST_RATE"
	RateTypeGraceDays     RateType = "LATE_PAYMENT_GRACE_DAYS"
)

func (t RateType) Valid() bool {
	switch t {
	case RateTypePenalty, RateTypeLeaseInterest, RateTypeGraceDays:
		return true
	}
	return false
}

// RateConfiguration stores a rate with a temporal validity window. Multiple
// historical rows may exist per rate type; the currently effective one is the
// most recent by effective_from whose window contains now.
type RateConfiguration struct {
	ID             snowflake.ID    `gorm:"primaryKey;column:id" json:"id"`
	RateType       RateType        `gorm:"column:rate_type" json:"rate_type"`
	Value          decimal.Decimal `gorm:"column:value;type:decimal(10,4)" json:"value"`
	EffectiveFrom  time.Time       `gorm:"column:effective_from" json:"effective_from"`
	EffectiveUntil *time.Time      `gorm:"column:effective_until" json:"effective_until,omitempty"`
	IsActive       bool            `gorm:"column:is_active" json:"is_active"`
	CreatedAt      time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (RateConfiguration) TableName() string { return "rate_configurations" }

type CreateRateRequest struct {
	RateType       RateType        `json:"rate_type"`
	Value          decimal.Decimal `json:"value"`
	EffectiveFrom  time.Time       `json:"effective_from"`
	EffectiveUntil *time.Time      `json:"effective_until"`
}

type Service interface {
	// CurrentRate resolves the effective value for rateType, failing with
	// ErrNoActiveRate when none is configured. Callers must not default.
	CurrentRate(ctx context.Context, rateType RateType) (decimal.Decimal, error)
	// GraceDays resolves the late-payment grace period, falling back to the
	// configured default when no rate row exists. This asymmetry with
	// CurrentRate is deliberate.
	GraceDays(ctx context.Context) (int, error)
	Create(ctx context.Context, req CreateRateRequest) (*RateConfiguration, error)
	List(ctx context.Context, rateType RateType) ([]RateConfiguration, error)
}

var (
	ErrNoActiveRate           = errors.New("no_active_rate")
	ErrInvalidRateType        = errors.New("invalid_rate_type")
	ErrInvalidEffectiveWindow = errors.New("invalid_effective_window")
)
