package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid  PaymentStatus = "UNPAID"
	PaymentStatusOverdue PaymentStatus = "OVERDUE"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// BillingRecord is one installment obligation for a leased parcel.
// Status, interest and penalty fields are owned by the scheduled jobs;
// amount_paid and remaining_amount are owned by payment recording.
type BillingRecord struct {
	ID               snowflake.ID    `gorm:"primaryKey;column:id" json:"id"`
	UPIN             string          `gorm:"column:upin" json:"upin"`
	FiscalYear       int             `gorm:"column:fiscal_year" json:"fiscal_year"`
	BasePayment      decimal.Decimal `gorm:"column:base_payment;type:decimal(18,2)" json:"base_payment"`
	InterestAmount   decimal.Decimal `gorm:"column:interest_amount;type:decimal(18,2)" json:"interest_amount"`
	InterestRateUsed decimal.Decimal `gorm:"column:interest_rate_used;type:decimal(10,4)" json:"interest_rate_used"`
	PenaltyAmount    decimal.Decimal `gorm:"column:penalty_amount;type:decimal(18,2)" json:"penalty_amount"`
	AmountDue        decimal.Decimal `gorm:"column:amount_due;type:decimal(18,2)" json:"amount_due"`
	AmountPaid       decimal.Decimal `gorm:"column:amount_paid;type:decimal(18,2)" json:"amount_paid"`
	RemainingAmount  decimal.Decimal `gorm:"column:remaining_amount;type:decimal(18,2)" json:"remaining_amount"`
	PaymentStatus    PaymentStatus   `gorm:"column:payment_status" json:"payment_status"`
	DueDate          *time.Time      `gorm:"column:due_date" json:"due_date,omitempty"`
	LeaseExpiredFlag bool            `gorm:"column:lease_expired_flag" json:"lease_expired_flag"`
	CreatedAt        time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (BillingRecord) TableName() string { return "billing_records" }

// JobResult summarizes one lifecycle job run. A failed run reports zero
// updates; partial updates never survive a failure.
type JobResult struct {
	UpdatedCount    int64 `json:"updated_count"`
	ExecutionTimeMs int64 `json:"execution_time_ms"`
}

// Service runs the time-driven lifecycle jobs over billing records and
// leases. Each run is one atomic transaction.
type Service interface {
	// RunBillStatus moves current-fiscal-year UNPAID bills past their due
	// date to OVERDUE.
	RunBillStatus(ctx context.Context) (JobResult, error)
	// RunInterestAccrual recomputes interest on UNPAID and OVERDUE bills
	// from the effective lease interest rate. amount_due is rebuilt as
	// base_payment + interest; penalty is re-added by RunPenaltyAccrual,
	// which must run after this within the same cycle.
	RunInterestAccrual(ctx context.Context) (JobResult, error)
	// RunPenaltyAccrual recomputes penalty on OVERDUE bills from days
	// overdue and the effective penalty and interest rates.
	RunPenaltyAccrual(ctx context.Context) (JobResult, error)
	// RunAccrualCycle runs interest then penalty sequentially as one
	// logical cycle.
	RunAccrualCycle(ctx context.Context) (JobResult, error)
	// RunLeaseExpiry moves ACTIVE leases past their expiry date to EXPIRED
	// and applies the configured follow-up to their billing records.
	RunLeaseExpiry(ctx context.Context) (JobResult, error)
}
