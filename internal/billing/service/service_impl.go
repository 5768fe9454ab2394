package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/billing/domain"
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/clock"
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/config"
	ratedomain "github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/rate/domain"
	registrydomain "github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/registry/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var daysPerYear = decimal.NewFromInt(365)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	RateSvc     ratedomain.Service
	RegistryCfg *config.RegistryConfigHolder
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	rateSvc     ratedomain.Service
	registryCfg *config.RegistryConfigHolder
}

func NewService(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("billing.service"),
		clock:       p.Clock,
		rateSvc:     p.RateSvc,
		registryCfg: p.RegistryCfg,
	}
}

func (s *Service) RunBillStatus(ctx context.Context) (domain.JobResult, error) {
	start := s.clock.Now()
	fiscalYear := s.fiscalYearAt(start)

	res := s.db.WithContext(ctx).Exec(
		`UPDATE billing_records
		 SET payment_status = ?, updated_at = ?
		 WHERE fiscal_year = ?
		   AND payment_status = ?
		   AND due_date IS NOT NULL
		   AND due_date < ?`,
		domain.PaymentStatusOverdue,
		start,
		fiscalYear,
		domain.PaymentStatusUnpaid,
		start,
	)
	if res.Error != nil {
		return domain.JobResult{}, res.Error
	}

	result := domain.JobResult{
		UpdatedCount:    res.RowsAffected,
		ExecutionTimeMs: s.elapsedMs(start),
	}
	s.log.Info("bill status run complete",
		zap.Int("fiscal_year", fiscalYear),
		zap.Int64("updated", result.UpdatedCount),
	)
	return result, nil
}

func (s *Service) RunInterestAccrual(ctx context.Context) (domain.JobResult, error) {
	start := s.clock.Now()
	fiscalYear := s.fiscalYearAt(start)

	interestRate, err := s.rateSvc.CurrentRate(ctx, ratedomain.RateTypeLeaseInterest)
	if err != nil {
		return domain.JobResult{}, fmt.Errorf("interest accrual: %w", err)
	}

	var updated int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bills []domain.BillingRecord
		err := tx.WithContext(ctx).Raw(
			`SELECT id, base_payment, remaining_amount
			 FROM billing_records
			 WHERE fiscal_year = ? AND payment_status IN (?, ?)
			 ORDER BY id`,
			fiscalYear,
			domain.PaymentStatusUnpaid,
			domain.PaymentStatusOverdue,
		).Scan(&bills).Error
		if err != nil {
			return err
		}
		for _, bill := range bills {
			if bill.RemainingAmount.LessThanOrEqual(decimal.Zero) {
				continue
			}
			interest := bill.RemainingAmount.Mul(interestRate).Round(2)
			amountDue := bill.BasePayment.Add(interest)
			res := tx.WithContext(ctx).Exec(
				`UPDATE billing_records
				 SET interest_amount = ?, interest_rate_used = ?, amount_due = ?, updated_at = ?
				 WHERE id = ?`,
				interest,
				interestRate,
				amountDue,
				start,
				bill.ID,
			)
			if res.Error != nil {
				return res.Error
			}
			updated += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return domain.JobResult{}, err
	}

	result := domain.JobResult{
		UpdatedCount:    updated,
		ExecutionTimeMs: s.elapsedMs(start),
	}
	s.log.Info("interest accrual run complete",
		zap.Int("fiscal_year", fiscalYear),
		zap.String("interest_rate", interestRate.String()),
		zap.Int64("updated", result.UpdatedCount),
	)
	return result, nil
}

func (s *Service) RunPenaltyAccrual(ctx context.Context) (domain.JobResult, error) {
	start := s.clock.Now()
	fiscalYear := s.fiscalYearAt(start)

	penaltyRate, err := s.rateSvc.CurrentRate(ctx, ratedomain.RateTypePenalty)
	if err != nil {
		return domain.JobResult{}, fmt.Errorf("penalty accrual: %w", err)
	}
	interestRate, err := s.rateSvc.CurrentRate(ctx, ratedomain.RateTypeLeaseInterest)
	if err != nil {
		return domain.JobResult{}, fmt.Errorf("penalty accrual: %w", err)
	}
	combinedRate := penaltyRate.Add(interestRate)

	var updated int64
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var bills []domain.BillingRecord
		err := tx.WithContext(ctx).Raw(
			`SELECT id, base_payment, interest_amount, due_date
			 FROM billing_records
			 WHERE fiscal_year = ? AND payment_status = ? AND due_date IS NOT NULL
			 ORDER BY id`,
			fiscalYear,
			domain.PaymentStatusOverdue,
		).Scan(&bills).Error
		if err != nil {
			return err
		}
		for _, bill := range bills {
			daysOverdue := daysOverdueAt(start, *bill.DueDate)
			if daysOverdue <= 0 {
				continue
			}
			baseAmount := bill.BasePayment.Add(bill.InterestAmount)
			penalty := baseAmount.
				Mul(combinedRate).
				Mul(decimal.NewFromInt(daysOverdue)).
				Div(daysPerYear).
				Round(2)
			amountDue := baseAmount.Add(penalty)
			res := tx.WithContext(ctx).Exec(
				`UPDATE billing_records
				 SET penalty_amount = ?, amount_due = ?, updated_at = ?
				 WHERE id = ?`,
				penalty,
				amountDue,
				start,
				bill.ID,
			)
			if res.Error != nil {
				return res.Error
			}
			updated += res.RowsAffected
		}
		return nil
	})
	if err != nil {
		return domain.JobResult{}, err
	}

	result := domain.JobResult{
		UpdatedCount:    updated,
		ExecutionTimeMs: s.elapsedMs(start),
	}
	s.log.Info("penalty accrual run complete",
		zap.Int("fiscal_year", fiscalYear),
		zap.String("combined_rate", combinedRate.String()),
		zap.Int64("updated", result.UpdatedCount),
	)
	return result, nil
}

// RunAccrualCycle orders interest before penalty so penalty always compounds
// on this cycle's interest, not last cycle's.
func (s *Service) RunAccrualCycle(ctx context.Context) (domain.JobResult, error) {
	start := s.clock.Now()

	interest, err := s.RunInterestAccrual(ctx)
	if err != nil {
		return domain.JobResult{}, err
	}
	penalty, err := s.RunPenaltyAccrual(ctx)
	if err != nil {
		return domain.JobResult{}, err
	}

	return domain.JobResult{
		UpdatedCount:    interest.UpdatedCount + penalty.UpdatedCount,
		ExecutionTimeMs: s.elapsedMs(start),
	}, nil
}

func (s *Service) RunLeaseExpiry(ctx context.Context) (domain.JobResult, error) {
	start := s.clock.Now()
	followUp := s.registryCfg.Current().LeaseExpiryFollowUp

	var updated int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var expiring []registrydomain.LeaseAgreement
		err := tx.WithContext(ctx).Raw(
			`SELECT id, upin FROM lease_agreements
			 WHERE status = ? AND deleted = ? AND expiry_date < ?
			 ORDER BY id`,
			registrydomain.LeaseStatusActive,
			false,
			start,
		).Scan(&expiring).Error
		if err != nil {
			return err
		}
		if len(expiring) == 0 {
			return nil
		}

		res := tx.WithContext(ctx).Exec(
			`UPDATE lease_agreements
			 SET status = ?, updated_at = ?
			 WHERE status = ? AND deleted = ? AND expiry_date < ?`,
			registrydomain.LeaseStatusExpired,
			start,
			registrydomain.LeaseStatusActive,
			false,
			start,
		)
		if res.Error != nil {
			return res.Error
		}
		updated = res.RowsAffected

		if followUp != config.LeaseExpiryFollowUpFlagBills {
			return nil
		}
		upins := make([]string, 0, len(expiring))
		for _, lease := range expiring {
			upins = append(upins, lease.UPIN)
		}
		return tx.WithContext(ctx).Exec(
			`UPDATE billing_records
			 SET lease_expired_flag = ?, updated_at = ?
			 WHERE upin IN (?) AND payment_status IN (?, ?)`,
			true,
			start,
			upins,
			domain.PaymentStatusUnpaid,
			domain.PaymentStatusOverdue,
		).Error
	})
	if err != nil {
		return domain.JobResult{}, err
	}

	result := domain.JobResult{
		UpdatedCount:    updated,
		ExecutionTimeMs: s.elapsedMs(start),
	}
	s.log.Info("lease expiry run complete",
		zap.String("follow_up", followUp),
		zap.Int64("updated", result.UpdatedCount),
	)
	return result, nil
}

func (s *Service) elapsedMs(start time.Time) int64 {
	return s.clock.Now().Sub(start).Milliseconds()
}

func (s *Service) fiscalYearAt(t time.Time) int {
	cfg := s.registryCfg.Current()
	return domain.FiscalYearOn(t, cfg.FiscalYearStartMonth, cfg.FiscalYearStartDay)
}

func daysOverdueAt(now, dueDate time.Time) int64 {
	hours := now.Sub(dueDate).Abs().Hours()
	return int64(math.Ceil(hours / 24))
}
