package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/clock"
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/config"
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/rate/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	Clock       clock.Clock
	GenID       *snowflake.Node
	RegistryCfg *config.RegistryConfigHolder
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	clock       clock.Clock
	genID       *snowflake.Node
	registryCfg *config.RegistryConfigHolder
}

func NewService(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("rate.service"),
		clock:       p.Clock,
		genID:       p.GenID,
		registryCfg: p.RegistryCfg,
	}
}

func (s *Service) CurrentRate(ctx context.Context, rateType domain.RateType) (decimal.Decimal, error) {
	if !rateType.Valid() {
		return decimal.Zero, domain.ErrInvalidRateType
	}

	now := s.clock.Now()
	var row domain.RateConfiguration
	err := s.db.WithContext(ctx).Raw(
		`SELECT id, rate_type, value, effective_from, effective_until, is_active
		 FROM rate_configurations
		 WHERE rate_type = ?
		   AND is_active = ?
		   AND effective_from <= ?
		   AND (effective_until IS NULL OR effective_until >= ?)
		 ORDER BY effective_from DESC
		 LIMIT 1`,
		rateType,
		true,
		now,
		now,
	).Scan(&row).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("resolve %s: %w", rateType, err)
	}
	if row.ID == 0 {
		return decimal.Zero, fmt.Errorf("%w: %s", domain.ErrNoActiveRate, rateType)
	}
	return row.Value, nil
}

func (s *Service) GraceDays(ctx context.Context) (int, error) {
	value, err := s.CurrentRate(ctx, domain.RateTypeGraceDays)
	if err != nil {
		if errors.Is(err, domain.ErrNoActiveRate) {
			fallback := s.registryCfg.Current().GraceDaysFallback
			s.log.Debug("grace days unconfigured, using fallback", zap.Int("fallback", fallback))
			return fallback, nil
		}
		return 0, err
	}
	return int(value.IntPart()), nil
}

func (s *Service) Create(ctx context.Context, req domain.CreateRateRequest) (*domain.RateConfiguration, error) {
	if !req.RateType.Valid() {
		return nil, domain.ErrInvalidRateType
	}
	if req.EffectiveFrom.IsZero() {
		return nil, domain.ErrInvalidEffectiveWindow
	}
	if req.EffectiveUntil != nil && req.EffectiveUntil.Before(req.EffectiveFrom) {
		return nil, domain.ErrInvalidEffectiveWindow
	}

	now := s.clock.Now()
	row := &domain.RateConfiguration{
		ID:             s.genID.Generate(),
		RateType:       req.RateType,
		Value:          req.Value,
		EffectiveFrom:  req.EffectiveFrom.UTC(),
		EffectiveUntil: req.EffectiveUntil,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.db.WithContext(ctx).Exec(
		`INSERT INTO rate_configurations (
			id, rate_type, value, effective_from, effective_until, is_active,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID,
		row.RateType,
		row.Value,
		row.EffectiveFrom,
		row.EffectiveUntil,
		row.IsActive,
		row.CreatedAt,
		row.UpdatedAt,
	).Error; err != nil {
		return nil, err
	}
	return row, nil
}

func (s *Service) List(ctx context.Context, rateType domain.RateType) ([]domain.RateConfiguration, error) {
	var rows []domain.RateConfiguration
	stmt := s.db.WithContext(ctx).Model(&domain.RateConfiguration{})
	if rateType != "" {
		if !rateType.Valid() {
			return nil, domain.ErrInvalidRateType
		}
		stmt = stmt.Where("rate_type = ?", rateType)
	}
	if err := stmt.Order("effective_from desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
