package service

import (
	"context"
	"fmt"

	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/registry/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultListLimit = 100

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(p Params) domain.Service {
	return &Service{
		db:  p.DB,
		log: p.Log.Named("registry.service"),
	}
}

func (s *Service) GetParcel(ctx context.Context, upin string) (*domain.ParcelDetail, error) {
	var parcel domain.LandParcel
	err := s.db.WithContext(ctx).Raw(
		`SELECT upin, sub_city_id, kebele, area_sqm, land_use, land_grade,
		        status, parent_upin, deleted, deleted_at, created_at, updated_at
		 FROM land_parcels
		 WHERE upin = ? AND deleted = ?`,
		upin,
		false,
	).Scan(&parcel).Error
	if err != nil {
		return nil, fmt.Errorf("load parcel %s: %w", upin, err)
	}
	if parcel.UPIN == "" {
		return nil, domain.ErrParcelNotFound
	}

	detail := &domain.ParcelDetail{Parcel: parcel}

	if err := s.db.WithContext(ctx).
		Model(&domain.ParcelOwner{}).
		Where("upin = ? AND active = ?", upin, true).
		Order("acquired_at asc").
		Find(&detail.Owners).Error; err != nil {
		return nil, fmt.Errorf("load owners for %s: %w", upin, err)
	}

	if err := s.db.WithContext(ctx).
		Model(&domain.OwnershipHistory{}).
		Where("upin = ?", upin).
		Order("transferred_at asc").
		Find(&detail.History).Error; err != nil {
		return nil, fmt.Errorf("load history for %s: %w", upin, err)
	}

	if err := s.db.WithContext(ctx).
		Model(&domain.LeaseAgreement{}).
		Where("upin = ? AND deleted = ?", upin, false).
		Order("start_date asc").
		Find(&detail.Leases).Error; err != nil {
		return nil, fmt.Errorf("load leases for %s: %w", upin, err)
	}

	if err := s.db.WithContext(ctx).
		Model(&domain.Encumbrance{}).
		Where("upin = ? AND deleted = ?", upin, false).
		Order("registered_at asc").
		Find(&detail.Encumbrances).Error; err != nil {
		return nil, fmt.Errorf("load encumbrances for %s: %w", upin, err)
	}

	return detail, nil
}

func (s *Service) ListParcels(ctx context.Context, filter domain.ListParcelsFilter) ([]domain.LandParcel, error) {
	limit := filter.Limit
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}

	stmt := s.db.WithContext(ctx).
		Model(&domain.LandParcel{}).
		Where("deleted = ?", false)
	if filter.SubCityID != "" {
		stmt = stmt.Where("sub_city_id = ?", filter.SubCityID)
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}

	var rows []domain.LandParcel
	if err := stmt.Order("upin asc").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
