package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/approval/domain"
	registrydomain "github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/registry/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// applyChange executes the approved request against the registry tables and
// returns the final entity id. It runs inside the decision transaction; any
// error rolls the whole decision back and leaves the request pending.
func (s *Service) applyChange(ctx context.Context, tx *gorm.DB, req *domain.Request, payload any) (string, error) {
	switch p := payload.(type) {
	case domain.CreateParcelPayload:
		return s.applyCreateParcel(ctx, tx, req, p)
	case domain.UpdatePayload:
		return s.applyUpdate(ctx, tx, req, p)
	case domain.DeletePayload:
		return s.applyDelete(ctx, tx, req)
	case domain.TransferPayload:
		return s.applyTransfer(ctx, tx, req, p)
	case domain.SubdividePayload:
		return s.applySubdivide(ctx, tx, req, p)
	case domain.AddOwnerPayload:
		return s.applyAddOwner(ctx, tx, req, p)
	case domain.CreateLeasePayload:
		return s.applyCreateLease(ctx, tx, req, p)
	case domain.CreateEncumbrancePayload:
		return s.applyCreateEncumbrance(ctx, tx, req, p)
	}
	return "", fmt.Errorf("%w: %s/%s", domain.ErrUnsupportedAction, req.EntityType, req.ActionType)
}

func (s *Service) applyCreateParcel(ctx context.Context, tx *gorm.DB, req *domain.Request, p domain.CreateParcelPayload) (string, error) {
	upin := strings.TrimSpace(p.UPIN)
	if upin == "" {
		upin = generateUPIN(p.SubCityID)
	}
	now := s.clock.Now()
	err := tx.WithContext(ctx).Exec(
		`INSERT INTO land_parcels (
			upin, sub_city_id, kebele, area_sqm, land_use, land_grade,
			status, parent_upin, deleted, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, NULL, ?, ?, ?)`,
		upin,
		p.SubCityID,
		p.Kebele,
		p.AreaSqM,
		p.LandUse,
		p.LandGrade,
		registrydomain.ParcelStatusActive,
		false,
		now,
		now,
	).Error
	if err != nil {
		return "", err
	}
	return upin, nil
}

// updatableColumns whitelists what an UPDATE request may touch per entity.
// Keys, statuses and soft-delete markers change only through their own
// action types.
var updatableColumns = map[domain.EntityType][]string{
	domain.EntityLandParcels:     {"sub_city_id", "kebele", "area_sqm", "land_use", "land_grade"},
	domain.EntityLeaseAgreements: {"leaseholder_id", "lease_amount", "down_payment", "lease_period_years", "start_date", "expiry_date"},
	domain.EntityEncumbrances:    {"type", "holder_name", "amount"},
}

func (s *Service) applyUpdate(ctx context.Context, tx *gorm.DB, req *domain.Request, p domain.UpdatePayload) (string, error) {
	table, keyColumn, notFound := entityTable(req.EntityType)

	assignments := make([]string, 0, len(p.Changes))
	args := make([]any, 0, len(p.Changes)+2)
	for _, column := range updatableColumns[req.EntityType] {
		value, ok := p.Changes[column]
		if !ok {
			continue
		}
		assignments = append(assignments, column+" = ?")
		args = append(args, value)
	}
	if len(assignments) == 0 {
		return "", fmt.Errorf("%w: no updatable fields for %s", domain.ErrInvalidPayload, req.EntityType)
	}

	args = append(args, s.clock.Now(), req.EntityID, false)
	res := tx.WithContext(ctx).Exec(
		fmt.Sprintf(
			`UPDATE %s SET %s, updated_at = ? WHERE %s = ? AND deleted = ?`,
			table,
			strings.Join(assignments, ", "),
			keyColumn,
		),
		args...,
	)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", notFound
	}
	return req.EntityID, nil
}

func (s *Service) applyDelete(ctx context.Context, tx *gorm.DB, req *domain.Request) (string, error) {
	table, keyColumn, notFound := entityTable(req.EntityType)
	now := s.clock.Now()
	res := tx.WithContext(ctx).Exec(
		fmt.Sprintf(
			`UPDATE %s SET deleted = ?, deleted_at = ?, updated_at = ? WHERE %s = ? AND deleted = ?`,
			table,
			keyColumn,
		),
		true,
		now,
		now,
		req.EntityID,
		false,
	)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", notFound
	}
	return req.EntityID, nil
}

func (s *Service) applyTransfer(ctx context.Context, tx *gorm.DB, req *domain.Request, p domain.TransferPayload) (string, error) {
	if err := s.requireActiveParcel(ctx, tx, req.EntityID); err != nil {
		return "", err
	}
	now := s.clock.Now()

	if p.FromOwnerID != nil {
		res := tx.WithContext(ctx).Exec(
			`UPDATE parcel_owners
			 SET active = ?, retired_at = ?, updated_at = ?
			 WHERE upin = ? AND owner_id = ? AND active = ?`,
			false,
			now,
			now,
			req.EntityID,
			*p.FromOwnerID,
			true,
		)
		if res.Error != nil {
			return "", res.Error
		}
		if res.RowsAffected == 0 {
			return "", fmt.Errorf("no active ownership link for owner %s on %s", *p.FromOwnerID, req.EntityID)
		}
	}

	err := tx.WithContext(ctx).Exec(
		`INSERT INTO parcel_owners (
			id, upin, owner_id, ownership_type, acquired_at, active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.genID.Generate(),
		req.EntityID,
		p.ToOwnerID,
		p.OwnershipType,
		now,
		true,
		now,
		now,
	).Error
	if err != nil {
		return "", err
	}

	err = tx.WithContext(ctx).Exec(
		`INSERT INTO ownership_history (
			id, upin, from_owner_id, to_owner_id, transfer_type, transferred_at, notes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.genID.Generate(),
		req.EntityID,
		p.FromOwnerID,
		p.ToOwnerID,
		p.TransferType,
		now,
		p.Notes,
		now,
	).Error
	if err != nil {
		return "", err
	}
	return req.EntityID, nil
}

func (s *Service) applySubdivide(ctx context.Context, tx *gorm.DB, req *domain.Request, p domain.SubdividePayload) (string, error) {
	var parent registrydomain.LandParcel
	err := tx.WithContext(ctx).Raw(
		`SELECT upin, sub_city_id, kebele, land_use, land_grade, status, deleted
		 FROM land_parcels WHERE upin = ?`,
		req.EntityID,
	).Scan(&parent).Error
	if err != nil {
		return "", err
	}
	if parent.UPIN == "" || parent.Deleted {
		return "", registrydomain.ErrParcelNotFound
	}
	if parent.Status != registrydomain.ParcelStatusActive {
		return "", registrydomain.ErrParcelRetired
	}

	now := s.clock.Now()
	res := tx.WithContext(ctx).Exec(
		`UPDATE land_parcels SET status = ?, updated_at = ? WHERE upin = ? AND status = ?`,
		registrydomain.ParcelStatusRetired,
		now,
		parent.UPIN,
		registrydomain.ParcelStatusActive,
	)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", registrydomain.ErrParcelRetired
	}

	var activeOwners []registrydomain.ParcelOwner
	err = tx.WithContext(ctx).Raw(
		`SELECT owner_id, ownership_type, acquired_at
		 FROM parcel_owners WHERE upin = ? AND active = ?`,
		parent.UPIN,
		true,
	).Scan(&activeOwners).Error
	if err != nil {
		return "", err
	}

	childUPINs := make([]string, 0, len(p.Children))
	for i, child := range p.Children {
		childUPIN := fmt.Sprintf("%s-%02d", parent.UPIN, i+1)
		kebele := child.Kebele
		if kebele == "" {
			kebele = parent.Kebele
		}
		landUse := child.LandUse
		if landUse == "" {
			landUse = parent.LandUse
		}
		err = tx.WithContext(ctx).Exec(
			`INSERT INTO land_parcels (
				upin, sub_city_id, kebele, area_sqm, land_use, land_grade,
				status, parent_upin, deleted, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			childUPIN,
			parent.SubCityID,
			kebele,
			child.AreaSqM,
			landUse,
			parent.LandGrade,
			registrydomain.ParcelStatusActive,
			parent.UPIN,
			false,
			now,
			now,
		).Error
		if err != nil {
			return "", err
		}

		for _, owner := range activeOwners {
			err = tx.WithContext(ctx).Exec(
				`INSERT INTO parcel_owners (
					id, upin, owner_id, ownership_type, acquired_at, active, created_at, updated_at
				) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				s.genID.Generate(),
				childUPIN,
				owner.OwnerID,
				owner.OwnershipType,
				owner.AcquiredAt,
				true,
				now,
				now,
			).Error
			if err != nil {
				return "", err
			}
		}
		childUPINs = append(childUPINs, childUPIN)
	}

	return strings.Join(childUPINs, ","), nil
}

func (s *Service) applyAddOwner(ctx context.Context, tx *gorm.DB, req *domain.Request, p domain.AddOwnerPayload) (string, error) {
	if err := s.requireActiveParcel(ctx, tx, req.EntityID); err != nil {
		return "", err
	}
	now := s.clock.Now()

	var activeCount int64
	err := tx.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM parcel_owners WHERE upin = ? AND active = ?`,
		req.EntityID,
		true,
	).Scan(&activeCount).Error
	if err != nil {
		return "", err
	}

	acquiredAt := p.AcquiredAt
	if acquiredAt.IsZero() {
		acquiredAt = now
	}
	// The first owner of a migrated parcel may record a historical
	// acquisition date; subsequent owners may not claim a future one.
	if activeCount > 0 && acquiredAt.After(now) {
		return "", domain.ErrInvalidAcquiredAt
	}

	err = tx.WithContext(ctx).Exec(
		`INSERT INTO parcel_owners (
			id, upin, owner_id, ownership_type, acquired_at, active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.genID.Generate(),
		req.EntityID,
		p.OwnerID,
		p.OwnershipType,
		acquiredAt,
		true,
		now,
		now,
	).Error
	if err != nil {
		return "", err
	}
	return req.EntityID, nil
}

func (s *Service) applyCreateLease(ctx context.Context, tx *gorm.DB, req *domain.Request, p domain.CreateLeasePayload) (string, error) {
	if err := s.requireActiveParcel(ctx, tx, p.UPIN); err != nil {
		return "", err
	}
	now := s.clock.Now()
	id := s.genID.Generate()
	err := tx.WithContext(ctx).Exec(
		`INSERT INTO lease_agreements (
			id, upin, leaseholder_id, lease_amount, down_payment, lease_period_years,
			start_date, expiry_date, status, deleted, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		p.UPIN,
		p.LeaseholderID,
		p.LeaseAmount,
		p.DownPayment,
		p.LeasePeriodYears,
		p.StartDate,
		p.ExpiryDate,
		registrydomain.LeaseStatusActive,
		false,
		now,
		now,
	).Error
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (s *Service) applyCreateEncumbrance(ctx context.Context, tx *gorm.DB, req *domain.Request, p domain.CreateEncumbrancePayload) (string, error) {
	if err := s.requireActiveParcel(ctx, tx, p.UPIN); err != nil {
		return "", err
	}
	now := s.clock.Now()
	registeredAt := p.RegisteredAt
	if registeredAt.IsZero() {
		registeredAt = now
	}
	id := s.genID.Generate()
	err := tx.WithContext(ctx).Exec(
		`INSERT INTO encumbrances (
			id, upin, type, holder_name, amount, registered_at,
			status, deleted, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id,
		p.UPIN,
		p.Type,
		p.HolderName,
		p.Amount,
		registeredAt,
		registrydomain.EncumbranceStatusActive,
		false,
		now,
		now,
	).Error
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

func (s *Service) requireActiveParcel(ctx context.Context, tx *gorm.DB, upin string) error {
	var parcel registrydomain.LandParcel
	err := tx.WithContext(ctx).Raw(
		`SELECT upin, status, deleted FROM land_parcels WHERE upin = ?`,
		upin,
	).Scan(&parcel).Error
	if err != nil {
		return err
	}
	if parcel.UPIN == "" || parcel.Deleted {
		return registrydomain.ErrParcelNotFound
	}
	if parcel.Status != registrydomain.ParcelStatusActive {
		return registrydomain.ErrParcelRetired
	}
	return nil
}

func entityTable(entityType domain.EntityType) (table, keyColumn string, notFound error) {
	switch entityType {
	case domain.EntityLeaseAgreements:
		return "lease_agreements", "id", registrydomain.ErrLeaseNotFound
	case domain.EntityEncumbrances:
		return "encumbrances", "id", registrydomain.ErrEncumbranceNotFound
	default:
		return "land_parcels", "upin", registrydomain.ErrParcelNotFound
	}
}

func generateUPIN(subCityID string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:10]
	if subCityID == "" {
		return "MK-" + suffix
	}
	return "MK-" + subCityID + "-" + suffix
}
