package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Request payloads form a tagged union keyed by (EntityType, ActionType).
// DecodePayload is the single place that materializes the opaque
// request_data column into a typed value; the apply step is a total match
// over the decoded variants.

type CreateParcelPayload struct {
	UPIN      string          `json:"upin"`
	SubCityID string          `json:"sub_city_id"`
	Kebele    string          `json:"kebele"`
	AreaSqM   decimal.Decimal `json:"area_sqm"`
	LandUse   string          `json:"land_use"`
	LandGrade string          `json:"land_grade"`
}

// UpdatePayload applies only the fields present in Changes. CurrentData is
// a review-time snapshot for the checker and never mutates anything.
type UpdatePayload struct {
	Changes     map[string]any  `json:"changes"`
	CurrentData json.RawMessage `json:"current_data"`
}

// DeletePayload carries the validation snapshot taken when the deletion was
// requested. Deletion is always a soft-delete.
type DeletePayload struct {
	Reason   string          `json:"reason"`
	Snapshot json.RawMessage `json:"snapshot"`
}

type TransferPayload struct {
	FromOwnerID   *string `json:"from_owner_id"`
	ToOwnerID     string  `json:"to_owner_id"`
	OwnershipType string  `json:"ownership_type"`
	TransferType  string  `json:"transfer_type"`
	Notes         string  `json:"notes"`
}

type SubdivideChild struct {
	AreaSqM decimal.Decimal `json:"area_sqm"`
	Kebele  string          `json:"kebele"`
	LandUse string          `json:"land_use"`
}

type SubdividePayload struct {
	Children []SubdivideChild `json:"children"`
}

type AddOwnerPayload struct {
	OwnerID       string    `json:"owner_id"`
	OwnershipType string    `json:"ownership_type"`
	AcquiredAt    time.Time `json:"acquired_at"`
}

type CreateLeasePayload struct {
	UPIN             string          `json:"upin"`
	LeaseholderID    string          `json:"leaseholder_id"`
	LeaseAmount      decimal.Decimal `json:"lease_amount"`
	DownPayment      decimal.Decimal `json:"down_payment"`
	LeasePeriodYears int             `json:"lease_period_years"`
	StartDate        time.Time       `json:"start_date"`
	ExpiryDate       time.Time       `json:"expiry_date"`
}

type CreateEncumbrancePayload struct {
	UPIN         string           `json:"upin"`
	Type         string           `json:"type"`
	HolderName   string           `json:"holder_name"`
	Amount       *decimal.Decimal `json:"amount"`
	RegisteredAt time.Time        `json:"registered_at"`
}

// DecodePayload decodes raw into the payload variant for the given entity
// and action. Unknown combinations fail with ErrUnsupportedAction; malformed
// payloads fail with ErrInvalidPayload.
func DecodePayload(entityType EntityType, actionType ActionType, raw []byte) (any, error) {
	if !entityType.Valid() {
		return nil, ErrUnknownEntityType
	}
	if !actionType.Valid() {
		return nil, ErrUnknownActionType
	}

	switch actionType {
	case ActionUpdate:
		var payload UpdatePayload
		if err := decodeStrict(raw, &payload); err != nil {
			return nil, err
		}
		if len(payload.Changes) == 0 {
			return nil, fmt.Errorf("%w: update without changes", ErrInvalidPayload)
		}
		return payload, nil
	case ActionDelete:
		var payload DeletePayload
		if err := decodeStrict(raw, &payload); err != nil {
			return nil, err
		}
		return payload, nil
	}

	switch entityType {
	case EntityLandParcels:
		switch actionType {
		case ActionCreate:
			var payload CreateParcelPayload
			if err := decodeStrict(raw, &payload); err != nil {
				return nil, err
			}
			if payload.AreaSqM.LessThanOrEqual(decimal.Zero) {
				return nil, fmt.Errorf("%w: area_sqm must be positive", ErrInvalidPayload)
			}
			return payload, nil
		case ActionTransfer:
			var payload TransferPayload
			if err := decodeStrict(raw, &payload); err != nil {
				return nil, err
			}
			if strings.TrimSpace(payload.ToOwnerID) == "" {
				return nil, fmt.Errorf("%w: to_owner_id is required", ErrInvalidPayload)
			}
			return payload, nil
		case ActionSubdivide:
			var payload SubdividePayload
			if err := decodeStrict(raw, &payload); err != nil {
				return nil, err
			}
			if len(payload.Children) == 0 {
				return nil, ErrNoSubdivideTargets
			}
			for _, child := range payload.Children {
				if child.AreaSqM.LessThanOrEqual(decimal.Zero) {
					return nil, fmt.Errorf("%w: child area_sqm must be positive", ErrInvalidPayload)
				}
			}
			return payload, nil
		case ActionAddOwner:
			var payload AddOwnerPayload
			if err := decodeStrict(raw, &payload); err != nil {
				return nil, err
			}
			if strings.TrimSpace(payload.OwnerID) == "" {
				return nil, fmt.Errorf("%w: owner_id is required", ErrInvalidPayload)
			}
			return payload, nil
		}
	case EntityLeaseAgreements:
		if actionType == ActionCreate {
			var payload CreateLeasePayload
			if err := decodeStrict(raw, &payload); err != nil {
				return nil, err
			}
			if strings.TrimSpace(payload.UPIN) == "" {
				return nil, fmt.Errorf("%w: upin is required", ErrInvalidPayload)
			}
			if !payload.ExpiryDate.After(payload.StartDate) {
				return nil, fmt.Errorf("%w: expiry_date must follow start_date", ErrInvalidPayload)
			}
			return payload, nil
		}
	case EntityEncumbrances:
		if actionType == ActionCreate {
			var payload CreateEncumbrancePayload
			if err := decodeStrict(raw, &payload); err != nil {
				return nil, err
			}
			if strings.TrimSpace(payload.UPIN) == "" {
				return nil, fmt.Errorf("%w: upin is required", ErrInvalidPayload)
			}
			return payload, nil
		}
	}

	return nil, fmt.Errorf("%w: %s/%s", ErrUnsupportedAction, entityType, actionType)
}

func decodeStrict(raw []byte, target any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: empty payload", ErrInvalidPayload)
	}
	if err := json.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	return nil
}
