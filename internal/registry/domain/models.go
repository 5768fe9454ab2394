package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type ParcelStatus string

const (
	ParcelStatusActive  ParcelStatus = "ACTIVE"
	ParcelStatusRetired ParcelStatus = "RETIRED"
)

// LandParcel is the registry's primary record, keyed by UPIN.
type LandParcel struct {
	UPIN       string          `gorm:"primaryKey;column:upin" json:"upin"`
	SubCityID  string          `gorm:"column:sub_city_id" json:"sub_city_id"`
	Kebele     string          `gorm:"column:kebele" json:"kebele"`
	AreaSqM    decimal.Decimal `gorm:"column:area_sqm;type:decimal(18,2)" json:"area_sqm"`
	LandUse    string          `gorm:"column:land_use" json:"land_use"`
	LandGrade  string          `gorm:"column:land_grade" json:"land_grade"`
	Status     ParcelStatus    `gorm:"column:status" json:"status"`
	ParentUPIN *string         `gorm:"column:parent_upin" json:"parent_upin,omitempty"`
	Deleted    bool            `gorm:"column:deleted" json:"deleted"`
	DeletedAt  *time.Time      `gorm:"column:deleted_at" json:"deleted_at,omitempty"`
	CreatedAt  time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (LandParcel) TableName() string { return "land_parcels" }

// ParcelOwner links an owner to a parcel. A parcel may carry several active
// links (shared ownership); retired links are kept for history.
type ParcelOwner struct {
	ID            snowflake.ID `gorm:"primaryKey;column:id" json:"id"`
	UPIN          string       `gorm:"column:upin" json:"upin"`
	OwnerID       string       `gorm:"column:owner_id" json:"owner_id"`
	OwnershipType string       `gorm:"column:ownership_type" json:"ownership_type"`
	AcquiredAt    time.Time    `gorm:"column:acquired_at" json:"acquired_at"`
	Active        bool         `gorm:"column:active" json:"active"`
	RetiredAt     *time.Time   `gorm:"column:retired_at" json:"retired_at,omitempty"`
	CreatedAt     time.Time    `gorm:"column:created_at" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"column:updated_at" json:"updated_at"`
}

func (ParcelOwner) TableName() string { return "parcel_owners" }

// OwnershipHistory is an append-only snapshot of every ownership change.
type OwnershipHistory struct {
	ID            snowflake.ID `gorm:"primaryKey;column:id" json:"id"`
	UPIN          string       `gorm:"column:upin" json:"upin"`
	FromOwnerID   *string      `gorm:"column:from_owner_id" json:"from_owner_id,omitempty"`
	ToOwnerID     string       `gorm:"column:to_owner_id" json:"to_owner_id"`
	TransferType  string       `gorm:"column:transfer_type" json:"transfer_type"`
	TransferredAt time.Time    `gorm:"column:transferred_at" json:"transferred_at"`
	Notes         string       `gorm:"column:notes" json:"notes"`
	CreatedAt     time.Time    `gorm:"column:created_at" json:"created_at"`
}

func (OwnershipHistory) TableName() string { return "ownership_history" }

type LeaseStatus string

const (
	LeaseStatusActive  LeaseStatus = "ACTIVE"
	LeaseStatusExpired LeaseStatus = "EXPIRED"
)

// LeaseAgreement holds the financial terms of a lease over a parcel.
type LeaseAgreement struct {
	ID               snowflake.ID    `gorm:"primaryKey;column:id" json:"id"`
	UPIN             string          `gorm:"column:upin" json:"upin"`
	LeaseholderID    string          `gorm:"column:leaseholder_id" json:"leaseholder_id"`
	LeaseAmount      decimal.Decimal `gorm:"column:lease_amount;type:decimal(18,2)" json:"lease_amount"`
	DownPayment      decimal.Decimal `gorm:"column:down_payment;type:decimal(18,2)" json:"down_payment"`
	LeasePeriodYears int             `gorm:"column:lease_period_years" json:"lease_period_years"`
	StartDate        time.Time       `gorm:"column:start_date" json:"start_date"`
	ExpiryDate       time.Time       `gorm:"column:expiry_date" json:"expiry_date"`
	Status           LeaseStatus     `gorm:"column:status" json:"status"`
	Deleted          bool            `gorm:"column:deleted" json:"deleted"`
	DeletedAt        *time.Time      `gorm:"column:deleted_at" json:"deleted_at,omitempty"`
	CreatedAt        time.Time       `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"column:updated_at" json:"updated_at"`
}

func (LeaseAgreement) TableName() string { return "lease_agreements" }

type EncumbranceStatus string

const (
	EncumbranceStatusActive   EncumbranceStatus = "ACTIVE"
	EncumbranceStatusReleased EncumbranceStatus = "RELEASED"
)

// Encumbrance is a registered claim against a parcel (mortgage, court
// order, caveat).
type Encumbrance struct {
	ID           snowflake.ID      `gorm:"primaryKey;column:id" json:"id"`
	UPIN         string            `gorm:"column:upin" json:"upin"`
	Type         string            `gorm:"column:type" json:"type"`
	HolderName   string            `gorm:"column:holder_name" json:"holder_name"`
	Amount       *decimal.Decimal  `gorm:"column:amount;type:decimal(18,2)" json:"amount,omitempty"`
	RegisteredAt time.Time         `gorm:"column:registered_at" json:"registered_at"`
	ReleasedAt   *time.Time        `gorm:"column:released_at" json:"released_at,omitempty"`
	Status       EncumbranceStatus `gorm:"column:status" json:"status"`
	Deleted      bool              `gorm:"column:deleted" json:"deleted"`
	DeletedAt    *time.Time        `gorm:"column:deleted_at" json:"deleted_at,omitempty"`
	CreatedAt    time.Time         `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    time.Time         `gorm:"column:updated_at" json:"updated_at"`
}

func (Encumbrance) TableName() string { return "encumbrances" }

var (
	ErrParcelNotFound      = errors.New("parcel_not_found")
	ErrParcelRetired       = errors.New("parcel_retired")
	ErrLeaseNotFound       = errors.New("lease_not_found")
	ErrEncumbranceNotFound = errors.New("encumbrance_not_found")
)
