package domain

import "context"

// ParcelDetail is the full registry view of one parcel: the record itself
// plus its active ownership, ownership history and financial attachments.
type ParcelDetail struct {
	Parcel       LandParcel         `json:"parcel"`
	Owners       []ParcelOwner      `json:"owners"`
	History      []OwnershipHistory `json:"history"`
	Leases       []LeaseAgreement   `json:"leases"`
	Encumbrances []Encumbrance      `json:"encumbrances"`
}

type ListParcelsFilter struct {
	SubCityID string
	Status    ParcelStatus
	Limit     int
}

type Service interface {
	GetParcel(ctx context.Context, upin string) (*ParcelDetail, error)
	ListParcels(ctx context.Context, filter ListParcelsFilter) ([]LandParcel, error)
}
