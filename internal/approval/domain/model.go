package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type EntityType string

const (
	EntityLandParcels     EntityType = "LAND_PARCELS"
	EntityLeaseAgreements EntityType = "LEASE_AGREEMENTS"
	EntityEncumbrances    EntityType = "ENCUMBRANCES"
)

func (t EntityType) Valid() bool {
	switch t {
	case EntityLandParcels, EntityLeaseAgreements, EntityEncumbrances:
		return true
	}
	return false
}

type ActionType string

const (
	ActionCreate    ActionType = "CREATE"
	ActionUpdate    ActionType = "UPDATE"
	ActionDelete    ActionType = "DELETE"
	ActionTransfer  ActionType = "TRANSFER"
	ActionAddOwner  ActionType = "ADD_OWNER"
	ActionSubdivide ActionType = "SUBDIVIDE"
)

func (t ActionType) Valid() bool {
	switch t {
	case ActionCreate, ActionUpdate, ActionDelete, ActionTransfer, ActionAddOwner, ActionSubdivide:
		return true
	}
	return false
}

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

type Decision string

const (
	DecisionApproved Decision = "APPROVED"
	DecisionRejected Decision = "REJECTED"
)

// EntityIDNew is the placeholder entity id used when the target entity does
// not exist yet; the real key is generated by the apply step on approval.
const EntityIDNew = "NEW"

// Request is a proposed change captured for maker-checker review. It is
// mutated only by a checker decision and never physically deleted.
type Request struct {
	ID               snowflake.ID   `gorm:"primaryKey;column:id" json:"id"`
	EntityType       EntityType     `gorm:"column:entity_type" json:"entity_type"`
	EntityID         string         `gorm:"column:entity_id" json:"entity_id"`
	ActionType       ActionType     `gorm:"column:action_type" json:"action_type"`
	RequestData      datatypes.JSON `gorm:"column:request_data" json:"request_data"`
	MakerID          string         `gorm:"column:maker_id" json:"maker_id"`
	MakerRole        Role           `gorm:"column:maker_role" json:"maker_role"`
	SubCityID        string         `gorm:"column:sub_city_id" json:"sub_city_id"`
	ApproverRole     Role           `gorm:"column:approver_role" json:"approver_role"`
	Status           Status         `gorm:"column:status" json:"status"`
	Comments         string         `gorm:"column:comments" json:"comments"`
	DecisionComments string         `gorm:"column:decision_comments" json:"decision_comments"`
	CreatedAt        time.Time      `gorm:"column:created_at" json:"created_at"`
	DecidedAt        *time.Time     `gorm:"column:decided_at" json:"decided_at,omitempty"`
	DecidedBy        string         `gorm:"column:decided_by" json:"decided_by"`
}

func (Request) TableName() string { return "approval_requests" }

type CreateRequestInput struct {
	EntityType  EntityType
	EntityID    string
	ActionType  ActionType
	RequestData []byte
	MakerID     string
	MakerRole   Role
	SubCityID   string
	Comments    string
}

type DecideInput struct {
	RequestID        snowflake.ID
	Decision         Decision
	CheckerID        string
	CheckerRole      Role
	DecisionComments string
}

type ListRequest struct {
	Status       Status
	ApproverRole Role
	EntityType   EntityType
	SubCityID    string
	Limit        int
}

type Service interface {
	// CreateRequest captures a proposed change as a pending request. At most
	// one pending request may exist per (entity type, entity id, action).
	CreateRequest(ctx context.Context, input CreateRequestInput) (*Request, error)
	// Decide approves or rejects a pending request. On approval the
	// action-specific apply step runs inside the same transaction; if it
	// fails the request stays pending and the checker must retry.
	Decide(ctx context.Context, input DecideInput) (*Request, error)
	Get(ctx context.Context, id snowflake.ID) (*Request, error)
	List(ctx context.Context, req ListRequest) ([]Request, error)
}

var (
	ErrDuplicatePending   = errors.New("duplicate_pending_request")
	ErrRequestNotFound    = errors.New("request_not_found")
	ErrAlreadyDecided     = errors.New("already_decided")
	ErrForbiddenApprover  = errors.New("forbidden_approver")
	ErrUnknownEntityType  = errors.New("unknown_entity_type")
	ErrUnknownActionType  = errors.New("unknown_action_type")
	ErrUnknownDecision    = errors.New("unknown_decision")
	ErrUnsupportedAction  = errors.New("unsupported_action_for_entity")
	ErrMissingEntityID    = errors.New("entity_id_required")
	ErrInvalidPayload     = errors.New("invalid_request_payload")
	ErrApplyStep          = errors.New("apply_step_failed")
	ErrInvalidAcquiredAt  = errors.New("acquired_at_in_future")
	ErrNoSubdivideTargets = errors.New("subdivision_requires_children")
)
