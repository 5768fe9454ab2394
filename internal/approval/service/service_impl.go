package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/approval/domain"
	auditdomain "github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/audit/domain"
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/clock"
	pkgdb "github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Clock    clock.Clock
	GenID    *snowflake.Node
	AuditSvc auditdomain.Service `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    clock.Clock
	genID    *snowflake.Node
	auditSvc auditdomain.Service
}

func NewService(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("approval.service"),
		clock:    p.Clock,
		genID:    p.GenID,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) CreateRequest(ctx context.Context, input domain.CreateRequestInput) (*domain.Request, error) {
	if !input.EntityType.Valid() {
		return nil, domain.ErrUnknownEntityType
	}
	if !input.ActionType.Valid() {
		return nil, domain.ErrUnknownActionType
	}

	// Domain validation happens before this call; here we only require the
	// payload to decode into its variant so approval can never be blocked
	// by an unreadable request_data.
	if _, err := domain.DecodePayload(input.EntityType, input.ActionType, input.RequestData); err != nil {
		return nil, err
	}

	approverRole, err := domain.ApproverFor(input.MakerRole)
	if err != nil {
		return nil, err
	}

	// Only CREATE may target an entity that does not exist yet; everything
	// else must name its target up front rather than failing at apply time.
	entityID := strings.TrimSpace(input.EntityID)
	if input.ActionType == domain.ActionCreate {
		if entityID == "" {
			entityID = domain.EntityIDNew
		}
	} else if entityID == "" || entityID == domain.EntityIDNew {
		return nil, domain.ErrMissingEntityID
	}

	now := s.clock.Now()
	request := &domain.Request{
		ID:           s.genID.Generate(),
		EntityType:   input.EntityType,
		EntityID:     entityID,
		ActionType:   input.ActionType,
		RequestData:  input.RequestData,
		MakerID:      input.MakerID,
		MakerRole:    input.MakerRole,
		SubCityID:    input.SubCityID,
		ApproverRole: approverRole,
		Status:       domain.StatusPending,
		Comments:     input.Comments,
		CreatedAt:    now,
	}

	err = s.db.WithContext(ctx).Exec(
		`INSERT INTO approval_requests (
			id, entity_type, entity_id, action_type, request_data,
			maker_id, maker_role, sub_city_id, approver_role, status,
			comments, decision_comments, created_at, decided_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		request.ID,
		request.EntityType,
		request.EntityID,
		request.ActionType,
		request.RequestData,
		request.MakerID,
		request.MakerRole,
		request.SubCityID,
		request.ApproverRole,
		request.Status,
		request.Comments,
		"",
		request.CreatedAt,
		"",
	).Error
	if err != nil {
		if pkgdb.IsDuplicateKeyErr(err) {
			return nil, s.duplicatePendingError(ctx, input.EntityType, entityID, input.ActionType)
		}
		return nil, err
	}

	s.log.Info("approval request created",
		zap.String("request_id", request.ID.String()),
		zap.String("entity_type", string(request.EntityType)),
		zap.String("entity_id", request.EntityID),
		zap.String("action_type", string(request.ActionType)),
		zap.String("maker_id", request.MakerID),
		zap.String("approver_role", string(request.ApproverRole)),
	)
	return request, nil
}

func (s *Service) duplicatePendingError(ctx context.Context, entityType domain.EntityType, entityID string, actionType domain.ActionType) error {
	var blocking domain.Request
	findErr := s.db.WithContext(ctx).Raw(
		`SELECT id FROM approval_requests
		 WHERE entity_type = ? AND entity_id = ? AND action_type = ? AND status = ?
		 LIMIT 1`,
		entityType,
		entityID,
		actionType,
		domain.StatusPending,
	).Scan(&blocking).Error
	if findErr != nil || blocking.ID == 0 {
		return domain.ErrDuplicatePending
	}
	return fmt.Errorf("%w: blocked by request %s", domain.ErrDuplicatePending, blocking.ID)
}

func (s *Service) Get(ctx context.Context, id snowflake.ID) (*domain.Request, error) {
	var request domain.Request
	err := s.db.WithContext(ctx).Raw(
		`SELECT id, entity_type, entity_id, action_type, request_data,
		        maker_id, maker_role, sub_city_id, approver_role, status,
		        comments, decision_comments, created_at, decided_at, decided_by
		 FROM approval_requests
		 WHERE id = ?`,
		id,
	).Scan(&request).Error
	if err != nil {
		return nil, err
	}
	if request.ID == 0 {
		return nil, domain.ErrRequestNotFound
	}
	return &request, nil
}

func (s *Service) Decide(ctx context.Context, input domain.DecideInput) (*domain.Request, error) {
	if input.Decision != domain.DecisionApproved && input.Decision != domain.DecisionRejected {
		return nil, domain.ErrUnknownDecision
	}

	request, err := s.Get(ctx, input.RequestID)
	if err != nil {
		return nil, err
	}
	if request.Status != domain.StatusPending {
		return nil, domain.ErrAlreadyDecided
	}
	if !domain.CanDecide(input.CheckerRole, request.ApproverRole) {
		return nil, domain.ErrForbiddenApprover
	}

	now := s.clock.Now()
	newStatus := domain.StatusRejected
	finalEntityID := request.EntityID

	if input.Decision == domain.DecisionApproved {
		newStatus = domain.StatusApproved
		payload, decodeErr := domain.DecodePayload(request.EntityType, request.ActionType, request.RequestData)
		if decodeErr != nil {
			return nil, decodeErr
		}

		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			appliedID, applyErr := s.applyChange(ctx, tx, request, payload)
			if applyErr != nil {
				return fmt.Errorf("%w: %w", domain.ErrApplyStep, applyErr)
			}
			finalEntityID = appliedID
			return s.markDecided(ctx, tx, request.ID, newStatus, finalEntityID, input, now)
		})
	} else {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			return s.markDecided(ctx, tx, request.ID, newStatus, finalEntityID, input, now)
		})
	}
	if err != nil {
		return nil, err
	}

	decided := *request
	decided.Status = newStatus
	decided.EntityID = finalEntityID
	decided.DecidedAt = &now
	decided.DecidedBy = input.CheckerID
	decided.DecisionComments = input.DecisionComments

	s.emitDecisionAudit(ctx, request, &decided)

	s.log.Info("approval request decided",
		zap.String("request_id", request.ID.String()),
		zap.String("decision", string(input.Decision)),
		zap.String("decided_by", input.CheckerID),
		zap.String("entity_id", finalEntityID),
	)
	return &decided, nil
}

// markDecided is the compare-and-swap from PENDING to a terminal status. A
// decision that loses a concurrent race finds zero rows and fails with
// AlreadyDecided, rolling back any apply-step writes in the same transaction.
func (s *Service) markDecided(ctx context.Context, tx *gorm.DB, id snowflake.ID, status domain.Status, entityID string, input domain.DecideInput, now time.Time) error {
	res := tx.WithContext(ctx).Exec(
		`UPDATE approval_requests
		 SET status = ?, entity_id = ?, decided_at = ?, decided_by = ?, decision_comments = ?
		 WHERE id = ? AND status = ?`,
		status,
		entityID,
		now,
		input.CheckerID,
		input.DecisionComments,
		id,
		domain.StatusPending,
	)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrAlreadyDecided
	}
	return nil
}

func (s *Service) emitDecisionAudit(ctx context.Context, before, after *domain.Request) {
	if s.auditSvc == nil {
		return
	}
	action := "approval_request.rejected"
	if after.Status == domain.StatusApproved {
		action = "approval_request.approved"
	}
	_ = s.auditSvc.Record(ctx, auditdomain.Entry{
		UserID:     after.DecidedBy,
		Action:     action,
		EntityType: string(after.EntityType),
		EntityID:   after.EntityID,
		Changes: map[string]any{
			"request_id":        after.ID.String(),
			"action_type":       string(after.ActionType),
			"maker_id":          after.MakerID,
			"previous_status":   string(before.Status),
			"new_status":        string(after.Status),
			"decision_comments": after.DecisionComments,
			"request_data":      string(after.RequestData),
		},
	})
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Request, error) {
	var requests []domain.Request
	stmt := s.db.WithContext(ctx).Model(&domain.Request{})

	if req.Status != "" {
		stmt = stmt.Where("status = ?", req.Status)
	}
	if req.ApproverRole != "" {
		stmt = stmt.Where("approver_role = ?", req.ApproverRole)
	}
	if req.EntityType != "" {
		stmt = stmt.Where("entity_type = ?", req.EntityType)
	}
	if req.SubCityID != "" {
		stmt = stmt.Where("sub_city_id = ?", req.SubCityID)
	}

	stmt = stmt.Order("created_at desc, id desc")
	if req.Limit > 0 {
		stmt = stmt.Limit(req.Limit)
	}

	if err := stmt.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}
