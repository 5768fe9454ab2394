package service

import (
	"context"
	"strings"

	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/actorcontext"
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/audit/domain"
	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/clock"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
	genID *snowflake.Node
	repo  domain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("audit.service"),
		clock: p.Clock,
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Record(ctx context.Context, entry domain.Entry) error {
	action := strings.TrimSpace(entry.Action)
	if action == "" {
		return domain.ErrInvalidAction
	}

	userID := strings.TrimSpace(entry.UserID)
	var ipAddress *string
	if actor, ok := actorcontext.FromContext(ctx); ok {
		if userID == "" {
			userID = actor.UserID
		}
		if actor.IPAddress != "" {
			ip := actor.IPAddress
			ipAddress = &ip
		}
	}
	if userID == "" {
		userID = "system"
	}

	changes := datatypes.JSONMap{}
	for key, value := range entry.Changes {
		if key == "" {
			continue
		}
		changes[key] = value
	}

	row := domain.AuditLog{
		ID:         s.genID.Generate(),
		UserID:     userID,
		Action:     action,
		EntityType: strings.TrimSpace(entry.EntityType),
		Changes:    changes,
		IPAddress:  ipAddress,
		CreatedAt:  s.clock.Now(),
	}
	if entityID := strings.TrimSpace(entry.EntityID); entityID != "" {
		row.EntityID = &entityID
	}

	if err := s.repo.Insert(ctx, s.db, &row); err != nil {
		s.log.Warn("failed to write audit log",
			zap.String("action", action),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.AuditLog, error) {
	if req.StartAt != nil && req.EndAt != nil && req.StartAt.After(*req.EndAt) {
		return nil, domain.ErrInvalidTimeRange
	}
	if req.Limit <= 0 || req.Limit > 500 {
		req.Limit = 100
	}
	return s.repo.List(ctx, s.db, req)
}
