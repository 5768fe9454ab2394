package server

import (
	"encoding/json"
	"net/http"

	"github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/actorcontext"
	approvaldomain "github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/approval/domain"
	auditdomain "github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/audit/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type createApprovalRequestBody struct {
	EntityType  string          `json:"entity_type" binding:"required"`
	EntityID    string          `json:"entity_id"`
	ActionType  string          `json:"action_type" binding:"required"`
	RequestData json.RawMessage `json:"request_data" binding:"required"`
	Comments    string          `json:"comments"`
}

func (s *Server) createApprovalRequest(c *gin.Context) {
	var body createApprovalRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	actor, ok := actorcontext.FromContext(c.Request.Context())
	if !ok || actor.UserID == "" || actor.Role == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	request, err := s.approvalSvc.CreateRequest(c.Request.Context(), approvaldomain.CreateRequestInput{
		EntityType:  approvaldomain.EntityType(body.EntityType),
		EntityID:    body.EntityID,
		ActionType:  approvaldomain.ActionType(body.ActionType),
		RequestData: body.RequestData,
		MakerID:     actor.UserID,
		MakerRole:   approvaldomain.Role(actor.Role),
		SubCityID:   actor.SubCityID,
		Comments:    body.Comments,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	// Request creation audits at the call site; the service leaves that to
	// its callers.
	if err := s.auditSvc.Record(c.Request.Context(), auditdomain.Entry{
		UserID:     actor.UserID,
		Action:     "approval_request.created",
		EntityType: string(request.EntityType),
		EntityID:   request.EntityID,
		Changes: map[string]any{
			"request_id":  request.ID.String(),
			"action_type": string(request.ActionType),
			"maker_role":  string(request.MakerRole),
		},
	}); err != nil {
		s.log.Warn("audit write failed", zap.Error(err))
	}

	c.JSON(http.StatusCreated, request)
}

func (s *Server) getApprovalRequest(c *gin.Context) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	request, err := s.approvalSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}

func (s *Server) listApprovalRequests(c *gin.Context) {
	requests, err := s.approvalSvc.List(c.Request.Context(), approvaldomain.ListRequest{
		Status:       approvaldomain.Status(c.Query("status")),
		ApproverRole: approvaldomain.Role(c.Query("approver_role")),
		EntityType:   approvaldomain.EntityType(c.Query("entity_type")),
		SubCityID:    c.Query("sub_city_id"),
		Limit:        intQuery(c, "limit"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"approval_requests": requests})
}

type decideApprovalRequestBody struct {
	Decision         string `json:"decision" binding:"required"`
	DecisionComments string `json:"decision_comments"`
}

func (s *Server) decideApprovalRequest(c *gin.Context) {
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var body decideApprovalRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	actor, ok := actorcontext.FromContext(c.Request.Context())
	if !ok || actor.UserID == "" || actor.Role == "" {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	request, err := s.approvalSvc.Decide(c.Request.Context(), approvaldomain.DecideInput{
		RequestID:        id,
		Decision:         approvaldomain.Decision(body.Decision),
		CheckerID:        actor.UserID,
		CheckerRole:      approvaldomain.Role(actor.Role),
		DecisionComments: body.DecisionComments,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, request)
}
