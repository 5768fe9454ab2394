package server

import (
	"net/http"
	"strconv"
	"time"

	auditdomain "github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/audit/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) listAuditLogs(c *gin.Context) {
	req := auditdomain.ListRequest{
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
		EntityID:   c.Query("entity_id"),
		UserID:     c.Query("user_id"),
		Limit:      intQuery(c, "limit"),
	}
	if t, ok := timeQuery(c, "start_at"); ok {
		req.StartAt = &t
	}
	if t, ok := timeQuery(c, "end_at"); ok {
		req.EndAt = &t
	}

	logs, err := s.auditSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit_logs": logs})
}

func intQuery(c *gin.Context, name string) int {
	raw := c.Query(name)
	if raw == "" {
		return 0
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return value
}

func timeQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, false
	}
	value, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return value, true
}
