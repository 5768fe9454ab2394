package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) schedulerStatus(c *gin.Context) {
	if s.scheduler == nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"running": s.scheduler.Running(),
		"tasks":   s.scheduler.Status(),
	})
}

func (s *Server) schedulerStart(c *gin.Context) {
	if s.scheduler == nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	if err := s.scheduler.StartAll(c.Request.Context()); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"running": true})
}

func (s *Server) schedulerStop(c *gin.Context) {
	if s.scheduler == nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	s.scheduler.StopAll()
	c.JSON(http.StatusOK, gin.H{"running": false})
}

func (s *Server) schedulerRunNow(c *gin.Context) {
	if s.scheduler == nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	result, err := s.scheduler.RunNow(c.Request.Context(), c.Param("name"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
