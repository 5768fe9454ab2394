package server

import (
	"net/http"
	"time"

	ratedomain "github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/rate/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type createRateBody struct {
	RateType       string          `json:"rate_type" binding:"required"`
	Value          decimal.Decimal `json:"value"`
	EffectiveFrom  time.Time       `json:"effective_from" binding:"required"`
	EffectiveUntil *time.Time      `json:"effective_until"`
}

func (s *Server) createRate(c *gin.Context) {
	var body createRateBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	rate, err := s.rateSvc.Create(c.Request.Context(), ratedomain.CreateRateRequest{
		RateType:       ratedomain.RateType(body.RateType),
		Value:          body.Value,
		EffectiveFrom:  body.EffectiveFrom,
		EffectiveUntil: body.EffectiveUntil,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rate)
}

func (s *Server) listRates(c *gin.Context) {
	rates, err := s.rateSvc.List(c.Request.Context(), ratedomain.RateType(c.Query("rate_type")))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rate_configurations": rates})
}
