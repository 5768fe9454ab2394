package server

import (
	"net/http"

	registrydomain "github.com/Lion-Internationa-Bank/Lib-Mekelle-Project-sub003/internal/registry/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) getParcel(c *gin.Context) {
	detail, err := s.registrySvc.GetParcel(c.Request.Context(), c.Param("upin"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (s *Server) listParcels(c *gin.Context) {
	parcels, err := s.registrySvc.ListParcels(c.Request.Context(), registrydomain.ListParcelsFilter{
		SubCityID: c.Query("sub_city_id"),
		Status:    registrydomain.ParcelStatus(c.Query("status")),
		Limit:     intQuery(c, "limit"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"parcels": parcels})
}
