package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	recorddomain "github.com/smallbiznis/custoscarbon/internal/record/domain"
)

// ListRecords returns the most recent records, newest first.
func (s *Server) ListRecords(c *gin.Context) {
	records, err := s.recordSvc.ListRecent(c.Request.Context(), recorddomain.DefaultListLimit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}
