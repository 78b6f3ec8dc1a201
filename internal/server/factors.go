package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListFactors returns the whole factor table keyed by name.
func (s *Server) ListFactors(c *gin.Context) {
	c.JSON(http.StatusOK, s.factors.GetAll())
}
