package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	calculationdomain "github.com/smallbiznis/custoscarbon/internal/calculation/domain"
	"github.com/tidwall/gjson"
)

var errBodyNotObject = errors.New("request body must be a JSON object")

type calculateRequest struct {
	Name   string `json:"name"`
	Usage  any    `json:"usage"`
	Factor any    `json:"factor"`
}

func (s *Server) Calculate(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		AbortWithError(c, asClientError(&bindError{err: err}))
		return
	}
	// null, arrays and scalars decode without error but carry no fields
	if !gjson.ParseBytes(body).IsObject() {
		AbortWithError(c, asClientError(&bindError{err: errBodyNotObject}))
		return
	}

	var req calculateRequest
	if err := binding.JSON.BindBody(body, &req); err != nil {
		AbortWithError(c, asClientError(&bindError{err: err}))
		return
	}

	resp, err := s.calculationSvc.Calculate(c.Request.Context(), calculationdomain.Request{
		Name:   req.Name,
		Usage:  req.Usage,
		Factor: req.Factor,
	})
	if err != nil {
		AbortWithError(c, asClientError(err))
		return
	}

	c.JSON(http.StatusOK, resp)
}
