package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-address-dispatch/internal/application"
	"github.com/oksasatya/go-address-dispatch/internal/domain/entity"
	"github.com/oksasatya/go-address-dispatch/internal/interface/middleware"
	"github.com/oksasatya/go-address-dispatch/pkg/response"
	"github.com/oksasatya/go-address-dispatch/pkg/validation"
)

type AddressHandler struct {
	Svc    *application.AddressService
	Logger *logrus.Logger
}

func NewAddressHandler(svc *application.AddressService, logger *logrus.Logger) *AddressHandler {
	return &AddressHandler{Svc: svc, Logger: logger}
}

type listQuery struct {
	City     string `form:"city"`
	MinFlats *int   `form:"min_flats" binding:"omitempty,gte=0"`
	Status   string `form:"status" binding:"omitempty,status"`
	Page     int    `form:"page" binding:"omitempty,gte=1"`
	Limit    int    `form:"limit" binding:"omitempty,gte=1"`
}

func (q listQuery) input() application.ListInput {
	return application.ListInput{
		City:     q.City,
		MinFlats: q.MinFlats,
		Status:   entity.Status(q.Status),
		Page:     q.Page,
		Limit:    q.Limit,
	}
}

type feedQuery struct {
	City     string `form:"city"`
	MinFlats *int   `form:"min_flats" binding:"omitempty,gte=0"`
}

type searchQuery struct {
	Q    string `form:"q" binding:"required"`
	Size int    `form:"size" binding:"omitempty,gte=1,lte=50"`
}

type transitionRequest struct {
	Status string `json:"status"`
}

func (h *AddressHandler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.List(c.Request.Context(), middleware.ActorFromContext(c), q.input())
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}

// Transition handles PUT /addresses/:id. Any status other than assigned or
// completed unassigns the address; an empty body counts as no status.
func (h *AddressHandler) Transition(c *gin.Context) {
	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	a, err := h.Svc.Transition(c.Request.Context(), middleware.ActorFromContext(c), c.Param("id"), req.Status)
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, a)
}

func (h *AddressHandler) Stats(c *gin.Context) {
	stats, err := h.Svc.Stats(c.Request.Context())
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, stats)
}

func (h *AddressHandler) PublicFeed(c *gin.Context) {
	var q feedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	data, err := h.Svc.PublicFeed(c.Request.Context(), q.City, q.MinFlats)
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, data)
}

func (h *AddressHandler) Search(c *gin.Context) {
	var q searchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	hits, err := h.Svc.SearchAddresses(c.Request.Context(), middleware.ActorFromContext(c), q.Q, q.Size)
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, hits)
}

// Export takes the listing filters from the query string.
func (h *AddressHandler) Export(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid query", validation.ToDetails(err))
		return
	}
	res, err := h.Svc.Export(c.Request.Context(), middleware.ActorFromContext(c), q.input())
	if err != nil {
		response.Fail(c, h.Logger, err)
		return
	}
	response.JSON(c, http.StatusOK, res)
}
