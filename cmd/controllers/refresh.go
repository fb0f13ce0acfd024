package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/martinuiga/french-auctions-clauding/internal/scheduler"

	"github.com/gin-gonic/gin"
)

type RefreshService interface {
	TryRun(ctx context.Context) (int, error)
}

type RefreshController struct {
	service RefreshService
}

type RefreshResponse struct {
	Status       string `json:"status"`
	RecordsAdded int    `json:"records_added"`
}

func NewRefreshController(service RefreshService) (*RefreshController, error) {
	if service == nil {
		return nil, errors.New("refresh service is nil")
	}

	return &RefreshController{service: service}, nil
}

func (c *RefreshController) RegisterRoutes(router *gin.Engine) error {
	if c == nil {
		return errors.New("refresh controller is nil")
	}
	if router == nil {
		return errors.New("router is nil")
	}

	router.POST("/refresh", c.refresh)
	return nil
}

func (c *RefreshController) refresh(ctx *gin.Context) {
	added, err := c.service.TryRun(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, scheduler.ErrRunInProgress) {
			ctx.JSON(http.StatusConflict, ErrorResponse{Error: "scrape run already in progress"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to refresh auctions"})
		return
	}

	ctx.JSON(http.StatusOK, RefreshResponse{Status: "ok", RecordsAdded: added})
}
