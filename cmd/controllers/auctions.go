package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/martinuiga/french-auctions-clauding/internal/models"
	"github.com/martinuiga/french-auctions-clauding/internal/services"

	"github.com/gin-gonic/gin"
)

type AuctionProvider interface {
	GetAuctions(ctx context.Context, filter services.AuctionFilter) ([]models.Auction, error)
}

type AuctionsController struct {
	service AuctionProvider
}

func NewAuctionsController(service AuctionProvider) (*AuctionsController, error) {
	if service == nil {
		return nil, errors.New("auction provider is nil")
	}

	return &AuctionsController{service: service}, nil
}

func (c *AuctionsController) RegisterRoutes(router *gin.Engine) error {
	if c == nil {
		return errors.New("auctions controller is nil")
	}
	if router == nil {
		return errors.New("router is nil")
	}

	router.GET("/auctions", c.getAuctions)
	return nil
}

// getAuctions accepts "tech" as a short form of "technology"; the long form
// wins when both are set.
func (c *AuctionsController) getAuctions(ctx *gin.Context) {
	technology := ctx.Query("technology")
	if technology == "" {
		technology = ctx.Query("tech")
	}

	filter := services.AuctionFilter{
		From:       ctx.Query("from"),
		To:         ctx.Query("to"),
		Region:     ctx.Query("region"),
		Technology: technology,
		Limit:      ctx.Query("limit"),
	}

	auctions, err := c.service.GetAuctions(ctx.Request.Context(), filter)
	if err != nil {
		if errors.Is(err, services.ErrInvalidMonthRange) {
			ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid month range"})
			return
		}
		if errors.Is(err, services.ErrInvalidLimit) {
			ctx.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid limit"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load auctions"})
		return
	}
	if auctions == nil {
		auctions = []models.Auction{}
	}

	ctx.JSON(http.StatusOK, auctions)
}
