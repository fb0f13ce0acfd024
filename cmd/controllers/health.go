package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the database answers.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type HealthResponse struct {
	Status string `json:"status"`
}

func RegisterHealthRoutes(router *gin.Engine, db Pinger) error {
	if router == nil {
		return errors.New("router is nil")
	}
	if db == nil {
		return errors.New("db is nil")
	}

	router.GET("/health", HealthHandler(db))
	return nil
}

func HealthHandler(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "database unavailable"})
			return
		}

		c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
	}
}
