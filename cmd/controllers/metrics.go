package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

func RegisterMetricsRoutes(router *gin.Engine, handler http.Handler) error {
	if router == nil {
		return errors.New("router is nil")
	}
	if handler == nil {
		return errors.New("metrics handler is nil")
	}

	router.GET("/metrics", gin.WrapH(handler))
	return nil
}
