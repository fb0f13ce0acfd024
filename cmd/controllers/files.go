package controllers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

type FileProvider interface {
	ListProcessedFiles(ctx context.Context) ([]string, error)
}

type FilesController struct {
	service FileProvider
}

type FilesResponse struct {
	Files []string `json:"files"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewFilesController(service FileProvider) (*FilesController, error) {
	if service == nil {
		return nil, errors.New("file provider is nil")
	}

	return &FilesController{service: service}, nil
}

func (c *FilesController) RegisterRoutes(router *gin.Engine) error {
	if c == nil {
		return errors.New("files controller is nil")
	}
	if router == nil {
		return errors.New("router is nil")
	}

	router.GET("/files", c.getFiles)
	return nil
}

func (c *FilesController) getFiles(ctx *gin.Context) {
	files, err := c.service.ListProcessedFiles(ctx.Request.Context())
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load files"})
		return
	}
	if files == nil {
		files = []string{}
	}

	ctx.JSON(http.StatusOK, FilesResponse{Files: files})
}
