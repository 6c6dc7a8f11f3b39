package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uxmentor/uxmentor-be/service"
	"github.com/uxmentor/uxmentor-be/types"
)

// DocumentHandler exposes document listing, inspection and deletion.
type DocumentHandler struct {
	documentService *service.DocumentService
}

func NewDocumentHandler(documentService *service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

func (h *DocumentHandler) HandleList(c *gin.Context) {
	docs, err := h.documentService.GetDocuments(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   docs,
	})
}

func (h *DocumentHandler) HandleGet(c *gin.Context) {
	doc, err := h.documentService.GetDocument(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   doc,
	})
}

func (h *DocumentHandler) HandleDelete(c *gin.Context) {
	if err := h.documentService.DeleteDocument(c.Request.Context(), c.Param("id")); err != nil {
		h.sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
	})
}

func (h *DocumentHandler) HandleStats(c *gin.Context) {
	stats, err := h.documentService.GetDocumentStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   stats,
	})
}

func (h *DocumentHandler) sendError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, types.ErrDocumentNotFound) {
		status = http.StatusNotFound
	}
	c.JSON(status, types.DataResponse{
		Status:  "error",
		Message: err.Error(),
	})
}
