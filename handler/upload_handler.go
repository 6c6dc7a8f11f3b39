package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uxmentor/uxmentor-be/service"
	"github.com/uxmentor/uxmentor-be/types"
)

const maxUploadSize = 20 << 20

// UploadHandler accepts document uploads and runs them through the
// ingestion pipeline.
type UploadHandler struct {
	fileService     *service.FileService
	documentService *service.DocumentService
}

func NewUploadHandler(fileService *service.FileService, documentService *service.DocumentService) *UploadHandler {
	return &UploadHandler{
		fileService:     fileService,
		documentService: documentService,
	}
}

func (h *UploadHandler) HandleUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid file",
		})
		return
	}
	if file.Size > maxUploadSize {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "File too large",
		})
		return
	}

	storedPath, err := h.fileService.SaveUpload(file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: "Failed to store file: " + err.Error(),
		})
		return
	}

	doc, err := h.documentService.ProcessDocument(c.Request.Context(), storedPath, file.Filename)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, types.ErrUnsupportedFormat) {
			status = http.StatusBadRequest
		}
		c.JSON(status, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data: types.UploadResponse{
			OriginalName: file.Filename,
			Document:     doc,
		},
	})
}

// HandleBackfill embeds every chunk still missing a vector.
func (h *UploadHandler) HandleBackfill(c *gin.Context) {
	count, err := h.documentService.BackfillEmbeddings(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   gin.H{"embedded_chunks": count},
	})
}
