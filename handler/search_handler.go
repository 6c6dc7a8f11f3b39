package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/uxmentor/uxmentor-be/service"
	"github.com/uxmentor/uxmentor-be/types"
)

const defaultSearchLimit = 5

// SearchHandler exposes similarity search over the document corpus.
type SearchHandler struct {
	vectorService *service.VectorService
}

func NewSearchHandler(vectorService *service.VectorService) *SearchHandler {
	return &SearchHandler{vectorService: vectorService}
}

func (h *SearchHandler) HandleSearch(c *gin.Context) {
	var req types.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Invalid request body",
		})
		return
	}
	if req.Query == "" {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Status:  "error",
			Message: "Query is required",
		})
		return
	}
	if req.Limit == 0 {
		req.Limit = defaultSearchLimit
	}

	results, err := h.vectorService.SearchDocuments(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Status:  "error",
			Message: "Search failed: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Status: "success",
		Data:   types.SearchResponse{Results: results},
	})
}
