package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/James3014/snowbuddy-backend/internal/domain"
	"github.com/James3014/snowbuddy-backend/internal/usecase/search"
)

type SearchHandler struct {
	searchUseCase *search.SearchUseCase
}

func NewSearchHandler(searchUseCase *search.SearchUseCase) *SearchHandler {
	return &SearchHandler{
		searchUseCase: searchUseCase,
	}
}

// SubmitSearchResponse acknowledges an accepted search.
type SubmitSearchResponse struct {
	SearchID  string `json:"search_id"`
	ExpiresAt int64  `json:"expires_at"`
}

// SubmitSearch handles POST /matching/searches
// @Summary Submit a buddy search
// @Description Start an asynchronous compatibility search for a trip
// @Tags matching
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body search.SubmitSearchRequest true "Search intent"
// @Success 202 {object} SubmitSearchResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /matching/searches [post]
func (h *SearchHandler) SubmitSearch(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req search.SubmitSearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingError(err))
		return
	}

	job, err := h.searchUseCase.Submit(c.Request.Context(), userID.(int), &req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPreference) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to submit search"})
		return
	}

	c.JSON(http.StatusAccepted, SubmitSearchResponse{
		SearchID:  job.SearchID,
		ExpiresAt: job.ExpiresAt.Unix(),
	})
}

// GetSearch handles GET /matching/searches/:search_id
// @Summary Get search results
// @Description Read the cached ranked result set for a search
// @Tags matching
// @Security BearerAuth
// @Produce json
// @Success 200 {object} domain.SearchJob
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /matching/searches/{search_id} [get]
func (h *SearchHandler) GetSearch(c *gin.Context) {
	if _, exists := c.Get("user_id"); !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	job, err := h.searchUseCase.Get(c.Request.Context(), c.Param("search_id"))
	if err != nil {
		if errors.Is(err, domain.ErrSearchNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "search not found or expired"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to get search"})
		return
	}

	c.JSON(http.StatusOK, job)
}
