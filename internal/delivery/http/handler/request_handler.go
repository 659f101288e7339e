package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/James3014/snowbuddy-backend/internal/domain"
	"github.com/James3014/snowbuddy-backend/internal/usecase/request"
)

type RequestHandler struct {
	requestUseCase *request.RequestUseCase
}

func NewRequestHandler(requestUseCase *request.RequestUseCase) *RequestHandler {
	return &RequestHandler{
		requestUseCase: requestUseCase,
	}
}

// CreateRequest handles POST /requests
// @Summary Create a buddy request
// @Description Invite a user onto a trip as buddy or coach
// @Tags requests
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.CreateRequestRequest true "Invitation"
// @Success 202 {object} domain.BuddyRequest
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /requests [post]
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req request.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingError(err))
		return
	}

	buddyReq, err := h.requestUseCase.Create(c.Request.Context(), userID.(int), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSelfMatch):
			c.JSON(http.StatusBadRequest, ConflictResponse{Error: err.Error(), Code: "self_target"})
		case errors.Is(err, domain.ErrDuplicateRequest):
			c.JSON(http.StatusConflict, ConflictResponse{Error: err.Error(), Code: "duplicate_request"})
		case errors.Is(err, domain.ErrTripNotFound), errors.Is(err, domain.ErrProfileNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to create request"})
		}
		return
	}

	c.JSON(http.StatusAccepted, buddyReq)
}

// RespondRequest handles PUT /requests/:id
// @Summary Respond to a buddy request
// @Description Accept, decline or cancel a pending request
// @Tags requests
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body request.RespondRequest true "Action"
// @Success 200 {object} domain.BuddyRequest
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ConflictResponse
// @Router /requests/{id} [put]
func (h *RequestHandler) RespondRequest(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req request.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, bindingError(err))
		return
	}

	buddyReq, err := h.requestUseCase.Respond(c.Request.Context(), userID.(int), c.Param("id"), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRequestNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		case errors.Is(err, domain.ErrNotRequestParty):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
		case errors.Is(err, domain.ErrInvalidTransition):
			c.JSON(http.StatusConflict, ConflictResponse{Error: err.Error(), Code: "invalid_transition"})
		case errors.Is(err, domain.ErrTripFull):
			c.JSON(http.StatusConflict, ConflictResponse{Error: err.Error(), Code: "capacity_exceeded"})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to respond to request"})
		}
		return
	}

	c.JSON(http.StatusOK, buddyReq)
}

// GetRequest handles GET /requests/:id
func (h *RequestHandler) GetRequest(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	buddyReq, err := h.requestUseCase.Get(c.Request.Context(), userID.(int), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRequestNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
		case errors.Is(err, domain.ErrNotRequestParty):
			c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to get request"})
		}
		return
	}

	c.JSON(http.StatusOK, buddyReq)
}

// ListRequests handles GET /requests, optionally scoped with ?trip_id=
func (h *RequestHandler) ListRequests(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var (
		requests []*domain.BuddyRequest
		err      error
	)
	if raw := c.Query("trip_id"); raw != "" {
		tripID, convErr := strconv.Atoi(raw)
		if convErr != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid trip_id"})
			return
		}
		requests, err = h.requestUseCase.ListForTrip(c.Request.Context(), userID.(int), tripID)
	} else {
		requests, err = h.requestUseCase.ListForUser(c.Request.Context(), userID.(int))
	}
	if err != nil {
		if errors.Is(err, domain.ErrTripNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to list requests"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}
