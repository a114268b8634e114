// Package http provides HTTP handlers for sanitized event intake. Payloads
// pass through the sanitizer before anything is written: forbidden keys are
// stripped silently, detected sensitive content rejects the whole request.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/phiguard/internal/auth/http"
	apperrors "github.com/allisson/phiguard/internal/errors"
	"github.com/allisson/phiguard/internal/events/http/dto"
	eventsUseCase "github.com/allisson/phiguard/internal/events/usecase"
	"github.com/allisson/phiguard/internal/httputil"
	customValidation "github.com/allisson/phiguard/internal/validation"
)

// EventHandler handles HTTP requests for event intake and reads.
type EventHandler struct {
	eventUseCase eventsUseCase.EventUseCase
	logger       *slog.Logger
}

// NewEventHandler creates a new event handler with required dependencies.
func NewEventHandler(
	eventUseCase eventsUseCase.EventUseCase,
	logger *slog.Logger,
) *EventHandler {
	return &EventHandler{
		eventUseCase: eventUseCase,
		logger:       logger,
	}
}

// IngestHandler accepts an event for the caller's tenant.
// POST /v1/events
// Returns 201 Created with the sanitized event, or 422 when the payload
// contains detected sensitive content under an allowed key.
func (h *EventHandler) IngestHandler(c *gin.Context) {
	var req dto.IngestEventRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	ctx := c.Request.Context()
	sc, ok := authHTTP.GetScope(ctx)
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	event, err := h.eventUseCase.Ingest(ctx, sc, eventsUseCase.IngestEventInput{
		EventType: req.EventType,
		Payload:   req.Payload,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapEventToResponse(event))
}

// GetHandler retrieves an event by id.
// GET /v1/events/:id
func (h *EventHandler) GetHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid id parameter: must be a valid UUID"), h.logger)
		return
	}

	ctx := c.Request.Context()
	sc, ok := authHTTP.GetScope(ctx)
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	event, err := h.eventUseCase.Get(ctx, sc, id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEventToResponse(event))
}

// ListHandler retrieves events with pagination support.
// GET /v1/events?offset=0&limit=50
func (h *EventHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	ctx := c.Request.Context()
	sc, ok := authHTTP.GetScope(ctx)
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	events, err := h.eventUseCase.List(ctx, sc, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEventsToListResponse(events))
}
