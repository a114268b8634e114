// Package http provides HTTP handlers for guarded patient records. Sensitive
// fields enter as plaintext over TLS, are sealed by the field guard before
// persistence, and leave only through the disclosure guard. Redacted
// responses carry the X-Phi-Redacted header so callers can distinguish
// "hidden" from "empty".
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	authHTTP "github.com/allisson/phiguard/internal/auth/http"
	apperrors "github.com/allisson/phiguard/internal/errors"
	"github.com/allisson/phiguard/internal/httputil"
	"github.com/allisson/phiguard/internal/records/http/dto"
	recordsUseCase "github.com/allisson/phiguard/internal/records/usecase"
	customValidation "github.com/allisson/phiguard/internal/validation"
)

// redactedHeader marks responses whose sensitive fields were withheld by the
// disclosure guard.
const redactedHeader = "X-Phi-Redacted"

// RecordHandler handles HTTP requests for patient record operations.
type RecordHandler struct {
	recordUseCase recordsUseCase.RecordUseCase
	logger        *slog.Logger
}

// NewRecordHandler creates a new record handler with required dependencies.
func NewRecordHandler(
	recordUseCase recordsUseCase.RecordUseCase,
	logger *slog.Logger,
) *RecordHandler {
	return &RecordHandler{
		recordUseCase: recordUseCase,
		logger:        logger,
	}
}

// CreateHandler creates a new patient record under the caller's tenant.
// POST /v1/records
// Returns 201 Created with record metadata; sensitive fields are never echoed.
func (h *RecordHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateRecordRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	ctx := c.Request.Context()
	actor, ok := authHTTP.GetActor(ctx)
	sc, scOK := authHTTP.GetScope(ctx)
	if !ok || !scOK {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	record, err := h.recordUseCase.Create(ctx, sc, actor, recordsUseCase.CreateRecordInput{
		FullName:   req.FullName,
		NationalID: customValidation.NormalizeCPF(req.NationalID),
		Phone:      req.Phone,
		Address:    req.Address,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapRecordToResponse(record))
}

// GetHandler retrieves a record by id and runs disclosure over its sensitive
// fields.
// GET /v1/records/:id
// Returns 200 OK; a redacted response omits sensitive fields and sets the
// X-Phi-Redacted header.
func (h *RecordHandler) GetHandler(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	ctx := c.Request.Context()
	actor, ok := authHTTP.GetActor(ctx)
	sc, scOK := authHTTP.GetScope(ctx)
	if !ok || !scOK {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	disclosed, err := h.recordUseCase.Get(ctx, sc, actor, id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if disclosed.Redacted {
		c.Header(redactedHeader, "true")
	}
	c.JSON(http.StatusOK, dto.MapDisclosedRecordToResponse(disclosed))
}

// FindHandler resolves a record by national id through the lookup hash. The
// national id travels in the request body, never in the URL, so it stays out
// of access logs.
// POST /v1/records/find
func (h *RecordHandler) FindHandler(c *gin.Context) {
	var req dto.FindRecordRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	ctx := c.Request.Context()
	actor, ok := authHTTP.GetActor(ctx)
	sc, scOK := authHTTP.GetScope(ctx)
	if !ok || !scOK {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	disclosed, err := h.recordUseCase.FindByNationalID(ctx, sc, actor, customValidation.NormalizeCPF(req.NationalID))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if disclosed.Redacted {
		c.Header(redactedHeader, "true")
	}
	c.JSON(http.StatusOK, dto.MapDisclosedRecordToResponse(disclosed))
}

// ListHandler retrieves records with pagination support. List responses never
// include sensitive fields.
// GET /v1/records?offset=0&limit=50
func (h *RecordHandler) ListHandler(c *gin.Context) {
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

	records, err := h.recordUseCase.List(ctx, sc, offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRecordsToListResponse(records))
}

// UpdateHandler applies a partial update to a record.
// PATCH /v1/records/:id
// Returns 200 OK with record metadata.
func (h *RecordHandler) UpdateHandler(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.UpdateRecordRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	input := recordsUseCase.UpdateRecordInput{
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
	}
	if req.NationalID != nil {
		normalized := customValidation.NormalizeCPF(*req.NationalID)
		input.NationalID = &normalized
	}
	if req.TenantID != "" {
		tenantID, err := uuid.Parse(req.TenantID)
		if err != nil {
			httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid tenant_id parameter"), h.logger)
			return
		}
		input.TenantID = tenantID
	}

	ctx := c.Request.Context()
	actor, ok := authHTTP.GetActor(ctx)
	sc, scOK := authHTTP.GetScope(ctx)
	if !ok || !scOK {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	record, err := h.recordUseCase.Update(ctx, sc, actor, id, input)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapRecordToResponse(record))
}

// DeleteHandler soft deletes a record.
// DELETE /v1/records/:id
// Returns 204 No Content.
func (h *RecordHandler) DeleteHandler(c *gin.Context) {
	id, err := parseIDParam(c)
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

	if err := h.recordUseCase.Delete(ctx, sc, id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// AttachDocumentHandler attaches document metadata to an existing record.
// POST /v1/records/:id/documents
// Returns 201 Created.
func (h *RecordHandler) AttachDocumentHandler(c *gin.Context) {
	id, err := parseIDParam(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	var req dto.AttachDocumentRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	ctx := c.Request.Context()
	actor, ok := authHTTP.GetActor(ctx)
	sc, scOK := authHTTP.GetScope(ctx)
	if !ok || !scOK {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return
	}

	document, err := h.recordUseCase.AttachDocument(ctx, sc, actor, id, recordsUseCase.AttachDocumentInput{
		Filename:    req.Filename,
		ContentType: req.ContentType,
		SizeBytes:   req.SizeBytes,
	})
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapDocumentToResponse(document))
}

// ListDocumentsHandler retrieves the documents of a record.
// GET /v1/records/:id/documents
func (h *RecordHandler) ListDocumentsHandler(c *gin.Context) {
	id, err := parseIDParam(c)
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

	documents, err := h.recordUseCase.ListDocuments(ctx, sc, id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapDocumentsToListResponse(documents))
}

// parseIDParam parses the :id URL parameter as a UUID.
func parseIDParam(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid id parameter: must be a valid UUID")
	}
	return id, nil
}
