// Package http provides HTTP handlers for tenant administration. These routes
// are admin-only: tenants are the isolation boundary, not tenant-owned data.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/phiguard/internal/httputil"
	"github.com/allisson/phiguard/internal/tenant/http/dto"
	tenantUseCase "github.com/allisson/phiguard/internal/tenant/usecase"
	customValidation "github.com/allisson/phiguard/internal/validation"
)

// TenantHandler handles HTTP requests for tenant administration.
type TenantHandler struct {
	tenantUseCase tenantUseCase.TenantUseCase
	logger        *slog.Logger
}

// NewTenantHandler creates a new tenant handler with required dependencies.
func NewTenantHandler(
	tenantUseCase tenantUseCase.TenantUseCase,
	logger *slog.Logger,
) *TenantHandler {
	return &TenantHandler{
		tenantUseCase: tenantUseCase,
		logger:        logger,
	}
}

// CreateHandler creates a new tenant.
// POST /v1/tenants - admin only.
// Returns 201 Created.
func (h *TenantHandler) CreateHandler(c *gin.Context) {
	var req dto.CreateTenantRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	tenant, err := h.tenantUseCase.Create(c.Request.Context(), req.Name)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapTenantToResponse(tenant))
}

// GetHandler retrieves a tenant by id.
// GET /v1/tenants/:id - admin only.
func (h *TenantHandler) GetHandler(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(c, fmt.Errorf("invalid id parameter: must be a valid UUID"), h.logger)
		return
	}

	tenant, err := h.tenantUseCase.Get(c.Request.Context(), id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTenantToResponse(tenant))
}

// ListHandler retrieves tenants with pagination support.
// GET /v1/tenants?offset=0&limit=50 - admin only.
func (h *TenantHandler) ListHandler(c *gin.Context) {
	offset, limit, err := httputil.ParsePagination(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	tenants, err := h.tenantUseCase.List(c.Request.Context(), offset, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapTenantsToListResponse(tenants))
}
