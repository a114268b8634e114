package dto

import (
	"time"

	tenantDomain "github.com/allisson/phiguard/internal/tenant/domain"
)

// TenantResponse represents a tenant in API responses.
type TenantResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
}

// MapTenantToResponse converts a domain tenant to an API response.
func MapTenantToResponse(tenant *tenantDomain.Tenant) TenantResponse {
	return TenantResponse{
		ID:        tenant.ID.String(),
		Name:      tenant.Name,
		Active:    tenant.Active,
		CreatedAt: tenant.CreatedAt,
	}
}

// ListTenantsResponse represents a paginated list of tenants in API responses.
type ListTenantsResponse struct {
	Data []TenantResponse `json:"data"`
}

// MapTenantsToListResponse converts a slice of domain tenants to a list response.
func MapTenantsToListResponse(tenants []*tenantDomain.Tenant) ListTenantsResponse {
	data := make([]TenantResponse, 0, len(tenants))
	for _, tenant := range tenants {
		data = append(data, MapTenantToResponse(tenant))
	}

	return ListTenantsResponse{
		Data: data,
	}
}
