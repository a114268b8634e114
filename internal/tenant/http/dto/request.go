// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	appValidation "github.com/allisson/phiguard/internal/validation"
)

// CreateTenantRequest contains the parameters for creating a tenant.
type CreateTenantRequest struct {
	Name string `json:"name"`
}

// Validate checks if the create tenant request is valid.
func (r *CreateTenantRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
	)
}
