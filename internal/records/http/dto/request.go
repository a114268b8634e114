// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	validation "github.com/jellydator/validation"

	appValidation "github.com/allisson/phiguard/internal/validation"
)

// CreateRecordRequest contains the parameters for creating a patient record.
type CreateRecordRequest struct {
	FullName   string `json:"full_name"`
	NationalID string `json:"national_id"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
}

// Validate checks if the create record request is valid.
func (r *CreateRecordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.FullName,
			validation.Required.Error("full_name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("full_name must be between 1 and 255 characters"),
		),
		validation.Field(&r.NationalID,
			validation.Required.Error("national_id is required"),
			appValidation.CPF,
		),
		validation.Field(&r.Phone,
			validation.Length(0, 32).Error("phone must be at most 32 characters"),
		),
		validation.Field(&r.Address,
			validation.Length(0, 512).Error("address must be at most 512 characters"),
		),
	)
}

// UpdateRecordRequest contains a partial update for a patient record.
// Omitted fields are left unchanged. TenantID is accepted only so an attempt
// to reassign ownership can be rejected explicitly.
type UpdateRecordRequest struct {
	FullName   *string `json:"full_name"`
	NationalID *string `json:"national_id"`
	Phone      *string `json:"phone"`
	Address    *string `json:"address"`
	TenantID   string  `json:"tenant_id"`
}

// Validate checks if the update record request is valid.
func (r *UpdateRecordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.FullName,
			validation.NilOrNotEmpty.Error("full_name must not be empty"),
			validation.Length(1, 255).Error("full_name must be between 1 and 255 characters"),
		),
		validation.Field(&r.NationalID,
			appValidation.CPF,
		),
		validation.Field(&r.Phone,
			validation.Length(0, 32).Error("phone must be at most 32 characters"),
		),
		validation.Field(&r.Address,
			validation.Length(0, 512).Error("address must be at most 512 characters"),
		),
	)
}

// AttachDocumentRequest contains the metadata of a document attached to a record.
type AttachDocumentRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
}

// Validate checks if the attach document request is valid.
func (r *AttachDocumentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Filename,
			validation.Required.Error("filename is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("filename must be between 1 and 255 characters"),
		),
		validation.Field(&r.ContentType,
			validation.Required.Error("content_type is required"),
			validation.Length(1, 127).Error("content_type must be between 1 and 127 characters"),
		),
		validation.Field(&r.SizeBytes,
			validation.Min(int64(1)).Error("size_bytes must be positive"),
		),
	)
}

// FindRecordRequest contains the lookup parameters for an equality search
// over the encrypted national id.
type FindRecordRequest struct {
	NationalID string `json:"national_id"`
}

// Validate checks if the find record request is valid.
func (r *FindRecordRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.NationalID,
			validation.Required.Error("national_id is required"),
			appValidation.CPF,
		),
	)
}
