// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	recordsDomain "github.com/allisson/phiguard/internal/records/domain"
	recordsUseCase "github.com/allisson/phiguard/internal/records/usecase"
)

// RecordResponse represents a patient record in API responses. The sensitive
// fields are present only when the disclosure guard allowed decryption; a
// redacted response omits them entirely instead of carrying ciphertext.
type RecordResponse struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenant_id"`
	FullName   string    `json:"full_name"`
	NationalID string    `json:"national_id,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address,omitempty"`
	Redacted   bool      `json:"redacted"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MapRecordToResponse converts a record to an API response without sensitive
// fields. Used for create, update and list, which never disclose.
func MapRecordToResponse(record *recordsDomain.Record) RecordResponse {
	return RecordResponse{
		ID:        record.ID.String(),
		TenantID:  record.TenantID.String(),
		FullName:  record.FullName,
		Redacted:  true,
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}

// MapDisclosedRecordToResponse converts a disclosure outcome to an API
// response. Plaintext fields are included only when the guard allowed it.
func MapDisclosedRecordToResponse(disclosed *recordsUseCase.DisclosedRecord) RecordResponse {
	response := MapRecordToResponse(disclosed.Record)
	if !disclosed.Redacted {
		response.NationalID = disclosed.Record.NationalID
		response.Phone = disclosed.Record.Phone
		response.Address = disclosed.Record.Address
		response.Redacted = false
	}
	return response
}

// ListRecordsResponse represents a paginated list of records in API responses.
type ListRecordsResponse struct {
	Data []RecordResponse `json:"data"`
}

// MapRecordsToListResponse converts a slice of records to a list response.
// List responses never include sensitive fields.
func MapRecordsToListResponse(records []*recordsDomain.Record) ListRecordsResponse {
	data := make([]RecordResponse, 0, len(records))
	for _, record := range records {
		data = append(data, MapRecordToResponse(record))
	}

	return ListRecordsResponse{
		Data: data,
	}
}

// DocumentResponse represents a record document in API responses.
type DocumentResponse struct {
	ID          string    `json:"id"`
	RecordID    string    `json:"record_id"`
	TenantID    string    `json:"tenant_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// MapDocumentToResponse converts a document to an API response.
func MapDocumentToResponse(document *recordsDomain.Document) DocumentResponse {
	return DocumentResponse{
		ID:          document.ID.String(),
		RecordID:    document.RecordID.String(),
		TenantID:    document.TenantID.String(),
		Filename:    document.Filename,
		ContentType: document.ContentType,
		SizeBytes:   document.SizeBytes,
		CreatedAt:   document.CreatedAt,
	}
}

// ListDocumentsResponse represents the documents of a record in API responses.
type ListDocumentsResponse struct {
	Data []DocumentResponse `json:"data"`
}

// MapDocumentsToListResponse converts a slice of documents to a list response.
func MapDocumentsToListResponse(documents []*recordsDomain.Document) ListDocumentsResponse {
	data := make([]DocumentResponse, 0, len(documents))
	for _, document := range documents {
		data = append(data, MapDocumentToResponse(document))
	}

	return ListDocumentsResponse{
		Data: data,
	}
}
