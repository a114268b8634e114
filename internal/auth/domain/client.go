// Package domain defines API clients and the actor identity resolved from
// their credentials. The actor carries the tenant identity used for query
// scoping and the role checked against the disclosure allow-list.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Roles an API client can hold.
const (
	// RoleStaff may view decrypted sensitive fields of its own tenant.
	RoleStaff = "staff"
	// RoleService ingests events and records but never sees plaintext PHI.
	RoleService = "service"
	// RoleAdmin is staff plus administrative operations.
	RoleAdmin = "admin"
)

// Client represents an authenticating API client bound to a tenant.
type Client struct {
	ID uuid.UUID
	// TenantID is the tenant every query from this client is scoped to.
	TenantID uuid.UUID
	Name     string
	// HashedSecret is the pwdhash-encoded client secret; the plaintext secret
	// is shown once at creation and never stored.
	HashedSecret string
	Role         string
	Active       bool
	CreatedAt    time.Time
}

// Actor is the authenticated identity attached to a request.
type Actor struct {
	ClientID uuid.UUID
	TenantID uuid.UUID
	Role     string
}

// ActorFromClient builds the request actor for an authenticated client.
func ActorFromClient(client *Client) Actor {
	return Actor{
		ClientID: client.ID,
		TenantID: client.TenantID,
		Role:     client.Role,
	}
}
