// Package domain defines the audit record emitted on every guard decision.
// Records are produced by this service and handed to an external append-only
// sink; they are never mutated after creation and this subsystem does not own
// their retention.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Decision is the outcome of a guard evaluation.
type Decision string

const (
	// DecisionAllowed means the guarded operation proceeded.
	DecisionAllowed Decision = "allowed"
	// DecisionDenied means the guarded operation was rejected or redacted.
	DecisionDenied Decision = "denied"
)

// Record captures one guard decision: what entity was touched, which
// sensitive fields were involved, who asked, and what the guard decided.
type Record struct {
	ID         uuid.UUID
	EntityType string
	EntityID   uuid.UUID
	Fields     []string
	Operation  string
	Decision   Decision
	Reason     string
	ActorID    uuid.UUID
	ActorRole  string
	TenantID   uuid.UUID
	CreatedAt  time.Time
}

// NewRecord builds an audit record stamped with the current UTC time.
func NewRecord(
	entityType string,
	entityID uuid.UUID,
	fields []string,
	operation string,
	decision Decision,
	reason string,
	actorID uuid.UUID,
	actorRole string,
	tenantID uuid.UUID,
) *Record {
	return &Record{
		ID:         uuid.Must(uuid.NewV7()),
		EntityType: entityType,
		EntityID:   entityID,
		Fields:     fields,
		Operation:  operation,
		Decision:   decision,
		Reason:     reason,
		ActorID:    actorID,
		ActorRole:  actorRole,
		TenantID:   tenantID,
		CreatedAt:  time.Now().UTC(),
	}
}
