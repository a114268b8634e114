// Package guard implements the PHI field guard: the write-path check that no
// declared sensitive field reaches storage unencrypted, and the read-path
// discloser that redacts sensitive fields for actors outside the disclosure
// allow-list. The guard is invoked explicitly by use cases inside the same
// transaction as the repository write, so approval and persistence are
// atomic; there is no implicit lifecycle hook a new code path could forget.
package guard

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/allisson/phiguard/internal/audit"
	auditDomain "github.com/allisson/phiguard/internal/audit/domain"
	authDomain "github.com/allisson/phiguard/internal/auth/domain"
	cryptoDomain "github.com/allisson/phiguard/internal/crypto/domain"
	cryptoService "github.com/allisson/phiguard/internal/crypto/service"
	phiDomain "github.com/allisson/phiguard/internal/phi/domain"
)

// writeState tracks a guarded write through its state machine.
type writeState int

const (
	statePending writeState = iota
	stateValidated
	stateRejected
)

func (s writeState) String() string {
	switch s {
	case stateValidated:
		return "validated"
	case stateRejected:
		return "rejected"
	default:
		return "pending"
	}
}

// SealResult holds the encrypted field values and lookup hashes produced by a
// validated write.
type SealResult struct {
	// Values maps field name to its encoded ciphertext envelope.
	Values map[string]string
	// Hashes maps lookup-capable field names to their keyed digest. Fields
	// that passed through as already-sealed envelopes have no new hash.
	Hashes map[string]string
}

// FieldGuard guards one entity type's sensitive fields.
type FieldGuard struct {
	fieldSet        phiDomain.FieldSet
	codec           cryptoService.FieldCodec
	hasher          cryptoService.LookupHasher
	sink            audit.Sink
	disclosureRoles map[string]struct{}
	codecTimeout    time.Duration
	logger          *slog.Logger
}

// NewFieldGuard creates a guard for the given field set. disclosureRoles is
// the allow-list of actor roles entitled to receive decrypted values.
func NewFieldGuard(
	fieldSet phiDomain.FieldSet,
	codec cryptoService.FieldCodec,
	hasher cryptoService.LookupHasher,
	sink audit.Sink,
	disclosureRoles []string,
	codecTimeout time.Duration,
	logger *slog.Logger,
) *FieldGuard {
	roles := make(map[string]struct{}, len(disclosureRoles))
	for _, role := range disclosureRoles {
		roles[role] = struct{}{}
	}

	return &FieldGuard{
		fieldSet:        fieldSet,
		codec:           codec,
		hasher:          hasher,
		sink:            sink,
		disclosureRoles: roles,
		codecTimeout:    codecTimeout,
		logger:          logger,
	}
}

// Seal validates and encrypts the sensitive fields of one write operation.
//
// values maps field name to its in-memory value: dirty plaintext to be
// encrypted, or an already-encoded envelope to pass through unchanged. Any
// field that cannot be proven encrypted rejects the entire write; callers run
// Seal inside the same transaction as the persistence write so a rejection
// rolls back every field (no partial writes).
func (g *FieldGuard) Seal(
	ctx context.Context,
	operation string,
	entityID uuid.UUID,
	tenantID uuid.UUID,
	actor authDomain.Actor,
	values map[string]string,
) (*SealResult, error) {
	state := statePending
	touched := make([]string, 0, len(values))
	result := &SealResult{
		Values: make(map[string]string, len(values)),
		Hashes: make(map[string]string),
	}

	var rejection error

	for name, value := range values {
		touched = append(touched, name)

		// A value outside the declared set cannot be proven encrypted by
		// this guard, so its presence rejects the write.
		if !g.fieldSet.Contains(name) {
			rejection = phiDomain.ErrPlaintextDetected
			break
		}

		if cryptoDomain.IsEncoded(value) {
			result.Values[name] = value
			continue
		}

		sealed, err := g.encrypt(ctx, value)
		if err != nil {
			rejection = err
			break
		}
		result.Values[name] = sealed

		if g.fieldSet.SupportsLookup(name) {
			result.Hashes[name] = g.hasher.Hash(value)
		}
	}

	if rejection == nil {
		// Final structural pass: everything about to be persisted must carry
		// envelope framing, whatever path produced it.
		for _, sealed := range result.Values {
			if !cryptoDomain.IsEncoded(sealed) {
				rejection = phiDomain.ErrPlaintextDetected
				break
			}
		}
	}

	if rejection != nil {
		state = stateRejected
	} else {
		state = stateValidated
	}

	g.logger.Debug("guarded write evaluated",
		slog.String("entity_type", g.fieldSet.Entity),
		slog.String("entity_id", entityID.String()),
		slog.String("state", state.String()),
	)

	if state == stateRejected {
		g.emit(ctx, operation, entityID, tenantID, actor, touched, auditDomain.DecisionDenied, rejection.Error())
		return nil, rejection
	}

	g.emit(ctx, operation, entityID, tenantID, actor, touched, auditDomain.DecisionAllowed, "")
	return result, nil
}

// Disclose decrypts sealed fields for an allow-listed actor, or redacts.
//
// For actors outside the allow-list the fields are omitted entirely (not
// masked) and redacted=true is returned with no error: the unauthorized
// attempt degrades to redaction for the end user but is audited and logged at
// the same severity as a write-path rejection.
func (g *FieldGuard) Disclose(
	ctx context.Context,
	entityID uuid.UUID,
	tenantID uuid.UUID,
	actor authDomain.Actor,
	sealed map[string]string,
) (values map[string]string, redacted bool, err error) {
	fields := make([]string, 0, len(sealed))
	for name := range sealed {
		fields = append(fields, name)
	}

	if _, ok := g.disclosureRoles[actor.Role]; !ok {
		g.logger.Warn("unauthorized decrypt attempt",
			slog.String("entity_type", g.fieldSet.Entity),
			slog.String("entity_id", entityID.String()),
			slog.String("actor_id", actor.ClientID.String()),
			slog.String("actor_role", actor.Role),
		)
		g.emit(ctx, "disclose", entityID, tenantID, actor, fields,
			auditDomain.DecisionDenied, phiDomain.ErrUnauthorizedDecrypt.Error())
		return nil, true, nil
	}

	values = make(map[string]string, len(sealed))
	for name, envelope := range sealed {
		plaintext, decErr := g.decrypt(ctx, envelope)
		if decErr != nil {
			g.emit(ctx, "disclose", entityID, tenantID, actor, fields,
				auditDomain.DecisionDenied, decErr.Error())
			return nil, false, decErr
		}
		values[name] = plaintext
	}

	g.emit(ctx, "disclose", entityID, tenantID, actor, fields, auditDomain.DecisionAllowed, "")
	return values, false, nil
}

// encrypt runs one codec call under the per-operation timeout. Codec failures
// and deadline hits classify as ErrEncryptionUnavailable.
func (g *FieldGuard) encrypt(ctx context.Context, plaintext string) (string, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	sealed, err := g.codec.EncryptString(ctx, plaintext)
	if err != nil {
		return "", phiDomain.ErrEncryptionUnavailable
	}
	return sealed, nil
}

// decrypt runs one codec call under the per-operation timeout. Tag or framing
// failures keep their integrity error; deadline hits classify as
// ErrEncryptionUnavailable.
func (g *FieldGuard) decrypt(ctx context.Context, envelope string) (string, error) {
	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	plaintext, err := g.codec.DecryptString(ctx, envelope)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return "", phiDomain.ErrEncryptionUnavailable
		}
		return "", err
	}
	return plaintext, nil
}

func (g *FieldGuard) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.codecTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, g.codecTimeout)
}

// emit hands one audit record to the sink. Sink failures are logged loudly
// but do not retroactively change the guard decision.
func (g *FieldGuard) emit(
	ctx context.Context,
	operation string,
	entityID uuid.UUID,
	tenantID uuid.UUID,
	actor authDomain.Actor,
	fields []string,
	decision auditDomain.Decision,
	reason string,
) {
	record := auditDomain.NewRecord(
		g.fieldSet.Entity,
		entityID,
		fields,
		operation,
		decision,
		reason,
		actor.ClientID,
		actor.Role,
		tenantID,
	)

	if err := g.sink.Emit(ctx, record); err != nil {
		g.logger.Error("failed to emit audit record",
			slog.String("audit_id", record.ID.String()),
			slog.Any("error", err),
		)
	}
}
