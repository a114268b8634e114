package domain

import (
	"github.com/allisson/phiguard/internal/errors"
)

// Guard and sanitizer error definitions. Write-path errors abort the
// enclosing transaction; none are downgraded to warnings.
var (
	// ErrEncryptionUnavailable indicates the codec or key material was not
	// reachable (including a per-operation timeout). Infrastructure problem:
	// the write is aborted, the caller may retry.
	ErrEncryptionUnavailable = errors.New("encryption unavailable")

	// ErrPlaintextDetected indicates a value that must be encrypted failed
	// the envelope check before commit. Integrity problem, never retried
	// automatically. The message carries no field-level detail so a blocked
	// write looks like a generic validation failure to the caller.
	ErrPlaintextDetected = errors.Wrap(errors.ErrInvalidInput, "sensitive fields failed validation")

	// ErrUnauthorizedDecrypt indicates a read path outside the disclosure
	// allow-list asked for plaintext. The read degrades to redaction instead
	// of failing, but the attempt is logged and audited at denial severity.
	ErrUnauthorizedDecrypt = errors.Wrap(errors.ErrForbidden, "decrypt not permitted for this actor")

	// ErrSensitiveContentDetected indicates a payload value matched a content
	// detector (national id, email, phone, ...). Unlike forbidden keys, which
	// are stripped silently, content matches are a schema design problem and
	// fail loudly so the producer fixes the event schema.
	ErrSensitiveContentDetected = errors.Wrap(errors.ErrInvalidInput, "sensitive content detected in payload")

	// ErrKeySetVersionMismatch indicates the configured forbidden-key-set
	// version differs from the compiled-in taxonomy.
	ErrKeySetVersionMismatch = errors.New("forbidden key set version mismatch")
)
