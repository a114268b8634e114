// Package sanitizer validates free-form payloads (analytics events, metadata
// blobs) against the forbidden-key taxonomy and a set of content detectors.
//
// The two mechanisms fail differently on purpose. Forbidden keys are stripped
// silently: the taxonomy is the authority on what those keys mean, so removal
// is safe. Content matches inside allowed keys raise an error instead: a CPF
// inside a "note" field means the event schema is wrong, and silently
// dropping the value would hide the design problem.
//
// Nested maps and sequences are scanned fully recursively; the sanitizer is
// pure and stateless, so identical input always yields an identical decision.
package sanitizer

import (
	"fmt"
	"regexp"

	phiDomain "github.com/allisson/phiguard/internal/phi/domain"
)

// detector is one compiled content pattern.
type detector struct {
	category string
	re       *regexp.Regexp
}

// detectors are the compiled content patterns, checked in order. Patterns
// target Brazilian identity formats (CPF, CEP, BR phone) plus generic email
// and an uppercase full-name heuristic.
var detectors = []detector{
	// CPF: 351.972.580-73
	{"cpf", regexp.MustCompile(`\b\d{3}\.\d{3}\.\d{3}-\d{2}\b`)},

	// CPF without punctuation: exactly 11 digits standing alone
	{"cpf", regexp.MustCompile(`\b\d{11}\b`)},

	// Email
	{"email", regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)},

	// Brazilian phone: optional +55 and area code, 8-9 digit number
	{"phone", regexp.MustCompile(`(?:\+55\s?)?(?:\(\d{2}\)\s?|\b\d{2}\s)?\b9?\d{4}[-\s]\d{4}\b`)},

	// CEP postal code: 01310-100
	{"postal_code", regexp.MustCompile(`\b\d{5}-\d{3}\b`)},

	// Uppercase full-name heuristic: the whole value is two or more all-caps
	// words, the way registry systems store legal names
	{"name", regexp.MustCompile(`^[A-ZÀ-Ü]{2,}(?: [A-ZÀ-Ü]{2,})+$`)},
}

// Sanitizer scans arbitrary nested payloads before they leave the service.
type Sanitizer struct{}

// New creates a Sanitizer. It fails when the configured key-set version does
// not match the compiled-in taxonomy: the write guard and the sanitizer share
// one forbidden-key set, and a skew between the two is itself a vulnerability.
func New(keySetVersion string) (*Sanitizer, error) {
	if keySetVersion != phiDomain.KeySetVersion {
		return nil, fmt.Errorf(
			"%w: configured %q, compiled %q",
			phiDomain.ErrKeySetVersionMismatch, keySetVersion, phiDomain.KeySetVersion,
		)
	}
	return &Sanitizer{}, nil
}

// Sanitize returns a copy of the payload with forbidden keys removed at every
// nesting level. It returns ErrSensitiveContentDetected when any remaining
// string value matches a content detector; the offending value is never
// echoed back, only its category and key path.
func (s *Sanitizer) Sanitize(payload map[string]any) (map[string]any, error) {
	return s.sanitizeMap(payload, "")
}

func (s *Sanitizer) sanitizeMap(payload map[string]any, path string) (map[string]any, error) {
	clean := make(map[string]any, len(payload))

	for key, value := range payload {
		if _, forbidden := phiDomain.ForbiddenKey(key); forbidden {
			continue
		}

		childPath := key
		if path != "" {
			childPath = path + "." + key
		}

		sanitized, err := s.sanitizeValue(value, childPath)
		if err != nil {
			return nil, err
		}
		clean[key] = sanitized
	}

	return clean, nil
}

func (s *Sanitizer) sanitizeValue(value any, path string) (any, error) {
	switch v := value.(type) {
	case map[string]any:
		return s.sanitizeMap(v, path)

	case []any:
		clean := make([]any, 0, len(v))
		for i, item := range v {
			sanitized, err := s.sanitizeValue(item, fmt.Sprintf("%s[%d]", path, i))
			if err != nil {
				return nil, err
			}
			clean = append(clean, sanitized)
		}
		return clean, nil

	case string:
		if category, matched := detect(v); matched {
			return nil, fmt.Errorf(
				"%w: %s content under key %q",
				phiDomain.ErrSensitiveContentDetected, category, path,
			)
		}
		return v, nil

	default:
		return v, nil
	}
}

// detect runs all content detectors over a string value.
func detect(value string) (category string, matched bool) {
	for _, d := range detectors {
		if d.re.MatchString(value) {
			return d.category, true
		}
	}
	return "", false
}
