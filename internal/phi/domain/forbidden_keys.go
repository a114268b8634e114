package domain

import "strings"

// Category classifies why a key is forbidden in free-form payloads.
type Category string

const (
	CategoryIdentifier Category = "identifier"
	CategoryMedical    Category = "medical"
	CategoryAddress    Category = "address"
	CategoryAuth       Category = "auth"
	CategoryContact    Category = "contact"
)

// KeySetVersion identifies the compiled-in taxonomy below. The configured
// FORBIDDEN_KEY_SET_VERSION must match it at startup: the write guard and the
// sanitizer share this single set, so a version skew between deployment
// config and binary is treated as a vulnerability and aborts boot.
const KeySetVersion = "2025-08-01"

// forbiddenKeys maps normalized key names to their category. The set is
// closed: additions happen here and nowhere else, and bump KeySetVersion.
var forbiddenKeys = map[string]Category{
	// identifiers
	"cpf":             CategoryIdentifier,
	"rg":              CategoryIdentifier,
	"cns":             CategoryIdentifier,
	"national_id":     CategoryIdentifier,
	"ssn":             CategoryIdentifier,
	"passport":        CategoryIdentifier,
	"document_number": CategoryIdentifier,
	"date_of_birth":   CategoryIdentifier,
	"birth_date":      CategoryIdentifier,
	"mother_name":     CategoryIdentifier,

	// medical
	"medical_record": CategoryMedical,
	"diagnosis":      CategoryMedical,
	"allergy":        CategoryMedical,
	"allergies":      CategoryMedical,
	"blood_type":     CategoryMedical,
	"medication":     CategoryMedical,
	"health_plan":    CategoryMedical,

	// address
	"address":      CategoryAddress,
	"street":       CategoryAddress,
	"zip_code":     CategoryAddress,
	"cep":          CategoryAddress,
	"geolocation":  CategoryAddress,
	"home_address": CategoryAddress,

	// auth
	"password":      CategoryAuth,
	"token":         CategoryAuth,
	"secret":        CategoryAuth,
	"api_key":       CategoryAuth,
	"access_token":  CategoryAuth,
	"refresh_token": CategoryAuth,

	// contact
	"email":          CategoryContact,
	"phone":          CategoryContact,
	"phone_number":   CategoryContact,
	"mobile":         CategoryContact,
	"whatsapp":       CategoryContact,
	"emergency_contact": CategoryContact,
}

// ForbiddenKey reports whether the key belongs to the forbidden set and, if
// so, its category. Matching is case-insensitive and treats dashes and camel
// case separators as underscores, so "nationalId", "National-ID" and
// "national_id" are the same key.
func ForbiddenKey(key string) (Category, bool) {
	category, ok := forbiddenKeys[NormalizeKey(key)]
	return category, ok
}

// NormalizeKey lowercases a key and folds dash/camel-case word boundaries
// into underscores.
func NormalizeKey(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)

	prevLower := false
	for _, r := range key {
		switch {
		case r == '-' || r == ' ' || r == '.':
			b.WriteByte('_')
			prevLower = false
		case r >= 'A' && r <= 'Z':
			if prevLower {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			prevLower = false
		default:
			b.WriteRune(r)
			prevLower = r >= 'a' && r <= 'z' || r >= '0' && r <= '9'
		}
	}

	return b.String()
}
