// Package validation provides custom validation rules for the application.
package validation

import (
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/phiguard/internal/errors"
)

var (
	// emailRegex is a basic email validation pattern
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// cpfDigits strips the canonical XXX.XXX.XXX-XX punctuation
	cpfNonDigits = regexp.MustCompile(`[.\-]`)
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// Email validates email format using regex
var Email = validation.NewStringRuleWithError(
	func(s string) bool {
		return emailRegex.MatchString(s)
	},
	validation.NewError("validation_email_format", "must be a valid email address"),
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// NoWhitespace validates that string doesn't contain leading/trailing whitespace
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return s == strings.TrimSpace(s)
	},
	validation.NewError("validation_no_whitespace", "must not contain leading or trailing whitespace"),
)

// NormalizeCPF reduces a CPF to its bare 11 digits. Sealed values and lookup
// hashes are always derived from the normalized form, so "529.982.247-25" and
// "52998224725" resolve to the same record.
func NormalizeCPF(s string) string {
	return cpfNonDigits.ReplaceAllString(s, "")
}

// CPF validates a Brazilian CPF number, with or without punctuation, by
// verifying both check digits. The error message never echoes the value.
var CPF = validation.NewStringRuleWithError(
	validCPF,
	validation.NewError("validation_cpf", "must be a valid CPF number"),
)

func validCPF(s string) bool {
	digits := cpfNonDigits.ReplaceAllString(s, "")
	if len(digits) != 11 {
		return false
	}

	same := true
	for i := range digits {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
		if digits[i] != digits[0] {
			same = false
		}
	}
	// A repeated digit passes the checksum but is not a valid CPF.
	if same {
		return false
	}

	return cpfCheckDigit(digits, 9) == int(digits[9]-'0') &&
		cpfCheckDigit(digits, 10) == int(digits[10]-'0')
}

// cpfCheckDigit computes the check digit over the first n digits with
// descending weights starting at n+1.
func cpfCheckDigit(digits string, n int) int {
	sum := 0
	for i := 0; i < n; i++ {
		sum += int(digits[i]-'0') * (n + 1 - i)
	}
	rest := (sum * 10) % 11
	if rest == 10 {
		return 0
	}
	return rest
}
