package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/phiguard/internal/errors"
)

func TestWrapValidationError(t *testing.T) {
	assert.Nil(t, WrapValidationError(nil))

	err := WrapValidationError(assert.AnError)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestEmail(t *testing.T) {
	assert.NoError(t, Email.Validate("user@example.com"))
	assert.Error(t, Email.Validate("not-an-email"))
	assert.Error(t, Email.Validate("user@"))
}

func TestNotBlank(t *testing.T) {
	assert.NoError(t, NotBlank.Validate("value"))
	assert.Error(t, NotBlank.Validate("   "))
}

func TestNoWhitespace(t *testing.T) {
	assert.NoError(t, NoWhitespace.Validate("value"))
	assert.Error(t, NoWhitespace.Validate(" value"))
	assert.Error(t, NoWhitespace.Validate("value "))
}

func TestNormalizeCPF(t *testing.T) {
	assert.Equal(t, "52998224725", NormalizeCPF("529.982.247-25"))
	assert.Equal(t, "52998224725", NormalizeCPF("52998224725"))
}

func TestCPF(t *testing.T) {
	t.Run("valid with punctuation", func(t *testing.T) {
		assert.NoError(t, CPF.Validate("529.982.247-25"))
	})

	t.Run("valid without punctuation", func(t *testing.T) {
		assert.NoError(t, CPF.Validate("52998224725"))
	})

	t.Run("wrong check digits", func(t *testing.T) {
		assert.Error(t, CPF.Validate("529.982.247-26"))
		assert.Error(t, CPF.Validate("351.972.580-73"))
	})

	t.Run("repeated digits", func(t *testing.T) {
		assert.Error(t, CPF.Validate("111.111.111-11"))
		assert.Error(t, CPF.Validate("00000000000"))
	})

	t.Run("wrong length", func(t *testing.T) {
		assert.Error(t, CPF.Validate("5299822472"))
		assert.Error(t, CPF.Validate("529982247255"))
	})

	t.Run("non-digit characters", func(t *testing.T) {
		assert.Error(t, CPF.Validate("529.982.24a-25"))
	})
}
