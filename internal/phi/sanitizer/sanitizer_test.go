package sanitizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	phiDomain "github.com/allisson/phiguard/internal/phi/domain"
)

func newTestSanitizer(t *testing.T) *Sanitizer {
	t.Helper()
	s, err := New(phiDomain.KeySetVersion)
	require.NoError(t, err)
	return s
}

func TestNew(t *testing.T) {
	t.Run("matching key set version", func(t *testing.T) {
		s, err := New(phiDomain.KeySetVersion)
		assert.NoError(t, err)
		assert.NotNil(t, s)
	})

	t.Run("version mismatch aborts", func(t *testing.T) {
		s, err := New("1999-01-01")
		assert.ErrorIs(t, err, phiDomain.ErrKeySetVersionMismatch)
		assert.Nil(t, s)
	})
}

func TestSanitizer_Sanitize(t *testing.T) {
	s := newTestSanitizer(t)

	t.Run("forbidden keys are stripped silently", func(t *testing.T) {
		payload := map[string]any{
			"event":    "appointment_scheduled",
			"cpf":      "529.982.247-25",
			"password": "hunter2",
			"unit":     "cardiology",
		}

		clean, err := s.Sanitize(payload)
		require.NoError(t, err)

		assert.NotContains(t, clean, "cpf")
		assert.NotContains(t, clean, "password")
		assert.Equal(t, "appointment_scheduled", clean["event"])
		assert.Equal(t, "cardiology", clean["unit"])
	})

	t.Run("forbidden keys are stripped at every nesting level", func(t *testing.T) {
		payload := map[string]any{
			"event": "patient_checked_in",
			"metadata": map[string]any{
				"diagnosis": "should disappear",
				"room":      "12B",
				"extra": map[string]any{
					"email": "someone@example.com",
					"floor": "3",
				},
			},
		}

		clean, err := s.Sanitize(payload)
		require.NoError(t, err)

		metadata := clean["metadata"].(map[string]any)
		assert.NotContains(t, metadata, "diagnosis")
		assert.Equal(t, "12B", metadata["room"])

		extra := metadata["extra"].(map[string]any)
		assert.NotContains(t, extra, "email")
		assert.Equal(t, "3", extra["floor"])
	})

	t.Run("sequences are scanned recursively", func(t *testing.T) {
		payload := map[string]any{
			"items": []any{
				map[string]any{"phone": "+55 11 98765-4321", "kind": "exam"},
				map[string]any{"kind": "consultation"},
			},
		}

		clean, err := s.Sanitize(payload)
		require.NoError(t, err)

		items := clean["items"].([]any)
		first := items[0].(map[string]any)
		assert.NotContains(t, first, "phone")
		assert.Equal(t, "exam", first["kind"])
	})

	t.Run("cpf content under an allowed key raises an error", func(t *testing.T) {
		payload := map[string]any{
			"note": "patient cpf is 351.972.580-73",
		}

		clean, err := s.Sanitize(payload)
		assert.ErrorIs(t, err, phiDomain.ErrSensitiveContentDetected)
		assert.Nil(t, clean)
		assert.Contains(t, err.Error(), `"note"`)
		// The offending value itself is never echoed back.
		assert.NotContains(t, err.Error(), "351.972.580-73")
	})

	t.Run("email content in nested value raises an error", func(t *testing.T) {
		payload := map[string]any{
			"metadata": map[string]any{
				"comment": "reach me at someone@example.com",
			},
		}

		_, err := s.Sanitize(payload)
		assert.ErrorIs(t, err, phiDomain.ErrSensitiveContentDetected)
		assert.Contains(t, err.Error(), `"metadata.comment"`)
	})

	t.Run("postal code content raises an error", func(t *testing.T) {
		payload := map[string]any{"note": "delivery to 01310-100 downtown"}

		_, err := s.Sanitize(payload)
		assert.ErrorIs(t, err, phiDomain.ErrSensitiveContentDetected)
	})

	t.Run("uppercase full name raises an error", func(t *testing.T) {
		payload := map[string]any{"display": "MARIA DA SILVA"}

		_, err := s.Sanitize(payload)
		assert.ErrorIs(t, err, phiDomain.ErrSensitiveContentDetected)
	})

	t.Run("clean payload passes unchanged", func(t *testing.T) {
		payload := map[string]any{
			"event":    "report_generated",
			"count":    float64(3),
			"archived": true,
			"note":     "quarterly numbers look fine",
		}

		clean, err := s.Sanitize(payload)
		require.NoError(t, err)
		assert.Equal(t, payload, clean)
	})

	t.Run("identical input yields identical decision", func(t *testing.T) {
		payload := map[string]any{"note": "nothing sensitive here"}

		first, err := s.Sanitize(payload)
		require.NoError(t, err)
		second, err := s.Sanitize(payload)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})
}
