package dto

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/gearguard/pkg/util/errorutil"
)

func validationDetails(t *testing.T, err error) map[string]any {
	t.Helper()
	var domainErr *apperrors.DomainError
	require.True(t, errors.As(err, &domainErr))
	require.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	return domainErr.Details
}

func TestCompleteRequestValidation(t *testing.T) {
	t.Run("missing duration is rejected", func(t *testing.T) {
		err := Validate(CompleteRequest{})
		require.Error(t, err)
		assert.Contains(t, validationDetails(t, err), "DurationHours")
	})

	t.Run("explicit zero duration passes", func(t *testing.T) {
		zero := 0.0
		assert.NoError(t, Validate(CompleteRequest{DurationHours: &zero}))
	})

	t.Run("negative duration is rejected", func(t *testing.T) {
		negative := -1.5
		err := Validate(CompleteRequest{DurationHours: &negative})
		require.Error(t, err)
		assert.Contains(t, validationDetails(t, err), "DurationHours")
	})

	t.Run("positive duration passes", func(t *testing.T) {
		hours := 3.5
		assert.NoError(t, Validate(CompleteRequest{DurationHours: &hours}))
	})
}
