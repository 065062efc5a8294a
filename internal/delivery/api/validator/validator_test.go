package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "groovesync/internal/domain/errors"
)

type sampleRequest struct {
	AlbumID string   `json:"album_id" validate:"required"`
	Rate    *float64 `json:"rate" validate:"required,gte=0,lte=5"`
}

func TestRequestValidator_Validate(t *testing.T) {
	v := New()
	rate := 4.5

	require.NoError(t, v.Validate(&sampleRequest{AlbumID: "a", Rate: &rate}))

	err := v.Validate(&sampleRequest{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrValidationFailed)

	var appErr domainerrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Details(), "album_id is required")
	assert.Contains(t, appErr.Details(), "rate is required")

	tooHigh := 5.5
	err = v.Validate(&sampleRequest{AlbumID: "a", Rate: &tooHigh})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "rate must be less than or equal to 5", appErr.Details())
}
