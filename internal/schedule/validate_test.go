package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatAllowed(t *testing.T) {
	for _, f := range AllowedFormats {
		assert.True(t, FormatAllowed(f), f)
	}
	assert.False(t, FormatAllowed("5D"))
	assert.False(t, FormatAllowed("imax"), "format matching is case sensitive")
	assert.False(t, FormatAllowed(""))
}

func TestValidateInterval(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)

	assert.NoError(t, ValidateInterval(future, future.Add(2*time.Hour), true))

	err := ValidateInterval(time.Time{}, future, true)
	require.Error(t, err)
	assert.True(t, IsValidation(err))

	// end not after start
	assert.Error(t, ValidateInterval(future, future, false))
	assert.Error(t, ValidateInterval(future, future.Add(-time.Hour), false))

	// duration bounds
	assert.Error(t, ValidateInterval(future, future.Add(29*time.Minute), false))
	assert.NoError(t, ValidateInterval(future, future.Add(30*time.Minute), false))
	assert.NoError(t, ValidateInterval(future, future.Add(300*time.Minute), false))
	assert.Error(t, ValidateInterval(future, future.Add(301*time.Minute), false))

	// past start is rejected on create, accepted on edit
	past := time.Now().Add(-24 * time.Hour)
	assert.Error(t, ValidateInterval(past, past.Add(2*time.Hour), true))
	assert.NoError(t, ValidateInterval(past, past.Add(2*time.Hour), false))
}

func TestValidatePricing(t *testing.T) {
	fees := []SeatTypeFee{
		{Type: SeatStandard, ExtraFee: 0},
		{Type: SeatVIP, ExtraFee: 50_000},
		{Type: SeatCouple, ExtraFee: 120_000},
	}

	assert.NoError(t, ValidatePricing(100_000, fees))
	assert.NoError(t, ValidatePricing(MinBasePrice, fees))
	assert.NoError(t, ValidatePricing(MaxBasePrice, fees))

	assert.Error(t, ValidatePricing(MinBasePrice-1, fees))
	assert.Error(t, ValidatePricing(MaxBasePrice+1, fees))
	assert.Error(t, ValidatePricing(100_000, nil), "fee list must not be empty")
	assert.Error(t, ValidatePricing(100_000, []SeatTypeFee{{Type: "recliner", ExtraFee: 0}}))
	assert.Error(t, ValidatePricing(100_000, []SeatTypeFee{
		{Type: SeatVIP, ExtraFee: 10_000},
		{Type: SeatVIP, ExtraFee: 20_000},
	}), "duplicate seat types are rejected")
	assert.Error(t, ValidatePricing(100_000, []SeatTypeFee{{Type: SeatVIP, ExtraFee: -1}}))
	assert.Error(t, ValidatePricing(100_000, []SeatTypeFee{{Type: SeatVIP, ExtraFee: MaxExtraFee + 1}}))
}

func TestCheckFormat(t *testing.T) {
	room := &Room{SupportedFormats: []string{"2D", "IMAX"}}
	film := &Film{AvailableFormats: []string{"2D", "3D"}}

	assert.NoError(t, CheckFormat("2D", room, film))
	assert.ErrorIs(t, CheckFormat("3D", room, film), ErrRoomFormat)
	assert.ErrorIs(t, CheckFormat("IMAX", room, film), ErrFilmFormat)
	// Room is checked first when both sides reject.
	assert.ErrorIs(t, CheckFormat("4DX", room, film), ErrRoomFormat)
}
