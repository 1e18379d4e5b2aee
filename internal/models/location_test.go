package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLocation_Success(t *testing.T) {
	lat, lon, err := ParseLocation("48.8566,2.3522")

	require.NoError(t, err)
	assert.Equal(t, 48.8566, lat)
	assert.Equal(t, 2.3522, lon)
}

func TestParseLocation_WithSpaces(t *testing.T) {
	lat, lon, err := ParseLocation(" 55.7558 , 37.6173 ")

	require.NoError(t, err)
	assert.Equal(t, 55.7558, lat)
	assert.Equal(t, 37.6173, lon)
}

func TestParseLocation_NegativeCoordinates(t *testing.T) {
	lat, lon, err := ParseLocation("-33.8688,-70.6693")

	require.NoError(t, err)
	assert.Equal(t, -33.8688, lat)
	assert.Equal(t, -70.6693, lon)
}

func TestParseLocation_Malformed(t *testing.T) {
	cases := []string{
		"not,a,point",
		"48.8566",
		"",
		"abc,2.35",
		"48.85,def",
	}

	for _, input := range cases {
		_, _, err := ParseLocation(input)
		assert.Error(t, err, "input %q", input)
	}
}

func TestParseLocation_OutOfRange(t *testing.T) {
	_, _, err := ParseLocation("91.0,0.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "latitude")

	_, _, err = ParseLocation("0.0,181.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "longitude")
}

func TestValidateCoordinates_NonFinite(t *testing.T) {
	assert.Error(t, ValidateCoordinates(math.NaN(), 0))
	assert.Error(t, ValidateCoordinates(0, math.NaN()))
	assert.Error(t, ValidateCoordinates(math.Inf(1), 0))
	assert.Error(t, ValidateCoordinates(0, math.Inf(-1)))
}

func TestValidateCoordinates_Boundaries(t *testing.T) {
	// Граничные значения диапазона допустимы
	assert.NoError(t, ValidateCoordinates(90, 180))
	assert.NoError(t, ValidateCoordinates(-90, -180))
	assert.NoError(t, ValidateCoordinates(0, 0))

	assert.Error(t, ValidateCoordinates(90.0001, 0))
	assert.Error(t, ValidateCoordinates(0, -180.0001))
}
