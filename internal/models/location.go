package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseLocation разбирает строку вида "lat,lon" в пару координат.
// Формат строки клиентский: широта первой, долгота второй.
func ParseLocation(s string) (lat, lon float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("location must be in \"lat,lon\" format, got %q", s)
	}

	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude %q", parts[0])
	}

	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude %q", parts[1])
	}

	if err := ValidateCoordinates(lat, lon); err != nil {
		return 0, 0, err
	}
	return lat, lon, nil
}

// ValidateCoordinates проверяет, что координаты являются корректной точкой WGS 84
func ValidateCoordinates(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return fmt.Errorf("coordinates are not finite numbers")
	}
	if lat < -90 || lat > 90 {
		return fmt.Errorf("latitude %v is out of range [-90, 90]", lat)
	}
	if lon < -180 || lon > 180 {
		return fmt.Errorf("longitude %v is out of range [-180, 180]", lon)
	}
	return nil
}
