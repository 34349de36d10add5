package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const earthRadiusMiles = 3958.8

// Distance returns the great-circle distance in miles between two
// latitude/longitude pairs, using the haversine formula.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	clat := lat1 * math.Pi / 180
	clon := lon1 * math.Pi / 180

	elat := lat2 * math.Pi / 180
	elon := lon2 * math.Pi / 180

	dlat := elat - clat
	dlon := elon - clon

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(clat)*math.Cos(elat)*
			math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMiles * c
}

// ParseCoordinates parses a latitude/longitude pair expressed as strings.
func ParseCoordinates(lat, lon string) (float64, float64, error) {
	latVal, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude %q: %w", lat, err)
	}

	lonVal, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude %q: %w", lon, err)
	}

	return latVal, lonVal, nil
}
