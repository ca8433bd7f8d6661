package geospatial

import (
	"fmt"
	"regexp"
	"strconv"
)

// iso6709Re matches the point form written by phone cameras:
// +DD.DDDD+DDD.DDDD(+ALT)(/).
var iso6709Re = regexp.MustCompile(`^([+-]\d+(?:\.\d+)?)([+-]\d+(?:\.\d+)?)([+-]\d+(?:\.\d+)?)?(?:CRS[^/]*)?/?$`)

// parseISO6709 parses an ISO 6709 location string into latitude,
// longitude, and an optional altitude.
func parseISO6709(s string) (lat, lon float64, alt *float64, err error) {
	m := iso6709Re.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, nil, fmt.Errorf("not an ISO 6709 point: %q", s)
	}
	lat, err = strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("latitude in %q: %w", s, err)
	}
	lon, err = strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("longitude in %q: %w", s, err)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, nil, fmt.Errorf("coordinates out of range in %q", s)
	}
	if m[3] != "" {
		a, err := strconv.ParseFloat(m[3], 64)
		if err != nil {
			return 0, 0, nil, fmt.Errorf("altitude in %q: %w", s, err)
		}
		alt = &a
	}
	return lat, lon, alt, nil
}
