package geospatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseISO6709(t *testing.T) {
	tests := []struct {
		in      string
		lat     float64
		lon     float64
		alt     *float64
		wantErr bool
	}{
		{in: "+37.7749-122.4194/", lat: 37.7749, lon: -122.4194},
		{in: "+37.7749-122.4194", lat: 37.7749, lon: -122.4194},
		{in: "+37.7749-122.4194+010.000/", lat: 37.7749, lon: -122.4194, alt: f64(10)},
		{in: "-33.8688+151.2093/", lat: -33.8688, lon: 151.2093},
		{in: "+27.5916+086.5640+8850CRS84/", lat: 27.5916, lon: 86.5640, alt: f64(8850)},
		{in: "37.7749,-122.4194", wantErr: true},
		{in: "", wantErr: true},
		{in: "+91.0000+000.0000/", wantErr: true},
		{in: "+00.0000-181.0000/", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			lat, lon, alt, err := parseISO6709(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.lat, lat, 1e-9)
			assert.InDelta(t, tt.lon, lon, 1e-9)
			if tt.alt == nil {
				assert.Nil(t, alt)
			} else {
				require.NotNil(t, alt)
				assert.InDelta(t, *tt.alt, *alt, 1e-9)
			}
		})
	}
}

func f64(v float64) *float64 { return &v }
