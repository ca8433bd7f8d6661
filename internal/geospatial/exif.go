package geospatial

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bep/imagemeta"

	"github.com/deepsecure/deepsecure-analysis-service/internal/domain/entity"
)

// sidecarPaths lists the camera thumbnail candidates written next to a
// video (GoPro and action cams ship a .THM carrying the full EXIF
// block, GPS included).
func sidecarPaths(videoPath string) []string {
	base := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
	return []string{base + ".THM", base + ".thm", base + ".JPG", base + ".jpg"}
}

var wantedGPSTags = map[string]bool{
	"GPSLatitude":      true,
	"GPSLongitude":     true,
	"GPSAltitude":      true,
	"GPSSatellites":    true,
	"DateTimeOriginal": true,
	"Make":             true,
	"Model":            true,
}

// gpsFromSidecar parses EXIF GPS tags out of one sidecar image.
func gpsFromSidecar(path string) (*entity.GPSMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tags := map[string]any{}
	_, err = imagemeta.Decode(imagemeta.Options{
		R:       f,
		Sources: imagemeta.EXIF,
		ShouldHandleTag: func(ti imagemeta.TagInfo) bool {
			return wantedGPSTags[ti.Tag]
		},
		HandleTag: func(ti imagemeta.TagInfo) error {
			tags[ti.Tag] = ti.Value
			return nil
		},
	})
	if err != nil {
		return nil, fmt.Errorf("decode sidecar %s: %w", path, err)
	}

	lat, okLat := tagFloat(tags["GPSLatitude"])
	lon, okLon := tagFloat(tags["GPSLongitude"])
	if !okLat || !okLon || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, fmt.Errorf("no usable GPS coordinates in %s", path)
	}

	meta := &entity.GPSMetadata{Latitude: lat, Longitude: lon}
	if alt, ok := tagFloat(tags["GPSAltitude"]); ok {
		meta.Altitude = &alt
	}
	if s := tagString(tags["GPSSatellites"]); s != "" {
		if sats, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			meta.Satellites = &sats
		}
	}
	if s := tagString(tags["DateTimeOriginal"]); s != "" {
		if ts, err := time.Parse("2006:01:02 15:04:05", s); err == nil {
			utc := ts.UTC()
			meta.Timestamp = &utc
		}
	}
	meta.DeviceInfo = strings.TrimSpace(tagString(tags["Make"]) + " " + tagString(tags["Model"]))
	return meta, nil
}

// tagFloat coerces the numeric shapes imagemeta hands back.
func tagFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint32:
		return float64(x), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

func tagString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case fmt.Stringer:
		return x.String()
	default:
		return ""
	}
}
