package geospatial

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/deepsecure/deepsecure-analysis-service/internal/domain/entity"
	"github.com/deepsecure/deepsecure-analysis-service/internal/domain/port"
)

// container tag keys, lowercased the way the prober normalizes them
var locationTagKeys = []string{
	"location",
	"com.apple.quicktime.location.iso6709",
	"location-eng",
}

// Extractor reads embedded GPS metadata from a video container, with a
// camera sidecar thumbnail as fallback.
type Extractor struct {
	prober port.MediaProber
	logger *zap.Logger
}

func NewExtractor(prober port.MediaProber, logger *zap.Logger) *Extractor {
	return &Extractor{prober: prober, logger: logger}
}

// Extract returns the video's GPS record, or nil when neither the
// container nor a sidecar carries coordinates.
func (e *Extractor) Extract(ctx context.Context, videoPath string) *entity.GPSMetadata {
	info, err := e.prober.Probe(ctx, videoPath)
	if err != nil {
		e.logger.Warn("probe for GPS tags failed",
			zap.String("video", videoPath),
			zap.Error(err),
		)
	} else if meta := fromContainerTags(info.Tags, e.logger); meta != nil {
		return meta
	}

	for _, sidecar := range sidecarPaths(videoPath) {
		meta, err := gpsFromSidecar(sidecar)
		if err != nil {
			continue
		}
		e.logger.Debug("GPS metadata from sidecar",
			zap.String("video", videoPath),
			zap.String("sidecar", sidecar),
		)
		return meta
	}
	return nil
}

func fromContainerTags(tags map[string]string, logger *zap.Logger) *entity.GPSMetadata {
	var loc string
	for _, key := range locationTagKeys {
		if v, ok := tags[key]; ok && v != "" {
			loc = v
			break
		}
	}
	if loc == "" {
		return nil
	}

	lat, lon, alt, err := parseISO6709(loc)
	if err != nil {
		logger.Warn("unparseable location tag", zap.String("location", loc), zap.Error(err))
		return nil
	}

	meta := &entity.GPSMetadata{
		Latitude:   lat,
		Longitude:  lon,
		Altitude:   alt,
		DeviceInfo: deviceInfo(tags),
	}
	if v, ok := tags["creation_time"]; ok {
		if ts, err := time.Parse(time.RFC3339Nano, v); err == nil {
			utc := ts.UTC()
			meta.Timestamp = &utc
		}
	}
	if v, ok := tags["com.apple.quicktime.location.accuracy.horizontal"]; ok {
		if acc, err := strconv.ParseFloat(v, 64); err == nil {
			meta.Accuracy = &acc
		}
	}
	return meta
}

func deviceInfo(tags map[string]string) string {
	make_ := firstTag(tags, "com.apple.quicktime.make", "make")
	model := firstTag(tags, "com.apple.quicktime.model", "model")
	return strings.TrimSpace(make_ + " " + model)
}

func firstTag(tags map[string]string, keys ...string) string {
	for _, k := range keys {
		if v, ok := tags[k]; ok {
			return v
		}
	}
	return ""
}
