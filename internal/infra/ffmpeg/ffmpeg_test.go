package ffmpeg

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrideFor(t *testing.T) {
	tests := []struct {
		name        string
		totalFrames int
		maxFrames   int
		want        int
	}{
		{"short video keeps every frame", 50, 100, 1},
		{"exact fit", 100, 100, 1},
		{"long video strides", 1000, 100, 10},
		{"uneven division floors", 250, 100, 2},
		{"unknown total", 0, 100, 1},
		{"single frame cap", 300, 1, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, strideFor(tt.totalFrames, tt.maxFrames))
		})
	}
}

func TestStrideForFillsCap(t *testing.T) {
	// whenever the video has at least maxFrames frames, the stride
	// plan must leave at least maxFrames candidates for the decoder cap
	for total := 0; total < 400; total += 7 {
		for _, max := range []int{1, 10, 20, 100} {
			stride := strideFor(total, max)
			assert.GreaterOrEqual(t, stride, 1)
			if total >= max {
				assert.GreaterOrEqual(t, total/stride, max,
					"total=%d max=%d stride=%d", total, max, stride)
			}
		}
	}
}

func TestParseProbeOutput(t *testing.T) {
	data := []byte(`{
		"streams": [{"nb_frames": "375", "duration": "12.500000", "r_frame_rate": "30/1"}],
		"format": {
			"duration": "12.520000",
			"tags": {
				"Location": "+37.7749-122.4194+010.000/",
				"creation_time": "2024-06-01T10:30:00.000000Z",
				"com.apple.quicktime.make": "Apple"
			}
		}
	}`)
	info, err := parseProbeOutput(data)
	require.NoError(t, err)
	assert.Equal(t, 375, info.TotalFrames)
	assert.InDelta(t, 12.5, info.Duration, 1e-9)
	assert.InDelta(t, 30.0, info.FrameRate, 1e-9)
	assert.Equal(t, "+37.7749-122.4194+010.000/", info.Tags["location"])
	assert.Equal(t, "Apple", info.Tags["com.apple.quicktime.make"])
}

func TestParseProbeOutputEstimatesFrames(t *testing.T) {
	data := []byte(`{
		"streams": [{"r_frame_rate": "30000/1001"}],
		"format": {"duration": "10.0"}
	}`)
	info, err := parseProbeOutput(data)
	require.NoError(t, err)
	assert.Equal(t, 300, info.TotalFrames)
}

func TestParseProbeOutputNoVideoStream(t *testing.T) {
	_, err := parseProbeOutput([]byte(`{"streams": [], "format": {}}`))
	assert.Error(t, err)
}

func TestParseRate(t *testing.T) {
	assert.InDelta(t, 29.97, parseRate("30000/1001"), 0.01)
	assert.InDelta(t, 25.0, parseRate("25/1"), 1e-9)
	assert.InDelta(t, 24.0, parseRate("24"), 1e-9)
	assert.Equal(t, 0.0, parseRate("30/0"))
	assert.Equal(t, 0.0, parseRate("garbage"))
}

func TestParseVolumeDetect(t *testing.T) {
	output := `
[Parsed_volumedetect_0 @ 0x5628] n_samples: 480000
[Parsed_volumedetect_0 @ 0x5628] mean_volume: -18.3 dB
[Parsed_volumedetect_0 @ 0x5628] max_volume: -2.0 dB
`
	stats, err := parseVolumeDetect(output)
	require.NoError(t, err)
	assert.InDelta(t, -18.3, stats.MeanVolumeDB, 1e-9)
	assert.InDelta(t, -2.0, stats.MaxVolumeDB, 1e-9)
}

func TestParseVolumeDetectMissing(t *testing.T) {
	_, err := parseVolumeDetect("stream mapping: 0:0 -> 0:0")
	assert.Error(t, err)
}

func TestCreateZipDeterministic(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"frame_0002.png", "frame_0000.png"} {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(name), 0o644))
		paths = append(paths, p)
	}

	first := filepath.Join(dir, "first.zip")
	second := filepath.Join(dir, "second.zip")
	zc := NewZipCreator()
	require.NoError(t, zc.CreateZip(context.Background(), paths, first))
	require.NoError(t, zc.CreateZip(context.Background(), []string{paths[1], paths[0]}, second))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b, "input order must not change the bundle")

	r, err := zip.OpenReader(first)
	require.NoError(t, err)
	defer r.Close()
	require.Len(t, r.File, 2)
	assert.Equal(t, "frame_0000.png", r.File[0].Name)
	assert.Equal(t, "frame_0002.png", r.File[1].Name)
}

func TestCreateZipCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))

	err := NewZipCreator().CreateZip(ctx, []string{p}, filepath.Join(t.TempDir(), "out.zip"))
	assert.ErrorIs(t, err, context.Canceled)
}
