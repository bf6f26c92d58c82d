package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"klyra/api/models"
)

func deviceWith(info map[string]any, loc *models.GeoPoint) models.Device {
	return models.Device{Info: info, Location: loc}
}

func TestDevicesHistograms(t *testing.T) {
	raw := emptyRaw()
	raw.Devices = []models.Device{
		deviceWith(map[string]any{
			"platform":            "MacIntel",
			"userAgent":           "Mozilla/5.0 ... Chrome/125.0 Safari/537.36",
			"screenWidth":         float64(2560),
			"screenHeight":        float64(1440),
			"deviceMemory":        float64(8),
			"hardwareConcurrency": float64(10),
		}, nil),
		deviceWith(map[string]any{
			"platform":     "Win32",
			"userAgent":    "Mozilla/5.0 ... Firefox/126.0",
			"screenWidth":  float64(1920),
			"screenHeight": float64(1080),
			"deviceMemory": float64(16),
		}, nil),
		deviceWith(map[string]any{
			"userAgent": "something unrecognizable",
		}, nil),
	}

	stats := Devices(raw)
	assert.Equal(t, map[string]int{"MacIntel": 1, "Win32": 1, "Unknown": 1}, stats.Platforms)
	// Chrome outranks Safari in the signature scan even though both
	// substrings are present in the first agent.
	assert.Equal(t, map[string]int{"Chrome": 1, "Firefox": 1, "Unknown": 1}, stats.Browsers)
	assert.Equal(t, map[string]int{"2560x1440": 1, "1920x1080": 1}, stats.ScreenSizes)
	assert.Equal(t, 12, stats.AverageMemory) // mean over the two reporters
	assert.Equal(t, 10, stats.AverageCores)
}

func TestDevicesZeroCase(t *testing.T) {
	stats := Devices(emptyRaw())
	assert.Empty(t, stats.Platforms)
	assert.Empty(t, stats.Browsers)
	assert.Empty(t, stats.ScreenSizes)
	assert.Empty(t, stats.Locations)
	assert.Equal(t, 0, stats.AverageMemory)
	assert.Equal(t, 0, stats.AverageCores)
}

func TestDetectBrowserSignatureOrder(t *testing.T) {
	tests := []struct {
		agent string
		want  string
	}{
		{"Mozilla/5.0 Chrome/125.0", "Chrome"},
		{"Mozilla/5.0 Firefox/126.0", "Firefox"},
		{"Mozilla/5.0 Version/17.4 Safari/605.1", "Safari"},
		// Edge agents carry "Chrome" first in the scan order.
		{"Mozilla/5.0 Chrome/125.0 Safari/537.36 Edg/125.0", "Chrome"},
		{"curl/8.0", "Unknown"},
		{"", "Unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, detectBrowser(tt.agent), "agent %q", tt.agent)
	}
}

func TestGeographicDataDeduplicatesExactPoints(t *testing.T) {
	raw := emptyRaw()
	berlin := &models.GeoPoint{Latitude: 52.52, Longitude: 13.405}
	raw.Devices = []models.Device{
		deviceWith(map[string]any{}, berlin),
		deviceWith(map[string]any{}, &models.GeoPoint{Latitude: 52.52, Longitude: 13.405}),
		deviceWith(map[string]any{}, &models.GeoPoint{Latitude: 48.8566, Longitude: 2.3522}),
		deviceWith(map[string]any{}, nil),
	}

	stats := GeographicData(raw)
	assert.Equal(t, 3, stats.TotalPoints)
	assert.Equal(t, 2, stats.UniquePoints)
	assert.Len(t, stats.Points, 3)
}

func TestGeographicDataZeroCase(t *testing.T) {
	stats := GeographicData(emptyRaw())
	assert.Equal(t, 0, stats.TotalPoints)
	assert.Equal(t, 0, stats.UniquePoints)
	assert.Empty(t, stats.Points)
}
