package analytics

import (
	"fmt"
	"strconv"
	"strings"

	"klyra/api/models"
)

// browserSignatures is scanned in order against the user agent; the first
// substring hit wins. The ordering means Edge agents, which also carry
// "Chrome", classify as Chrome; that matches the shipped behavior and the
// dashboards built on it.
var browserSignatures = []string{"Chrome", "Firefox", "Safari", "Edge"}

// Devices summarizes platforms, browsers, screen sizes, reported locations,
// and hardware averages. Device payloads are heterogeneous, so every field
// read is tolerant of being absent or oddly typed.
func Devices(raw *models.RawAnalytics) models.DeviceStats {
	stats := models.DeviceStats{
		Platforms:   make(map[string]int),
		Browsers:    make(map[string]int),
		ScreenSizes: make(map[string]int),
		Locations:   []models.GeoPoint{},
	}
	var memTotal, coreTotal float64
	var memCount, coreCount int
	for _, device := range raw.Devices {
		platform := strField(device.Info, "platform")
		if platform == "" {
			platform = "Unknown"
		}
		stats.Platforms[platform]++
		stats.Browsers[detectBrowser(strField(device.Info, "userAgent"))]++

		width, okW := numField(device.Info, "screenWidth")
		height, okH := numField(device.Info, "screenHeight")
		if okW && okH {
			key := fmt.Sprintf("%dx%d", int(width), int(height))
			stats.ScreenSizes[key]++
		}
		if mem, ok := numField(device.Info, "deviceMemory"); ok {
			memTotal += mem
			memCount++
		}
		if cores, ok := numField(device.Info, "hardwareConcurrency"); ok {
			coreTotal += cores
			coreCount++
		}
		if device.Location != nil {
			stats.Locations = append(stats.Locations, *device.Location)
		}
	}
	stats.AverageMemory = roundAvgFloat(memTotal, memCount)
	stats.AverageCores = roundAvgFloat(coreTotal, coreCount)
	return stats
}

func detectBrowser(userAgent string) string {
	for _, signature := range browserSignatures {
		if strings.Contains(userAgent, signature) {
			return signature
		}
	}
	return "Unknown"
}

// GeographicData collects every reported location and counts distinct
// points by their exact coordinate pair.
func GeographicData(raw *models.RawAnalytics) models.GeoStats {
	stats := models.GeoStats{Points: []models.GeoPoint{}}
	seen := make(map[string]struct{})
	for _, device := range raw.Devices {
		if device.Location == nil {
			continue
		}
		stats.Points = append(stats.Points, *device.Location)
		key := strconv.FormatFloat(device.Location.Latitude, 'f', -1, 64) +
			"," + strconv.FormatFloat(device.Location.Longitude, 'f', -1, 64)
		seen[key] = struct{}{}
	}
	stats.TotalPoints = len(stats.Points)
	stats.UniquePoints = len(seen)
	return stats
}

func strField(info map[string]any, key string) string {
	if s, ok := info[key].(string); ok {
		return s
	}
	return ""
}

func numField(info map[string]any, key string) (float64, bool) {
	switch n := info[key].(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
