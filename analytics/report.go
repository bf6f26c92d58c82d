// Package analytics turns one tenant's raw event snapshot into the derived
// analysis report. Every analyzer is a pure function over the snapshot:
// same input, same output, no mutation, and a missing sub-collection always
// yields a zeroed section instead of an error.
//
// The package is organized by concern:
//   - report.go:       assembler and shared numeric/time helpers
//   - overview.go:     headline counts and averages
//   - pages.go:        per-page visit breakdowns
//   - clicks.go:       per-button click breakdowns
//   - journeys.go:     journey stats, session patterns, conversion funnel
//   - devices.go:      device, browser and geographic summaries
//   - behavior.go:     engagement, performance, time-of-day, realtime
//   - insights.go:     generated textual insights
package analytics

import (
	"math"
	"time"

	"klyra/api/models"
)

// BuildReport runs every analyzer over the snapshot and stamps the result.
func BuildReport(raw *models.RawAnalytics, now time.Time) models.AnalysisReport {
	return models.AnalysisReport{
		Overview:         Overview(raw),
		Pages:            Pages(raw),
		Clicks:           Clicks(raw),
		UserJourney:      UserJourney(raw),
		Devices:          Devices(raw),
		Realtime:         Realtime(raw),
		UserBehavior:     UserBehavior(raw),
		Performance:      Performance(raw),
		TimePatterns:     TimePatterns(raw),
		GeographicData:   GeographicData(raw),
		SessionPatterns:  SessionPatterns(raw),
		ConversionFunnel: ConversionFunnel(raw),
		Insights:         Insights(raw),
		GeneratedAt:      now.UTC().Format(time.RFC3339),
	}
}

// roundAvg is the one averaging rule used everywhere: sum first, divide,
// round half-up to a whole number. A zero denominator yields 0, never NaN.
func roundAvg(total, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(count)))
}

func roundAvgFloat(total float64, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Round(total / float64(count)))
}

// parseTime keeps the timestamp's embedded offset; no canonical zone is
// assumed anywhere in the pipeline.
func parseTime(ts string) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func dateOf(ts string) (string, bool) {
	t, ok := parseTime(ts)
	if !ok {
		return "", false
	}
	return t.Format("2006-01-02"), true
}

func hourOf(ts string) (int, bool) {
	t, ok := parseTime(ts)
	if !ok {
		return 0, false
	}
	return t.Hour(), true
}
