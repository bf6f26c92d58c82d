package analytics

import "klyra/api/models"

// Realtime passes through the current presence document: live tab count and
// per-tab last-seen detail. A tenant with no presence document reads as
// zero tabs.
func Realtime(raw *models.RawAnalytics) models.RealtimeStats {
	sessions := raw.ActiveUsers.Sessions
	if sessions == nil {
		sessions = make(map[string]models.PresenceSession)
	}
	return models.RealtimeStats{
		ActiveUsers: raw.ActiveUsers.Count,
		Sessions:    sessions,
	}
}

// UserBehavior relates total time on pages to total clicks. The engagement
// rate is clicks per second of engagement, expressed as a percentage.
func UserBehavior(raw *models.RawAnalytics) models.BehaviorStats {
	stats := models.BehaviorStats{}
	for _, visits := range raw.Pages {
		for _, visit := range visits {
			stats.TotalEngagement += visit.Duration
		}
	}
	for _, button := range raw.Buttons {
		stats.TotalClicks += len(button.Clicks)
	}
	totalJourney := 0
	for _, journey := range raw.Journeys {
		totalJourney += journey.Duration
	}
	stats.AverageJourneyDuration = roundAvg(totalJourney, len(raw.Journeys))
	if stats.TotalEngagement > 0 {
		stats.EngagementRate = roundAvg(stats.TotalClicks*100, stats.TotalEngagement)
	}
	return stats
}

// Performance reuses visit durations as a page-load proxy and journey
// durations as session length.
func Performance(raw *models.RawAnalytics) models.PerformanceStats {
	stats := models.PerformanceStats{}
	totalLoad := 0
	for _, visits := range raw.Pages {
		for _, visit := range visits {
			if stats.SampleCount == 0 {
				stats.MinLoadTime = visit.Duration
				stats.MaxLoadTime = visit.Duration
			}
			if visit.Duration < stats.MinLoadTime {
				stats.MinLoadTime = visit.Duration
			}
			if visit.Duration > stats.MaxLoadTime {
				stats.MaxLoadTime = visit.Duration
			}
			totalLoad += visit.Duration
			stats.SampleCount++
		}
	}
	stats.AverageLoadTime = roundAvg(totalLoad, stats.SampleCount)

	totalSession := 0
	for _, journey := range raw.Journeys {
		totalSession += journey.Duration
	}
	stats.AverageSessionDuration = roundAvg(totalSession, len(raw.Journeys))
	return stats
}

// timeSlots are the four six-hour buckets, scanned in this order so a tied
// count keeps the earliest slot.
var timeSlots = []struct {
	label string
	from  int
	to    int
}{
	{"00-06", 0, 6},
	{"06-12", 6, 12},
	{"12-18", 12, 18},
	{"18-24", 18, 24},
}

// TimePatterns buckets every visit and click by hour of day, using each
// timestamp's own offset.
func TimePatterns(raw *models.RawAnalytics) models.TimePatternStats {
	stats := models.TimePatternStats{Slots: make(map[string]int, len(timeSlots))}
	for _, slot := range timeSlots {
		stats.Slots[slot.label] = 0
	}
	bucket := func(ts string) {
		hour, ok := hourOf(ts)
		if !ok {
			return
		}
		for _, slot := range timeSlots {
			if hour >= slot.from && hour < slot.to {
				stats.Slots[slot.label]++
				return
			}
		}
	}
	for _, visits := range raw.Pages {
		for _, visit := range visits {
			bucket(visit.Timestamp)
		}
	}
	for _, button := range raw.Buttons {
		for _, click := range button.Clicks {
			bucket(click.Timestamp)
		}
	}
	best := -1
	for _, slot := range timeSlots {
		if stats.Slots[slot.label] > best {
			best = stats.Slots[slot.label]
			stats.MostActiveSlot = slot.label
		}
	}
	return stats
}
