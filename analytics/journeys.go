package analytics

import (
	"sort"

	"klyra/api/models"
)

// UserJourney summarizes journey durations, route frequencies, and one
// pattern record per journey.
func UserJourney(raw *models.RawAnalytics) models.JourneyStats {
	stats := models.JourneyStats{
		RouteFrequency: make(map[string]int),
		TopRoutes:      []models.RouteCount{},
		Patterns:       []models.JourneyPattern{},
	}
	if len(raw.Journeys) == 0 {
		return stats
	}

	total := 0
	stats.LongestDuration = raw.Journeys[0].Duration
	stats.ShortestDuration = raw.Journeys[0].Duration
	for _, journey := range raw.Journeys {
		total += journey.Duration
		if journey.Duration > stats.LongestDuration {
			stats.LongestDuration = journey.Duration
		}
		if journey.Duration < stats.ShortestDuration {
			stats.ShortestDuration = journey.Duration
		}
		for _, route := range journey.Routes {
			stats.RouteFrequency[route]++
		}
		stats.Patterns = append(stats.Patterns, models.JourneyPattern{
			Routes:     journey.Routes,
			Duration:   journey.Duration,
			StartTime:  journey.StartTime,
			RouteCount: len(journey.Routes),
		})
	}
	stats.AverageDuration = roundAvg(total, len(raw.Journeys))
	stats.TopRoutes = topRoutes(stats.RouteFrequency, 5)
	return stats
}

func topRoutes(freq map[string]int, n int) []models.RouteCount {
	routes := make([]models.RouteCount, 0, len(freq))
	for route, count := range freq {
		routes = append(routes, models.RouteCount{Route: route, Count: count})
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Count != routes[j].Count {
			return routes[i].Count > routes[j].Count
		}
		return routes[i].Route < routes[j].Route
	})
	if len(routes) > n {
		routes = routes[:n]
	}
	return routes
}

// SessionPatterns groups journeys by the calendar date of their start time.
func SessionPatterns(raw *models.RawAnalytics) models.SessionPatternStats {
	stats := models.SessionPatternStats{
		TotalSessions:  len(raw.Journeys),
		SessionsByDate: make(map[string]int),
	}
	for _, journey := range raw.Journeys {
		if date, ok := dateOf(journey.StartTime); ok {
			stats.SessionsByDate[date]++
		}
	}
	stats.AveragePerDay = roundAvg(stats.TotalSessions, len(stats.SessionsByDate))
	return stats
}

// ConversionFunnel flattens every journey's route sequence and reports the
// most frequent route as the entry point. Ties keep the route encountered
// first in journey order.
func ConversionFunnel(raw *models.RawAnalytics) models.FunnelStats {
	stats := models.FunnelStats{
		RouteFrequency:       make(map[string]int),
		MostCommonEntryPoint: "N/A",
	}
	var flattened []string
	for _, journey := range raw.Journeys {
		flattened = append(flattened, journey.Routes...)
	}
	stats.TotalRoutes = len(flattened)
	for _, route := range flattened {
		stats.RouteFrequency[route]++
	}
	best := 0
	for _, route := range flattened {
		if stats.RouteFrequency[route] > best {
			best = stats.RouteFrequency[route]
			stats.MostCommonEntryPoint = route
		}
	}
	return stats
}
