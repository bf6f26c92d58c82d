package analytics

import (
	"fmt"

	"klyra/api/models"
)

// Insights emits at most one human-readable observation per category.
// Categories without data stay silent. Ties pick the lexicographically
// smaller name so reports are stable run to run.
func Insights(raw *models.RawAnalytics) []models.Insight {
	insights := []models.Insight{}

	if name, visits, ok := busiestPage(raw); ok {
		insights = append(insights, models.Insight{
			Category: "pages",
			Message:  fmt.Sprintf("Your busiest page is %q with %d visits", name, visits),
			Priority: "high",
		})
	}
	if name, clicks, ok := topButton(raw); ok {
		insights = append(insights, models.Insight{
			Category: "clicks",
			Message:  fmt.Sprintf("%q is your most clicked button with %d clicks", name, clicks),
			Priority: "medium",
		})
	}
	if platform, count, ok := topPlatform(raw); ok {
		insights = append(insights, models.Insight{
			Category: "devices",
			Message:  fmt.Sprintf("Most of your visitors are on %s (%d devices)", platform, count),
			Priority: "medium",
		})
	}
	if len(raw.Journeys) > 0 {
		total := 0
		for _, journey := range raw.Journeys {
			total += journey.Duration
		}
		insights = append(insights, models.Insight{
			Category: "journeys",
			Message:  fmt.Sprintf("An average user journey lasts %d seconds", roundAvg(total, len(raw.Journeys))),
			Priority: "low",
		})
	}
	return insights
}

func busiestPage(raw *models.RawAnalytics) (string, int, bool) {
	best, bestName, found := 0, "", false
	for name, visits := range raw.Pages {
		if len(visits) == 0 {
			continue
		}
		if !found || len(visits) > best || (len(visits) == best && name < bestName) {
			best, bestName, found = len(visits), name, true
		}
	}
	return bestName, best, found
}

func topButton(raw *models.RawAnalytics) (string, int, bool) {
	best, bestName, found := 0, "", false
	for name, button := range raw.Buttons {
		total := button.ClickCount
		if total == 0 {
			total = len(button.Clicks)
		}
		if total == 0 {
			continue
		}
		if !found || total > best || (total == best && name < bestName) {
			best, bestName, found = total, name, true
		}
	}
	return bestName, best, found
}

func topPlatform(raw *models.RawAnalytics) (string, int, bool) {
	platforms := Devices(raw).Platforms
	best, bestName, found := 0, "", false
	for name, count := range platforms {
		if !found || count > best || (count == best && name < bestName) {
			best, bestName, found = count, name, true
		}
	}
	return bestName, best, found
}
