package analytics

import "klyra/api/models"

// Overview computes the headline counts: distinct entities, event totals,
// and the two derived averages.
func Overview(raw *models.RawAnalytics) models.Overview {
	o := models.Overview{
		TotalPages:    len(raw.Pages),
		TotalButtons:  len(raw.Buttons),
		TotalJourneys: len(raw.Journeys),
		TotalDevices:  len(raw.Devices),
	}
	for _, visits := range raw.Pages {
		o.TotalPageVisits += len(visits)
	}
	for _, button := range raw.Buttons {
		o.TotalClicks += len(button.Clicks)
	}
	for _, journey := range raw.Journeys {
		o.TotalJourneyDuration += journey.Duration
	}
	o.AverageJourneyDuration = roundAvg(o.TotalJourneyDuration, o.TotalJourneys)
	o.AverageVisitsPerPage = roundAvg(o.TotalPageVisits, o.TotalPages)
	return o
}
