package analytics

import "klyra/api/models"

// Pages breaks visits down per page. Pages with no visits are left out of
// the result entirely.
func Pages(raw *models.RawAnalytics) map[string]models.PageStats {
	out := make(map[string]models.PageStats, len(raw.Pages))
	for name, visits := range raw.Pages {
		if len(visits) == 0 {
			continue
		}
		stats := models.PageStats{
			VisitCount:   len(visits),
			VisitsByDate: make(map[string]int),
		}
		var first, last string
		for _, visit := range visits {
			stats.TotalDuration += visit.Duration
			if date, ok := dateOf(visit.Timestamp); ok {
				stats.VisitsByDate[date]++
			}
			t, ok := parseTime(visit.Timestamp)
			if !ok {
				continue
			}
			if first == "" {
				first, last = visit.Timestamp, visit.Timestamp
				continue
			}
			if ft, _ := parseTime(first); t.Before(ft) {
				first = visit.Timestamp
			}
			if lt, _ := parseTime(last); t.After(lt) {
				last = visit.Timestamp
			}
		}
		stats.AverageDuration = roundAvg(stats.TotalDuration, stats.VisitCount)
		stats.FirstVisit = first
		stats.LastVisit = last
		out[name] = stats
	}
	return out
}
