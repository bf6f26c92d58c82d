package analytics

import "klyra/api/models"

// Clicks breaks clicks down per button. Totals prefer the stored running
// counter and fall back to the event count when the counter is unusable.
//
// The click rate compares a button's clicks against that same button's
// event count, so it reads 100% whenever any events exist. This is a known
// degenerate metric kept for output compatibility, not a bug to patch here.
func Clicks(raw *models.RawAnalytics) map[string]models.ButtonStats {
	out := make(map[string]models.ButtonStats, len(raw.Buttons))
	for name, button := range raw.Buttons {
		total := button.ClickCount
		if total == 0 {
			total = len(button.Clicks)
		}
		stats := models.ButtonStats{
			TotalClicks:  total,
			ClicksByDate: make(map[string]int),
		}
		var first, last string
		for _, click := range button.Clicks {
			if date, ok := dateOf(click.Timestamp); ok {
				stats.ClicksByDate[date]++
			}
			t, ok := parseTime(click.Timestamp)
			if !ok {
				continue
			}
			if first == "" {
				first, last = click.Timestamp, click.Timestamp
				continue
			}
			if ft, _ := parseTime(first); t.Before(ft) {
				first = click.Timestamp
			}
			if lt, _ := parseTime(last); t.After(lt) {
				last = click.Timestamp
			}
		}
		if len(button.Clicks) > 0 {
			stats.ClickRate = 100
		}
		stats.FirstClick = first
		stats.LastClick = last
		out[name] = stats
	}
	return out
}
