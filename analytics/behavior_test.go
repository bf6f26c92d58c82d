package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"klyra/api/models"
)

func TestRealtimePassThrough(t *testing.T) {
	raw := emptyRaw()
	raw.ActiveUsers = models.Presence{
		Sessions: map[string]models.PresenceSession{
			"t1": {TabID: "t1", LastSeen: "2025-06-01T12:00:00Z"},
		},
		Count: 1,
	}

	stats := Realtime(raw)
	assert.Equal(t, 1, stats.ActiveUsers)
	assert.Contains(t, stats.Sessions, "t1")
}

func TestRealtimeMissingPresence(t *testing.T) {
	stats := Realtime(emptyRaw())
	assert.Equal(t, 0, stats.ActiveUsers)
	assert.NotNil(t, stats.Sessions)
	assert.Empty(t, stats.Sessions)
}

func TestUserBehaviorEngagementRate(t *testing.T) {
	raw := emptyRaw()
	raw.Pages["Home"] = []models.PageVisit{{Duration: 120}, {Duration: 80}}
	raw.Buttons["buy"] = models.ButtonClicks{
		Clicks: []models.Click{{}, {}, {}}, ClickCount: 3,
	}
	raw.Journeys = []models.Journey{{Duration: 40}, {Duration: 60}}

	stats := UserBehavior(raw)
	assert.Equal(t, 200, stats.TotalEngagement)
	assert.Equal(t, 3, stats.TotalClicks)
	assert.Equal(t, 50, stats.AverageJourneyDuration)
	assert.Equal(t, 2, stats.EngagementRate) // round(3/200*100)
}

func TestUserBehaviorZeroEngagement(t *testing.T) {
	raw := emptyRaw()
	raw.Buttons["buy"] = models.ButtonClicks{Clicks: []models.Click{{}}, ClickCount: 1}

	stats := UserBehavior(raw)
	assert.Equal(t, 0, stats.TotalEngagement)
	assert.Equal(t, 0, stats.EngagementRate)
}

func TestPerformanceStats(t *testing.T) {
	raw := emptyRaw()
	raw.Pages["Home"] = []models.PageVisit{{Duration: 10}, {Duration: 30}}
	raw.Pages["Docs"] = []models.PageVisit{{Duration: 5}}
	raw.Journeys = []models.Journey{{Duration: 100}}

	stats := Performance(raw)
	assert.Equal(t, 15, stats.AverageLoadTime)
	assert.Equal(t, 5, stats.MinLoadTime)
	assert.Equal(t, 30, stats.MaxLoadTime)
	assert.Equal(t, 100, stats.AverageSessionDuration)
	assert.Equal(t, 3, stats.SampleCount)
}

func TestPerformanceZeroCase(t *testing.T) {
	stats := Performance(emptyRaw())
	assert.Equal(t, 0, stats.SampleCount)
	assert.Equal(t, 0, stats.MinLoadTime)
	assert.Equal(t, 0, stats.MaxLoadTime)
	assert.Equal(t, 0, stats.AverageLoadTime)
}

func TestTimePatternsBucketsAndPeak(t *testing.T) {
	raw := emptyRaw()
	raw.Pages["Home"] = []models.PageVisit{
		{Timestamp: "2025-06-01T03:00:00Z"},
		{Timestamp: "2025-06-01T14:00:00Z"},
		{Timestamp: "2025-06-01T15:30:00Z"},
	}
	raw.Buttons["buy"] = models.ButtonClicks{Clicks: []models.Click{
		{Timestamp: "2025-06-01T20:00:00Z"},
	}}

	stats := TimePatterns(raw)
	assert.Equal(t, map[string]int{"00-06": 1, "06-12": 0, "12-18": 2, "18-24": 1}, stats.Slots)
	assert.Equal(t, "12-18", stats.MostActiveSlot)
}

func TestTimePatternsTieGoesToEarliestSlot(t *testing.T) {
	raw := emptyRaw()
	raw.Pages["Home"] = []models.PageVisit{
		{Timestamp: "2025-06-01T03:00:00Z"},
		{Timestamp: "2025-06-01T20:00:00Z"},
	}

	stats := TimePatterns(raw)
	assert.Equal(t, "00-06", stats.MostActiveSlot)
}

func TestTimePatternsHonorsEmbeddedOffset(t *testing.T) {
	raw := emptyRaw()
	// 20:00 local is the 18-24 slot regardless of the UTC hour.
	raw.Pages["Home"] = []models.PageVisit{
		{Timestamp: "2025-06-01T20:00:00+09:00"},
	}

	stats := TimePatterns(raw)
	assert.Equal(t, 1, stats.Slots["18-24"])
}
