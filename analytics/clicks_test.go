package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"klyra/api/models"
)

func TestClicksAggregatesAcrossDates(t *testing.T) {
	raw := emptyRaw()
	raw.Buttons["buy"] = models.ButtonClicks{
		Clicks: []models.Click{
			{Timestamp: "2025-06-01T10:00:00Z"},
			{Timestamp: "2025-06-01T15:00:00Z"},
			{Timestamp: "2025-06-02T10:00:00Z"},
		},
		ClickCount: 3,
	}

	clicks := Clicks(raw)
	buy := clicks["buy"]
	assert.Equal(t, 3, buy.TotalClicks)
	assert.Len(t, buy.ClicksByDate, 2)
	sum := 0
	for _, n := range buy.ClicksByDate {
		sum += n
	}
	assert.Equal(t, 3, sum)
	assert.Equal(t, "2025-06-01T10:00:00Z", buy.FirstClick)
	assert.Equal(t, "2025-06-02T10:00:00Z", buy.LastClick)
	assert.Equal(t, 100, buy.ClickRate)
}

func TestClicksFallsBackToEventCount(t *testing.T) {
	raw := emptyRaw()
	raw.Buttons["buy"] = models.ButtonClicks{
		Clicks: []models.Click{
			{Timestamp: "2025-06-01T10:00:00Z"},
			{Timestamp: "2025-06-01T11:00:00Z"},
		},
		ClickCount: 0, // counter lost; length is the source of truth
	}

	clicks := Clicks(raw)
	assert.Equal(t, 2, clicks["buy"].TotalClicks)
}

func TestClickRateZeroWithoutEvents(t *testing.T) {
	raw := emptyRaw()
	raw.Buttons["ghost"] = models.ButtonClicks{}

	clicks := Clicks(raw)
	assert.Equal(t, 0, clicks["ghost"].ClickRate)
	assert.Equal(t, 0, clicks["ghost"].TotalClicks)
}
