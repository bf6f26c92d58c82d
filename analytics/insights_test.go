package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"klyra/api/models"
)

func TestInsightsOnePerCategory(t *testing.T) {
	raw := emptyRaw()
	raw.Pages["Home"] = []models.PageVisit{{Duration: 5}, {Duration: 5}}
	raw.Pages["Docs"] = []models.PageVisit{{Duration: 5}}
	raw.Buttons["buy"] = models.ButtonClicks{Clicks: []models.Click{{}, {}}, ClickCount: 2}
	raw.Devices = []models.Device{
		{Info: map[string]any{"platform": "MacIntel"}},
		{Info: map[string]any{"platform": "MacIntel"}},
		{Info: map[string]any{"platform": "Win32"}},
	}
	raw.Journeys = []models.Journey{{Duration: 30}, {Duration: 50}}

	insights := Insights(raw)
	require.Len(t, insights, 4)

	byCategory := map[string]models.Insight{}
	for _, insight := range insights {
		byCategory[insight.Category] = insight
	}
	assert.Equal(t, "high", byCategory["pages"].Priority)
	assert.Contains(t, byCategory["pages"].Message, "Home")
	assert.Equal(t, "medium", byCategory["clicks"].Priority)
	assert.Contains(t, byCategory["clicks"].Message, "buy")
	assert.Contains(t, byCategory["devices"].Message, "MacIntel")
	assert.Equal(t, "low", byCategory["journeys"].Priority)
	assert.Contains(t, byCategory["journeys"].Message, "40")
}

func TestInsightsSkipEmptyCategories(t *testing.T) {
	raw := emptyRaw()
	raw.Buttons["buy"] = models.ButtonClicks{Clicks: []models.Click{{}}, ClickCount: 1}

	insights := Insights(raw)
	require.Len(t, insights, 1)
	assert.Equal(t, "clicks", insights[0].Category)
}

func TestInsightsEmptyTenant(t *testing.T) {
	assert.Empty(t, Insights(emptyRaw()))
}
