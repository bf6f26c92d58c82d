// api/models/events.go
package models

// Request payloads match what the client snippets send. Durations use *int
// so that an explicit 0 binds but a missing field is rejected.

type PageVisitRequest struct {
	APIKey    string `json:"apikey" binding:"required"`
	PageName  string `json:"pagename" binding:"required"`
	StartTime string `json:"startTime" binding:"required"`
	Duration  *int   `json:"duration" binding:"required"`
}

type ClickRequest struct {
	APIKey     string `json:"apikey" binding:"required"`
	ButtonName string `json:"buttonName" binding:"required"`
	Timestamp  string `json:"timestamp" binding:"required"`
}

type JourneyRequest struct {
	APIKey    string   `json:"apikey" binding:"required"`
	Routes    []string `json:"routes" binding:"required,min=1"`
	StartTime string   `json:"startTime" binding:"required"`
	Duration  *int     `json:"duration" binding:"required"`
}

type DeviceInfoRequest struct {
	APIKey     string         `json:"apikey" binding:"required"`
	DeviceInfo map[string]any `json:"deviceInfo" binding:"required"`
	Location   *GeoPoint      `json:"location"`
}

type PresenceRequest struct {
	APIKey    string `json:"apikey" binding:"required"`
	TabID     string `json:"tabId" binding:"required"`
	Timestamp string `json:"timestamp"`
}

// Stored event shapes. Timestamps stay ISO 8601 strings end to end: client
// clocks are untrusted, so the raw value is kept and only parsed at
// aggregation time.

type PageVisit struct {
	Duration   int    `json:"duration" bson:"duration"`
	Timestamp  string `json:"timestamp" bson:"timestamp"`
	RecordedAt string `json:"recordedAt" bson:"recordedAt"`
}

type Click struct {
	Timestamp  string `json:"timestamp" bson:"timestamp"`
	RecordedAt string `json:"recordedAt" bson:"recordedAt"`
}

// ButtonClicks carries the click list plus a running counter. The counter is
// redundant with len(Clicks); if the two ever disagree the stored data was
// corrupted by an outside writer.
type ButtonClicks struct {
	Clicks     []Click `json:"clicks" bson:"clicks"`
	ClickCount int     `json:"clickCount" bson:"clickCount"`
}

type Journey struct {
	Routes     []string `json:"routes" bson:"routes"`
	StartTime  string   `json:"startTime" bson:"startTime"`
	Duration   int      `json:"duration" bson:"duration"`
	RecordedAt string   `json:"recordedAt" bson:"recordedAt"`
}

type GeoPoint struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`
	Longitude float64 `json:"longitude" bson:"longitude"`
}

// Device keeps the client-reported fields as an open bag: real payloads are
// heterogeneous across browsers and no rigid schema survives them.
type Device struct {
	Info       map[string]any `json:"deviceInfo" bson:"deviceInfo"`
	Location   *GeoPoint      `json:"location,omitempty" bson:"location,omitempty"`
	RecordedAt string         `json:"recordedAt" bson:"recordedAt"`
}

type PresenceSession struct {
	TabID    string `json:"tabId" bson:"tabId"`
	LastSeen string `json:"lastSeen" bson:"lastSeen"`
}

type Presence struct {
	Sessions map[string]PresenceSession `json:"sessions"`
	Count    int                        `json:"count"`
}

// RawAnalytics is the complete dataset for one tenant, loaded in one pass
// and treated as immutable by every analyzer.
type RawAnalytics struct {
	Pages       map[string][]PageVisit  `json:"pages"`
	Buttons     map[string]ButtonClicks `json:"buttons"`
	Journeys    []Journey               `json:"journeys"`
	Devices     []Device                `json:"devices"`
	ActiveUsers Presence                `json:"activeUsers"`
}
