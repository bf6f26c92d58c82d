// api/models/report.go
package models

// AnalysisReport is derived on demand from RawAnalytics and never persisted.
type AnalysisReport struct {
	Overview         Overview                `json:"overview"`
	Pages            map[string]PageStats    `json:"pages"`
	Clicks           map[string]ButtonStats  `json:"clicks"`
	UserJourney      JourneyStats            `json:"userJourney"`
	Devices          DeviceStats             `json:"devices"`
	Realtime         RealtimeStats           `json:"realtime"`
	UserBehavior     BehaviorStats           `json:"userBehavior"`
	Performance      PerformanceStats        `json:"performance"`
	TimePatterns     TimePatternStats        `json:"timePatterns"`
	GeographicData   GeoStats                `json:"geographicData"`
	SessionPatterns  SessionPatternStats     `json:"sessionPatterns"`
	ConversionFunnel FunnelStats             `json:"conversionFunnel"`
	Insights         []Insight               `json:"insights"`
	GeneratedAt      string                  `json:"generatedAt"`
}

type Overview struct {
	TotalPages             int `json:"totalPages"`
	TotalButtons           int `json:"totalButtons"`
	TotalJourneys          int `json:"totalJourneys"`
	TotalDevices           int `json:"totalDevices"`
	TotalPageVisits        int `json:"totalPageVisits"`
	TotalClicks            int `json:"totalClicks"`
	TotalJourneyDuration   int `json:"totalJourneyDuration"`
	AverageJourneyDuration int `json:"averageJourneyDuration"`
	AverageVisitsPerPage   int `json:"averageVisitsPerPage"`
}

type PageStats struct {
	VisitCount      int            `json:"visitCount"`
	TotalDuration   int            `json:"totalDuration"`
	AverageDuration int            `json:"averageDuration"`
	VisitsByDate    map[string]int `json:"visitsByDate"`
	FirstVisit      string         `json:"firstVisit"`
	LastVisit       string         `json:"lastVisit"`
}

type ButtonStats struct {
	TotalClicks  int            `json:"totalClicks"`
	ClicksByDate map[string]int `json:"clicksByDate"`
	FirstClick   string         `json:"firstClick"`
	LastClick    string         `json:"lastClick"`
	ClickRate    int            `json:"clickRate"`
}

type RouteCount struct {
	Route string `json:"route"`
	Count int    `json:"count"`
}

type JourneyPattern struct {
	Routes     []string `json:"routes"`
	Duration   int      `json:"duration"`
	StartTime  string   `json:"startTime"`
	RouteCount int      `json:"routeCount"`
}

type JourneyStats struct {
	AverageDuration  int              `json:"averageDuration"`
	LongestDuration  int              `json:"longestDuration"`
	ShortestDuration int              `json:"shortestDuration"`
	RouteFrequency   map[string]int   `json:"routeFrequency"`
	TopRoutes        []RouteCount     `json:"topRoutes"`
	Patterns         []JourneyPattern `json:"patterns"`
}

type DeviceStats struct {
	Platforms     map[string]int `json:"platforms"`
	Browsers      map[string]int `json:"browsers"`
	ScreenSizes   map[string]int `json:"screenSizes"`
	Locations     []GeoPoint     `json:"locations"`
	AverageMemory int            `json:"averageMemory"`
	AverageCores  int            `json:"averageCores"`
}

type RealtimeStats struct {
	ActiveUsers int                        `json:"activeUsers"`
	Sessions    map[string]PresenceSession `json:"sessions"`
}

type BehaviorStats struct {
	TotalEngagement        int `json:"totalEngagement"`
	TotalClicks            int `json:"totalClicks"`
	AverageJourneyDuration int `json:"averageJourneyDuration"`
	EngagementRate         int `json:"engagementRate"`
}

type PerformanceStats struct {
	AverageLoadTime        int `json:"averageLoadTime"`
	MinLoadTime            int `json:"minLoadTime"`
	MaxLoadTime            int `json:"maxLoadTime"`
	AverageSessionDuration int `json:"averageSessionDuration"`
	SampleCount            int `json:"sampleCount"`
}

type TimePatternStats struct {
	Slots          map[string]int `json:"slots"`
	MostActiveSlot string         `json:"mostActiveSlot"`
}

type GeoStats struct {
	TotalPoints  int        `json:"totalPoints"`
	UniquePoints int        `json:"uniquePoints"`
	Points       []GeoPoint `json:"points"`
}

type SessionPatternStats struct {
	TotalSessions  int            `json:"totalSessions"`
	SessionsByDate map[string]int `json:"sessionsByDate"`
	AveragePerDay  int            `json:"averagePerDay"`
}

type FunnelStats struct {
	RouteFrequency       map[string]int `json:"routeFrequency"`
	MostCommonEntryPoint string         `json:"mostCommonEntryPoint"`
	TotalRoutes          int            `json:"totalRoutes"`
}

type Insight struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Priority string `json:"priority"`
}
