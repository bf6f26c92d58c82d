// api/store/decode.go
package store

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"klyra/api/models"
)

// Stored field values come back with different concrete types depending on
// the backend (bson primitives from Mongo, plain Go values from the
// in-memory store). These coercions accept both; anything unrecognized is
// dropped by the caller rather than failing the request.

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case primitive.M:
		return map[string]any(m), true
	}
	return nil, false
}

func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case primitive.A:
		return []any(s), true
	case []string:
		out := make([]any, len(s))
		for i, item := range s {
			out[i] = item
		}
		return out, true
	}
	return nil, false
}

func asStringSlice(v any) []string {
	raw, ok := asSlice(v)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := asString(item); ok {
			out = append(out, s)
		}
	}
	return out
}

// Event shapes are stored as plain field maps so both backends round-trip
// them identically.

func encodeVisit(v models.PageVisit) map[string]any {
	return map[string]any{
		"duration":   v.Duration,
		"timestamp":  v.Timestamp,
		"recordedAt": v.RecordedAt,
	}
}

func decodeVisit(v any) (models.PageVisit, bool) {
	m, ok := asMap(v)
	if !ok {
		return models.PageVisit{}, false
	}
	visit := models.PageVisit{}
	visit.Duration, _ = asInt(m["duration"])
	visit.Timestamp, _ = asString(m["timestamp"])
	visit.RecordedAt, _ = asString(m["recordedAt"])
	return visit, true
}

func decodeVisits(v any) []models.PageVisit {
	raw, ok := asSlice(v)
	if !ok {
		return nil
	}
	visits := make([]models.PageVisit, 0, len(raw))
	for _, item := range raw {
		if visit, ok := decodeVisit(item); ok {
			visits = append(visits, visit)
		}
	}
	return visits
}

func encodeClick(c models.Click) map[string]any {
	return map[string]any{
		"timestamp":  c.Timestamp,
		"recordedAt": c.RecordedAt,
	}
}

func decodeClicks(v any) []models.Click {
	raw, ok := asSlice(v)
	if !ok {
		return nil
	}
	clicks := make([]models.Click, 0, len(raw))
	for _, item := range raw {
		m, ok := asMap(item)
		if !ok {
			continue
		}
		click := models.Click{}
		click.Timestamp, _ = asString(m["timestamp"])
		click.RecordedAt, _ = asString(m["recordedAt"])
		clicks = append(clicks, click)
	}
	return clicks
}

func decodeJourney(doc Document) models.Journey {
	j := models.Journey{Routes: asStringSlice(doc["routes"])}
	j.StartTime, _ = asString(doc["startTime"])
	j.Duration, _ = asInt(doc["duration"])
	j.RecordedAt, _ = asString(doc["recordedAt"])
	return j
}

func decodeGeoPoint(v any) *models.GeoPoint {
	m, ok := asMap(v)
	if !ok {
		return nil
	}
	lat, okLat := asFloat(m["latitude"])
	lng, okLng := asFloat(m["longitude"])
	if !okLat || !okLng {
		return nil
	}
	return &models.GeoPoint{Latitude: lat, Longitude: lng}
}

func decodeDevice(doc Document) models.Device {
	d := models.Device{Location: decodeGeoPoint(doc["location"])}
	if info, ok := asMap(doc["deviceInfo"]); ok {
		d.Info = info
	}
	d.RecordedAt, _ = asString(doc["recordedAt"])
	return d
}

// decodeSessions tolerates any malformed shape: a sessions field that is
// not a mapping reads as empty, so a corrupted presence document heals on
// the next write instead of wedging the tenant.
func decodeSessions(v any) map[string]models.PresenceSession {
	sessions := make(map[string]models.PresenceSession)
	m, ok := asMap(v)
	if !ok {
		return sessions
	}
	for tabID, entry := range m {
		em, ok := asMap(entry)
		if !ok {
			continue
		}
		s := models.PresenceSession{TabID: tabID}
		if id, ok := asString(em["tabId"]); ok && id != "" {
			s.TabID = id
		}
		s.LastSeen, _ = asString(em["lastSeen"])
		sessions[tabID] = s
	}
	return sessions
}

func encodeSessions(sessions map[string]models.PresenceSession) map[string]any {
	out := make(map[string]any, len(sessions))
	for tabID, s := range sessions {
		out[tabID] = map[string]any{"tabId": s.TabID, "lastSeen": s.LastSeen}
	}
	return out
}
