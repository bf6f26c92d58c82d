// api/store/recorder.go
package store

import (
	"context"
	"log"
	"sort"
	"strconv"
	"time"

	"klyra/api/models"
)

// AnalyticsStore records incoming client events under the owning tenant's
// namespace and loads the full dataset back for reporting.
//
// The recorders append with plain read-then-write on purpose: two
// simultaneous writers to the very same page or button key can race and one
// append can lose. Serializing those appends (store-level array union, or a
// per-key writer) would change observable semantics, so the hazard stays
// here, in one place, until the intended behavior is settled.
type AnalyticsStore struct {
	docs    DocStore
	tenants TenantResolver
	now     func() time.Time
}

func NewAnalyticsStore(docs DocStore, tenants TenantResolver) *AnalyticsStore {
	return &AnalyticsStore{docs: docs, tenants: tenants, now: time.Now}
}

// RecordPageVisit appends one visit under the page's document. Arrival
// order is storage order; client timestamps are not trusted for ordering.
func (s *AnalyticsStore) RecordPageVisit(ctx context.Context, req models.PageVisitRequest) error {
	if req.PageName == "" || req.StartTime == "" || req.Duration == nil {
		return validationError("pagename, startTime and duration are required")
	}
	if _, err := s.tenants.GetTenantByAPIKey(ctx, req.APIKey); err != nil {
		return err
	}

	key := pageKey(req.APIKey, req.PageName)
	doc, _, err := s.docs.Get(ctx, key)
	if err != nil {
		return storeError("read page document", err)
	}
	existing, _ := asSlice(doc["visits"])
	visits := append(existing, encodeVisit(models.PageVisit{
		Duration:   *req.Duration,
		Timestamp:  req.StartTime,
		RecordedAt: s.now().Format(time.RFC3339),
	}))
	if err := s.docs.Set(ctx, key, Document{"visits": visits}, true); err != nil {
		return storeError("write page document", err)
	}
	return nil
}

// RecordClick appends one click and bumps the stored counter by exactly 1.
// A missing or mangled counter re-seeds from the click list length.
func (s *AnalyticsStore) RecordClick(ctx context.Context, req models.ClickRequest) error {
	if req.ButtonName == "" || req.Timestamp == "" {
		return validationError("buttonName and timestamp are required")
	}
	if _, err := s.tenants.GetTenantByAPIKey(ctx, req.APIKey); err != nil {
		return err
	}

	key := buttonKey(req.APIKey, req.ButtonName)
	doc, _, err := s.docs.Get(ctx, key)
	if err != nil {
		return storeError("read button document", err)
	}
	existing, _ := asSlice(doc["clicks"])
	count, ok := asInt(doc["clickCount"])
	if !ok {
		count = len(existing)
	}
	clicks := append(existing, encodeClick(models.Click{
		Timestamp:  req.Timestamp,
		RecordedAt: s.now().Format(time.RFC3339),
	}))
	if err := s.docs.Set(ctx, key, Document{"clicks": clicks, "clickCount": count + 1}, true); err != nil {
		return storeError("write button document", err)
	}
	return nil
}

// RecordJourney stores one journey under the next free integer index and
// returns that index.
func (s *AnalyticsStore) RecordJourney(ctx context.Context, req models.JourneyRequest) (int, error) {
	if len(req.Routes) == 0 || req.StartTime == "" || req.Duration == nil {
		return 0, validationError("routes, startTime and duration are required")
	}
	if _, err := s.tenants.GetTenantByAPIKey(ctx, req.APIKey); err != nil {
		return 0, err
	}

	index, err := s.nextIndex(ctx, journeysPrefix(req.APIKey))
	if err != nil {
		return 0, err
	}
	key := journeysPrefix(req.APIKey) + "/" + strconv.Itoa(index)
	err = s.docs.Set(ctx, key, Document{
		"routes":     req.Routes,
		"startTime":  req.StartTime,
		"duration":   *req.Duration,
		"recordedAt": s.now().Format(time.RFC3339),
	}, false)
	if err != nil {
		return 0, storeError("write journey document", err)
	}
	return index, nil
}

// RecordDeviceInfo stores one device report with a server-assigned
// timestamp. The payload is taken as-is: device fields are whatever the
// client browser exposes.
func (s *AnalyticsStore) RecordDeviceInfo(ctx context.Context, req models.DeviceInfoRequest) (int, error) {
	if len(req.DeviceInfo) == 0 {
		return 0, validationError("deviceInfo is required")
	}
	if _, err := s.tenants.GetTenantByAPIKey(ctx, req.APIKey); err != nil {
		return 0, err
	}

	index, err := s.nextIndex(ctx, devicesPrefix(req.APIKey))
	if err != nil {
		return 0, err
	}
	fields := Document{
		"deviceInfo": req.DeviceInfo,
		"recordedAt": s.now().Format(time.RFC3339),
	}
	if req.Location != nil {
		fields["location"] = map[string]any{
			"latitude":  req.Location.Latitude,
			"longitude": req.Location.Longitude,
		}
	}
	key := devicesPrefix(req.APIKey) + "/" + strconv.Itoa(index)
	if err := s.docs.Set(ctx, key, fields, false); err != nil {
		return 0, storeError("write device document", err)
	}
	return index, nil
}

// nextIndex scans the existing sibling keys and allocates max+1. This is a
// recomputation, not a counter, so it tolerates documents written out of
// order; concurrent allocators for the same tenant can still collide.
func (s *AnalyticsStore) nextIndex(ctx context.Context, prefix string) (int, error) {
	docs, err := s.docs.List(ctx, prefix)
	if err != nil {
		return 0, storeError("list indexed documents", err)
	}
	next := 0
	for id := range docs {
		n, err := strconv.Atoi(id)
		if err != nil || n < 0 {
			// Stray keys must not poison allocation.
			log.Printf("Skipping non-integer document id %q under %s", id, prefix)
			continue
		}
		if n+1 > next {
			next = n + 1
		}
	}
	return next, nil
}

// LoadRaw reads every sub-collection for one tenant in a single pass. The
// result is the immutable snapshot the report is computed from.
func (s *AnalyticsStore) LoadRaw(ctx context.Context, apiKey string) (*models.RawAnalytics, error) {
	if _, err := s.tenants.GetTenantByAPIKey(ctx, apiKey); err != nil {
		return nil, err
	}

	raw := &models.RawAnalytics{
		Pages:   make(map[string][]models.PageVisit),
		Buttons: make(map[string]models.ButtonClicks),
	}

	pages, err := s.docs.List(ctx, pagesPrefix(apiKey))
	if err != nil {
		return nil, storeError("list pages", err)
	}
	for name, doc := range pages {
		raw.Pages[name] = decodeVisits(doc["visits"])
	}

	buttons, err := s.docs.List(ctx, buttonsPrefix(apiKey))
	if err != nil {
		return nil, storeError("list buttons", err)
	}
	for name, doc := range buttons {
		clicks := decodeClicks(doc["clicks"])
		count, ok := asInt(doc["clickCount"])
		if !ok {
			count = len(clicks)
		}
		raw.Buttons[name] = models.ButtonClicks{Clicks: clicks, ClickCount: count}
	}

	raw.Journeys, err = loadIndexed(ctx, s.docs, journeysPrefix(apiKey), decodeJourney)
	if err != nil {
		return nil, err
	}
	raw.Devices, err = loadIndexed(ctx, s.docs, devicesPrefix(apiKey), decodeDevice)
	if err != nil {
		return nil, err
	}

	presence, _, err := s.docs.Get(ctx, presenceKey(apiKey))
	if err != nil {
		return nil, storeError("read presence document", err)
	}
	raw.ActiveUsers.Sessions = decodeSessions(presence["sessions"])
	if count, ok := asInt(presence["count"]); ok {
		raw.ActiveUsers.Count = count
	} else {
		raw.ActiveUsers.Count = len(raw.ActiveUsers.Sessions)
	}

	return raw, nil
}

// loadIndexedDocs orders an integer-indexed collection by index.
func loadIndexedDocs(docs map[string]Document) []Document {
	type indexed struct {
		n   int
		doc Document
	}
	items := make([]indexed, 0, len(docs))
	for id, doc := range docs {
		n, err := strconv.Atoi(id)
		if err != nil || n < 0 {
			continue
		}
		items = append(items, indexed{n: n, doc: doc})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].n < items[j].n })
	out := make([]Document, 0, len(items))
	for _, item := range items {
		out = append(out, item.doc)
	}
	return out
}

func loadIndexed[T any](ctx context.Context, store DocStore, prefix string, decode func(Document) T) ([]T, error) {
	docs, err := store.List(ctx, prefix)
	if err != nil {
		return nil, storeError("list indexed documents", err)
	}
	out := make([]T, 0, len(docs))
	for _, doc := range loadIndexedDocs(docs) {
		out = append(out, decode(doc))
	}
	return out, nil
}
