// api/store/presence.go
package store

import (
	"context"
	"time"

	"klyra/api/models"
)

// livenessWindow is how long a tab may go without a heartbeat before the
// sweep drops it. Clients heartbeat every 60s, so one missed beat survives.
const livenessWindow = 70 * time.Second

// PresenceTracker maintains the per-tenant activeUsers document: a mapping
// of tab ids to last-seen timestamps plus a derived live count. Every
// operation runs the same read-mutate-sweep-write cycle inside one
// transaction, so concurrent tabs of the same tenant cannot lose updates.
type PresenceTracker struct {
	docs    DocStore
	tenants TenantResolver
	now     func() time.Time
}

func NewPresenceTracker(docs DocStore, tenants TenantResolver) *PresenceTracker {
	return &PresenceTracker{docs: docs, tenants: tenants, now: time.Now}
}

// Heartbeat refreshes a tab's last-seen time. The client-reported timestamp
// is stored as-is when present; a tab whose clock is broken simply gets
// swept like any other stale entry.
func (t *PresenceTracker) Heartbeat(ctx context.Context, apiKey, tabID, timestamp string) error {
	return t.apply(ctx, apiKey, func(sessions map[string]models.PresenceSession, now time.Time) {
		lastSeen := timestamp
		if lastSeen == "" {
			lastSeen = now.Format(time.RFC3339)
		}
		sessions[tabID] = models.PresenceSession{TabID: tabID, LastSeen: lastSeen}
	})
}

// Increment registers a tab using server time. Calling it again for a
// still-live tab just refreshes the entry; the count never double-counts.
func (t *PresenceTracker) Increment(ctx context.Context, apiKey, tabID string) error {
	return t.apply(ctx, apiKey, func(sessions map[string]models.PresenceSession, now time.Time) {
		sessions[tabID] = models.PresenceSession{TabID: tabID, LastSeen: now.Format(time.RFC3339)}
	})
}

// Decrement removes a tab on close. Removing an absent tab is a no-op.
func (t *PresenceTracker) Decrement(ctx context.Context, apiKey, tabID string) error {
	return t.apply(ctx, apiKey, func(sessions map[string]models.PresenceSession, now time.Time) {
		delete(sessions, tabID)
	})
}

func (t *PresenceTracker) apply(ctx context.Context, apiKey string, mutate func(sessions map[string]models.PresenceSession, now time.Time)) error {
	if _, err := t.tenants.GetTenantByAPIKey(ctx, apiKey); err != nil {
		return err
	}
	key := presenceKey(apiKey)
	err := t.docs.RunTransaction(ctx, func(tx Tx) error {
		doc, _, err := tx.Get(key)
		if err != nil {
			return err
		}
		// Missing document or a sessions field of the wrong type both
		// read as empty, so corruption heals on the next write.
		sessions := decodeSessions(doc["sessions"])
		now := t.now()
		mutate(sessions, now)
		sweep(sessions, now)
		return tx.Set(key, Document{
			"sessions": encodeSessions(sessions),
			"count":    len(sessions),
		}, true)
	})
	if err != nil {
		return storeError("presence update", err)
	}
	return nil
}

// sweep drops every session unseen for longer than the liveness window,
// regardless of which tab triggered the call. Unparseable timestamps count
// as stale.
func sweep(sessions map[string]models.PresenceSession, now time.Time) {
	for tabID, s := range sessions {
		lastSeen, err := time.Parse(time.RFC3339, s.LastSeen)
		if err != nil || now.Sub(lastSeen) > livenessWindow {
			delete(sessions, tabID)
		}
	}
}
