package catalog

import "github.com/fieldline/backend/internal/domain/shared"

// Event types published when the snapshot state changes
const (
	EventTypeSnapshotRefreshed = "catalog.snapshot.refreshed"
	EventTypeSnapshotStale     = "catalog.snapshot.stale"
)

// SnapshotRefreshedEvent is published after a successful bulk refresh
type SnapshotRefreshedEvent struct {
	shared.BaseDomainEvent
	Products   int `json:"products"`
	Clients    int `json:"clients"`
	Salesmen   int `json:"salesmen"`
	TeamOrders int `json:"team_orders"`
}

// NewSnapshotRefreshedEvent creates a SnapshotRefreshedEvent for the snapshot
func NewSnapshotRefreshedEvent(s *Snapshot) *SnapshotRefreshedEvent {
	return &SnapshotRefreshedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSnapshotRefreshed),
		Products:        len(s.Products),
		Clients:         len(s.Clients),
		Salesmen:        len(s.Salesmen),
		TeamOrders:      len(s.TeamOrders),
	}
}

// SnapshotStaleEvent is published when a refresh failed and the previous
// snapshot stays in effect
type SnapshotStaleEvent struct {
	shared.BaseDomainEvent
	Reason string `json:"reason"`
}

// NewSnapshotStaleEvent creates a SnapshotStaleEvent
func NewSnapshotStaleEvent(reason string) *SnapshotStaleEvent {
	return &SnapshotStaleEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSnapshotStale),
		Reason:          reason,
	}
}
