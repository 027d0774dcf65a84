// Package audit records profile lifecycle events. The trail is append-only:
// events are emitted by the profile service and questionnaire controller,
// buffered through a channel-fed worker, and written to a sink (in-memory
// for tests and single-instance runs, Kafka for shared deployments).
package audit

import (
	"time"

	id "pathway/pkg/domain"
)

// Action names a profile lifecycle event.
type Action string

const (
	ActionSectionUpdated   Action = "section_updated"
	ActionEntryAdded       Action = "entry_added"
	ActionEntryRejected    Action = "entry_rejected"
	ActionEntryRemoved     Action = "entry_removed"
	ActionProfileReset     Action = "profile_reset"
	ActionProfileHydrated  Action = "profile_hydrated"
	ActionProfileCompleted Action = "profile_completed"
)

// Event is one audit record. Metadata carries small free-form detail
// (section name, device description); never PII beyond what the action
// itself implies.
type Event struct {
	UserID    id.UserID         `json:"userId"`
	Action    Action            `json:"action"`
	Section   string            `json:"section,omitempty"`
	EntryID   string            `json:"entryId,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}
