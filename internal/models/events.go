package models

// DraftEventType discriminates ingested draft telemetry rows.
type DraftEventType string

const (
	EventDraftAction DraftEventType = "draft_action"
	EventMatchResult DraftEventType = "match_result"
)

// DraftEvent is one raw telemetry event from the ingestion collaborator.
// Action events carry a single draft step; result events carry a side's
// final win flag.
type DraftEvent struct {
	Type    DraftEventType `json:"type" validate:"required,oneof=draft_action match_result"`
	MatchID string         `json:"match_id" validate:"required"`
	Side    int            `json:"side" validate:"required,oneof=1 2"`

	// draft_action fields
	Sequence int        `json:"sequence,omitempty"`
	Action   ActionKind `json:"action,omitempty" validate:"omitempty,oneof=pick ban"`
	Entity   string     `json:"entity,omitempty"`

	// match_result fields
	Won bool `json:"won,omitempty"`

	Timestamp float64 `json:"timestamp,omitempty"`
}
