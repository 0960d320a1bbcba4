package models

// AnalyzeRequest asks the facade for a full analysis of a draft state.
type AnalyzeRequest struct {
	State DraftState `json:"state"`
}

// RecommendRequest asks for ranked pick or ban suggestions.
// Pool is optional; when omitted the server supplies every known entity that
// is not picked or banned, ordered by descending pick rate. Pool order is a
// caller contract: only the first 30 entries are evaluated.
type RecommendRequest struct {
	State DraftState `json:"state"`
	Side  int        `json:"side" validate:"required,oneof=1 2"`
	Pool  []string   `json:"pool,omitempty"`
}

// StartSessionRequest starts an interactive draft session.
type StartSessionRequest struct {
	PlayerName string `json:"player_name" validate:"required,min=1,max=64"`
	Difficulty string `json:"difficulty" validate:"required,oneof=easy medium hard pro"`
}

// SubmitMoveRequest submits the player's pick or ban for the current phase.
// TimeTaken is client-reported and only feeds scoring.
type SubmitMoveRequest struct {
	Entity    string  `json:"entity" validate:"required"`
	TimeTaken float64 `json:"time_taken" validate:"gte=0"`
}
