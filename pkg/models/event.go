package models

import "time"

// EventType identifies a derived domain event
type EventType string

const (
	// Live-match endpoint events
	EventMatchStarted        EventType = "match_started"
	EventMatchFinished       EventType = "match_finished"
	EventScoreUpdated        EventType = "score_updated"
	EventSetCompleted        EventType = "set_completed"
	EventCourtChanged        EventType = "court_changed"
	EventMatchSuspended      EventType = "match_suspended"
	EventMatchResumed        EventType = "match_resumed"
	EventPlayStarted         EventType = "play_started"
	EventUmpireOnCourt       EventType = "umpire_on_court"
	EventWarmupStarted       EventType = "warmup_started"
	EventToiletBreak         EventType = "toilet_break"
	EventMedicalTimeout      EventType = "medical_timeout"
	EventChallengeInProgress EventType = "challenge_in_progress"
	EventScoreCorrection     EventType = "score_correction"
	EventStatusChanged       EventType = "status_changed"

	// Draw endpoint events
	EventMatchResult         EventType = "match_result"
	EventPlayerAdvanced      EventType = "player_advanced"
	EventRoundCompleted      EventType = "round_completed"
	EventTournamentCompleted EventType = "tournament_completed"
)

// KnownEventTypes is the set of event types the pipeline will deliver.
// Anything else is dropped during output validation.
var KnownEventTypes = map[EventType]bool{
	EventMatchStarted:        true,
	EventMatchFinished:       true,
	EventScoreUpdated:        true,
	EventSetCompleted:        true,
	EventCourtChanged:        true,
	EventMatchSuspended:      true,
	EventMatchResumed:        true,
	EventPlayStarted:         true,
	EventUmpireOnCourt:       true,
	EventWarmupStarted:       true,
	EventToiletBreak:         true,
	EventMedicalTimeout:      true,
	EventChallengeInProgress: true,
	EventScoreCorrection:     true,
	EventStatusChanged:       true,
	EventMatchResult:         true,
	EventPlayerAdvanced:      true,
	EventRoundCompleted:      true,
	EventTournamentCompleted: true,
}

// Priority indicates how urgently an event should be delivered
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Metadata identifies the producer of an event
type Metadata struct {
	Source  string `json:"source"`
	Version string `json:"version"`
}

// DomainEvent is a single derived change, immutable once created.
// Timestamp is the source time of the snapshot comparison that produced it,
// not the delivery time.
type DomainEvent struct {
	Type         EventType      `json:"event_type" validate:"required"`
	Timestamp    time.Time      `json:"timestamp" validate:"required"`
	MatchID      string         `json:"match_id" validate:"required"`
	TournamentID string         `json:"tournament_id,omitempty"`
	Description  string         `json:"description"`
	Data         map[string]any `json:"data,omitempty"`
	Priority     Priority       `json:"priority" validate:"required"`
	Metadata     Metadata       `json:"metadata"`
}
