package detect

import "github.com/XavierBriggs/Argus/pkg/models"

// Upstream single-letter match status codes.
const (
	StatusUmpireOnCourt = "C"
	StatusWarmup        = "W"
	StatusInProgress    = "P"
	StatusSuspended     = "S"
	StatusToiletBreak   = "D"
	StatusMedical       = "M"
	StatusChallenge     = "R"
	StatusCorrection    = "E"
	StatusFinished      = "F"
)

// inProgressStatuses are the codes meaning play is (or was) underway.
// A match appearing for the first time with one of these must not produce
// a match_started event: the engine's own state was reset mid-stream.
var inProgressStatuses = map[string]bool{
	StatusInProgress:  true,
	StatusSuspended:   true,
	StatusToiletBreak: true,
	StatusMedical:     true,
	StatusChallenge:   true,
	StatusCorrection:  true,
}

// pausedStatuses are the interruptions a transition back to P resumes from.
var pausedStatuses = map[string]bool{
	StatusSuspended:   true,
	StatusToiletBreak: true,
	StatusMedical:     true,
	StatusChallenge:   true,
	StatusCorrection:  true,
}

type statusClassification struct {
	Type        models.EventType
	Priority    models.Priority
	Description string
}

// classifyStatusTransition maps an ordered (previous→new) status pair to an
// event type and priority. The finished code never reaches here: callers
// route it to the finished-event path first.
func classifyStatusTransition(prev, cur string) statusClassification {
	switch cur {
	case StatusSuspended:
		return statusClassification{models.EventMatchSuspended, models.PriorityHigh, "match suspended"}
	case StatusToiletBreak:
		return statusClassification{models.EventToiletBreak, models.PriorityLow, "toilet break"}
	case StatusMedical:
		return statusClassification{models.EventMedicalTimeout, models.PriorityMedium, "medical timeout"}
	case StatusChallenge:
		return statusClassification{models.EventChallengeInProgress, models.PriorityLow, "challenge in progress"}
	case StatusCorrection:
		return statusClassification{models.EventScoreCorrection, models.PriorityLow, "score correction in progress"}
	case StatusUmpireOnCourt:
		return statusClassification{models.EventUmpireOnCourt, models.PriorityLow, "umpire on court"}
	case StatusWarmup:
		return statusClassification{models.EventWarmupStarted, models.PriorityLow, "warmup started"}
	case StatusInProgress:
		if pausedStatuses[prev] {
			return statusClassification{models.EventMatchResumed, models.PriorityHigh, "match resumed"}
		}
		return statusClassification{models.EventPlayStarted, models.PriorityMedium, "play started"}
	}
	return statusClassification{models.EventStatusChanged, models.PriorityLow, "match status changed"}
}
