package detect

import (
	"sort"
	"time"

	"github.com/XavierBriggs/Argus/pkg/models"
)

// Domain selects the causality table used when ordering replayed events.
type Domain string

const (
	DomainMatches Domain = "matches"
	DomainDraw    Domain = "draw"
)

// ReplayTick is the timestamp offset applied per position when ordering a
// replay batch, guaranteeing strictly increasing, unique timestamps for
// events that share a source timestamp.
const ReplayTick = time.Millisecond

// matchCausality encodes logical causality for live-match events: a finish
// precedes the set that closed it, which precedes anything starting, with
// plain score updates last.
var matchCausality = map[models.EventType]int{
	models.EventMatchFinished:       0,
	models.EventSetCompleted:        1,
	models.EventMatchStarted:        2,
	models.EventMatchSuspended:      3,
	models.EventMatchResumed:        4,
	models.EventPlayStarted:         5,
	models.EventUmpireOnCourt:       6,
	models.EventWarmupStarted:       7,
	models.EventToiletBreak:         8,
	models.EventMedicalTimeout:      9,
	models.EventChallengeInProgress: 10,
	models.EventScoreCorrection:     11,
	models.EventCourtChanged:        12,
	models.EventStatusChanged:       13,
	models.EventScoreUpdated:        14,
}

// drawCausality orders draw events: individual results before advancement,
// advancement before round completion, tournament completion last.
var drawCausality = map[models.EventType]int{
	models.EventMatchResult:         0,
	models.EventPlayerAdvanced:      1,
	models.EventRoundCompleted:      2,
	models.EventTournamentCompleted: 3,
}

// OrderForReplay sorts a batch of events by the domain's causality table,
// then offsets each event's timestamp by one tick per position. The result
// is a new slice; the input is not modified.
func OrderForReplay(events []models.DomainEvent, domain Domain) []models.DomainEvent {
	table := matchCausality
	if domain == DomainDraw {
		table = drawCausality
	}

	out := make([]models.DomainEvent, len(events))
	copy(out, events)

	rank := func(t models.EventType) int {
		if r, ok := table[t]; ok {
			return r
		}
		return len(table)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return rank(out[i].Type) < rank(out[j].Type)
	})

	for i := range out {
		out[i].Timestamp = out[i].Timestamp.Add(time.Duration(i) * ReplayTick)
	}
	return out
}
