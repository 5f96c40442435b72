package detect

import (
	"fmt"
	"time"

	"github.com/XavierBriggs/Argus/internal/extract"
	"github.com/XavierBriggs/Argus/pkg/models"
)

// detectMatches runs the match-endpoint algorithm: identifier-keyed diffing
// of the previous and current match sets, then per-field classification of
// entities present in both.
func (e *Engine) detectMatches(state *endpointState, prevSnap, curSnap *models.Snapshot, at time.Time) []models.DomainEvent {
	prevMatches := e.extractor.Matches(prevSnap.Data)
	curMatches := e.extractor.Matches(curSnap.Data)

	// The identifier field must key both sides consistently, so it is
	// chosen over the union of the two entity sets.
	union := make([]models.Match, 0, len(prevMatches)+len(curMatches))
	union = append(union, prevMatches...)
	union = append(union, curMatches...)
	idField := extract.DetermineIdentifierField(union)

	prevByID := keyMatches(prevMatches, idField)
	curByID := keyMatches(curMatches, idField)

	var events []models.DomainEvent

	for _, id := range sortedKeys(curByID) {
		cur := curByID[id]
		prev, existed := prevByID[id]
		if !existed {
			// A match appearing mid-play means our own state was reset,
			// not that the match just started.
			status := cur.Status()
			if inProgressStatuses[status] || status == StatusFinished {
				continue
			}
			events = append(events, e.matchStartedEvent(id, cur, at))
			continue
		}
		events = append(events, e.compareMatch(state, id, prev, cur, at)...)
	}

	for _, id := range sortedKeys(prevByID) {
		if _, stillThere := curByID[id]; stillThere {
			continue
		}
		// Disappearance from the feed is how most finishes surface.
		if ev, ok := e.matchFinishedEvent(state, id, prevByID[id], at); ok {
			events = append(events, ev)
		}
	}

	return events
}

// compareMatch classifies changes in the tracked field set of a match
// present in both snapshots. Each changed field is classified on its own.
func (e *Engine) compareMatch(state *endpointState, id string, prev, cur models.Match, at time.Time) []models.DomainEvent {
	var events []models.DomainEvent

	prevScore, curScore := prev.Score(), cur.Score()
	if curScore != "" && prevScore != curScore {
		completed, winner := SetCompletion(prevScore, curScore)
		if completed && winner != 0 {
			events = append(events, e.newEvent(
				models.EventSetCompleted, models.PriorityHigh, id, cur.TournamentID,
				fmt.Sprintf("set completed, won by %s", matchSideName(cur, winner)),
				map[string]any{
					"old_score":  prevScore,
					"new_score":  curScore,
					"set_winner": winner,
					"winner":     matchSideName(cur, winner),
				}, at))
		} else {
			events = append(events, e.newEvent(
				models.EventScoreUpdated, models.PriorityMedium, id, cur.TournamentID,
				"score updated",
				map[string]any{
					"old_score": prevScore,
					"new_score": curScore,
				}, at))
		}
	}

	if prevCourt, curCourt := prev.Court(), cur.Court(); curCourt != "" && prevCourt != curCourt {
		events = append(events, e.newEvent(
			models.EventCourtChanged, models.PriorityLow, id, cur.TournamentID,
			fmt.Sprintf("court changed to %s", curCourt),
			map[string]any{
				"old_court": prevCourt,
				"new_court": curCourt,
			}, at))
	}

	if prevStatus, curStatus := prev.Status(), cur.Status(); curStatus != "" && prevStatus != curStatus {
		if curStatus == StatusFinished {
			if ev, ok := e.matchFinishedEvent(state, id, cur, at); ok {
				events = append(events, ev)
			}
		} else {
			c := classifyStatusTransition(prevStatus, curStatus)
			events = append(events, e.newEvent(
				c.Type, c.Priority, id, cur.TournamentID, c.Description,
				map[string]any{
					"old_status": prevStatus,
					"new_status": curStatus,
				}, at))
		}
	}

	// Elapsed time and serve are tracked for change detection but carry no
	// event classification of their own.
	if prev.Duration() != cur.Duration() || prev.Serve() != cur.Serve() {
		e.log.Trace().Str("match_id", id).Msg("minor field change")
	}

	return events
}

func (e *Engine) matchStartedEvent(id string, m models.Match, at time.Time) models.DomainEvent {
	return e.newEvent(
		models.EventMatchStarted, models.PriorityMedium, id, m.TournamentID,
		fmt.Sprintf("match started: %s vs %s", matchSideName(m, 1), matchSideName(m, 2)),
		map[string]any{
			"tournament": m.TournamentName,
			"round":      m.Round(),
			"court":      m.Court(),
			"side1":      extract.ParseRoster(m.Attrs["PlayerTeam1"]),
			"side2":      extract.ParseRoster(m.Attrs["PlayerTeam2"]),
		}, at)
}

// matchFinishedEvent emits at most one finished event per match identifier:
// the finished-set gates both the disappearance path and the status-F path.
func (e *Engine) matchFinishedEvent(state *endpointState, id string, m models.Match, at time.Time) (models.DomainEvent, bool) {
	if state.finished[id] {
		e.log.Debug().Str("match_id", id).Msg("finished event already emitted")
		return models.DomainEvent{}, false
	}
	state.finished[id] = true

	return e.newEvent(
		models.EventMatchFinished, models.PriorityCritical, id, m.TournamentID,
		fmt.Sprintf("match finished: %s vs %s", matchSideName(m, 1), matchSideName(m, 2)),
		map[string]any{
			"final_score": m.Score(),
			"tournament":  m.TournamentName,
			"round":       m.Round(),
			"side1":       extract.ParseRoster(m.Attrs["PlayerTeam1"]),
			"side2":       extract.ParseRoster(m.Attrs["PlayerTeam2"]),
		}, at), true
}

// keyMatches builds an identifier-keyed map, skipping entities without the
// chosen field. First occurrence wins on duplicate keys.
func keyMatches(matches []models.Match, idField string) map[string]models.Match {
	out := make(map[string]models.Match, len(matches))
	for _, m := range matches {
		id := m.Str(idField)
		if id == "" {
			continue
		}
		if _, dup := out[id]; dup {
			continue
		}
		out[id] = m
	}
	return out
}

func matchSideName(m models.Match, side int) string {
	field := "PlayerTeam1"
	if side == 2 {
		field = "PlayerTeam2"
	}
	name := extract.ParseRoster(m.Attrs[field]).DisplayName()
	if name == "" {
		return fmt.Sprintf("side %d", side)
	}
	return name
}
