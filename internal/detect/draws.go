package detect

import (
	"fmt"
	"strings"
	"time"

	"github.com/XavierBriggs/Argus/pkg/models"
)

// detectDraw runs the draw-endpoint algorithm: fixture-level winner and
// advancement changes, then round and tournament completion.
func (e *Engine) detectDraw(prevSnap, curSnap *models.Snapshot, at time.Time) []models.DomainEvent {
	prevFixtures := e.extractor.Fixtures(prevSnap.Data)
	curFixtures := e.extractor.Fixtures(curSnap.Data)

	prevByCode := keyFixtures(prevFixtures)
	curByCode := keyFixtures(curFixtures)

	var events []models.DomainEvent

	for _, code := range sortedKeys(curByCode) {
		cur := curByCode[code]
		prev, existed := prevByCode[code]
		if !existed {
			continue
		}

		if prev.Winner == 0 && cur.Winner != 0 {
			events = append(events, e.matchResultEvent(code, cur, at))
		}

		if !prev.TopKnown && cur.TopKnown {
			events = append(events, e.playerAdvancedEvent(code, cur, "top", cur.TopSide, at))
		}
		if !prev.BottomKnown && cur.BottomKnown {
			events = append(events, e.playerAdvancedEvent(code, cur, "bottom", cur.BottomSide, at))
		}
	}

	events = append(events, e.detectRoundCompletion(prevFixtures, curFixtures, at)...)
	return events
}

func (e *Engine) matchResultEvent(code string, f models.Fixture, at time.Time) models.DomainEvent {
	resultType := "completed"
	if isWalkoverResult(f.Result) {
		resultType = "walkover"
	}

	winner := f.WinnerSide()
	loser := f.LoserSide()

	return e.newEvent(
		models.EventMatchResult, models.PriorityHigh, code, f.TournamentID,
		fmt.Sprintf("%s defeated %s (%s)", winner.DisplayName(), loser.DisplayName(), resultType),
		map[string]any{
			"resultType":  resultType,
			"winner_side": f.Winner,
			"winner":      winner,
			"loser":       loser,
			"result":      f.Result,
			"round":       f.RoundName,
			"event":       f.EventDesc,
		}, at)
}

func (e *Engine) playerAdvancedEvent(code string, f models.Fixture, slot string, roster models.Roster, at time.Time) models.DomainEvent {
	return e.newEvent(
		models.EventPlayerAdvanced, models.PriorityMedium, code, f.TournamentID,
		fmt.Sprintf("%s advanced to %s (%s slot)", roster.DisplayName(), f.RoundName, slot),
		map[string]any{
			"slot":   slot,
			"player": roster,
			"round":  f.RoundName,
			"event":  f.EventDesc,
		}, at)
}

// detectRoundCompletion groups fixtures by round and emits a round-completed
// event when every fixture in a round acquired a winner since the previous
// snapshot. A completed one-fixture final also completes the tournament.
func (e *Engine) detectRoundCompletion(prevFixtures, curFixtures []models.Fixture, at time.Time) []models.DomainEvent {
	prevRounds := groupByRound(prevFixtures)
	curRounds := groupByRound(curFixtures)

	var events []models.DomainEvent

	for _, key := range sortedKeys(curRounds) {
		group := curRounds[key]
		if !allDecided(group) || allDecided(prevRounds[key]) {
			continue
		}

		first := group[0]
		code := NormalizeRoundCode(first.RoundName, first.ModernRoundID)
		subject := first.TournamentID + "-" + code

		events = append(events, e.newEvent(
			models.EventRoundCompleted, models.PriorityHigh, subject, first.TournamentID,
			fmt.Sprintf("%s completed (%s)", first.RoundName, first.EventDesc),
			map[string]any{
				"round":      first.RoundName,
				"round_code": code,
				"stage":      StageFromModernID(first.ModernRoundID),
				"event":      first.EventDesc,
				"fixtures":   len(group),
			}, at))

		if IsFinalRound(first.RoundName) && len(group) == 1 {
			events = append(events, e.newEvent(
				models.EventTournamentCompleted, models.PriorityCritical, first.TournamentID, first.TournamentID,
				fmt.Sprintf("%s won by %s", first.TournamentName, first.WinnerSide().DisplayName()),
				map[string]any{
					"champion":    first.WinnerSide(),
					"finalist":    first.LoserSide(),
					"final_score": first.Result,
					"tournament":  first.TournamentName,
					"event":       first.EventDesc,
				}, at))
		}
	}

	return events
}

// walkoverMarkers are the substrings the feed puts in result strings for
// walkovers and retirements.
var walkoverMarkers = []string{"w.o", "w/o", "walkover", "ret"}

func isWalkoverResult(result string) bool {
	lower := strings.ToLower(result)
	for _, marker := range walkoverMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// keyFixtures builds a match-code-keyed map. First occurrence wins.
func keyFixtures(fixtures []models.Fixture) map[string]models.Fixture {
	out := make(map[string]models.Fixture, len(fixtures))
	for _, f := range fixtures {
		if _, dup := out[f.MatchCode]; dup {
			continue
		}
		out[f.MatchCode] = f
	}
	return out
}

// groupByRound buckets fixtures by tournament, event and round name so that
// identically named rounds in concurrent events stay separate.
func groupByRound(fixtures []models.Fixture) map[string][]models.Fixture {
	out := make(map[string][]models.Fixture)
	for _, f := range fixtures {
		key := f.TournamentID + "|" + f.EventType + "|" + f.RoundName
		out[key] = append(out[key], f)
	}
	return out
}

// allDecided reports whether a non-empty fixture group has a winner in
// every slot.
func allDecided(fixtures []models.Fixture) bool {
	if len(fixtures) == 0 {
		return false
	}
	for _, f := range fixtures {
		if f.Winner == 0 {
			return false
		}
	}
	return true
}
