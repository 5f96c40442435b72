// Package extract normalizes the feed's two snapshot shapes into flat,
// identifier-keyed collections. The upstream wire format is shape-varying
// and inconsistent about identifier fields, so everything here works over
// decoded JSON trees and degrades to empty results on unknown shapes.
package extract

import (
	"github.com/XavierBriggs/Argus/pkg/models"
	"github.com/rs/zerolog"
)

// Extractor flattens raw snapshot trees into entity lists.
type Extractor struct {
	log zerolog.Logger
}

// NewExtractor creates a snapshot extractor.
func NewExtractor(log zerolog.Logger) *Extractor {
	return &Extractor{log: log.With().Str("component", "extract").Logger()}
}

// Matches walks the tournament→matches tree and returns flattened match
// entities with tournament context inherited from their parent group.
// A top-level flat list of matches is accepted as-is. Unknown shapes
// return an empty list with a diagnostic, never an error.
func (e *Extractor) Matches(data any) []models.Match {
	switch t := data.(type) {
	case map[string]any:
		groups, ok := t["Tournaments"].([]any)
		if !ok {
			e.log.Debug().Msg("match snapshot has no Tournaments list")
			return nil
		}
		var out []models.Match
		for _, g := range groups {
			group, ok := g.(map[string]any)
			if !ok {
				continue
			}
			out = append(out, e.groupMatches(group)...)
		}
		return out
	case []any:
		// Already a flat list of match entities.
		var out []models.Match
		for _, m := range t {
			attrs, ok := m.(map[string]any)
			if !ok {
				continue
			}
			out = append(out, models.Match{
				Attrs:          attrs,
				TournamentID:   models.CoerceString(attrs["TournamentId"]),
				TournamentName: models.CoerceString(attrs["TournamentName"]),
			})
		}
		return out
	default:
		e.log.Debug().Msg("unrecognized match snapshot shape")
		return nil
	}
}

func (e *Extractor) groupMatches(group map[string]any) []models.Match {
	tournamentID := models.CoerceString(group["TournamentId"])
	tournamentName := models.CoerceString(group["TournamentDisplayName"])
	if tournamentName == "" {
		tournamentName = models.CoerceString(group["TournamentName"])
	}

	raw, ok := group["Matches"].([]any)
	if !ok {
		return nil
	}

	out := make([]models.Match, 0, len(raw))
	for _, m := range raw {
		attrs, ok := m.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, models.Match{
			Attrs:          attrs,
			TournamentID:   tournamentID,
			TournamentName: tournamentName,
		})
	}
	return out
}

// Fixtures walks the association→event→round→fixture tree, attaching context
// at each level. Fixtures without a match code are excluded since everything
// downstream keys on it.
func (e *Extractor) Fixtures(data any) []models.Fixture {
	root, ok := data.(map[string]any)
	if !ok {
		e.log.Debug().Msg("unrecognized draw snapshot shape")
		return nil
	}

	assocs, ok := root["Associations"].([]any)
	if !ok {
		e.log.Debug().Msg("draw snapshot has no Associations list")
		return nil
	}

	var out []models.Fixture
	for _, a := range assocs {
		assoc, ok := a.(map[string]any)
		if !ok {
			continue
		}
		tournamentID := models.CoerceString(assoc["TournamentId"])
		tournamentName := models.CoerceString(assoc["TournamentName"])

		events, _ := assoc["Events"].([]any)
		for _, ev := range events {
			event, ok := ev.(map[string]any)
			if !ok {
				continue
			}
			eventType := models.CoerceString(event["EventType"])
			eventDesc := models.CoerceString(event["EventDescription"])

			rounds, _ := event["Rounds"].([]any)
			for _, r := range rounds {
				round, ok := r.(map[string]any)
				if !ok {
					continue
				}
				roundID := models.CoerceString(round["RoundId"])
				roundName := models.CoerceString(round["RoundName"])
				modernID := models.CoerceInt(round["ModernRoundId"])

				fixtures, _ := round["Fixtures"].([]any)
				for _, f := range fixtures {
					raw, ok := f.(map[string]any)
					if !ok {
						continue
					}
					code := models.CoerceString(raw["MatchCode"])
					if code == "" {
						continue
					}
					out = append(out, models.Fixture{
						MatchCode:      code,
						Winner:         models.CoerceInt(raw["Winner"]),
						Result:         models.CoerceString(raw["Result"]),
						TopKnown:       models.CoerceBool(raw["TopIsKnown"]),
						BottomKnown:    models.CoerceBool(raw["BottomIsKnown"]),
						TopSide:        ParseRoster(raw["TopTeam"]),
						BottomSide:     ParseRoster(raw["BottomTeam"]),
						TournamentID:   tournamentID,
						TournamentName: tournamentName,
						EventType:      eventType,
						EventDesc:      eventDesc,
						RoundID:        roundID,
						RoundName:      roundName,
						ModernRoundID:  modernID,
					})
				}
			}
		}
	}
	return out
}

// ParseRoster decodes a side's player list from a raw team value.
// Accepts either {"Players":[...]} or a bare player list.
func ParseRoster(v any) models.Roster {
	var players []any
	switch t := v.(type) {
	case map[string]any:
		players, _ = t["Players"].([]any)
	case []any:
		players = t
	default:
		return models.Roster{}
	}

	roster := models.Roster{}
	for _, p := range players {
		raw, ok := p.(map[string]any)
		if !ok {
			continue
		}
		roster.Players = append(roster.Players, models.Player{
			PlayerID:  models.CoerceString(raw["PlayerId"]),
			FirstName: models.CoerceString(raw["FirstName"]),
			LastName:  models.CoerceString(raw["LastName"]),
			Country:   models.CoerceString(raw["Country"]),
		})
	}
	return roster
}
