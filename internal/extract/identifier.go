package extract

import "github.com/XavierBriggs/Argus/pkg/models"

// IdentifierCandidates lists the match identifier fields the feed has been
// observed to use, in priority order. Different endpoints (and different
// days) disagree about which one is populated.
var IdentifierCandidates = []string{"MatchId", "Id", "MatchCode", "Code"}

// DefaultIdentifierField is the primary expected field when probing fails.
const DefaultIdentifierField = "MatchId"

// DetermineIdentifierField picks the identifier field for a comparison.
// It should be called with the union of entities from both the previous and
// current snapshot so the chosen field keys both sides consistently.
//
// A candidate qualifies only if every entity carries a non-empty value and
// all values are unique. If none qualifies, the most frequently populated
// candidate wins, defaulting to DefaultIdentifierField.
func DetermineIdentifierField(entities []models.Match) string {
	if len(entities) == 0 {
		return DefaultIdentifierField
	}

	bestField := DefaultIdentifierField
	bestCount := 0

	for _, candidate := range IdentifierCandidates {
		seen := make(map[string]bool, len(entities))
		populated := 0
		qualified := true

		for _, entity := range entities {
			v := entity.Str(candidate)
			if v == "" {
				qualified = false
				continue
			}
			populated++
			if seen[v] {
				qualified = false
			}
			seen[v] = true
		}

		if qualified {
			return candidate
		}
		if populated > bestCount {
			bestCount = populated
			bestField = candidate
		}
	}

	return bestField
}
