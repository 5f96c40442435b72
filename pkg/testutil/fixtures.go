// Package testutil builds raw snapshot trees shaped like the upstream feed
// for use in tests.
package testutil

// Team builds a side's roster value from player last names.
func Team(lastNames ...string) map[string]any {
	players := make([]any, 0, len(lastNames))
	for _, name := range lastNames {
		players = append(players, map[string]any{
			"PlayerId":  name,
			"FirstName": "T",
			"LastName":  name,
			"Country":   "ESP",
		})
	}
	return map[string]any{"Players": players}
}

// NewMatch builds a raw match entity keyed by MatchId.
func NewMatch(id, status, score, court string) map[string]any {
	return map[string]any{
		"MatchId":     id,
		"Status":      status,
		"Score":       score,
		"Court":       court,
		"Round":       "R16",
		"Duration":    "01:30",
		"Serve":       1,
		"PlayerTeam1": Team("Alpha"),
		"PlayerTeam2": Team("Beta"),
	}
}

// MatchSnapshot wraps match entities in the tournament-grouped shape.
func MatchSnapshot(tournamentID, tournamentName string, matches ...map[string]any) map[string]any {
	list := make([]any, 0, len(matches))
	for _, m := range matches {
		list = append(list, m)
	}
	return map[string]any{
		"Tournaments": []any{
			map[string]any{
				"TournamentId":          tournamentID,
				"TournamentDisplayName": tournamentName,
				"Matches":               list,
			},
		},
	}
}

// NewFixture builds a raw draw fixture.
func NewFixture(code string, winner int, result string, topKnown, bottomKnown bool) map[string]any {
	return map[string]any{
		"MatchCode":     code,
		"Winner":        winner,
		"Result":        result,
		"TopIsKnown":    topKnown,
		"BottomIsKnown": bottomKnown,
		"TopTeam":       Team("Top" + code),
		"BottomTeam":    Team("Bottom" + code),
	}
}

// Round wraps fixtures in a round node.
func Round(id, name string, modernID int, fixtures ...map[string]any) map[string]any {
	list := make([]any, 0, len(fixtures))
	for _, f := range fixtures {
		list = append(list, f)
	}
	return map[string]any{
		"RoundId":       id,
		"RoundName":     name,
		"ModernRoundId": modernID,
		"Fixtures":      list,
	}
}

// DrawSnapshot wraps rounds in the association→event→round tree with a
// single men's singles event.
func DrawSnapshot(tournamentID, tournamentName string, rounds ...map[string]any) map[string]any {
	list := make([]any, 0, len(rounds))
	for _, r := range rounds {
		list = append(list, r)
	}
	return map[string]any{
		"Associations": []any{
			map[string]any{
				"TournamentId":   tournamentID,
				"TournamentName": tournamentName,
				"Events": []any{
					map[string]any{
						"EventType":        "MS",
						"EventDescription": "Men's Singles",
						"Rounds":           list,
					},
				},
			},
		},
	}
}
