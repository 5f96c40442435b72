package models

import (
	"strings"
	"time"
)

// Snapshot is one polled response for an endpoint at a point in time.
// Data holds the decoded JSON tree as-is; the extract package flattens it.
type Snapshot struct {
	Endpoint  string
	Data      any
	FetchedAt time.Time
}

// Match is a flattened live-match entity with tournament context inherited
// from its parent group. Attrs keeps the raw upstream fields so identifier
// probing can run over whatever field names the feed happened to send.
type Match struct {
	Attrs          map[string]any
	TournamentID   string
	TournamentName string
}

// Str returns the named attribute coerced to a trimmed string.
// Missing or non-scalar values come back empty.
func (m Match) Str(field string) string {
	return CoerceString(m.Attrs[field])
}

// Status returns the upstream single-letter status code.
func (m Match) Status() string { return m.Str("Status") }

// Score returns the score string, falling back to the Result field the feed
// uses once a match is over.
func (m Match) Score() string {
	if s := m.Str("Score"); s != "" {
		return s
	}
	return m.Str("Result")
}

func (m Match) Court() string    { return m.Str("Court") }
func (m Match) Round() string    { return m.Str("Round") }
func (m Match) Duration() string { return m.Str("Duration") }
func (m Match) Serve() string    { return m.Str("Serve") }

// Player is one member of a side's roster.
type Player struct {
	PlayerID  string `json:"player_id,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Country   string `json:"country,omitempty"`
}

// Roster is one side of a match or fixture: one player for singles,
// two for doubles.
type Roster struct {
	Players []Player `json:"players"`
}

// DisplayName renders the side as "Last" or "Last/Last" for doubles.
func (r Roster) DisplayName() string {
	names := make([]string, 0, len(r.Players))
	for _, p := range r.Players {
		if p.LastName != "" {
			names = append(names, p.LastName)
		}
	}
	return strings.Join(names, "/")
}

// Known reports whether the roster has at least one named player.
func (r Roster) Known() bool {
	return r.DisplayName() != ""
}

// Fixture is a flattened draw slot, keyed by match code, with context
// inherited from the association/event/round levels above it.
type Fixture struct {
	MatchCode      string
	Winner         int // 0 = undecided, 1 = top side, 2 = bottom side
	Result         string
	TopKnown       bool
	BottomKnown    bool
	TopSide        Roster
	BottomSide     Roster
	TournamentID   string
	TournamentName string
	EventType      string
	EventDesc      string
	RoundID        string
	RoundName      string
	ModernRoundID  int
}

// WinnerSide returns the winning roster, or an empty roster while undecided.
func (f Fixture) WinnerSide() Roster {
	switch f.Winner {
	case 1:
		return f.TopSide
	case 2:
		return f.BottomSide
	}
	return Roster{}
}

// LoserSide returns the losing roster once a winner is set.
func (f Fixture) LoserSide() Roster {
	switch f.Winner {
	case 1:
		return f.BottomSide
	case 2:
		return f.TopSide
	}
	return Roster{}
}
