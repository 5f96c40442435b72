package detect_test

import (
	"testing"
	"time"

	"github.com/XavierBriggs/Argus/pkg/models"
	"github.com/XavierBriggs/Argus/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessDraw_MatchResult(t *testing.T) {
	engine := newEngine(t)

	before := testutil.DrawSnapshot("580", "US Open",
		testutil.Round("3", "Round of 16", 7,
			testutil.NewFixture("ms301", 0, "", true, true),
			testutil.NewFixture("ms302", 0, "", true, true)))
	after := testutil.DrawSnapshot("580", "US Open",
		testutil.Round("3", "Round of 16", 7,
			testutil.NewFixture("ms301", 1, "6-4 6-2", true, true),
			testutil.NewFixture("ms302", 0, "", true, true)))

	engine.ProcessData(drawPath, before, time.Time{})
	events := engine.ProcessData(drawPath, after, time.Time{})

	require.Len(t, events, 1)
	ev := events[0]
	assert.Equal(t, models.EventMatchResult, ev.Type)
	assert.Equal(t, "ms301", ev.MatchID)
	assert.Equal(t, models.PriorityHigh, ev.Priority)
	assert.Equal(t, "completed", ev.Data["resultType"])
	assert.Equal(t, 1, ev.Data["winner_side"])
	assert.Equal(t, "6-4 6-2", ev.Data["result"])
}

func TestProcessDraw_WalkoverResult(t *testing.T) {
	cases := []string{"W.O.", "w/o", "Walkover", "6-4 2-1 RET"}

	for _, result := range cases {
		t.Run(result, func(t *testing.T) {
			engine := newEngine(t)

			engine.ProcessData(drawPath, testutil.DrawSnapshot("580", "US Open",
				testutil.Round("3", "Round of 16", 7,
					testutil.NewFixture("ms301", 0, "", true, true))), time.Time{})
			events := engine.ProcessData(drawPath, testutil.DrawSnapshot("580", "US Open",
				testutil.Round("3", "Round of 16", 7,
					testutil.NewFixture("ms301", 2, result, true, true))), time.Time{})

			require.Len(t, events, 1)
			assert.Equal(t, models.EventMatchResult, events[0].Type)
			assert.Equal(t, "walkover", events[0].Data["resultType"])
			assert.Equal(t, 2, events[0].Data["winner_side"])
		})
	}
}

func TestProcessDraw_PlayerAdvanced(t *testing.T) {
	engine := newEngine(t)

	engine.ProcessData(drawPath, testutil.DrawSnapshot("580", "US Open",
		testutil.Round("4", "Quarter-Finals", 8,
			testutil.NewFixture("ms401", 0, "", false, false))), time.Time{})
	events := engine.ProcessData(drawPath, testutil.DrawSnapshot("580", "US Open",
		testutil.Round("4", "Quarter-Finals", 8,
			testutil.NewFixture("ms401", 0, "", true, false))), time.Time{})

	require.Len(t, events, 1)
	assert.Equal(t, models.EventPlayerAdvanced, events[0].Type)
	assert.Equal(t, "ms401", events[0].MatchID)
	assert.Equal(t, "top", events[0].Data["slot"])
	assert.Equal(t, models.PriorityMedium, events[0].Priority)
}

func TestProcessDraw_BothSlotsFill(t *testing.T) {
	engine := newEngine(t)

	engine.ProcessData(drawPath, testutil.DrawSnapshot("580", "US Open",
		testutil.Round("4", "Quarter-Finals", 8,
			testutil.NewFixture("ms401", 0, "", false, false))), time.Time{})
	events := engine.ProcessData(drawPath, testutil.DrawSnapshot("580", "US Open",
		testutil.Round("4", "Quarter-Finals", 8,
			testutil.NewFixture("ms401", 0, "", true, true))), time.Time{})

	require.Len(t, events, 2)
	slots := []string{events[0].Data["slot"].(string), events[1].Data["slot"].(string)}
	assert.Contains(t, slots, "top")
	assert.Contains(t, slots, "bottom")
}

func TestProcessDraw_RoundCompletedExactlyOnce(t *testing.T) {
	engine := newEngine(t)

	partial := testutil.DrawSnapshot("580", "US Open",
		testutil.Round("3", "Round of 16", 7,
			testutil.NewFixture("ms301", 1, "6-4 6-2", true, true),
			testutil.NewFixture("ms302", 0, "", true, true)))
	complete := testutil.DrawSnapshot("580", "US Open",
		testutil.Round("3", "Round of 16", 7,
			testutil.NewFixture("ms301", 1, "6-4 6-2", true, true),
			testutil.NewFixture("ms302", 2, "7-6 7-5", true, true)))

	engine.ProcessData(drawPath, partial, time.Time{})
	events := engine.ProcessData(drawPath, complete, time.Time{})

	rounds := eventTypesOf(events, models.EventRoundCompleted)
	require.Len(t, rounds, 1)
	assert.Equal(t, "580-R16", rounds[0].MatchID)
	assert.Equal(t, "R16", rounds[0].Data["round_code"])
	assert.Equal(t, 4, rounds[0].Data["stage"])
	assert.Equal(t, 2, rounds[0].Data["fixtures"])

	// The last result itself is also reported.
	require.Len(t, eventTypesOf(events, models.EventMatchResult), 1)

	// Re-observing the completed round must not repeat the event.
	events = engine.ProcessData(drawPath, complete, time.Time{})
	assert.Empty(t, events)
}

func TestProcessDraw_TournamentCompleted(t *testing.T) {
	engine := newEngine(t)

	engine.ProcessData(drawPath, testutil.DrawSnapshot("580", "US Open",
		testutil.Round("7", "Final", 10,
			testutil.NewFixture("ms701", 0, "", true, true))), time.Time{})
	events := engine.ProcessData(drawPath, testutil.DrawSnapshot("580", "US Open",
		testutil.Round("7", "Final", 10,
			testutil.NewFixture("ms701", 1, "6-4 6-4 6-4", true, true))), time.Time{})

	tournaments := eventTypesOf(events, models.EventTournamentCompleted)
	require.Len(t, tournaments, 1)
	assert.Equal(t, "580", tournaments[0].MatchID)
	assert.Equal(t, models.PriorityCritical, tournaments[0].Priority)
	assert.Equal(t, "6-4 6-4 6-4", tournaments[0].Data["final_score"])

	require.Len(t, eventTypesOf(events, models.EventRoundCompleted), 1)
	require.Len(t, eventTypesOf(events, models.EventMatchResult), 1)
}

func TestProcessDraw_MultiFixtureFinalRoundIsNotTournamentEnd(t *testing.T) {
	engine := newEngine(t)

	// Two fixtures under a "final" label (e.g. third-place playoffs grouped
	// in) must not be mistaken for the championship decider.
	engine.ProcessData(drawPath, testutil.DrawSnapshot("580", "US Open",
		testutil.Round("7", "Final", 10,
			testutil.NewFixture("ms701", 0, "", true, true),
			testutil.NewFixture("ms702", 0, "", true, true))), time.Time{})
	events := engine.ProcessData(drawPath, testutil.DrawSnapshot("580", "US Open",
		testutil.Round("7", "Final", 10,
			testutil.NewFixture("ms701", 1, "6-4 6-4", true, true),
			testutil.NewFixture("ms702", 2, "7-5 7-5", true, true))), time.Time{})

	assert.Empty(t, eventTypesOf(events, models.EventTournamentCompleted))
	require.Len(t, eventTypesOf(events, models.EventRoundCompleted), 1)
}

func TestProcessDraw_NewFixtureDoesNotEmit(t *testing.T) {
	engine := newEngine(t)

	engine.ProcessData(drawPath, testutil.DrawSnapshot("580", "US Open",
		testutil.Round("3", "Round of 16", 7,
			testutil.NewFixture("ms301", 0, "", true, true))), time.Time{})

	// A fixture appearing already decided only seeds comparison state.
	events := engine.ProcessData(drawPath, testutil.DrawSnapshot("580", "US Open",
		testutil.Round("3", "Round of 16", 7,
			testutil.NewFixture("ms301", 0, "", true, true),
			testutil.NewFixture("ms303", 1, "6-0 6-0", true, true))), time.Time{})

	assert.Empty(t, eventTypesOf(events, models.EventMatchResult))
}
