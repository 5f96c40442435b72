package detect

import (
	"strconv"
	"strings"
)

// Score strings arrive as whitespace-delimited tokens: completed sets as
// game pairs ("6-4"), the in-progress game score riding at the end
// ("30-15", "40-AD"), and a bare "00" or "0-0" marking a freshly started
// set. The encoding is ad-hoc and the feed occasionally emits scorelines
// that don't fit; every ambiguous case here resolves to "no strong signal"
// rather than a guessed event.

// tokenizeScore splits a score string into its whitespace-delimited tokens.
func tokenizeScore(s string) []string {
	return strings.Fields(s)
}

// parseGamePair splits an "X-Y" token into numeric halves.
func parseGamePair(tok string) (left, right int, ok bool) {
	parts := strings.SplitN(tok, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	l, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	r, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return l, r, true
}

// isNewSetMarker reports whether a token marks the start of a new set.
func isNewSetMarker(tok string) bool {
	return tok == "00" || tok == "0-0"
}

// isSetEnding reports whether a game pair is a recognized set-ending
// scoreline: 6-0 through 6-4, 7-5, 7-6, or the mirror of any of those.
func isSetEnding(left, right int) bool {
	hi, lo := left, right
	if lo > hi {
		hi, lo = lo, hi
	}
	if hi == 6 && lo <= 4 {
		return true
	}
	return hi == 7 && (lo == 5 || lo == 6)
}

// isSetEndingToken reports whether a raw token is a set-ending game pair.
func isSetEndingToken(tok string) bool {
	l, r, ok := parseGamePair(tok)
	return ok && isSetEnding(l, r)
}

// SetCompletion examines a score transition and reports whether it shows a
// set completing between the two values. When it does, winner is the side
// (1 or 2) that took the set, or 0 when the scoreline is too ambiguous to
// call. The caller must then degrade to a plain score update.
func SetCompletion(prev, cur string) (completed bool, winner int) {
	prevToks := tokenizeScore(prev)
	curToks := tokenizeScore(cur)

	if len(curToks) == 0 {
		return false, 0
	}

	// A trailing new-set marker that wasn't there before means the prior
	// set just wrapped up.
	last := len(curToks) - 1
	if isNewSetMarker(curToks[last]) {
		if last >= len(prevToks) || !isNewSetMarker(prevToks[last]) {
			completed = true
		}
	}

	// A token turning set-ending where the previous value's same-position
	// token was not is the other completion signal.
	if !completed {
		for i, tok := range curToks {
			if !isSetEndingToken(tok) {
				continue
			}
			if i >= len(prevToks) || !isSetEndingToken(prevToks[i]) {
				completed = true
				break
			}
		}
	}

	if !completed {
		return false, 0
	}

	return true, setWinner(curToks)
}

// setWinner finds the most recent fully-resolved, validly-ranged set token
// and returns the side with more games. Returns 0 when no token qualifies.
func setWinner(tokens []string) int {
	for i := len(tokens) - 1; i >= 0; i-- {
		tok := tokens[i]
		if isNewSetMarker(tok) {
			continue
		}
		l, r, ok := parseGamePair(tok)
		if !ok || l > 7 || r > 7 {
			// Game score (15/30/40) or unparseable, keep scanning back.
			continue
		}
		if !isSetEnding(l, r) {
			// Mid-set token, not resolved. Nothing newer qualifies either.
			return 0
		}
		if l > r {
			return 1
		}
		if r > l {
			return 2
		}
		return 0
	}
	return 0
}
