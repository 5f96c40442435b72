package detect

import (
	"fmt"
	"strconv"
	"strings"
)

// modernRoundCodes maps the feed's numeric "modernized round id" to a short
// round label when the textual round name doesn't match anything.
var modernRoundCodes = map[int]string{
	1:  "Q1",
	2:  "Q2",
	3:  "Q3",
	4:  "R128",
	5:  "R64",
	6:  "R32",
	7:  "R16",
	8:  "QF",
	9:  "SF",
	10: "F",
}

// fallbackRoundCode is used when neither the name nor the id is recognized.
const fallbackRoundCode = "RND"

// NormalizeRoundCode derives a short round label. Textual patterns in the
// round name win; the modernized id table is the fallback.
func NormalizeRoundCode(name string, modernID int) string {
	lower := strings.ToLower(name)

	switch {
	case strings.Contains(lower, "semi"):
		return "SF"
	case strings.Contains(lower, "quarter"):
		return "QF"
	case strings.Contains(lower, "final"):
		return "F"
	}

	if idx := strings.Index(lower, "round of "); idx >= 0 {
		rest := strings.Fields(lower[idx+len("round of "):])
		if len(rest) > 0 {
			if n, err := strconv.Atoi(rest[0]); err == nil && n > 1 {
				return fmt.Sprintf("R%d", n)
			}
		}
	}

	if strings.Contains(lower, "qualifying") {
		for _, f := range strings.Fields(lower) {
			if n, err := strconv.Atoi(f); err == nil {
				return fmt.Sprintf("Q%d", n)
			}
		}
		return "Q1"
	}

	if code, ok := modernRoundCodes[modernID]; ok {
		return code
	}
	if modernID > 0 {
		return fmt.Sprintf("R%d", modernID)
	}
	return fallbackRoundCode
}

// StageFromModernID converts a modernized round id to a stage number, with
// the final at stage 1 and stages increasing outward through the draw.
func StageFromModernID(id int) int {
	stage := 11 - id
	if stage < 1 {
		return 1
	}
	return stage
}

// IsFinalRound reports whether a round name denotes the championship final.
func IsFinalRound(name string) bool {
	return NormalizeRoundCode(name, 0) == "F"
}
