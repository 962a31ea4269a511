package pipeline

import (
	"regexp"
	"strconv"
	"strings"
)

// fixtureSeparator splits home team from the rest of a match string
const fixtureSeparator = " - "

var awayScorePattern = regexp.MustCompile(`^(.+?) (\d+):(\d+)$`)

// Fixture is a parsed match string such as "UCONN Huskies - Fordham 2:1"
type Fixture struct {
	HomeTeam  string
	AwayTeam  string
	HomeGoals int
	AwayGoals int
	score     string
}

// Score is the score exactly as it appears in the match string
func (f Fixture) Score() string {
	if f.score != "" {
		return f.score
	}
	return strconv.Itoa(f.HomeGoals) + ":" + strconv.Itoa(f.AwayGoals)
}

// ParseMatch splits "<home> - <away> <h>:<a>" on the first " - ", the rest
// must end with a space and a digits:digits score
func ParseMatch(s string) (Fixture, bool) {
	home, rest, found := strings.Cut(s, fixtureSeparator)
	if !found {
		return Fixture{}, false
	}
	m := awayScorePattern.FindStringSubmatch(rest)
	if m == nil {
		return Fixture{}, false
	}
	// goal counts too long for an int still give a valid score string
	hg, _ := strconv.Atoi(m[2])
	ag, _ := strconv.Atoi(m[3])
	return Fixture{HomeTeam: home, AwayTeam: m[1], HomeGoals: hg, AwayGoals: ag, score: m[2] + ":" + m[3]}, true
}

// Opponent returns the side of the fixture that isn't team. ok is false when
// team plays on neither side, or on both.
func (f Fixture) Opponent(team string) (string, bool) {
	home, away := f.HomeTeam == team, f.AwayTeam == team
	switch {
	case home && !away:
		return f.AwayTeam, true
	case away && !home:
		return f.HomeTeam, true
	default:
		return "", false
	}
}
