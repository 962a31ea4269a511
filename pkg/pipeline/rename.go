package pipeline

import (
	"strings"
	"unicode"

	"github.com/richard-senior/gamecomp/pkg/table"
)

// DisplayOpponentPrefix is OpponentPrefix once snake cased and title cased
const DisplayOpponentPrefix = "Opp "

// DisplaySubstitutions are the public names of a few metrics
var DisplaySubstitutions = map[string]string{
	"Passes To Final Third Accurate": "Final Third Entries",
	"Ppda":                           "PPDA",
	"Xg":                             "xG",
	"Crosses Accurate":               "Completed Crosses",
	"Accurate Passes":                "Completed Passes",
}

// SnakeKey lower cases a column name and joins its words with underscores
func SnakeKey(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}

// SnakeCase applies SnakeKey to every column name
func SnakeCase(t *table.Table) (*table.Table, error) {
	return t.RenameColumns(SnakeKey)
}

// TitleKey turns a snake cased key back into words, capitalising the first
// letter after every non-letter, so "result_2025" becomes "Result 2025" and
// "entries_(runs)" becomes "Entries (Runs)"
func TitleKey(key string) string {
	var b strings.Builder
	prevLetter := false
	for _, r := range strings.ReplaceAll(key, "_", " ") {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}

// OpponentSubstitutions derives the opponent column equivalents of subs
func OpponentSubstitutions(subs map[string]string) map[string]string {
	out := make(map[string]string, len(subs))
	for k, v := range subs {
		out[DisplayOpponentPrefix+k] = DisplayOpponentPrefix + v
	}
	return out
}

// DisplayName is the display name for one snake cased key
func DisplayName(key string, subs map[string]string) string {
	name := TitleKey(key)
	if to, ok := subs[name]; ok {
		return to
	}
	return name
}

// DisplayNames gives every column its human readable name
func DisplayNames(t *table.Table, subs map[string]string) (*table.Table, error) {
	all := make(map[string]string, 2*len(subs))
	for k, v := range subs {
		all[k] = v
	}
	for k, v := range OpponentSubstitutions(subs) {
		all[k] = v
	}
	return t.RenameColumns(func(key string) string {
		return DisplayName(key, all)
	})
}
