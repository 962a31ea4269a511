package table

import (
	"fmt"
	"strconv"
	"strings"
)

// nullTokens are cell contents the statistics exports use for "no value"
var nullTokens = map[string]bool{
	"":     true,
	"-":    true,
	"NaN":  true,
	"nan":  true,
	"NA":   true,
	"N/A":  true,
	"null": true,
}

// HeaderNames makes raw export headers unique. A blank header at position N
// becomes "Unnamed: N" and repeats of a name become "name.1", "name.2"...
// The column normalizer's mapping is keyed on exactly these names.
func HeaderNames(header []string) []string {
	names := make([]string, len(header))
	used := make(map[string]bool, len(header))
	repeats := make(map[string]int)
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		name := h
		for used[name] {
			repeats[h]++
			name = fmt.Sprintf("%s.%d", h, repeats[h])
		}
		used[name] = true
		names[i] = name
	}
	return names
}

// FromRecords builds a table from a header row and string records, inferring
// the kind of every column. Short records are padded with nulls.
func FromRecords(header []string, records [][]string) (*Table, error) {
	names := HeaderNames(header)
	for r, rec := range records {
		if len(rec) > len(names) {
			return nil, fmt.Errorf("record %d has %d fields, header has %d", r+1, len(rec), len(names))
		}
	}

	cols := make([]*Column, len(names))
	raw := make([]string, len(records))
	for j, name := range names {
		for r, rec := range records {
			if j < len(rec) {
				raw[r] = strings.TrimSpace(rec[j])
			} else {
				raw[r] = ""
			}
		}
		cols[j] = ParseColumn(name, raw)
	}
	return New(cols...)
}

// ParseColumn infers the kind of raw cells and converts them. Whole numbers
// give Integer, other numbers Decimal, numbers with a trailing % Percentage,
// anything else Text. A column without values is Decimal.
func ParseColumn(name string, raw []string) *Column {
	kind := inferKind(raw)
	values := make([]Value, len(raw))
	for i, s := range raw {
		if nullTokens[s] {
			values[i] = Null()
			continue
		}
		if kind == KindText {
			values[i] = Text(s)
			continue
		}
		if f, _ := parseNumber(s); f != nil {
			values[i] = Number(*f)
		} else {
			values[i] = Null()
		}
	}
	return &Column{name: name, kind: kind, values: values}
}

func inferKind(raw []string) Kind {
	kind := KindInteger
	found := false
	for _, s := range raw {
		if nullTokens[s] {
			continue
		}
		found = true
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			continue
		}
		f, pct := parseNumber(s)
		if f == nil {
			return KindText
		}
		if pct {
			kind = KindPercentage
		} else if kind == KindInteger {
			kind = KindDecimal
		}
	}
	if !found {
		return KindDecimal
	}
	return kind
}

// parseNumber parses s as a float, allowing a trailing percent sign
func parseNumber(s string) (*float64, bool) {
	pct := false
	if strings.HasSuffix(s, "%") {
		pct = true
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, false
	}
	return &f, pct
}
