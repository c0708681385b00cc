package render

import "strings"

// fieldSynonyms maps canonical oceanographic terms to the alternate spellings
// backends actually use for them.
var fieldSynonyms = map[string][]string{
	"temperature": {"temp", "t", "degrees", "celsius", "fahrenheit"},
	"pressure":    {"press", "p", "hpa", "mb", "millibar"},
	"salinity":    {"salt", "s", "psu", "practical salinity"},
	"depth":       {"d", "m", "meters", "metres"},
	"time":        {"date", "timestamp", "datetime", "hour", "minute", "second"},
	"latitude":    {"lat", "y"},
	"longitude":   {"lon", "long", "lng", "x"},
}

// MatchField resolves a user-requested column name against the fields that
// actually exist in a result row. It tries, in order: case-insensitive exact
// match, substring match, synonym expansion (canonical term to synonyms, then
// reverse lookup from a synonym back to its canonical term). Returns "" when
// nothing matches or when requested is empty.
func MatchField(requested string, available []string) string {
	if requested == "" {
		return ""
	}
	want := strings.ToLower(requested)

	for _, f := range available {
		if strings.ToLower(f) == want {
			return f
		}
	}

	for _, f := range available {
		if strings.Contains(strings.ToLower(f), want) {
			return f
		}
	}

	if synonyms, ok := fieldSynonyms[want]; ok {
		for _, syn := range synonyms {
			for _, f := range available {
				if strings.Contains(strings.ToLower(f), syn) {
					return f
				}
			}
		}
	}

	for canonical, synonyms := range fieldSynonyms {
		for _, syn := range synonyms {
			if syn != want {
				continue
			}
			for _, f := range available {
				if strings.Contains(strings.ToLower(f), canonical) {
					return f
				}
			}
		}
	}

	return ""
}
