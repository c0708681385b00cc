package render

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"voidchat/internal/model"
)

// timeFieldPatterns mark a column as time-like for x-axis selection.
var timeFieldPatterns = []string{"time", "date", "timestamp", "year", "month", "day"}

// NormalizeSeries turns raw result rows into a cleaned {x, y} series ready
// for charting. Requested field names are resolved through MatchField and,
// failing that, heuristics over the first row: a time-like column is
// preferred for x, then the first numeric-looking column; y takes the first
// other numeric column, or the second column outright when the row has
// fewer than two numeric fields. An empty slice means "cannot chart".
func NormalizeSeries(rows []model.Row, xField, yField string) []model.SeriesPoint {
	if len(rows) == 0 {
		return nil
	}

	first := rows[0]
	keys := first.Keys()

	finalX := MatchField(xField, keys)
	finalY := MatchField(yField, keys)

	if finalX == "" || finalY == "" {
		finalX, finalY = inferAxisFields(first, finalX, finalY)
	}
	if finalX == "" || finalY == "" {
		return nil
	}

	series := make([]model.SeriesPoint, 0, len(rows))
	for _, row := range rows {
		xRaw, _ := row.Get(finalX)
		yRaw, _ := row.Get(finalY)
		series = append(series, model.SeriesPoint{
			X: coerceX(xRaw),
			Y: coerceY(yRaw),
		})
	}

	series = dedupeByX(series)
	sortSeries(series)
	return series
}

func inferAxisFields(first model.Row, finalX, finalY string) (string, string) {
	keys := first.Keys()

	var numericKeys, stringKeys []string
	for _, k := range keys {
		v, _ := first.Get(k)
		if isNumericValue(v) {
			numericKeys = append(numericKeys, k)
		} else if _, ok := v.(string); ok {
			stringKeys = append(stringKeys, k)
		}
	}

	timeKey := ""
	for _, k := range keys {
		lower := strings.ToLower(k)
		for _, pat := range timeFieldPatterns {
			if strings.Contains(lower, pat) {
				timeKey = k
				break
			}
		}
		if timeKey != "" {
			break
		}
	}

	if len(numericKeys) >= 1 {
		if finalX == "" {
			switch {
			case timeKey != "":
				finalX = timeKey
			case len(numericKeys) > 1:
				finalX = numericKeys[0]
			case len(stringKeys) > 0:
				finalX = stringKeys[0]
			default:
				finalX = keys[0]
			}
		}
		if finalY == "" {
			for _, k := range numericKeys {
				if k != finalX {
					finalY = k
					break
				}
			}
			if finalY == "" {
				finalY = numericKeys[0]
			}
		}
	} else if len(keys) >= 2 {
		if finalX == "" {
			finalX = keys[0]
		}
		if finalY == "" {
			finalY = keys[1]
		}
	}

	return finalX, finalY
}

// isNumericValue reports whether a raw row value is a number or a string
// that parses as one.
func isNumericValue(v any) bool {
	switch t := v.(type) {
	case float64, float32, int, int64:
		return true
	case string:
		_, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return err == nil
	default:
		return false
	}
}

// coerceX converts ISO-like date strings to Unix-epoch seconds; everything
// else passes through untouched.
func coerceX(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	for _, layout := range []string{
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, s); err == nil {
			return float64(t.Unix())
		}
	}
	return v
}

// coerceY converts numeric strings to numbers; unparseable values pass
// through so the renderer can still show something.
func coerceY(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return f
	}
	return v
}

// dedupeByX drops later points that repeat an earlier x-value.
func dedupeByX(series []model.SeriesPoint) []model.SeriesPoint {
	out := series[:0]
	for _, p := range series {
		dup := false
		for _, kept := range out {
			if kept.X == p.X {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, p)
		}
	}
	return out
}

// sortSeries orders points ascending by x: numerically when both values are
// numbers, lexicographically when both are strings. Mixed pairs keep their
// relative order (the sort is stable).
func sortSeries(series []model.SeriesPoint) {
	sort.SliceStable(series, func(i, j int) bool {
		a, aOK := asFloat(series[i].X)
		b, bOK := asFloat(series[j].X)
		if aOK && bOK {
			return a < b
		}
		as, asOK := series[i].X.(string)
		bs, bsOK := series[j].X.(string)
		if asOK && bsOK {
			return as < bs
		}
		return false
	})
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}
