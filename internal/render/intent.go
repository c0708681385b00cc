package render

import (
	"regexp"
	"strings"
)

// ChartIntent is an explicit chart instruction extracted from the user's
// query text.
type ChartIntent struct {
	ChartType string
	XField    string
	YField    string
}

const defaultChartType = "line"

// Queries are lowercased before matching, so the alternation lists lowercase
// forms; canonicalChartType restores the one camel-cased tag on the way out.
const chartTypeAlt = `line|bar|pie|doughnut|polararea|radar|scatter|bubble`

// intentRule is one phrase pattern. Group indices say where the capture for
// each part lives; a zero typeGroup means the rule has no type capture and
// the default applies.
type intentRule struct {
	re        *regexp.Regexp
	typeGroup int
	xGroup    int
	yGroup    int
}

// intentRules are tried in order; first match wins. The ordering puts fully
// explicit phrasings before loose ones so "compare a vs b in a bar chart"
// is not swallowed by the bare "compare a and b" rule.
var intentRules = []intentRule{
	// "compare pressure vs temperature in a line chart"
	{regexp.MustCompile(`compare\s+(\w+)\s+vs\s+(\w+)\s+(?:in|with|using)\s+(?:a\s+)?(` + chartTypeAlt + `)\s+chart`), 3, 1, 2},
	// "show me pressure vs temperature as a line chart"
	{regexp.MustCompile(`(?:show|display|plot|graph)\s+(?:\w+\s+)*?(\w+)\s+vs\s+(\w+)\s+(?:as|in)\s+(?:a\s+)?(` + chartTypeAlt + `)\s+chart`), 3, 1, 2},
	// "line chart of pressure vs temperature"
	{regexp.MustCompile(`(` + chartTypeAlt + `)\s+chart\s+(?:of|for)\s+(\w+)\s+vs\s+(\w+)`), 1, 2, 3},
	// "plot pressure vs temperature"
	{regexp.MustCompile(`(?:plot|graph|show|display)\s+(\w+)\s+vs\s+(\w+)`), 0, 1, 2},
	// "compare pressure and temperature"
	{regexp.MustCompile(`compare\s+(\w+)\s+and\s+(\w+)`), 0, 1, 2},
	// "pressure vs temperature chart"
	{regexp.MustCompile(`(\w+)\s+vs\s+(\w+)\s+chart`), 0, 1, 2},
}

var (
	bareVsRe       = regexp.MustCompile(`(\w+)\s+vs\s+(\w+)`)
	bareAndRe      = regexp.MustCompile(`(\w+)\s+and\s+(\w+)`)
	chartKeywordRe = regexp.MustCompile(`(` + chartTypeAlt + `)`)
)

// ParseChartIntent extracts {chartType, xField, yField} from the literal
// query text. Returns nil when the query carries no recognizable chart
// instruction; callers must treat nil as "no explicit chart request", not an
// error.
func ParseChartIntent(query string) *ChartIntent {
	q := strings.ToLower(query)

	for _, rule := range intentRules {
		m := rule.re.FindStringSubmatch(q)
		if m == nil {
			continue
		}
		intent := &ChartIntent{
			ChartType: defaultChartType,
			XField:    m[rule.xGroup],
			YField:    m[rule.yGroup],
		}
		if rule.typeGroup > 0 {
			intent.ChartType = canonicalChartType(m[rule.typeGroup])
		}
		return intent
	}

	// Weak fallback: a bare "a vs b" anywhere, type taken from any chart
	// keyword present in the query.
	if m := bareVsRe.FindStringSubmatch(q); m != nil {
		return &ChartIntent{
			ChartType: chartKeywordOr(q, defaultChartType),
			XField:    m[1],
			YField:    m[2],
		}
	}

	// Weaker still: "a and b", only when the query also talks about
	// comparing or charting.
	if m := bareAndRe.FindStringSubmatch(q); m != nil {
		if strings.Contains(q, "compare") || strings.Contains(q, "chart") {
			return &ChartIntent{
				ChartType: chartKeywordOr(q, defaultChartType),
				XField:    m[1],
				YField:    m[2],
			}
		}
	}

	return nil
}

func chartKeywordOr(q, fallback string) string {
	if m := chartKeywordRe.FindStringSubmatch(q); m != nil {
		return canonicalChartType(m[1])
	}
	return fallback
}

func canonicalChartType(t string) string {
	if t == "polararea" {
		return "polarArea"
	}
	return t
}
