package pattern

import (
	"regexp"
	"strings"

	"github.com/jenian/epcheck/internal/openapi"
)

// Entry pairs an endpoint with one compiled idiom variant. The same
// endpoint appears once per variant in the table.
type Entry struct {
	Endpoint openapi.Endpoint
	Regex    *regexp.Regexp
}

// quote matches any of the three quote styles used at call sites
const quote = "['\"`]"

// placeholderRe finds {param} segments in a spec path
var placeholderRe = regexp.MustCompile(`\{[^}]+\}`)

// Compile builds the flat pattern table for a set of endpoints. The
// endpoint order and the fixed variant order make the table
// deterministic. A variant that fails to compile (pathological spec
// input) is dropped without affecting the other variants or endpoints.
func Compile(endpoints []openapi.Endpoint) []Entry {
	var table []Entry
	for _, ep := range endpoints {
		for _, expr := range variants(ep) {
			re, err := regexp.Compile(expr)
			if err != nil {
				continue
			}
			table = append(table, Entry{Endpoint: ep, Regex: re})
		}
	}
	return table
}

// variants generates the regex source for every idiom variant of one
// endpoint. Source code expresses the same logical call several ways,
// so the family deliberately over-matches: a missed real usage is worse
// than a stray extra match here.
func variants(ep openapi.Endpoint) []string {
	upper := string(ep.Method)
	lower := strings.ToLower(upper)
	literal := regexp.QuoteMeta(ep.Path)
	templated := templateToRegex(ep.Path)

	// call-shaped: METHOD( "<path>" )
	open := `\s*\(\s*` + quote
	closed := quote + `\s*\)`

	return []string{
		// uppercase method, quoted path with any concrete prefix
		upper + open + `(/[^'"` + "`" + `]*` + literal + `)` + closed,
		// uppercase method, templated path ({param} -> concrete value)
		upper + open + `(` + templated + `)` + closed,
		// lowercase client call sites, same two shapes
		lower + open + `(/[^'"` + "`" + `]*` + literal + `)` + closed,
		lower + open + `(` + templated + `)` + closed,
		// loose: closing quote but no closing paren, tolerates
		// trailing arguments
		lower + open + `(` + literal + `)` + quote,
		upper + open + `(` + literal + `)` + quote,
	}
}

// templateToRegex converts a spec path into a regex source where each
// {param} placeholder matches one or more non-separator characters and
// everything else is literal. "/users/{id}" therefore recognizes
// "/users/42".
func templateToRegex(path string) string {
	var b strings.Builder
	last := 0
	for _, loc := range placeholderRe.FindAllStringIndex(path, -1) {
		b.WriteString(regexp.QuoteMeta(path[last:loc[0]]))
		b.WriteString(`[^/]+`)
		last = loc[1]
	}
	b.WriteString(regexp.QuoteMeta(path[last:]))
	return b.String()
}
