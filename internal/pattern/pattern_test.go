package pattern

import (
	"testing"

	"github.com/jenian/epcheck/internal/openapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// matchesAny reports whether any table entry for the given endpoint
// matches the content.
func matchesAny(table []Entry, ep openapi.Endpoint, content string) bool {
	for _, entry := range table {
		if entry.Endpoint == ep && entry.Regex.MatchString(content) {
			return true
		}
	}
	return false
}

func TestCompileDeterministicOrder(t *testing.T) {
	endpoints := []openapi.Endpoint{
		{Path: "/a", Method: openapi.MethodGet},
		{Path: "/b", Method: openapi.MethodPost},
	}

	first := Compile(endpoints)
	second := Compile(endpoints)
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Endpoint, second[i].Endpoint)
		assert.Equal(t, first[i].Regex.String(), second[i].Regex.String())
	}
}

func TestCompileFamilySize(t *testing.T) {
	table := Compile([]openapi.Endpoint{{Path: "/users", Method: openapi.MethodGet}})
	// Six idiom variants per endpoint.
	assert.Len(t, table, 6)
}

func TestLiteralCallSites(t *testing.T) {
	ep := openapi.Endpoint{Path: "/users", Method: openapi.MethodGet}
	table := Compile([]openapi.Endpoint{ep})

	tests := []struct {
		name    string
		content string
		match   bool
	}{
		{"lowercase double quotes", `api.get("/users")`, true},
		{"lowercase single quotes", `api.get('/users')`, true},
		{"lowercase backticks", "api.get(`/users`)", true},
		{"uppercase", `client.GET("/users")`, true},
		{"whitespace around call", `client.GET ( "/users" )`, true},
		{"trailing arguments", `api.get("/users", { headers })`, true},
		{"concrete prefix", `client.GET("/api/v1/users")`, true},
		{"method mismatch", `api.post("/users")`, false},
		{"different path", `api.get("/orders")`, false},
		{"shared prefix only", `api.get("/usersextra")`, false},
		{"no call shape", `const path = "/users"`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.match, matchesAny(table, ep, tt.content))
		})
	}
}

func TestTemplatedCallSites(t *testing.T) {
	ep := openapi.Endpoint{Path: "/users/{id}", Method: openapi.MethodGet}
	table := Compile([]openapi.Endpoint{ep})

	tests := []struct {
		name    string
		content string
		match   bool
	}{
		{"numeric value", `api.get("/users/42")`, true},
		{"string value", `api.get("/users/abc-def")`, true},
		{"uppercase", `client.GET("/users/42")`, true},
		{"literal template", `api.get("/users/{id}")`, true},
		{"missing segment", `api.get("/users/")`, false},
		{"extra segment", `api.get("/users/42/posts")`, false},
		{"method mismatch", `api.delete("/users/42")`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.match, matchesAny(table, ep, tt.content))
		})
	}
}

func TestLooseVariantsRequireClosingQuote(t *testing.T) {
	ep := openapi.Endpoint{Path: "/a", Method: openapi.MethodGet}
	table := Compile([]openapi.Endpoint{ep})

	// The path must still be a complete quoted string; only what
	// follows the quote is unconstrained.
	assert.True(t, matchesAny(table, ep, `api.get("/a", params)`))
	assert.False(t, matchesAny(table, ep, `api.get("/about")`))
}

func TestMultiplePlaceholders(t *testing.T) {
	ep := openapi.Endpoint{Path: "/orgs/{org}/repos/{repo}", Method: openapi.MethodPut}
	table := Compile([]openapi.Endpoint{ep})

	assert.True(t, matchesAny(table, ep, `client.put("/orgs/acme/repos/widget")`))
	assert.False(t, matchesAny(table, ep, `client.put("/orgs/acme/repos")`))
}

func TestMetacharactersInPathAreLiteral(t *testing.T) {
	ep := openapi.Endpoint{Path: "/search.v2/items+all", Method: openapi.MethodGet}
	table := Compile([]openapi.Endpoint{ep})

	assert.True(t, matchesAny(table, ep, `api.get("/search.v2/items+all")`))
	// The dot must not act as a wildcard.
	assert.False(t, matchesAny(table, ep, `api.get("/searchXv2/items+all")`))
}

func TestTemplateToRegex(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/users", "/users"},
		{"/users/{id}", "/users/[^/]+"},
		{"/a/{x}/b/{y}", "/a/[^/]+/b/[^/]+"},
		{"/files/{name}.json", `/files/[^/]+\.json`},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, templateToRegex(tt.path))
		})
	}
}
