package openapi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMethodFromToken(t *testing.T) {
	tests := []struct {
		token  string
		method Method
		ok     bool
	}{
		{"get", MethodGet, true},
		{"GET", MethodGet, true},
		{"Post", MethodPost, true},
		{"delete", MethodDelete, true},
		{"patch", MethodPatch, true},
		{"head", MethodHead, true},
		{"options", MethodOptions, true},
		{"trace", MethodTrace, true},
		{"put", MethodPut, true},
		{"parameters", "", false},
		{"summary", "", false},
		{"x-amz-meta", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			method, ok := MethodFromToken(tt.token)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.method, method)
		})
	}
}

func TestEndpointString(t *testing.T) {
	ep := Endpoint{Path: "/users/{id}", Method: MethodGet}
	assert.Equal(t, "GET /users/{id}", ep.String())
}

func TestEndpointsExtraction(t *testing.T) {
	doc := &Document{
		Paths: map[string]PathItem{
			"/users": {
				"get":        map[string]interface{}{"summary": "list"},
				"post":       map[string]interface{}{},
				"parameters": []interface{}{},
			},
			"/users/{id}": {
				"get":    map[string]interface{}{},
				"delete": map[string]interface{}{},
				"x-todo": "remove",
			},
		},
	}

	endpoints := doc.Endpoints()
	require.Len(t, endpoints, 4)

	// Ordered by path, then method; non-method keys skipped.
	assert.Equal(t, []Endpoint{
		{Path: "/users", Method: MethodGet},
		{Path: "/users", Method: MethodPost},
		{Path: "/users/{id}", Method: MethodDelete},
		{Path: "/users/{id}", Method: MethodGet},
	}, endpoints)
}

func TestEndpointsDeduplicate(t *testing.T) {
	// "get" and "GET" collapse to one logical endpoint.
	doc := &Document{
		Paths: map[string]PathItem{
			"/a": {
				"get": nil,
				"GET": nil,
			},
		},
	}

	endpoints := doc.Endpoints()
	require.Len(t, endpoints, 1)
	assert.Equal(t, Endpoint{Path: "/a", Method: MethodGet}, endpoints[0])
}

func TestEndpointsEmptyPaths(t *testing.T) {
	doc := &Document{Paths: map[string]PathItem{}}
	assert.Empty(t, doc.Endpoints())
}
