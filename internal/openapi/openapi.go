package openapi

import (
	"sort"
	"strings"
)

// Method is a canonical uppercase HTTP method token
type Method string

const (
	MethodGet     Method = "GET"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodPatch   Method = "PATCH"
	MethodHead    Method = "HEAD"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
)

// MethodFromToken parses an HTTP method token (case-insensitive).
// Returns false for anything that is not a recognized method, such as
// the "parameters" or "summary" keys that share the path item mapping.
func MethodFromToken(token string) (Method, bool) {
	switch strings.ToUpper(token) {
	case "GET":
		return MethodGet, true
	case "POST":
		return MethodPost, true
	case "PUT":
		return MethodPut, true
	case "DELETE":
		return MethodDelete, true
	case "PATCH":
		return MethodPatch, true
	case "HEAD":
		return MethodHead, true
	case "OPTIONS":
		return MethodOptions, true
	case "TRACE":
		return MethodTrace, true
	default:
		return "", false
	}
}

// Endpoint is a single path+method pair declared by a specification.
// It is comparable and usable as a map key.
type Endpoint struct {
	Path   string
	Method Method
}

// String renders the endpoint as "METHOD /path"
func (e Endpoint) String() string {
	return string(e.Method) + " " + e.Path
}

// Info holds the specification's metadata block
type Info struct {
	Title   string `json:"title,omitempty" yaml:"title,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
}

// PathItem maps operation keys (HTTP method tokens, plus shared keys
// like "parameters") to their raw values. Only method keys are used.
type PathItem map[string]interface{}

// Document is the subset of an OpenAPI/Swagger document that epcheck
// reads. Everything below the path item level is ignored.
type Document struct {
	OpenAPI string              `json:"openapi,omitempty" yaml:"openapi,omitempty"`
	Swagger string              `json:"swagger,omitempty" yaml:"swagger,omitempty"`
	Info    *Info               `json:"info,omitempty" yaml:"info,omitempty"`
	Paths   map[string]PathItem `json:"paths" yaml:"paths"`
}

// Endpoints extracts the declared endpoints from the document's path
// table. Unrecognized method tokens are skipped, duplicates collapse to
// one endpoint, and the result is ordered by path then method so the
// pattern table built from it is deterministic.
func (d *Document) Endpoints() []Endpoint {
	seen := make(map[Endpoint]bool)
	var endpoints []Endpoint

	for path, item := range d.Paths {
		for token := range item {
			method, ok := MethodFromToken(token)
			if !ok {
				continue
			}
			ep := Endpoint{Path: path, Method: method}
			if seen[ep] {
				continue
			}
			seen[ep] = true
			endpoints = append(endpoints, ep)
		}
	}

	sort.Slice(endpoints, func(i, j int) bool {
		if endpoints[i].Path != endpoints[j].Path {
			return endpoints[i].Path < endpoints[j].Path
		}
		return endpoints[i].Method < endpoints[j].Method
	})

	return endpoints
}
