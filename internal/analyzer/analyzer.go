package analyzer

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/jenian/epcheck/internal/openapi"
	"github.com/jenian/epcheck/internal/scanner"
)

// Options controls result filtering.
type Options struct {
	UnusedOnly       bool     // keep only unused endpoints
	Pattern          string   // regex applied to "METHOD path"; invalid is a hard error
	IgnoredEndpoints []string // "METHOD path" strings dropped via config
}

// Analyze reduces per-file usage records into one result per declared
// endpoint. Endpoints with zero matches are included as unused, never
// dropped. The reduction is a set union plus an integer sum, so the
// order of the usage records does not matter.
func Analyze(endpoints []openapi.Endpoint, usages []scanner.FileUsage, opts Options) ([]EndpointResult, error) {
	var filterRe *regexp.Regexp
	if opts.Pattern != "" {
		re, err := regexp.Compile(opts.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid filter pattern %q: %w", opts.Pattern, err)
		}
		filterRe = re
	}

	fileSets := make(map[openapi.Endpoint]map[string]bool)
	totals := make(map[openapi.Endpoint]int)
	for _, usage := range usages {
		for ep, count := range usage.Counts {
			if count == 0 {
				continue
			}
			set := fileSets[ep]
			if set == nil {
				set = make(map[string]bool)
				fileSets[ep] = set
			}
			set[usage.Path] = true
			totals[ep] += count
		}
	}

	ignored := make(map[string]bool, len(opts.IgnoredEndpoints))
	for _, name := range opts.IgnoredEndpoints {
		ignored[name] = true
	}

	results := make([]EndpointResult, 0, len(endpoints))
	for _, ep := range endpoints {
		if ignored[ep.String()] {
			continue
		}

		files := make([]string, 0, len(fileSets[ep]))
		for f := range fileSets[ep] {
			files = append(files, f)
		}
		sort.Strings(files)

		status := StatusUnused
		if len(files) > 0 {
			status = StatusUsed
		}

		results = append(results, EndpointResult{
			Endpoint:     ep,
			Status:       status,
			UsageCount:   len(files),
			TotalMatches: totals[ep],
			Files:        files,
		})
	}

	if opts.UnusedOnly {
		filtered := results[:0]
		for _, r := range results {
			if r.Status == StatusUnused {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}

	if filterRe != nil {
		filtered := results[:0]
		for _, r := range results {
			if filterRe.MatchString(r.Endpoint.String()) {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Endpoint.Path != results[j].Endpoint.Path {
			return results[i].Endpoint.Path < results[j].Endpoint.Path
		}
		return results[i].Endpoint.Method < results[j].Endpoint.Method
	})

	return results, nil
}
