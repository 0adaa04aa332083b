package analyzer

import (
	"time"

	"github.com/jenian/epcheck/internal/openapi"
)

// Status says whether an endpoint is referenced anywhere in the tree
type Status string

const (
	StatusUsed   Status = "used"
	StatusUnused Status = "unused"
)

// EndpointResult is the aggregated usage evidence for one endpoint.
// UsageCount is the number of distinct files containing at least one
// match, not the raw occurrence count; an endpoint referenced fifty
// times in one file counts 1. TotalMatches keeps the raw sum as
// auxiliary detail only.
type EndpointResult struct {
	Endpoint     openapi.Endpoint
	Status       Status
	UsageCount   int
	TotalMatches int
	Files        []string
}

// AnalysisResult is the complete outcome of one analysis run.
// TotalFilesScanned counts discovered candidates; FilesRead counts the
// subset that could actually be read.
type AnalysisResult struct {
	Endpoints         []EndpointResult
	TotalFilesScanned int
	FilesRead         int
	Elapsed           time.Duration
}
