package scanner

import (
	"fmt"
	"os"
	"sync"

	"github.com/jenian/epcheck/internal/openapi"
	"github.com/jenian/epcheck/internal/pattern"
)

// defaultWorkers bounds concurrent file reads so very large trees do
// not exhaust file descriptors.
const defaultWorkers = 10

// FileUsage records per-endpoint match counts for a single file. A
// file that could not be read has Read == false and empty Counts, and
// is not an error.
type FileUsage struct {
	Path   string
	Counts map[openapi.Endpoint]int
	Read   bool
}

// ContentScanner matches every file against the compiled pattern
// table. The table is never mutated after construction, so it is
// shared by all workers without synchronization.
type ContentScanner struct {
	patterns []pattern.Entry
	workers  int
	verbose  bool
}

// NewContentScanner creates a content scanner over a pattern table.
func NewContentScanner(patterns []pattern.Entry) *ContentScanner {
	return &ContentScanner{patterns: patterns, workers: defaultWorkers}
}

// SetWorkers overrides the worker pool size
func (s *ContentScanner) SetWorkers(n int) {
	if n > 0 {
		s.workers = n
	}
}

// SetVerbose enables per-file diagnostics on stderr
func (s *ContentScanner) SetVerbose(v bool) {
	s.verbose = v
}

// ScanFiles scans all files through a bounded worker pool and returns
// one usage record per file. Each file is scanned independently; the
// only shared mutation is the final append under the mutex, so the
// reduction is order-independent.
func (s *ContentScanner) ScanFiles(files []string) []FileUsage {
	results := make([]FileUsage, 0, len(files))
	var wg sync.WaitGroup
	var mu sync.Mutex
	workers := make(chan struct{}, s.workers)

	for _, file := range files {
		wg.Add(1)
		workers <- struct{}{} // Acquire worker

		go func(path string) {
			defer wg.Done()
			defer func() { <-workers }() // Release worker

			usage := s.scanFile(path)

			mu.Lock()
			results = append(results, usage)
			mu.Unlock()
		}(file)
	}

	wg.Wait()
	return results
}

// scanFile reads one file and counts matches for every pattern entry.
// Counts from different idiom variants of the same endpoint are summed.
func (s *ContentScanner) scanFile(path string) FileUsage {
	usage := FileUsage{Path: path, Counts: make(map[openapi.Endpoint]int)}

	content, err := os.ReadFile(path)
	if err != nil {
		// Unreadable files contribute zero matches.
		if s.verbose {
			fmt.Fprintf(os.Stderr, "Warning: failed to read %s: %v\n", path, err)
		}
		return usage
	}
	usage.Read = true

	text := string(content)
	for _, entry := range s.patterns {
		n := len(entry.Regex.FindAllStringIndex(text, -1))
		if n > 0 {
			usage.Counts[entry.Endpoint] += n
			if s.verbose {
				fmt.Fprintf(os.Stderr, "Found %d match(es) for %s in %s\n", n, entry.Endpoint, path)
			}
		}
	}

	return usage
}
