package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/jenian/epcheck/internal/analyzer"
	"golang.org/x/term"
)

// Format selects how analysis results are rendered
type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a user-supplied format name
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case FormatTable:
		return FormatTable, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatMarkdown:
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want table, csv, json or markdown)", s)
	}
}

var (
	// Color support detection
	colorEnabled = initColorSupport()
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// initColorSupport initializes color support for the terminal
func initColorSupport() bool {
	// Check if stdout is a terminal
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}

	// On Windows, enable ANSI escape sequences (handled in formatter_windows.go)
	// On Unix-like systems, colors are supported if it's a terminal
	return enableANSI()
}

// Options carries the rendering configuration and the report metadata
// shown in table and JSON headers.
type Options struct {
	Format     Format
	SpecPath   string
	Dir        string
	Excludes   []string
	UnusedOnly bool
	Truncate   bool
	NoColors   bool
}

// Formatter renders an AnalysisResult to a writer.
type Formatter struct {
	w        io.Writer
	opts     Options
	useColor bool
}

// NewFormatter creates a formatter. Colors apply only to table output
// on a color-capable stdout and can be disabled explicitly.
func NewFormatter(w io.Writer, opts Options) *Formatter {
	return &Formatter{
		w:        w,
		opts:     opts,
		useColor: colorEnabled && !opts.NoColors && opts.Format == FormatTable,
	}
}

// color returns the ANSI code if colors are enabled, empty string otherwise
func (f *Formatter) color(code string) string {
	if f.useColor {
		return code
	}
	return ""
}

// Render writes the analysis result in the configured format.
func (f *Formatter) Render(result analyzer.AnalysisResult) error {
	switch f.opts.Format {
	case FormatCSV:
		return f.renderCSV(result)
	case FormatJSON:
		return f.renderJSON(result)
	case FormatMarkdown:
		return f.renderMarkdown(result)
	default:
		return f.renderTable(result)
	}
}

// statusLabel is the display form of a result status
func statusLabel(s analyzer.Status) string {
	if s == analyzer.StatusUsed {
		return "✓ USED"
	}
	return "✗ UNUSED"
}

// fileList renders the referencing files for table and markdown rows,
// shortened to base names, optionally truncated for long lists.
func (f *Formatter) fileList(files []string) string {
	if len(files) == 0 {
		return "-"
	}
	if f.opts.Truncate && len(files) > 3 {
		return fmt.Sprintf("%d files (truncated)", len(files))
	}
	names := make([]string, len(files))
	for i, file := range files {
		names[i] = filepath.Base(file)
	}
	return strings.Join(names, ", ")
}

func (f *Formatter) renderTable(result analyzer.AnalysisResult) error {
	sep := strings.Repeat("=", 80)
	fmt.Fprintf(f.w, "\n%s\n", sep)
	fmt.Fprintf(f.w, "%sOpenAPI Endpoint Usage Report%s\n", f.color(colorBold), f.color(colorReset))
	fmt.Fprintf(f.w, "Generated on %s\n", time.Now().UTC().Format("2006-01-02 15:04:05 UTC"))
	fmt.Fprintf(f.w, "API Spec: %s\n", f.opts.SpecPath)
	fmt.Fprintf(f.w, "Search Dir: %s\n", f.opts.Dir)
	if len(f.opts.Excludes) > 0 {
		fmt.Fprintf(f.w, "Excluding: %s\n", strings.Join(f.opts.Excludes, ", "))
	}
	if f.opts.Truncate {
		fmt.Fprintln(f.w, "Mode: Truncated file lists")
	} else {
		fmt.Fprintln(f.w, "Mode: Full file lists (use --truncate to limit)")
	}
	if f.opts.UnusedOnly {
		fmt.Fprintln(f.w, "Filter: Unused endpoints only")
	}
	fmt.Fprintf(f.w, "%s\n", sep)

	// Dynamic column widths
	endpointW, methodW, statusW, countW := 8, 7, 8, 5
	for _, r := range result.Endpoints {
		endpointW = max(endpointW, len(r.Endpoint.Path))
		methodW = max(methodW, len(r.Endpoint.Method))
		statusW = max(statusW, len(statusLabel(r.Status)))
		countW = max(countW, len(strconv.Itoa(r.UsageCount)))
	}

	fmt.Fprintf(f.w, "\n%-*s %-*s %-*s %-*s Files\n",
		endpointW, "Endpoint", methodW, "Methods", statusW, "Status", countW, "Count")
	fmt.Fprintln(f.w, strings.Repeat("-", endpointW+methodW+statusW+countW+9))

	usedCount := 0
	totalFileRefs := 0
	for _, r := range result.Endpoints {
		totalFileRefs += r.UsageCount
		statusColor := colorRed
		if r.Status == analyzer.StatusUsed {
			usedCount++
			statusColor = colorGreen
		}
		fmt.Fprintf(f.w, "%-*s %-*s %s%-*s%s %-*d %s\n",
			endpointW, r.Endpoint.Path,
			methodW, r.Endpoint.Method,
			f.color(statusColor), statusW, statusLabel(r.Status), f.color(colorReset),
			countW, r.UsageCount,
			f.fileList(r.Files))
	}

	total := len(result.Endpoints)
	fmt.Fprintln(f.w, "\nSummary:")
	fmt.Fprintf(f.w, "  Total endpoints: %d\n", total)
	fmt.Fprintf(f.w, "  Used: %d\n", usedCount)
	fmt.Fprintf(f.w, "  Unused: %d\n", total-usedCount)
	if total > 0 {
		fmt.Fprintf(f.w, "  Coverage: %.1f%%\n", float64(usedCount)/float64(total)*100)
	}
	fmt.Fprintf(f.w, "  Total file references: %d\n", totalFileRefs)
	fmt.Fprintf(f.w, "  Files scanned: %d (%d read)\n", result.TotalFilesScanned, result.FilesRead)
	fmt.Fprintf(f.w, "  Scan time: %dms\n", result.Elapsed.Milliseconds())

	f.renderMultiUsage(result)
	return nil
}

// renderMultiUsage lists the referencing files for endpoints used in
// two or more files.
func (f *Formatter) renderMultiUsage(result analyzer.AnalysisResult) {
	var multi []analyzer.EndpointResult
	for _, r := range result.Endpoints {
		if r.UsageCount >= 2 {
			multi = append(multi, r)
		}
	}

	fmt.Fprintln(f.w, "\nDetailed File References (for endpoints with 2+ usages):")
	if len(multi) == 0 {
		if f.opts.UnusedOnly {
			fmt.Fprintln(f.w, "  No unused endpoints have multiple file references.")
		} else {
			fmt.Fprintln(f.w, "  No endpoints with 2 or more file references found.")
		}
		return
	}

	for _, r := range multi {
		fmt.Fprintf(f.w, "  %s: %d files\n", r.Endpoint, r.UsageCount)
		for _, file := range r.Files {
			fmt.Fprintf(f.w, "    - %s\n", filepath.Base(file))
		}
	}
}

func (f *Formatter) renderCSV(result analyzer.AnalysisResult) error {
	writer := csv.NewWriter(f.w)
	if err := writer.Write([]string{"Endpoint", "Method", "Status", "Usage Count", "Files"}); err != nil {
		return err
	}
	for _, r := range result.Endpoints {
		record := []string{
			r.Endpoint.Path,
			string(r.Endpoint.Method),
			strings.ToUpper(string(r.Status)),
			strconv.Itoa(r.UsageCount),
			strings.Join(r.Files, ";"),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// jsonEndpoint mirrors one EndpointResult in JSON output
type jsonEndpoint struct {
	Endpoint     string   `json:"endpoint"`
	Method       string   `json:"method"`
	Status       string   `json:"status"`
	UsageCount   int      `json:"usage_count"`
	TotalMatches int      `json:"total_matches"`
	Files        []string `json:"files"`
}

type jsonReport struct {
	Generated    string `json:"generated"`
	APISpec      string `json:"api_spec"`
	SearchDir    string `json:"search_dir"`
	FilesScanned int    `json:"files_scanned"`
	FilesRead    int    `json:"files_read"`
	ScanTimeMs   int64  `json:"scan_time_ms"`
}

type jsonOutput struct {
	Report    jsonReport     `json:"report"`
	Endpoints []jsonEndpoint `json:"endpoints"`
}

func (f *Formatter) renderJSON(result analyzer.AnalysisResult) error {
	out := jsonOutput{
		Report: jsonReport{
			Generated:    time.Now().UTC().Format(time.RFC3339),
			APISpec:      f.opts.SpecPath,
			SearchDir:    f.opts.Dir,
			FilesScanned: result.TotalFilesScanned,
			FilesRead:    result.FilesRead,
			ScanTimeMs:   result.Elapsed.Milliseconds(),
		},
		Endpoints: make([]jsonEndpoint, 0, len(result.Endpoints)),
	}
	for _, r := range result.Endpoints {
		files := r.Files
		if files == nil {
			files = []string{}
		}
		out.Endpoints = append(out.Endpoints, jsonEndpoint{
			Endpoint:     r.Endpoint.Path,
			Method:       string(r.Endpoint.Method),
			Status:       string(r.Status),
			UsageCount:   r.UsageCount,
			TotalMatches: r.TotalMatches,
			Files:        files,
		})
	}

	encoder := json.NewEncoder(f.w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func (f *Formatter) renderMarkdown(result analyzer.AnalysisResult) error {
	fmt.Fprintln(f.w, "| Endpoint | Methods | Status | Count | Files |")
	fmt.Fprintln(f.w, "|----------|---------|--------|-------|-------|")
	for _, r := range result.Endpoints {
		fmt.Fprintf(f.w, "| %s | %s | %s | %d | %s |\n",
			r.Endpoint.Path, r.Endpoint.Method, statusLabel(r.Status), r.UsageCount, f.fileList(r.Files))
	}
	return nil
}
