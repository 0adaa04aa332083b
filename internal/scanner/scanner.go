package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gitignore "github.com/sabhiram/go-gitignore"
)

// allowedExts is the extension allow-list for candidate files: common
// source, config and markup formats. Files without any extension
// (scripts, Makefile-style names) are also candidates.
var allowedExts = map[string]bool{
	".js": true, ".ts": true, ".jsx": true, ".tsx": true, ".mjs": true,
	".py": true, ".rb": true, ".php": true, ".java": true, ".scala": true,
	".kt": true, ".swift": true, ".go": true, ".rs": true, ".cpp": true,
	".c": true, ".h": true, ".hpp": true, ".cs": true, ".fs": true,
	".vb": true, ".clj": true, ".cljs": true, ".elm": true, ".ex": true,
	".exs": true, ".hs": true, ".ml": true, ".fsx": true, ".dart": true,
	".lua": true, ".pl": true, ".pm": true, ".tcl": true, ".r": true,
	".sh": true, ".bash": true, ".zsh": true, ".fish": true, ".ps1": true,
	".sql": true, ".xml": true, ".json": true, ".yaml": true, ".yml": true,
	".toml": true, ".ini": true, ".cfg": true, ".conf": true, ".md": true,
	".txt": true, ".html": true, ".htm": true, ".css": true, ".scss": true,
	".sass": true, ".less": true, ".vue": true, ".svelte": true, ".astro": true,
}

// Scanner handles candidate file discovery under a scan root.
type Scanner struct {
	excludeDirs  map[string]bool // directory names pruned everywhere
	excludePaths []string        // root-relative path prefixes to prune
	excludeGlobs []string        // user-supplied exclusion patterns
	excludeFiles map[string]bool // absolute file paths (e.g. the spec itself)
}

// NewScanner creates a scanner with the default directory exclusions.
func NewScanner() *Scanner {
	return &Scanner{
		excludeDirs: map[string]bool{
			".git":         true,
			"node_modules": true,
			"vendor":       true,
			"build":        true,
			"dist":         true,
			"bin":          true,
			"out":          true,
			".next":        true,
			".cache":       true,
		},
		excludeFiles: make(map[string]bool),
	}
}

// SetExcludeGlobs sets glob patterns to exclude
func (s *Scanner) SetExcludeGlobs(globs []string) {
	s.excludeGlobs = globs
}

// AddExcludeDirs adds directories to exclude from scanning. Entries
// containing a path separator are treated as root-relative prefixes,
// plain names prune matching directories anywhere in the tree.
func (s *Scanner) AddExcludeDirs(dirs []string) {
	for _, dir := range dirs {
		if strings.Contains(dir, "/") || strings.Contains(dir, "\\") {
			s.excludePaths = append(s.excludePaths, filepath.ToSlash(dir))
		} else {
			s.excludeDirs[dir] = true
		}
	}
}

// ExcludeFile removes a single file from discovery. Used to keep the
// spec file itself out of its own usage report.
func (s *Scanner) ExcludeFile(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		s.excludeFiles[abs] = true
	}
}

// isCandidate reports whether a file name passes the extension policy.
func isCandidate(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if ext != "" && ext != strings.ToLower(name) {
		return allowedExts[ext]
	}
	// No real extension: include extensionless scripts, skip dotfiles
	// like ".env" where the whole name is the "extension".
	return !strings.Contains(name, ".")
}

// matchesGlob checks a path and its base name against glob patterns
func matchesGlob(path string, globs []string) bool {
	for _, glob := range globs {
		if matched, _ := filepath.Match(glob, filepath.Base(path)); matched {
			return true
		}
		if matched, _ := filepath.Match(glob, path); matched {
			return true
		}
	}
	return false
}

// isExcludedPath checks a root-relative path against the configured
// path prefixes.
func (s *Scanner) isExcludedPath(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, prefix := range s.excludePaths {
		prefix = strings.TrimSuffix(prefix, "/*")
		if rel == prefix || strings.HasPrefix(rel, prefix+"/") {
			return true
		}
	}
	return false
}

// ignoreRule is one compiled .gitignore together with the directory it
// lives in. Its patterns apply to that directory's subtree only, with
// paths matched relative to it.
type ignoreRule struct {
	dir   string
	rules *gitignore.GitIgnore
}

// matchesIgnore checks a path against every .gitignore collected on the
// way down. Rules from directories the path is not under never apply.
func matchesIgnore(ignores []ignoreRule, path string, isDir bool) bool {
	for _, ig := range ignores {
		rel, err := filepath.Rel(ig.dir, path)
		if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
			continue
		}
		rel = filepath.ToSlash(rel)
		if ig.rules.MatchesPath(rel) {
			return true
		}
		// Directory-only patterns ("build/") need the trailing slash.
		if isDir && ig.rules.MatchesPath(rel+"/") {
			return true
		}
	}
	return false
}

// Scan recursively walks the root and returns candidate file paths.
// Hidden files are included, .gitignore files at every level are
// honored for the subtree below them, and per-entry enumeration errors
// are reported as warnings without stopping the walk. A missing or
// unreadable root is a hard error.
func (s *Scanner) Scan(rootPath string) ([]string, error) {
	info, err := os.Stat(rootPath)
	if err != nil {
		return nil, fmt.Errorf("cannot scan %s: %w", rootPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cannot scan %s: not a directory", rootPath)
	}

	// The walk visits a directory before its contents, so rules are
	// always collected before anything they could apply to. Absence of
	// a .gitignore is fine.
	var ignores []ignoreRule
	collectIgnores := func(dir string) {
		if rules, err := gitignore.CompileIgnoreFile(filepath.Join(dir, ".gitignore")); err == nil && rules != nil {
			ignores = append(ignores, ignoreRule{dir: dir, rules: rules})
		}
	}

	var files []string
	walkErr := filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, relErr := filepath.Rel(rootPath, path)
		if relErr != nil {
			rel = path
		}

		if info.IsDir() {
			if path == rootPath {
				collectIgnores(path)
				return nil
			}
			if s.excludeDirs[info.Name()] || s.isExcludedPath(rel) {
				return filepath.SkipDir
			}
			if matchesIgnore(ignores, path, true) {
				return filepath.SkipDir
			}
			collectIgnores(path)
			return nil
		}

		if matchesIgnore(ignores, path, false) {
			return nil
		}
		if s.excludeFiles[path] {
			return nil
		}
		if s.isExcludedPath(rel) {
			return nil
		}
		if matchesGlob(path, s.excludeGlobs) {
			return nil
		}
		if !isCandidate(info.Name()) {
			return nil
		}

		files = append(files, path)
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", rootPath, walkErr)
	}

	return files, nil
}
