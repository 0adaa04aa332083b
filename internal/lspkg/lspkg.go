package lspkg

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Package describes one npm package found under the search directory.
type Package struct {
	Name        string
	Version     string
	Description string
	Path        string
	UsedBy      []string
}

// packageJSON is the subset of package.json that lspkg reads
type packageJSON struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Description     string            `json:"description"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// List finds every package.json under dir (skipping node_modules) and
// returns the declared packages sorted by name. With usedBy enabled,
// each package also lists the sibling packages that depend on it.
func List(dir string, usedBy bool) ([]Package, error) {
	var parsed []packageJSON
	var paths []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			if info.Name() == "node_modules" || info.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Name() != "package.json" {
			return nil
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to read %s: %v\n", path, readErr)
			return nil
		}
		var pkg packageJSON
		if jsonErr := json.Unmarshal(content, &pkg); jsonErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to parse %s: %v\n", path, jsonErr)
			return nil
		}
		if pkg.Name == "" {
			return nil
		}
		parsed = append(parsed, pkg)
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}

	// Reverse dependency index across the discovered packages.
	dependents := make(map[string][]string)
	if usedBy {
		for _, pkg := range parsed {
			for dep := range pkg.Dependencies {
				dependents[dep] = append(dependents[dep], pkg.Name)
			}
			for dep := range pkg.DevDependencies {
				dependents[dep] = append(dependents[dep], pkg.Name)
			}
		}
	}

	seen := make(map[string]bool)
	packages := make([]Package, 0, len(parsed))
	for i, pkg := range parsed {
		key := pkg.Name + "\x00" + paths[i]
		if seen[key] {
			continue
		}
		seen[key] = true

		p := Package{
			Name:        pkg.Name,
			Version:     valueOrDash(pkg.Version),
			Description: valueOrDash(pkg.Description),
			Path:        paths[i],
		}
		if usedBy {
			users := append([]string(nil), dependents[pkg.Name]...)
			sort.Strings(users)
			p.UsedBy = users
		}
		packages = append(packages, p)
	}

	sort.Slice(packages, func(i, j int) bool {
		if packages[i].Name != packages[j].Name {
			return packages[i].Name < packages[j].Name
		}
		return packages[i].Path < packages[j].Path
	})

	return packages, nil
}

func valueOrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// RenderTable writes the pipe-separated listing
func RenderTable(w io.Writer, packages []Package, header, usedBy bool) {
	if header {
		if usedBy {
			fmt.Fprintln(w, "Name | Version | Description | Path | Is Used By")
		} else {
			fmt.Fprintln(w, "Name | Version | Description | Path")
		}
	}
	for _, p := range packages {
		if usedBy {
			fmt.Fprintf(w, "%s | %s | %s | %s | %s\n", p.Name, p.Version, p.Description, p.Path, strings.Join(p.UsedBy, ","))
		} else {
			fmt.Fprintf(w, "%s | %s | %s | %s\n", p.Name, p.Version, p.Description, p.Path)
		}
	}
}

// RenderMarkdown writes the listing as a markdown table
func RenderMarkdown(w io.Writer, packages []Package, header, usedBy bool) {
	if header {
		if usedBy {
			fmt.Fprintln(w, "| Name | Version | Description | Path | Is Used By |")
			fmt.Fprintln(w, "|------|---------|-------------|------|------------|")
		} else {
			fmt.Fprintln(w, "| Name | Version | Description | Path |")
			fmt.Fprintln(w, "|------|---------|-------------|------|")
		}
	}
	for _, p := range packages {
		if usedBy {
			fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n", p.Name, p.Version, p.Description, p.Path, strings.Join(p.UsedBy, ","))
		} else {
			fmt.Fprintf(w, "| %s | %s | %s | %s |\n", p.Name, p.Version, p.Description, p.Path)
		}
	}
}
