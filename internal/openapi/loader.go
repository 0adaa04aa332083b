package openapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// specFileNames are the conventional spec file names searched for when
// no explicit spec path is given, in order of preference.
var specFileNames = []string{
	"openapi.json",
	"openapi.yaml",
	"openapi.yml",
	"swagger.json",
	"swagger.yaml",
	"swagger.yml",
}

var httpClient = &http.Client{Timeout: 30 * time.Second}

// Load reads and parses an OpenAPI specification from a local file path
// or an http(s) URL. JSON and YAML are both accepted; the format is
// picked by file extension, falling back to trying JSON then YAML.
func Load(specPath string) (*Document, error) {
	var content []byte
	var err error

	if strings.HasPrefix(specPath, "http://") || strings.HasPrefix(specPath, "https://") {
		content, err = fetch(specPath)
	} else {
		content, err = os.ReadFile(specPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read spec %s: %w", specPath, err)
	}

	return Parse(content, filepath.Ext(specPath))
}

// Parse decodes spec content. ext is the file extension hint including
// the leading dot; an empty or unknown hint tries JSON first, then YAML.
func Parse(content []byte, ext string) (*Document, error) {
	var doc Document
	var err error

	switch strings.ToLower(ext) {
	case ".json":
		err = json.Unmarshal(content, &doc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(content, &doc)
	default:
		if err = json.Unmarshal(content, &doc); err != nil {
			doc = Document{}
			err = yaml.Unmarshal(content, &doc)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse spec: %w", err)
	}

	if len(doc.Paths) == 0 {
		return nil, fmt.Errorf("spec contains no paths (is this an OpenAPI document?)")
	}

	return &doc, nil
}

func fetch(url string) ([]byte, error) {
	resp, err := httpClient.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// Find searches the start directory and its parents for a spec file
// with one of the conventional names. Returns false if none is found.
func Find(startDir string) (string, bool) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}

	for {
		for _, name := range specFileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
