package lspkg

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePackage(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "package.json"), []byte(content), 0644))
}

func TestList(t *testing.T) {
	root := t.TempDir()
	writePackage(t, filepath.Join(root, "app"),
		`{"name": "app", "version": "1.0.0", "description": "main app", "dependencies": {"lib": "^2.0.0"}}`)
	writePackage(t, filepath.Join(root, "lib"),
		`{"name": "lib", "version": "2.0.0"}`)
	// Packages inside node_modules are skipped.
	writePackage(t, filepath.Join(root, "app", "node_modules", "left-pad"),
		`{"name": "left-pad", "version": "1.3.0"}`)
	// Nameless package.json entries are skipped.
	writePackage(t, filepath.Join(root, "scripts"), `{"private": true}`)

	packages, err := List(root, false)
	require.NoError(t, err)
	require.Len(t, packages, 2)

	assert.Equal(t, "app", packages[0].Name)
	assert.Equal(t, "1.0.0", packages[0].Version)
	assert.Equal(t, "main app", packages[0].Description)
	assert.Equal(t, "lib", packages[1].Name)
	assert.Equal(t, "-", packages[1].Description)
}

func TestListUsedBy(t *testing.T) {
	root := t.TempDir()
	writePackage(t, filepath.Join(root, "app"),
		`{"name": "app", "version": "1.0.0", "dependencies": {"lib": "*"}}`)
	writePackage(t, filepath.Join(root, "tool"),
		`{"name": "tool", "version": "0.1.0", "devDependencies": {"lib": "*"}}`)
	writePackage(t, filepath.Join(root, "lib"),
		`{"name": "lib", "version": "2.0.0"}`)

	packages, err := List(root, true)
	require.NoError(t, err)
	require.Len(t, packages, 3)

	byName := make(map[string]Package)
	for _, p := range packages {
		byName[p.Name] = p
	}
	assert.Equal(t, []string{"app", "tool"}, byName["lib"].UsedBy)
	assert.Empty(t, byName["app"].UsedBy)
}

func TestRenderTable(t *testing.T) {
	packages := []Package{{Name: "app", Version: "1.0.0", Description: "-", Path: "app/package.json"}}

	var buf bytes.Buffer
	RenderTable(&buf, packages, true, false)
	assert.Equal(t, "Name | Version | Description | Path\napp | 1.0.0 | - | app/package.json\n", buf.String())

	buf.Reset()
	RenderTable(&buf, packages, false, false)
	assert.Equal(t, "app | 1.0.0 | - | app/package.json\n", buf.String())
}

func TestRenderMarkdown(t *testing.T) {
	packages := []Package{{Name: "app", Version: "1.0.0", Description: "-", Path: "app/package.json"}}

	var buf bytes.Buffer
	RenderMarkdown(&buf, packages, true, false)
	want := "| Name | Version | Description | Path |\n" +
		"|------|---------|-------------|------|\n" +
		"| app | 1.0.0 | - | app/package.json |\n"
	assert.Equal(t, want, buf.String())
}
