package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// Project is a .NET project together with its user-secrets store.
// SecretsPath is "-" when the project has an id but no store on disk,
// and empty when the project has no UserSecretsId at all.
type Project struct {
	Path        string
	SecretsID   string
	SecretsPath string
}

var userSecretsIDRe = regexp.MustCompile(`<UserSecretsId>\s*([^<]+?)\s*</UserSecretsId>`)

// findProjects returns all .csproj files under root
func findProjects(root string) ([]string, error) {
	var projects []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !info.IsDir() && strings.EqualFold(filepath.Ext(path), ".csproj") {
			projects = append(projects, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}
	return projects, nil
}

// storePath is the conventional location of a user-secrets store
func storePath(home, id string) string {
	return filepath.Join(home, ".microsoft", "usersecrets", id, "secrets.json")
}

// List reports every project under root that declares a UserSecretsId,
// with the location of its secrets store if one exists.
func List(root string) ([]Project, error) {
	paths, err := findProjects(root)
	if err != nil {
		return nil, err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot resolve home directory: %w", err)
	}

	var projects []Project
	for _, path := range paths {
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to read %s: %v\n", path, readErr)
			continue
		}
		m := userSecretsIDRe.FindSubmatch(content)
		if m == nil {
			continue
		}
		id := string(m[1])

		secretsFile := storePath(home, id)
		if _, statErr := os.Stat(secretsFile); statErr != nil {
			secretsFile = "-"
		}
		projects = append(projects, Project{Path: path, SecretsID: id, SecretsPath: secretsFile})
	}

	return projects, nil
}

// Create injects a fresh UserSecretsId into every project under root
// that lacks one and initializes an empty secrets store for it. The
// updated projects are returned.
func Create(root string) ([]Project, error) {
	paths, err := findProjects(root)
	if err != nil {
		return nil, err
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot resolve home directory: %w", err)
	}

	var created []Project
	for _, path := range paths {
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to read %s: %v\n", path, readErr)
			continue
		}
		text := string(content)
		if strings.Contains(text, "<UserSecretsId>") {
			continue
		}
		if !strings.Contains(text, "<PropertyGroup>") {
			continue
		}

		id := uuid.NewString()
		// Textual injection keeps the rest of the project file untouched.
		updated := strings.Replace(text, "<PropertyGroup>",
			fmt.Sprintf("<PropertyGroup>\n    <UserSecretsId>%s</UserSecretsId>", id), 1)
		if writeErr := os.WriteFile(path, []byte(updated), 0644); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to update %s: %v\n", path, writeErr)
			continue
		}

		secretsFile := storePath(home, id)
		if mkErr := os.MkdirAll(filepath.Dir(secretsFile), 0755); mkErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to create secrets dir for %s: %v\n", path, mkErr)
		} else if _, statErr := os.Stat(secretsFile); os.IsNotExist(statErr) {
			if writeErr := os.WriteFile(secretsFile, []byte("{}"), 0644); writeErr != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to init %s: %v\n", secretsFile, writeErr)
			}
		}

		created = append(created, Project{Path: path, SecretsID: id, SecretsPath: secretsFile})
	}

	return created, nil
}
