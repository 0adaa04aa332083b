package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jenian/epcheck/internal/analyzer"
	"github.com/jenian/epcheck/internal/config"
	"github.com/jenian/epcheck/internal/lspkg"
	"github.com/jenian/epcheck/internal/openapi"
	"github.com/jenian/epcheck/internal/output"
	"github.com/jenian/epcheck/internal/pattern"
	"github.com/jenian/epcheck/internal/scanner"
	"github.com/jenian/epcheck/internal/secrets"
	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	rootCmd = &cobra.Command{
		Use:   "epcheck",
		Short: "Check which OpenAPI endpoints are actually used in a codebase",
		Long:  "A CLI tool that reads an OpenAPI specification and scans a codebase for references to each declared endpoint, reporting which endpoints are used and which are not.",
		Args:  cobra.NoArgs,
		RunE:  runCheck,
	}

	checkCmd = &cobra.Command{
		Use:   "check [dir]",
		Short: "Analyze a directory for endpoint usage",
		Long:  "Scan a directory for references to the endpoints declared in an OpenAPI specification.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCheck,
	}

	lspkgCmd = &cobra.Command{
		Use:   "lspkg",
		Short: "List npm packages under a directory",
		Long:  "Lists all npm packages found in package.json files in a directory and its subdirectories.",
		RunE:  runLspkg,
	}

	secretsCmd = &cobra.Command{
		Use:   "secrets [path]",
		Short: "List .NET user-secrets stores for .csproj projects",
		Long:  "Lists the locations of user-secrets stores associated with .csproj files, or creates new secret ids with --create.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSecrets,
	}

	initConfigCmd = &cobra.Command{
		Use:   "init-config",
		Short: "Create a .epcheck.config file in the current directory",
		Long:  "Creates a .epcheck.config file with default configuration in the current directory.",
		RunE:  runInitConfig,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println(Version)
		},
	}

	// check flags
	specPath   string
	scanDir    string
	formatName string
	filterPat  string
	unusedOnly bool
	verbose    bool
	truncate   bool
	noColors   bool
	workers    int
	excludes   []string

	// lspkg flags
	pkgDir        string
	pkgNoHeader   bool
	pkgShowUsedBy bool
	pkgMarkdown   bool

	// secrets flags
	secretsCreate   bool
	secretsFullPath bool
)

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&specPath, "spec", "s", "", "Path or URL to OpenAPI specification file (JSON or YAML); searches common spec files in current and parent directories when omitted")
	pf.StringVarP(&scanDir, "dir", "d", ".", "Directory to search for endpoint usage")
	pf.StringVarP(&formatName, "format", "f", "table", "Output format (table, csv, json, markdown)")
	pf.StringVarP(&filterPat, "pattern", "p", "", "Filter endpoints by regex pattern")
	pf.BoolVar(&unusedOnly, "unused-only", false, "Show only unused endpoints")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Show detailed scan information")
	pf.BoolVar(&truncate, "truncate", false, "Truncate long file lists")
	pf.BoolVar(&noColors, "no-colors", false, "Disable colored output")
	pf.IntVar(&workers, "workers", 0, "Number of concurrent file scanners (default 10)")
	pf.StringSliceVarP(&excludes, "exclude", "e", []string{}, "Files or glob patterns to exclude from the search")

	lspkgCmd.Flags().StringVarP(&pkgDir, "directory", "D", ".", "Directory to search")
	lspkgCmd.Flags().BoolVarP(&pkgNoHeader, "no-header", "n", false, "Do not include header in output")
	lspkgCmd.Flags().BoolVarP(&pkgShowUsedBy, "show-used-by", "u", false, "Show the packages that use each package")
	lspkgCmd.Flags().BoolVarP(&pkgMarkdown, "markdown", "m", false, "Output as a markdown table")

	secretsCmd.Flags().BoolVar(&secretsCreate, "create", false, "Create a new secret id for projects that lack one")
	secretsCmd.Flags().BoolVar(&secretsFullPath, "full-path", false, "Display the full path of the .csproj files")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(lspkgCmd)
	rootCmd.AddCommand(secretsCmd)
	rootCmd.AddCommand(initConfigCmd)
	rootCmd.AddCommand(versionCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	dir := scanDir
	if len(args) > 0 {
		dir = args[0]
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("invalid directory: %w", err)
	}
	if _, err := os.Stat(absDir); os.IsNotExist(err) {
		return fmt.Errorf("directory does not exist: %s", absDir)
	}

	spec := specPath
	if spec == "" {
		found, ok := openapi.Find(absDir)
		if !ok {
			return fmt.Errorf("no OpenAPI spec provided and none found in current or parent directories")
		}
		spec = found
	}

	doc, err := openapi.Load(spec)
	if err != nil {
		return err
	}
	endpoints := doc.Endpoints()

	format, err := output.ParseFormat(formatName)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(absDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .epcheck.config: %v\n", err)
		cfg = &config.Config{}
	}

	fileScanner := scanner.NewScanner()
	fileScanner.SetExcludeGlobs(excludes)
	if len(cfg.Ignores.Folders) > 0 {
		fileScanner.AddExcludeDirs(cfg.Ignores.Folders)
	}
	// The spec itself always references its own paths.
	if !strings.HasPrefix(spec, "http://") && !strings.HasPrefix(spec, "https://") {
		fileScanner.ExcludeFile(spec)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Scanning %s...\n", absDir)
	}

	start := time.Now()
	files, err := fileScanner.Scan(absDir)
	if err != nil {
		return err
	}
	if verbose {
		fmt.Fprintf(os.Stderr, "Found %d candidate files\n", len(files))
	}

	contentScanner := scanner.NewContentScanner(pattern.Compile(endpoints))
	contentScanner.SetVerbose(verbose)
	contentScanner.SetWorkers(workers)
	usages := contentScanner.ScanFiles(files)

	filesRead := 0
	for _, usage := range usages {
		if usage.Read {
			filesRead++
		}
	}

	results, err := analyzer.Analyze(endpoints, usages, analyzer.Options{
		UnusedOnly:       unusedOnly,
		Pattern:          filterPat,
		IgnoredEndpoints: cfg.Ignores.Endpoints,
	})
	if err != nil {
		return err
	}

	summary := analyzer.AnalysisResult{
		Endpoints:         results,
		TotalFilesScanned: len(files),
		FilesRead:         filesRead,
		Elapsed:           time.Since(start),
	}

	formatter := output.NewFormatter(os.Stdout, output.Options{
		Format:     format,
		SpecPath:   spec,
		Dir:        absDir,
		Excludes:   excludes,
		UnusedOnly: unusedOnly,
		Truncate:   truncate,
		NoColors:   noColors,
	})
	return formatter.Render(summary)
}

func runLspkg(cmd *cobra.Command, args []string) error {
	packages, err := lspkg.List(pkgDir, pkgShowUsedBy)
	if err != nil {
		return err
	}
	if pkgMarkdown {
		lspkg.RenderMarkdown(os.Stdout, packages, !pkgNoHeader, pkgShowUsedBy)
	} else {
		lspkg.RenderTable(os.Stdout, packages, !pkgNoHeader, pkgShowUsedBy)
	}
	return nil
}

func runSecrets(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	if secretsCreate {
		created, err := secrets.Create(root)
		if err != nil {
			return err
		}
		for _, project := range created {
			fmt.Printf("Added UserSecretsId %s to %s\n", project.SecretsID, project.Path)
		}
		return nil
	}

	projects, err := secrets.List(root)
	if err != nil {
		return err
	}
	for _, project := range projects {
		name := project.Path
		if !secretsFullPath {
			name = filepath.Base(project.Path)
		}
		fmt.Printf("%-60s %s\n", name, project.SecretsPath)
	}
	return nil
}

func runInitConfig(cmd *cobra.Command, args []string) error {
	configPath := ".epcheck.config"

	// Check if file already exists
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf(".epcheck.config already exists in the current directory")
	}

	configContent := `# .epcheck.config
# Configuration file for epcheck

ignores:
  # Endpoints that should not appear in the report, as "METHOD /path"
  endpoints:
    # - GET /internal/health
    # - POST /internal/metrics

  # Folders to exclude from scanning (in addition to the defaults)
  folders:
    # - generated
    # - docs
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		return fmt.Errorf("failed to create .epcheck.config: %w", err)
	}

	fmt.Println("Created .epcheck.config in the current directory")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
