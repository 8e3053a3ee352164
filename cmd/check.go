package cmd

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v2"

	"cguide/pkg/ast"
	"cguide/pkg/config"
	"cguide/pkg/diagnostics"
	"cguide/pkg/lexer"
	"cguide/pkg/parser"
)

var checkCmd = &cobra.Command{
	Use:   "check [files or directories]",
	Short: "Run coding guideline diagnostics over C files",
	Long: `Parse each .c and .h file, load the nearest coding-guide.toml, and
report guideline violations. The command exits non-zero when any
error-severity diagnostic is found.`,
	Args:         cobra.MinimumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		format, _ := cmd.Flags().GetString("format")

		files, err := collectSourceFiles(args)
		if err != nil {
			return err
		}
		if len(files) == 0 {
			return fmt.Errorf("no .c or .h files found")
		}

		var reports []fileReport
		errorCount := 0
		for _, file := range files {
			cfg, root, err := resolveConfig(file, configPath)
			if err != nil {
				return err
			}

			source, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("failed to read file %s: %w", file, err)
			}

			tu, _ := parseSource(string(source), file, cfg, root)
			diags := diagnostics.DiagnoseWithSource(tu, cfg.ToDiagnostics(root, file), string(source))
			for _, d := range diags {
				if d.Severity == diagnostics.SeverityError {
					errorCount++
				}
			}
			reports = append(reports, fileReport{File: file, Diagnostics: diags})
		}

		switch format {
		case "json":
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(reports); err != nil {
				return err
			}
		case "yaml":
			data, err := yaml.Marshal(reports)
			if err != nil {
				return err
			}
			os.Stdout.Write(data)
		default:
			printHumanReports(reports)
		}

		if errorCount > 0 {
			return fmt.Errorf("%d error(s) found", errorCount)
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringP("config", "c", "", "Path to coding-guide.toml (default: search upward from each file)")
	checkCmd.Flags().StringP("format", "f", "human", "Output format (human, json, yaml)")
}

// collectSourceFiles expands directory arguments into the .c and .h
// files beneath them, keeping explicit file arguments as given.
func collectSourceFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			switch strings.ToLower(filepath.Ext(path)) {
			case ".c", ".h":
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(files)
	return files, nil
}

// resolveConfig loads an explicit config file or searches upward from
// the source file, falling back to the defaults.
func resolveConfig(sourceFile, configPath string) (*config.ProjectConfig, string, error) {
	if configPath != "" {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, "", err
		}
		root, err := filepath.Abs(filepath.Dir(configPath))
		if err != nil {
			return nil, "", err
		}
		return cfg, root, nil
	}

	cfg, root, err := config.Find(filepath.Dir(sourceFile))
	if err != nil {
		return nil, "", err
	}
	if cfg == nil {
		return config.Default(), "", nil
	}
	return cfg, root, nil
}

// parseSource parses one file with the project's preprocessor
// settings so conditional typedefs resolve the configured way.
func parseSource(source, file string, cfg *config.ProjectConfig, root string) (*ast.TranslationUnit, *parser.Parser) {
	p := parser.NewWithConfig(lexer.New(source), cfg.ToPreprocessor(root))
	if abs, err := filepath.Abs(file); err == nil {
		p.SetCurrentFileDir(filepath.Dir(abs))
	}
	return p.Parse(), p
}

// fileReport pairs a checked file with its findings for output.
type fileReport struct {
	File        string                   `json:"file" yaml:"file"`
	Diagnostics []diagnostics.Diagnostic `json:"diagnostics" yaml:"diagnostics"`
}

func printHumanReports(reports []fileReport) {
	bold := color.New(color.Bold)
	total := 0
	for _, report := range reports {
		if len(report.Diagnostics) == 0 {
			continue
		}
		bold.Println(report.File)
		for _, d := range report.Diagnostics {
			fmt.Printf("  %d:%d  %s  %s  %s\n",
				d.Span.StartLine+1, d.Span.StartColumn+1,
				severityColor(d.Severity).Sprint(d.Severity),
				d.Code, d.Message)
			total++
		}
	}
	if total == 0 {
		color.New(color.FgGreen).Println("no problems found")
	} else {
		fmt.Printf("\n%d problem(s) in %d file(s)\n", total, len(reports))
	}
}

func severityColor(sev diagnostics.Severity) *color.Color {
	switch sev {
	case diagnostics.SeverityError:
		return color.New(color.FgRed)
	case diagnostics.SeverityWarning:
		return color.New(color.FgYellow)
	case diagnostics.SeverityInformation:
		return color.New(color.FgCyan)
	}
	return color.New(color.Faint)
}
