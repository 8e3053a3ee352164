package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v2"

	"cguide/pkg/ast"
	"cguide/pkg/span"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a C file and output the declaration tree",
	Long: `Parse a C file at the declaration level and dump the resulting item
tree. The output can be human-readable, JSON or YAML. With --types the
typedef names registered during the parse are listed as well.`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		filename := args[0]

		source, err := os.ReadFile(filename)
		if err != nil {
			return fmt.Errorf("failed to read file %s: %w", filename, err)
		}

		configPath, _ := cmd.Flags().GetString("config")
		cfg, root, err := resolveConfig(filename, configPath)
		if err != nil {
			return err
		}

		tu, p := parseSource(string(source), filename, cfg, root)

		format, _ := cmd.Flags().GetString("format")
		showTypes, _ := cmd.Flags().GetBool("types")

		switch format {
		case "json":
			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(parseOutput(filename, tu, showTypes, p.TypeTable().AllNames())); err != nil {
				return err
			}
		case "yaml":
			data, err := yaml.Marshal(parseOutput(filename, tu, showTypes, p.TypeTable().AllNames()))
			if err != nil {
				return err
			}
			os.Stdout.Write(data)
		default:
			printItems(tu.Items, 0)
			if showTypes {
				fmt.Println("\ntypedefs:")
				for _, name := range p.TypeTable().AllNames() {
					fmt.Printf("  %s\n", name)
				}
			}
		}
		return nil
	},
}

func init() {
	parseCmd.Flags().StringP("config", "c", "", "Path to coding-guide.toml (default: search upward from the file)")
	parseCmd.Flags().StringP("format", "f", "human", "Output format (human, json, yaml)")
	parseCmd.Flags().BoolP("types", "t", false, "List registered typedef names")
}

func parseOutput(filename string, tu *ast.TranslationUnit, showTypes bool, typeNames []string) map[string]interface{} {
	out := map[string]interface{}{
		"filename": filename,
		"items":    tu.Items,
	}
	if showTypes {
		out["typedefs"] = typeNames
	}
	return out
}

// printItems renders the tree one line per item, indenting nested
// conditional branches.
func printItems(items []ast.Item, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, it := range items {
		switch v := it.(type) {
		case *ast.Include:
			fmt.Printf("%sinclude %q %s\n", indent, v.Filename, formatSpan(v.Span))
		case *ast.Define:
			fmt.Printf("%sdefine %s %s\n", indent, v.MacroName, formatSpan(v.Span))
		case *ast.ConditionalBlock:
			if v.DirectiveType == "endif" && len(v.Items) == 0 {
				fmt.Printf("%sendif %s\n", indent, formatSpan(v.StartSpan))
				continue
			}
			fmt.Printf("%s%s %s %s\n", indent, v.DirectiveType, v.Condition, formatSpan(v.StartSpan))
			printItems(v.Items, depth+1)
		case *ast.TypedefDecl:
			fmt.Printf("%stypedef %s\n", indent, formatSpan(v.Span))
		case *ast.VarDecl:
			kind := "var"
			if v.HasInitializer {
				kind = "var="
			}
			fmt.Printf("%s%s %s %s\n", indent, kind, v.VarName, formatSpan(v.Span))
		case *ast.StructDecl:
			fmt.Printf("%sstruct %s (%d members) %s\n", indent, v.Name, len(v.Members), formatSpan(v.Span))
		case *ast.EnumDecl:
			fmt.Printf("%senum %s (%d variants) %s\n", indent, v.Name, len(v.Variants), formatSpan(v.Span))
		case *ast.UnionDecl:
			fmt.Printf("%sunion %s (%d members) %s\n", indent, v.Name, len(v.Members), formatSpan(v.Span))
		case *ast.FunctionDecl:
			fmt.Printf("%sfunc %s%s %s\n", indent, v.Name, v.Parameters, formatSpan(v.Span))
		}
	}
}

func formatSpan(sp span.Span) string {
	return fmt.Sprintf("[%s]", sp)
}
