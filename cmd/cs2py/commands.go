package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ddddddO/gtree"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sdi1982/CSharpToPython/pkg/construct"
	"github.com/sdi1982/CSharpToPython/pkg/driver"
	"github.com/sdi1982/CSharpToPython/pkg/engine"
	"github.com/sdi1982/CSharpToPython/pkg/runtime"
)

func (c *cli) translateCommand() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "translate [FILE|DIR...]",
		Short: "Translate C# sources into Python",
		Long: "Translate C# sources into Python. Without -o the programs are printed; " +
			"with -o each FILE.cs is written as FILE.py below the output directory.",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputs, err := c.translateAll(cmd.Context(), args)
			if err != nil {
				return err
			}
			if outDir == "" && c.manifest != nil && c.manifest.Output != "" && len(args) == 0 {
				outDir = c.manifest.Output
				if !filepath.IsAbs(outDir) {
					outDir = filepath.Join(c.manifest.Dir(), outDir)
				}
			}
			out := cmd.OutOrStdout()
			for i, result := range outputs {
				if outDir != "" {
					path, err := driver.WriteOutput(outDir, result.Source, result.Python)
					if err != nil {
						return err
					}
					c.logger.Info("wrote output", zap.String("source", result.Source.Rel), zap.String("path", path))
					fmt.Fprintln(out, path)
					continue
				}
				if len(outputs) > 1 {
					if i > 0 {
						fmt.Fprintln(out)
					}
					fmt.Fprintf(out, "# %s\n", result.Source.Rel)
				}
				fmt.Fprint(out, result.Python)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "output", "o", "", "directory to write .py files into")
	return cmd
}

func (c *cli) runCommand() *cobra.Command {
	var (
		entry string
		call  string
	)
	cmd := &cobra.Command{
		Use:   "run [FILE]",
		Short: "Translate a C# file and instantiate its entry class",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sources, err := c.sources(args)
			if err != nil {
				return err
			}
			if len(sources) != 1 {
				return fmt.Errorf("run needs exactly one source file, found %d", len(sources))
			}
			opts, err := c.engineOptions()
			if err != nil {
				return err
			}
			if entry != "" {
				opts.Entry = entry
			}
			opts.Stdout = cmd.OutOrStdout()

			result, err := engine.ConvertAndRun(string(sources[0].Code), opts)
			if err != nil {
				return fmt.Errorf("%s: %w", sources[0].Rel, err)
			}
			if call == "" {
				fmt.Fprintln(cmd.OutOrStdout(), runtime.Str(result.Root))
				return nil
			}
			value, err := result.Call(call)
			if err != nil {
				return err
			}
			if value != nil && value.Kind() != runtime.KindNone {
				fmt.Fprintln(cmd.OutOrStdout(), runtime.Str(value))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&entry, "entry", "", "dotted path of the class to instantiate")
	cmd.Flags().StringVar(&call, "call", "", "method to invoke on the new instance")
	return cmd
}

func (c *cli) inspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [FILE|DIR...]",
		Short: "Print the construct tree of translated sources",
		RunE: func(cmd *cobra.Command, args []string) error {
			outputs, err := c.translateAll(cmd.Context(), args)
			if err != nil {
				return err
			}
			for _, result := range outputs {
				if err := gtree.OutputFromRoot(cmd.OutOrStdout(), constructTree(result)); err != nil {
					return fmt.Errorf("render %s: %w", result.Source.Rel, err)
				}
			}
			return nil
		},
	}
}

func (c *cli) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the cs2py version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), cliToolVersion)
		},
	}
}

func constructTree(result engine.Output) *gtree.Node {
	root := gtree.NewRoot(result.Source.Rel)
	for _, member := range result.Unit.Root.Members {
		addConstruct(root, member)
	}
	return root
}

func addConstruct(parent *gtree.Node, c *construct.Construct) {
	node := parent.Add(constructLabel(c))
	for _, member := range c.Members {
		addConstruct(node, member)
	}
}

func constructLabel(c *construct.Construct) string {
	switch c.Kind {
	case construct.KindModule:
		return "namespace " + c.Name
	case construct.KindClass:
		return "class " + c.Name
	case construct.KindInstanceMethod, construct.KindStaticMethod:
		params := make([]string, 0, len(c.Params))
		for _, p := range c.Params {
			params = append(params, p.Name)
		}
		return fmt.Sprintf("%s %s(%s)", kindWord(c.Kind), c.Name, strings.Join(params, ", "))
	case construct.KindInstanceField, construct.KindStaticField:
		return fmt.Sprintf("%s %s: %s", kindWord(c.Kind), c.Name, c.TypeName)
	case construct.KindProperty:
		var accessors []string
		if c.Getter != nil {
			accessors = append(accessors, "get")
		}
		if c.Setter != nil {
			accessors = append(accessors, "set")
		}
		label := fmt.Sprintf("property %s: %s [%s]", c.Name, c.TypeName, strings.Join(accessors, ", "))
		if c.Backing != "" {
			label += " -> " + c.Backing
		}
		return label
	default:
		return c.String()
	}
}

func kindWord(k construct.Kind) string {
	switch k {
	case construct.KindInstanceMethod:
		return "method"
	case construct.KindStaticMethod:
		return "static method"
	case construct.KindInstanceField:
		return "field"
	case construct.KindStaticField:
		return "static field"
	default:
		return strings.ToLower(k.String())
	}
}
