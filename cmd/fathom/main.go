// Command fathom elaborates and reads Fathom binary format descriptions.
//
// Usage:
//
//	fathom elab --surface-term=path/to/module.fathom
//	fathom norm --surface-term=path/to/module.fathom
//	fathom type --surface-term=path/to/module.fathom
//	fathom data --surface-term=path/to/module.fathom --entrypoint=name --binary=path/to/data.bin
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yeslogic/ddl/internal/diagnostic"
	"github.com/yeslogic/ddl/pkg/api"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "fathom",
		Short:         "Elaborate and read Fathom binary format descriptions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.Version = fmt.Sprintf("%s (%s)", version, commit)

	root.AddCommand(newElabCmd(), newNormCmd(), newTypeCmd(), newDataCmd())
	return root
}

// newElabCmd runs elaboration and reports diagnostics only (spec.md
// section 6.3's `elab` subcommand: exit 0 on success, 1 on diagnostics).
func newElabCmd() *cobra.Command {
	var surfaceTerm string
	cmd := &cobra.Command{
		Use:   "elab",
		Short: "Elaborate a module and report diagnostics",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := elaborateFile(surfaceTerm)
			if err != nil {
				return err
			}
			printDiagnostics(cmd, result)
			if result.Failed() {
				return errSilent
			}
			fmt.Fprintf(cmd.OutOrStdout(), "elaborated %d item(s)\n", len(result.Module.Names))
			return nil
		},
	}
	cmd.Flags().StringVar(&surfaceTerm, "surface-term", "", "path to the Fathom module source file")
	cmd.MarkFlagRequired("surface-term")
	return cmd
}

// newNormCmd elaborates a module and prints the normal form of every item
// (spec.md section 6.3's `norm` subcommand).
func newNormCmd() *cobra.Command {
	var surfaceTerm string
	cmd := &cobra.Command{
		Use:   "norm",
		Short: "Elaborate a module and print each item's normal form",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := elaborateFile(surfaceTerm)
			if err != nil {
				return err
			}
			printDiagnostics(cmd, result)
			if result.Failed() {
				return errSilent
			}
			for i, name := range result.Module.Names {
				term := result.Context.Quote(result.Module.Values[i])
				fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", name, formatTerm(term))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&surfaceTerm, "surface-term", "", "path to the Fathom module source file")
	cmd.MarkFlagRequired("surface-term")
	return cmd
}

// newTypeCmd elaborates a module and prints each item's type (spec.md
// section 6.3's `type` subcommand).
func newTypeCmd() *cobra.Command {
	var surfaceTerm string
	cmd := &cobra.Command{
		Use:   "type",
		Short: "Elaborate a module and print each item's type",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := elaborateFile(surfaceTerm)
			if err != nil {
				return err
			}
			printDiagnostics(cmd, result)
			if result.Failed() {
				return errSilent
			}
			for i, name := range result.Module.Names {
				term := result.Context.Quote(result.Module.Types[i])
				fmt.Fprintf(cmd.OutOrStdout(), "%s : %s\n", name, formatTerm(term))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&surfaceTerm, "surface-term", "", "path to the Fathom module source file")
	cmd.MarkFlagRequired("surface-term")
	return cmd
}

// newDataCmd elaborates a module and reads a binary file against one of its
// items as the format (spec.md section 6.3's `data` subcommand).
func newDataCmd() *cobra.Command {
	var surfaceTerm, entrypoint, binaryPath string
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Read a binary file against an elaborated format, printing values keyed by offset",
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := elaborateFile(surfaceTerm)
			if err != nil {
				return err
			}
			printDiagnostics(cmd, result)
			if result.Failed() {
				return errSilent
			}

			buf, err := os.ReadFile(binaryPath)
			if err != nil {
				return fmt.Errorf("reading binary input: %w", err)
			}

			read, err := api.Read(result.Context, entrypoint, buf)
			if err != nil {
				return fmt.Errorf("reading %q: %w", entrypoint, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "0x0: %s\n", formatValue(read.Root))
			for _, e := range read.Entries {
				fmt.Fprintf(cmd.OutOrStdout(), "0x%x: %s\n", e.Pos, formatValue(e.Value))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&surfaceTerm, "surface-term", "", "path to the Fathom module source file")
	cmd.Flags().StringVar(&entrypoint, "entrypoint", "", "name of the item to read the binary input against")
	cmd.Flags().StringVar(&binaryPath, "binary", "", "path to the binary input file")
	cmd.MarkFlagRequired("surface-term")
	cmd.MarkFlagRequired("entrypoint")
	cmd.MarkFlagRequired("binary")
	return cmd
}

// errSilent signals a command should exit nonzero without printing an
// additional "error: ..." line, since diagnostics were already printed.
var errSilent = fmt.Errorf("")

func elaborateFile(path string) (*api.ElaborateResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return api.Elaborate(string(source), api.Options{}), nil
}

func printDiagnostics(cmd *cobra.Command, result *api.ElaborateResult) {
	for _, d := range result.Diagnostics {
		fmt.Fprintf(cmd.ErrOrStderr(), "%d:%d: %s[%s]: %s\n",
			d.Range.Start.Line, d.Range.Start.Column, severityName(d.Severity), d.Code, d.Message)
	}
}

func severityName(s diagnostic.Severity) string {
	return s.String()
}
