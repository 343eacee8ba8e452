package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/quadbench/internal/problems"
	"github.com/pdiddy/quadbench/internal/quadrature"
)

var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List the quadrature methods",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintf(os.Stdout, "%-11s  %-24s  %-8s  %s\n", "Name", "Label", "Order", "Intervals")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 64))
		for _, m := range quadrature.Methods(nil) {
			order := fmt.Sprintf("O(n^-%d)", m.Order)
			if !m.Deterministic {
				order = "O(n^-1/2)"
			}
			req := "any"
			if m.Multiple > 1 {
				req = fmt.Sprintf("multiple of %d", m.Multiple)
			}
			fmt.Fprintf(os.Stdout, "%-11s  %-24s  %-8s  %s\n", m.Name, m.Label, order, req)
		}
		return nil
	},
}

var problemsCmd = &cobra.Command{
	Use:   "problems",
	Short: "List benchmark problems and available integrands",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		probs, err := loadProblems(file, nil)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stdout, "%-16s  %-22s  %s\n", "Label", "Interval", "Exact")
		fmt.Fprintln(os.Stdout, strings.Repeat("-", 60))
		for _, p := range probs {
			fmt.Fprintf(os.Stdout, "%-16s  [%-9.6g, %9.6g]  %.12g\n", p.Label, p.Lower, p.Upper, p.Exact)
		}
		fmt.Fprintf(os.Stdout, "\nintegrands: %s\n", strings.Join(problems.IntegrandNames(), ", "))
		return nil
	},
}

func init() {
	problemsCmd.Flags().String("file", "", "YAML problem file to list instead of the built-in problems")

	rootCmd.AddCommand(methodsCmd)
	rootCmd.AddCommand(problemsCmd)
}
