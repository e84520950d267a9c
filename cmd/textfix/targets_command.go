package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dmitrymomot/textfix/pkg/targets"
)

func newTargetsCommand(a *app) *cobra.Command {
	var (
		targetsFile string
		asYAML      bool
	)

	cmd := &cobra.Command{
		Use:   "targets",
		Short: "List the targets a run would scan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := loadTargets(targetsFile)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asYAML {
				data, err := file.Marshal()
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			rows := make([][]string, 0, len(file.Targets))
			for _, s := range file.Targets {
				rows = append(rows, []string{
					s.Name,
					s.Table(),
					strings.Join(s.Fields, ", "),
					strings.Join(s.Structured, ", "),
					formatFilter(s.Filter),
				})
			}
			fmt.Fprintf(out, "backend: %s\n", file.Backend)
			fmt.Fprintln(out, renderTable([]string{"Target", "Collection", "Fields", "Structured", "Filter"}, rows, nil))
			return nil
		},
	}
	cmd.Flags().StringVar(&targetsFile, "targets-file", "", "YAML file describing targets (default built-in set)")
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "Print the targets file as YAML")
	return cmd
}

func formatFilter(f map[string]any) string {
	parts := make([]string, 0, len(f))
	for _, k := range slices.Sorted(maps.Keys(f)) {
		if f[k] == nil {
			parts = append(parts, k+" IS NULL")
			continue
		}
		parts = append(parts, fmt.Sprintf("%s = %v", k, f[k]))
	}
	return strings.Join(parts, " AND ")
}
