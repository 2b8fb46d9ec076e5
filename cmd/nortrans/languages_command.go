package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dexusno/NorTrans/internal/language"
)

func newLanguagesCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "languages",
		Short:       "List recognized language codes",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([][]string, 0)
			for _, info := range language.List() {
				rows = append(rows, []string{info.Code2, info.Code3, info.Display})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"CODE", "ISO-3", "LANGUAGE"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}
