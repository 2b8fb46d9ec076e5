package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dexusno/NorTrans/internal/language"
	"github.com/dexusno/NorTrans/internal/translate"
)

func newModelsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List installed offline model packages",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			catalog := translate.OpenCatalog(cfg.Paths.ModelDir)
			models, err := catalog.List()
			if err != nil {
				return fmt.Errorf("scan model catalog: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(models) == 0 {
				fmt.Fprintf(out, "No offline models installed under %s\n", cfg.Paths.ModelDir)
				return nil
			}

			rows := make([][]string, 0, len(models))
			for _, model := range models {
				rows = append(rows, []string{
					model.Source + ">" + model.Target,
					language.DisplayName(model.Source) + " to " + language.DisplayName(model.Target),
					model.Name,
					model.Version,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"PAIR", "LANGUAGES", "NAME", "VERSION"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}
}
