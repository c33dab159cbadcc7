package main

import (
	"fmt"

	"github.com/powo1/aetherpress/backend/internal/seed"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newSeedCommand(configViper *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the sample documents, skipping titles that already exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openRuntime(configViper)
			if err != nil {
				return err
			}
			defer app.close()

			result, err := seed.Run(cmd.Context(), app.documents, seed.DefaultSamples, app.logger)
			if err != nil {
				return err
			}

			output := cmd.OutOrStdout()
			for _, title := range result.Seeded {
				fmt.Fprintf(output, "Seeded: %s\n", title)
			}
			for _, title := range result.Skipped {
				fmt.Fprintf(output, "Skipped (already exists): %s\n", title)
			}
			fmt.Fprintln(output, "Seeding complete.")
			return nil
		},
	}
}
