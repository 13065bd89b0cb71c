package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"curator/internal/export"
	"curator/internal/services"
)

func newSchemaCommand() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:         "schema",
		Short:       "Emit the JSON Schema of the export format",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if outputPath == "" {
				return export.WriteSchema(cmd.OutOrStdout())
			}
			f, err := os.Create(outputPath)
			if err != nil {
				return services.Wrap(services.ErrIO, "schema", "create file", outputPath, err)
			}
			defer f.Close()
			if err := export.WriteSchema(f); err != nil {
				return err
			}
			if err := f.Close(); err != nil {
				return services.Wrap(services.ErrIO, "schema", "close file", outputPath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote schema to %s\n", outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the schema to a file instead of stdout")
	return cmd
}
