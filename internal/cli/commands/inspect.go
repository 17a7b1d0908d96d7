package commands

import (
	"github.com/spf13/cobra"

	"github.com/schemaforge/schemaforge/internal/canonical"
	"github.com/schemaforge/schemaforge/internal/cli/config"
	"github.com/schemaforge/schemaforge/internal/cli/ui"
	"github.com/schemaforge/schemaforge/internal/descriptor"
	"github.com/schemaforge/schemaforge/internal/diag"
	"github.com/schemaforge/schemaforge/internal/document"
	"github.com/schemaforge/schemaforge/internal/schema"
)

// NewInspectCommand creates the inspect command
func NewInspectCommand() *cobra.Command {
	var (
		file    string
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "inspect <type>",
		Short: "Show the canonical id and generated schema of a single type",
		Long: `Generate the schema of one type from the universe and print its
canonical id and canonical JSON form.

Examples:
  schemaforge inspect -f universe.yaml User`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts, err := cfg.Options()
			if err != nil {
				return err
			}

			universe, err := descriptor.Load(file)
			if err != nil {
				return err
			}
			t, err := universe.Type(args[0])
			if err != nil {
				return err
			}

			sink := diag.NewMemorySink()
			registry := schema.NewRegistry(sink)
			generator := schema.NewGenerator(registry, sink, opts)

			node, err := generator.Generate(t)
			if err != nil {
				return err
			}
			id, err := registry.ID(t)
			if err != nil {
				return err
			}

			value, err := document.Lower(node)
			if err != nil {
				return err
			}
			out, err := canonical.Marshal(value)
			if err != nil {
				return err
			}

			cmd.Printf("id: %s\n", id)
			cmd.Println(string(out))

			if events := sink.Events(); len(events) > 0 {
				cmd.Print(ui.FormatEvents(events, noColor))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "type universe file (yaml or json)")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored diagnostics")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
