package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/schemaforge/schemaforge/internal/canonical"
	"github.com/schemaforge/schemaforge/internal/cli/config"
	"github.com/schemaforge/schemaforge/internal/cli/ui"
	"github.com/schemaforge/schemaforge/internal/descriptor"
	"github.com/schemaforge/schemaforge/internal/diag"
	"github.com/schemaforge/schemaforge/internal/document"
	"github.com/schemaforge/schemaforge/internal/schema"
)

// NewGenerateCommand creates the generate command
func NewGenerateCommand() *cobra.Command {
	var (
		file        string
		outputDir   string
		specVersion string
		emitYAML    bool
		noColor     bool
		title       string
		docVersion  string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a canonical schema document from a type universe",
		Long: `Load a type universe file, generate schemas for every declared type,
assemble them into a document, and write the canonical JSON form.

The output is deterministic: the same universe produces byte-identical
JSON, the same SHA-256 hash, and the same ETag on every run.

Examples:
  schemaforge generate -f universe.yaml
  schemaforge generate -f universe.yaml -o build/schemas --yaml
  schemaforge generate -f universe.json --spec-version 3.1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if outputDir != "" {
				cfg.Output.Dir = outputDir
			}
			if emitYAML {
				cfg.Output.YAML = true
			}
			if specVersion != "" {
				cfg.Generation.SpecVersion = specVersion
			}

			opts, err := cfg.Options()
			if err != nil {
				return err
			}

			logger, err := buildLogger(cfg.Log.Level)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			memory := diag.NewMemorySink()
			sink := diag.NewMultiSink(memory, diag.NewZapSink(logger))

			universe, err := descriptor.Load(file)
			if err != nil {
				return err
			}

			doc, err := assemble(universe, sink, opts, document.Info{
				Title:       title,
				Version:     docVersion,
				Description: fmt.Sprintf("Generated from %s", filepath.Base(file)),
			})
			if err != nil {
				return err
			}

			out, err := doc.Canonical()
			if err != nil {
				return err
			}
			hash, err := canonical.Hash(out)
			if err != nil {
				return err
			}
			etag, err := canonical.WeakETag(hash)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			jsonPath := filepath.Join(cfg.Output.Dir, "schema.json")
			if err := os.WriteFile(jsonPath, out, 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", jsonPath, err)
			}

			if cfg.Output.YAML {
				yamlOut, err := doc.YAML()
				if err != nil {
					return err
				}
				yamlPath := filepath.Join(cfg.Output.Dir, "schema.yaml")
				if err := os.WriteFile(yamlPath, yamlOut, 0644); err != nil {
					return fmt.Errorf("failed to write %s: %w", yamlPath, err)
				}
			}

			events := memory.Events()
			if len(events) > 0 {
				cmd.Print(ui.FormatEvents(events, noColor))
			}

			cmd.Println(ui.Success("wrote %s (%d schemas, %s)", jsonPath, len(doc.IDs()), ui.Summary(events)))
			cmd.Printf("sha256: %s\n", hash)
			cmd.Printf("etag: %s\n", etag)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "type universe file (yaml or json)")
	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (default from config)")
	cmd.Flags().StringVar(&specVersion, "spec-version", "", "target spec version: 3.0 or 3.1")
	cmd.Flags().BoolVar(&emitYAML, "yaml", false, "also write a YAML rendering")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored diagnostics")
	cmd.Flags().StringVar(&title, "title", "schema catalog", "document title")
	cmd.Flags().StringVar(&docVersion, "doc-version", "0.1.0", "document version")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

// assemble generates a schema for every type in the universe, in declaration
// order, and collects them under their registry-assigned ids.
func assemble(universe *descriptor.Universe, sink diag.Sink, opts schema.Options, info document.Info) (*document.Document, error) {
	registry := schema.NewRegistry(sink)
	generator := schema.NewGenerator(registry, sink, opts)
	builder := document.NewBuilder(info, opts.Version)

	for _, t := range universe.Types() {
		node, err := generator.Generate(t)
		if err != nil {
			return nil, fmt.Errorf("generate %s: %w", t.Name, err)
		}
		id, err := registry.ID(t)
		if err != nil {
			return nil, fmt.Errorf("assign id for %s: %w", t.Name, err)
		}
		if err := builder.Add(id, node); err != nil {
			return nil, err
		}
	}

	return builder.Build(), nil
}

// buildLogger constructs the zap logger backing the diagnostic sink
func buildLogger(level string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.OutputPaths = []string{"stderr"}
	return cfg.Build()
}
