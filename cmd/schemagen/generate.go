package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/spf13/cobra"
	"github.com/specforms/backend/internal/domain"
	"github.com/specforms/backend/internal/infrastructure/spreadsheet"
	"github.com/specforms/backend/internal/infrastructure/storage/local"
	"github.com/specforms/backend/internal/usecase"
	"gopkg.in/yaml.v3"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

type generateOptions struct {
	Path   string
	OutDir string
	DryRun bool
	Format string
	Debug  bool
	Rows   int
}

func runGenerate(cmd *cobra.Command, args []string) error {
	opts := generateOptions{Path: args[0]}

	var err error
	if opts.OutDir, err = cmd.Flags().GetString(FlagOut); err != nil {
		return fmt.Errorf("getting %s: %w", FlagOut, err)
	}
	if opts.DryRun, err = cmd.Flags().GetBool(FlagDryRun); err != nil {
		return fmt.Errorf("getting %s: %w", FlagDryRun, err)
	}
	if opts.Format, err = cmd.Flags().GetString(FlagFormat); err != nil {
		return fmt.Errorf("getting %s: %w", FlagFormat, err)
	}
	if opts.Debug, err = cmd.Flags().GetBool(FlagDebug); err != nil {
		return fmt.Errorf("getting %s: %w", FlagDebug, err)
	}
	if opts.Rows, err = cmd.Flags().GetInt(FlagRows); err != nil {
		return fmt.Errorf("getting %s: %w", FlagRows, err)
	}

	if !opts.Debug {
		log.SetOutput(io.Discard)
	}

	return generate(cmd.Context(), cmd.OutOrStdout(), opts)
}

func generate(ctx context.Context, out io.Writer, opts generateOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Format != formatJSON && opts.Format != formatYAML {
		return fmt.Errorf("%w: format must be %q or %q, got %q", domain.ErrInvalidRequest, formatJSON, formatYAML, opts.Format)
	}

	rows, err := spreadsheet.NewReader(opts.Debug).ReadFile(ctx, opts.Path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", opts.Path, err)
	}

	var store domain.SchemaStore
	if !opts.DryRun {
		store = local.NewStore(opts.OutDir, nil, 0)
	}
	service := usecase.NewSchemaService(store, nil, usecase.SchemaServiceConfig{
		DefaultTextareaRows: opts.Rows,
		EnableDebugLogging:  opts.Debug,
	})

	if opts.DryRun {
		docs, stats := service.Preview(rows)
		for _, doc := range docs {
			if err := printDocument(out, doc, opts.Format); err != nil {
				return err
			}
		}
		_, err := fmt.Fprintf(out, "# %d rows, %d skipped, %d schemas\n", stats.RowsSeen, stats.RowsSkipped, len(docs))
		return err
	}

	result := service.Process(ctx, rows)
	for _, b := range result.Buckets {
		line := fmt.Sprintf("%-8s %s -> %s", b.Outcome, b.Key, b.Path)
		if b.Error != "" {
			line += ": " + b.Error
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}

	if failed := len(result.Failed()); failed > 0 {
		return fmt.Errorf("%w: %d of %d schemas", domain.ErrWriteFailed, failed, len(result.Buckets))
	}
	return nil
}

func printDocument(out io.Writer, doc usecase.BucketDocument, format string) error {
	data, err := usecase.MarshalDocument(doc.Document)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", doc.Key, err)
	}
	if format == formatYAML {
		if data, err = toYAML(data); err != nil {
			return fmt.Errorf("encoding %s: %w", doc.Key, err)
		}
	}

	_, err = fmt.Fprintf(out, "# %s\n%s\n", doc.Key, bytes.TrimRight(data, "\n"))
	return err
}

// toYAML re-encodes a JSON document as block-style YAML, keeping key order
func toYAML(data []byte) ([]byte, error) {
	if !json.Valid(data) {
		return nil, fmt.Errorf("invalid JSON document")
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	clearStyle(&node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func clearStyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		clearStyle(child)
	}
}
