package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"rackscope/internal/config"
	"rackscope/internal/export"
	"rackscope/internal/fileutil"
	"rackscope/internal/library"
	"rackscope/internal/rack"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id|file>",
		Short: "Display a stored analysis or decode a preset without storing it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			doc, err := loadDocument(cmd, ctx, cfg, strings.TrimSpace(args[0]))
			if err != nil {
				return err
			}

			value := strings.ToLower(strings.TrimSpace(format))
			if value == "" || value == "text" {
				renderDocument(cmd.OutOrStdout(), doc)
				return nil
			}
			parsed, err := export.ParseFormat(value)
			if err != nil {
				return err
			}
			if parsed == export.FormatXML {
				return errors.New("xml output is only available as an export artifact")
			}
			body, err := export.Encode(doc, parsed, cfg.Export.Indent)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(body)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, json, yaml, or cbor")
	return cmd
}

// loadDocument treats arg as a preset path when it names an existing file and
// as a library ID otherwise.
func loadDocument(cmd *cobra.Command, ctx *commandContext, cfg *config.Config, arg string) (*rack.Document, error) {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		data, err := fileutil.ReadFileLimited(arg, cfg.MaxFileBytes())
		if err != nil {
			return nil, err
		}
		logger, err := ctx.ensureLogger()
		if err != nil {
			return nil, err
		}
		return rack.Decode(arg, data, rack.WithMaxDepth(cfg.Analysis.MaxDepth), rack.WithLogger(logger))
	}

	store, err := ctx.ensureStore()
	if err != nil {
		return nil, err
	}
	analysis, err := store.Get(cmd.Context(), arg)
	if errors.Is(err, library.ErrNotFound) {
		return nil, fmt.Errorf("no analysis or preset file named %q", arg)
	}
	if err != nil {
		return nil, err
	}
	return analysis.Document, nil
}
