package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/epic-tm/completionist/internal/achievements"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the achievement document with current progress",
	Long: `Write the full achievement document, including saved progress, as JSON
(the same format the chart reads) or TOML.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().String("format", "json", "output format: json or toml")
	exportCmd.Flags().StringP("output", "o", "-", "output file (- for stdout)")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	path, _ := cmd.Flags().GetString("output")

	encode, err := encoderFor(format)
	if err != nil {
		return err
	}

	return withSession(cmd, func(_ context.Context, s *session) error {
		doc := s.mgr.Snapshot().Document

		if path == "-" || path == "" {
			return encode(doc, cmd.OutOrStdout())
		}
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		defer f.Close()
		if err := encode(doc, f); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		return f.Close()
	})
}

func encoderFor(format string) (func(*achievements.Document, io.Writer) error, error) {
	switch format {
	case "json":
		return (*achievements.Document).WriteJSON, nil
	case "toml":
		return (*achievements.Document).EncodeTOML, nil
	default:
		return nil, fmt.Errorf("unknown export format %q (want json or toml)", format)
	}
}
