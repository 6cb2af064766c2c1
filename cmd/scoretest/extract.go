package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"talentflow-api/internal/bootstrap"
	"talentflow-api/internal/extract"
	"talentflow-api/internal/shared/config"
)

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <resume>",
		Short: "Print the text extracted from a PDF or DOCX resume",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ex := bootstrap.BuildExtractor(config.Load())
			text, err := readResume(cmd.Context(), ex, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

// readResume extracts text from a local file, typed by its extension.
func readResume(ctx context.Context, ex *extract.Extractor, path string) (string, error) {
	fileType, err := extract.DetectType(filepath.Base(path))
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read resume: %w", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return ex.Extract(ctx, data, fileType)
}
