package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"talentflow-api/internal/bootstrap"
	"talentflow-api/internal/scoring"
	"talentflow-api/internal/shared/config"
)

type scoreOutput struct {
	File           string `json:"file"`
	ExtractedChars int    `json:"extracted_chars"`
	scoring.Result
}

func newScoreCmd() *cobra.Command {
	var (
		jdPath   string
		provider string
	)
	cmd := &cobra.Command{
		Use:   "score <resume>...",
		Short: "Score one or more resumes against a job description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jd, err := os.ReadFile(jdPath)
			if err != nil {
				return fmt.Errorf("read job description: %w", err)
			}
			if strings.TrimSpace(string(jd)) == "" {
				return errors.New("job description is empty")
			}

			cfg := config.Load()
			if provider != "" {
				cfg.LLMProvider = provider
			}
			ctx := cmd.Context()
			ex := bootstrap.BuildExtractor(cfg)
			engine := scoring.NewEngine(bootstrap.BuildCompleter(ctx, cfg), cfg.LLMTemperature, cfg.LLMMaxTokens)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			for _, path := range args {
				text, err := readResume(ctx, ex, path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				result, err := engine.Score(ctx, text, string(jd))
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				if err := enc.Encode(scoreOutput{File: path, ExtractedChars: len(text), Result: result}); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&jdPath, "jd", "", "Path to a plain-text job description")
	cmd.Flags().StringVar(&provider, "provider", "", "Override LLM_PROVIDER (azure, openai, gemini)")
	_ = cmd.MarkFlagRequired("jd")
	return cmd
}
