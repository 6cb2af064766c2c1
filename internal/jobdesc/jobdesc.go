// Package jobdesc drafts job descriptions from structured role details.
package jobdesc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"talentflow-api/internal/llm"
	"talentflow-api/internal/shared/telemetry"
)

// RoleInput is the structured role description supplied by HR.
type RoleInput struct {
	JobTitle            string  `json:"job_title" binding:"required"`
	CompanyName         string  `json:"company_name" binding:"required"`
	KeyResponsibilities string  `json:"key_responsibilities" binding:"required"`
	RequiredSkills      string  `json:"required_skills" binding:"required"`
	ExperienceLevel     string  `json:"experience_level" binding:"required"`
	Location            string  `json:"location" binding:"required"`
	ExtraDetails        *string `json:"extra_details"`
}

// Generator turns a RoleInput into free-text job description copy.
type Generator struct {
	LLM         llm.Completer
	Temperature float64
	MaxTokens   int
}

// NewGenerator returns a Generator.
func NewGenerator(completer llm.Completer, temperature float64, maxTokens int) *Generator {
	return &Generator{LLM: completer, Temperature: temperature, MaxTokens: maxTokens}
}

// Generate returns the model text unparsed.
func (g *Generator) Generate(ctx context.Context, in RoleInput) (string, error) {
	completion, err := g.LLM.Complete(ctx, llm.Request{
		Operation:   "job_description",
		Prompt:      BuildPrompt(in),
		Temperature: g.Temperature,
		MaxTokens:   g.MaxTokens,
	})
	if err != nil {
		if !errors.Is(err, llm.ErrTransport) {
			err = &llm.TransportError{Provider: "llm", Err: err}
		}
		telemetry.Warn("jobdesc.failed", map[string]any{"error": err.Error()})
		return "", err
	}
	telemetry.Info("jobdesc.generated", map[string]any{
		"job_title":    in.JobTitle,
		"output_chars": len(completion.Text),
	})
	return completion.Text, nil
}

// SplitItems splits a comma or semicolon separated list. Items are not trimmed.
func SplitItems(s string) []string {
	return strings.Split(strings.ReplaceAll(s, ";", ","), ",")
}

// BuildPrompt renders the copywriting prompt.
func BuildPrompt(in RoleInput) string {
	extra := "N/A"
	if in.ExtraDetails != nil && *in.ExtraDetails != "" {
		extra = *in.ExtraDetails
	}
	var b strings.Builder
	b.WriteString("You are a professional HR copywriter. Your task is to create a comprehensive and engaging job description based on the following details.\n")
	b.WriteString(`The tone should be professional but inviting. Structure the output with clear sections like "About Us", "Position Summary", "Key Responsibilities", "Qualifications", and "Benefits" (you can create a generic but appealing benefits section).`)
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "**Job Title:** %s\n", in.JobTitle)
	fmt.Fprintf(&b, "**Company Name:** %s\n", in.CompanyName)
	fmt.Fprintf(&b, "**Location:** %s\n", in.Location)
	fmt.Fprintf(&b, "**Experience Level:** %s\n\n", in.ExperienceLevel)
	fmt.Fprintf(&b, "**Key Responsibilities to include:**\n- %s\n\n", strings.Join(SplitItems(in.KeyResponsibilities), "\n- "))
	fmt.Fprintf(&b, "**Required Skills and Qualifications:**\n- %s\n\n", strings.Join(SplitItems(in.RequiredSkills), "\n- "))
	fmt.Fprintf(&b, "**Additional Details from user:**\n%s\n\n", extra)
	b.WriteString("Please generate the full, well-formatted job description now.\n")
	return b.String()
}
