package gemini

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"talentflow-api/internal/llm"
)

type fakeGenerator struct {
	model  string
	config *genai.GenerateContentConfig
	prompt string
	resp   *genai.GenerateContentResponse
	err    error
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	return f.resp, f.err
}

func TestCompleteJoinsParts(t *testing.T) {
	fake := &fakeGenerator{resp: &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: `{"score": 70,`}, {Text: ` "explanation": "ok"}`}}},
		}},
	}}
	client := newClient(fake, "", 0)

	out, err := client.Complete(context.Background(), llm.Request{Prompt: "score it", Temperature: 0.7, MaxTokens: 1000})
	require.NoError(t, err)

	assert.Equal(t, `{"score": 70, "explanation": "ok"}`, out.Text)
	assert.Equal(t, defaultModel, fake.model)
	assert.Equal(t, "score it", fake.prompt)
	require.NotNil(t, fake.config.Temperature)
	assert.InDelta(t, 0.7, *fake.config.Temperature, 0.0001)
	assert.Equal(t, int32(1000), fake.config.MaxOutputTokens)
}

func TestCompleteWrapsErrors(t *testing.T) {
	client := newClient(&fakeGenerator{err: errors.New("quota")}, "gemini-pro", 0)
	_, err := client.Complete(context.Background(), llm.Request{Prompt: "x"})
	assert.ErrorIs(t, err, llm.ErrTransport)
	assert.Contains(t, err.Error(), "quota")
}
