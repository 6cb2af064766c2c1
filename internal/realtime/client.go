package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"talentflow-api/internal/shared/metrics"
)

const DefaultBaseURL = "https://api.openai.com"

var (
	ErrNotConfigured = errors.New("OpenAI API key not configured. Please add OPENAI_API_KEY to your environment.")
	errMalformed     = errors.New("malformed realtime session response")
)

// InterviewInstructions is the voice interviewer system prompt.
const InterviewInstructions = `You are an AI interviewer for TalentFlow, a professional HR platform. Your role is to conduct initial screening interviews with job candidates through voice conversation.

Your interview style should be:
- Professional but warm and welcoming
- Speak naturally and conversationally
- Ask one question at a time
- Listen carefully to responses and ask follow-up questions when appropriate
- Keep responses concise (2-3 sentences)
- Cover key areas: background, experience, skills, motivation, and career goals

Interview Flow:
1. Welcome the candidate warmly and ask them to introduce themselves
2. Ask about their relevant work experience
3. Inquire about their key skills and strengths
4. Ask about their interest in the role/company
5. Discuss their career goals
6. Ask if they have any questions
7. Thank them and explain that HR will follow up

Remember:
- Be encouraging and supportive
- If a candidate seems nervous, help them feel at ease
- Ask behavioral questions (e.g., "Tell me about a time when...")
- Don't ask multiple questions at once
- Acknowledge their responses before moving to the next question
- Speak at a moderate pace for clarity`

// Instructions personalises the interviewer prompt for a candidate.
func Instructions(candidateName string) string {
	name := strings.TrimSpace(candidateName)
	if name == "" {
		name = "Candidate"
	}
	return InterviewInstructions + fmt.Sprintf("\n\nThe candidate's name is %s. Address them by name occasionally.", name)
}

type sessionRequest struct {
	Model        string `json:"model"`
	Voice        string `json:"voice"`
	Instructions string `json:"instructions"`
}

// ClientSecret is the ephemeral credential handed to the browser.
type ClientSecret struct {
	Value     string `json:"value"`
	ExpiresAt int64  `json:"expires_at"`
}

// Session is the realtime session returned to the caller.
type Session struct {
	ID           string        `json:"id"`
	Object       string        `json:"object"`
	Model        string        `json:"model"`
	Voice        string        `json:"voice"`
	Modalities   []string      `json:"modalities,omitempty"`
	Instructions string        `json:"instructions,omitempty"`
	ExpiresAt    int64         `json:"expires_at,omitempty"`
	ClientSecret *ClientSecret `json:"client_secret"`
}

// Client mints ephemeral realtime sessions.
type Client struct {
	client *resty.Client
	apiKey string
	model  string
	voice  string
}

// NewClient builds a Client. A zero timeout means 30s.
func NewClient(baseURL, apiKey, model, voice string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json")
	return &Client{client: client, apiKey: strings.TrimSpace(apiKey), model: model, voice: voice}
}

// CreateSession requests an ephemeral session personalised for candidateName.
func (c *Client) CreateSession(ctx context.Context, candidateName string) (Session, error) {
	if c.apiKey == "" {
		return Session{}, ErrNotConfigured
	}

	started := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(sessionRequest{Model: c.model, Voice: c.voice, Instructions: Instructions(candidateName)}).
		Post("/v1/realtime/sessions")
	metrics.ObserveModelCall("realtime_session", started)
	if err != nil {
		return Session{}, fmt.Errorf("realtime session request: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return Session{}, fmt.Errorf("Failed to get ephemeral token (Status %d): %s", resp.StatusCode(), resp.String())
	}

	var session Session
	if err := json.Unmarshal(resp.Body(), &session); err != nil {
		return Session{}, fmt.Errorf("%w: %v", errMalformed, err)
	}
	if session.ClientSecret == nil || session.ClientSecret.Value == "" {
		return Session{}, fmt.Errorf("%w: missing client_secret", errMalformed)
	}
	return session, nil
}
