package jobdesc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentflow-api/internal/llm"
)

type stubCompleter struct {
	text   string
	err    error
	prompt string
}

func (s *stubCompleter) Complete(ctx context.Context, req llm.Request) (llm.Completion, error) {
	s.prompt = req.Prompt
	return llm.Completion{Text: s.text}, s.err
}

func sampleInput() RoleInput {
	return RoleInput{
		JobTitle:            "Backend Engineer",
		CompanyName:         "Acme",
		KeyResponsibilities: "Write code, Review PRs; Mentor juniors",
		RequiredSkills:      "Go;SQL",
		ExperienceLevel:     "Senior",
		Location:            "Remote",
	}
}

func TestSplitItemsKeepsLeadingSpaces(t *testing.T) {
	got := SplitItems("Write code, Review PRs; Mentor juniors")
	assert.Equal(t, []string{"Write code", " Review PRs", " Mentor juniors"}, got)
}

func TestBuildPromptFormatsLists(t *testing.T) {
	prompt := BuildPrompt(sampleInput())

	assert.Contains(t, prompt, "**Job Title:** Backend Engineer\n")
	assert.Contains(t, prompt, "**Key Responsibilities to include:**\n- Write code\n-  Review PRs\n-  Mentor juniors\n")
	assert.Contains(t, prompt, "**Required Skills and Qualifications:**\n- Go\n- SQL\n")
	assert.Contains(t, prompt, "**Additional Details from user:**\nN/A\n")
	assert.Contains(t, prompt, "Please generate the full, well-formatted job description now.")
}

func TestBuildPromptIncludesExtraDetails(t *testing.T) {
	in := sampleInput()
	extra := "Visa sponsorship available"
	in.ExtraDetails = &extra
	assert.Contains(t, BuildPrompt(in), "**Additional Details from user:**\nVisa sponsorship available\n")
}

func TestGenerateReturnsRawText(t *testing.T) {
	stub := &stubCompleter{text: "## About Us\nWe build things."}
	gen := NewGenerator(stub, 0.7, 1000)

	text, err := gen.Generate(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Equal(t, "## About Us\nWe build things.", text)
	assert.Contains(t, stub.prompt, "Acme")
}

func TestGenerateSurfacesTransportError(t *testing.T) {
	gen := NewGenerator(&stubCompleter{err: errors.New("timeout")}, 0.7, 1000)
	_, err := gen.Generate(context.Background(), sampleInput())
	assert.ErrorIs(t, err, llm.ErrTransport)
	assert.Contains(t, err.Error(), "timeout")
}

func TestHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(NewGenerator(&stubCompleter{text: "JD text"}, 0.7, 1000)).RegisterRoutes(r.Group("/api/v1"))

	body, _ := json.Marshal(sampleInput())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/create_job_description", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var payload map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "JD text", payload["job_description"])
}

func TestHandlerRejectsMissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(NewGenerator(&stubCompleter{}, 0.7, 1000)).RegisterRoutes(r.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/create_job_description", bytes.NewReader([]byte(`{"job_title":"x"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestHandlerMapsTransportTo502(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(NewGenerator(&stubCompleter{err: errors.New("down")}, 0.7, 1000)).RegisterRoutes(r.Group("/api/v1"))

	body, _ := json.Marshal(sampleInput())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/create_job_description", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	assert.Equal(t, http.StatusBadGateway, resp.Code)
}
