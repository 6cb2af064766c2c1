package screening

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"talentflow-api/internal/extract"
	"talentflow-api/internal/llm"
	"talentflow-api/internal/scoring"
	"talentflow-api/internal/shared/server/respond"
	"talentflow-api/internal/shared/util"
)

const (
	maxUploadSize      = 10 << 20 // 10MB
	maxBatchUploadSize = MaxBatchFiles * maxUploadSize
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches scoring routes. guards run before every handler.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guards ...gin.HandlerFunc) {
	g := rg.Group("", guards...)
	g.POST("/score_resume", h.scoreResume)
	g.POST("/score_resumes_batch", h.scoreBatch)
}

func (h *Handler) scoreResume(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	jd := c.PostForm("job_description")
	if strings.TrimSpace(jd) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "job_description is required", nil)
		return
	}
	fileHeader, err := c.FormFile("resume_file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume_file is required", nil)
		return
	}
	data, err := util.ReadFormFile(fileHeader)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	result, err := h.Svc.ScoreResume(c.Request.Context(), jd, Upload{
		FileName:      fileHeader.Filename,
		Data:          data,
		CandidateName: strings.TrimSpace(c.PostForm("candidate_name")),
	})
	if err != nil {
		writeScoringError(c, err)
		return
	}
	respond.OK(c, result)
}

func (h *Handler) scoreBatch(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBatchUploadSize)

	form, err := c.MultipartForm()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid multipart form", nil)
		return
	}
	jd := firstValue(form.Value["job_description"])
	if strings.TrimSpace(jd) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "job_description is required", nil)
		return
	}
	headers := form.File["resume_files"]
	if len(headers) == 0 {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume_files is required", nil)
		return
	}
	if len(headers) > MaxBatchFiles {
		headers = headers[:MaxBatchFiles]
	}

	files := make([]BatchFile, 0, len(headers))
	for _, fh := range headers {
		data, err := util.ReadFormFile(fh)
		files = append(files, BatchFile{FileName: fh.Filename, Data: data, ReadErr: err})
	}

	respond.OK(c, gin.H{"results": h.Svc.ScoreBatch(c.Request.Context(), jd, files)})
}

// writeScoringError maps pipeline errors onto HTTP responses.
func writeScoringError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, extract.ErrUnsupportedFormat):
		respond.Error(c, http.StatusBadRequest, "unsupported_format", err.Error(), nil)
	case errors.Is(err, ErrEmptyExtraction):
		respond.Error(c, http.StatusBadRequest, "empty_extraction", err.Error(), nil)
	case errors.Is(err, extract.ErrExtraction):
		respond.Error(c, http.StatusInternalServerError, "extraction_failed", err.Error(), nil)
	case errors.Is(err, scoring.ErrModelResponseMalformed):
		respond.Error(c, http.StatusBadGateway, "model_response_malformed", err.Error(), nil)
	case errors.Is(err, llm.ErrTransport):
		respond.Error(c, http.StatusBadGateway, "model_unavailable", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to score resume", nil)
	}
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
