// Package extract turns uploaded resume bytes into plain text.
package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"talentflow-api/internal/shared/metrics"
)

// Declared document types.
const (
	TypePDF  = "pdf"
	TypeDOCX = "docx"
)

var (
	// ErrUnsupportedFormat is returned by DetectType for anything other than .pdf or .docx.
	ErrUnsupportedFormat = errors.New("Unsupported file format. Please upload a .pdf or .docx file.")
	// ErrExtraction matches every *ExtractionError.
	ErrExtraction = errors.New("extraction failed")
)

// ExtractionError wraps a failure raised by a PDF or DOCX adapter.
type ExtractionError struct {
	Kind string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Kind, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

func (e *ExtractionError) Is(target error) bool { return target == ErrExtraction }

// PDFAdapter extracts text from PDF bytes.
type PDFAdapter interface {
	ExtractPDF(ctx context.Context, data []byte) (string, error)
}

// DOCXAdapter extracts text from DOCX bytes.
type DOCXAdapter interface {
	ExtractDOCX(ctx context.Context, data []byte) (string, error)
}

// Extractor dispatches to the adapter for a declared type.
type Extractor struct {
	PDF  PDFAdapter
	DOCX DOCXAdapter
}

// New builds an Extractor.
func New(pdf PDFAdapter, docx DOCXAdapter) *Extractor {
	return &Extractor{PDF: pdf, DOCX: docx}
}

// DetectType maps a file name to its declared type by extension.
func DetectType(fileName string) (string, error) {
	switch strings.ToLower(filepath.Ext(strings.TrimSpace(fileName))) {
	case ".pdf":
		return TypePDF, nil
	case ".docx":
		return TypeDOCX, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// Extract returns the document text. Unknown types yield "" and no error.
// The returned text may be blank; callers decide what that means.
func (e *Extractor) Extract(ctx context.Context, data []byte, fileType string) (string, error) {
	var (
		text string
		err  error
	)
	switch fileType {
	case TypePDF:
		if e.PDF == nil {
			return "", &ExtractionError{Kind: fileType, Err: errors.New("pdf adapter not configured")}
		}
		text, err = e.PDF.ExtractPDF(ctx, data)
	case TypeDOCX:
		if e.DOCX == nil {
			return "", &ExtractionError{Kind: fileType, Err: errors.New("docx adapter not configured")}
		}
		text, err = e.DOCX.ExtractDOCX(ctx, data)
	default:
		return "", nil
	}
	if err != nil {
		metrics.IncExtraction(fileType, "failed")
		var ee *ExtractionError
		if errors.As(err, &ee) {
			return "", err
		}
		return "", &ExtractionError{Kind: fileType, Err: err}
	}
	if strings.TrimSpace(text) == "" {
		metrics.IncExtraction(fileType, "empty")
	} else {
		metrics.IncExtraction(fileType, "ok")
	}
	return text, nil
}
