package extract

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePDF struct {
	text  string
	err   error
	calls int
}

func (f *fakePDF) ExtractPDF(ctx context.Context, data []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

type fakeDOCX struct {
	text  string
	err   error
	calls int
}

func (f *fakeDOCX) ExtractDOCX(ctx context.Context, data []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

func TestDetectType(t *testing.T) {
	cases := map[string]string{
		"resume.pdf":    TypePDF,
		"Resume.PDF":    TypePDF,
		"cv.final.docx": TypeDOCX,
		" spaced.Docx ": TypeDOCX,
	}
	for name, want := range cases {
		got, err := DetectType(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	for _, name := range []string{"resume.doc", "resume.txt", "resume", ""} {
		_, err := DetectType(name)
		assert.ErrorIs(t, err, ErrUnsupportedFormat, name)
	}
	assert.Equal(t, "Unsupported file format. Please upload a .pdf or .docx file.", ErrUnsupportedFormat.Error())
}

func TestExtractDispatchesByType(t *testing.T) {
	pdf := &fakePDF{text: "pdf text"}
	docx := &fakeDOCX{text: "docx text"}
	e := New(pdf, docx)

	got, err := e.Extract(context.Background(), []byte("x"), TypePDF)
	require.NoError(t, err)
	assert.Equal(t, "pdf text", got)

	got, err = e.Extract(context.Background(), []byte("x"), TypeDOCX)
	require.NoError(t, err)
	assert.Equal(t, "docx text", got)

	assert.Equal(t, 1, pdf.calls)
	assert.Equal(t, 1, docx.calls)
}

func TestExtractUnknownTypeReturnsEmpty(t *testing.T) {
	pdf := &fakePDF{text: "never"}
	e := New(pdf, &fakeDOCX{})

	got, err := e.Extract(context.Background(), []byte("x"), "rtf")
	require.NoError(t, err)
	assert.Equal(t, "", got)
	assert.Zero(t, pdf.calls)
}

func TestExtractWrapsAdapterFailure(t *testing.T) {
	boom := errors.New("ocr exploded")
	e := New(&fakePDF{err: boom}, &fakeDOCX{})

	_, err := e.Extract(context.Background(), []byte("x"), TypePDF)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrExtraction)
	assert.ErrorIs(t, err, boom)

	var ee *ExtractionError
	require.True(t, errors.As(err, &ee))
	assert.Equal(t, TypePDF, ee.Kind)
	assert.Contains(t, err.Error(), "ocr exploded")
}

func TestExtractReturnsBlankTextAsIs(t *testing.T) {
	e := New(&fakePDF{text: "   "}, &fakeDOCX{})
	got, err := e.Extract(context.Background(), nil, TypePDF)
	require.NoError(t, err)
	assert.Equal(t, "   ", got)
}
