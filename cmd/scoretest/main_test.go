package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"talentflow-api/internal/extract"
)

type fakeDOCX struct{ text string }

func (f fakeDOCX) ExtractDOCX(context.Context, []byte) (string, error) { return f.text, nil }

func TestReadResumeDispatchesByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cv.DOCX")
	require.NoError(t, os.WriteFile(path, []byte("ignored"), 0o644))

	text, err := readResume(context.Background(), extract.New(nil, fakeDOCX{text: "Jane Doe"}), path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", text)
}

func TestReadResumeRejectsUnsupportedFiles(t *testing.T) {
	_, err := readResume(context.Background(), extract.New(nil, nil), "notes.txt")
	assert.ErrorIs(t, err, extract.ErrUnsupportedFormat)

	_, err = readResume(context.Background(), extract.New(nil, nil), filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorContains(t, err, "read resume")
}

func TestScoreRequiresJobDescription(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"score", "cv.pdf"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"jd"`)
}

func TestScoreRejectsEmptyJobDescription(t *testing.T) {
	jd := filepath.Join(t.TempDir(), "jd.txt")
	require.NoError(t, os.WriteFile(jd, []byte("  \n"), 0o644))

	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"score", "--jd", jd, "cv.pdf"})

	err := root.Execute()
	assert.EqualError(t, err, "job description is empty")
}
