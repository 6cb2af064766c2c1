package extract

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

const wordNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// DOCXReader extracts body paragraph text from a DOCX package.
type DOCXReader struct{}

// ExtractDOCX returns the top-level body paragraphs joined with "\n".
// Tables, text boxes, headers and footers are not included.
func (DOCXReader) ExtractDOCX(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errors.New("empty docx data")
	}
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open docx: %w", err)
	}
	defer doc.Close()

	paragraphs, err := bodyParagraphs(doc.Editable().GetContent())
	if err != nil {
		return "", fmt.Errorf("parse document.xml: %w", err)
	}
	return strings.Join(paragraphs, "\n"), nil
}

// bodyParagraphs walks document.xml and collects the paragraphs that are direct children of w:body.
func bodyParagraphs(content string) ([]string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))

	var (
		out    []string
		stack  []string
		cur    strings.Builder
		inPara bool
		inText bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := localName(t.Name)
			if name == "p" && isBodyChild(stack) {
				inPara = true
				cur.Reset()
			}
			if inPara && !insideTextBox(stack) {
				switch name {
				case "t":
					inText = true
				case "tab":
					cur.WriteByte('\t')
				case "br", "cr":
					cur.WriteByte('\n')
				}
			}
			stack = append(stack, name)
		case xml.EndElement:
			name := localName(t.Name)
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			if name == "t" {
				inText = false
			}
			if name == "p" && inPara && isBodyChild(stack) {
				out = append(out, cur.String())
				inPara = false
			}
		case xml.CharData:
			if inPara && inText && !insideTextBox(stack) {
				cur.Write(t)
			}
		}
	}
	if len(stack) != 0 {
		return nil, errors.New("unexpected end of document")
	}
	return out, nil
}

func localName(n xml.Name) string {
	if n.Space != "" && n.Space != wordNS {
		return n.Space + ":" + n.Local
	}
	return n.Local
}

func isBodyChild(stack []string) bool {
	return len(stack) >= 2 && stack[len(stack)-1] == "body" && stack[len(stack)-2] == "document"
}

func insideTextBox(stack []string) bool {
	for _, s := range stack {
		if s == "txbxContent" {
			return true
		}
	}
	return false
}
